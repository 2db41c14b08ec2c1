package planner

import (
	"fmt"

	"github.com/steindb/stein/common"
	"github.com/steindb/stein/storage"
)

// Expr represents a node in an expression tree.
// Expressions are immutable plan nodes built once per query and evaluated
// against one row at a time under three-valued logic: any predicate may
// produce true, false, or NULL (unknown).
type Expr interface {
	// Eval evaluates the expression against the provided row. Errors abort
	// the whole query; NULL results do not.
	Eval(r storage.Row) (common.Value, error)

	// OutputType returns the type of value this expression produces.
	OutputType() common.Type

	// String returns a string representation of the expression.
	String() string
}

// ExprIsTrue reports whether a predicate result admits the row. Only a
// non-NULL boolean true does; false and NULL both exclude (three-valued
// WHERE semantics).
func ExprIsTrue(v common.Value) bool {
	return v.Type() == common.BoolType && !v.IsNull() && v.BoolValue()
}

// ExprIsFalse reports a definite (non-NULL) boolean false.
func ExprIsFalse(v common.Value) bool {
	return v.Type() == common.BoolType && !v.IsNull() && !v.BoolValue()
}

// ColumnRefExpr references a column by optional qualifier and name.
// Resolution against the row's schema happens lazily at evaluation time; an
// absent or ambiguous reference is an UnresolvedColumn error.
type ColumnRefExpr struct {
	table      string
	name       string
	outputType common.Type
}

func NewColumnRef(table, name string, outputType common.Type) *ColumnRefExpr {
	return &ColumnRefExpr{table: table, name: name, outputType: outputType}
}

func (e *ColumnRefExpr) Eval(r storage.Row) (common.Value, error) {
	idx, err := r.Schema().Resolve(e.table, e.name)
	if err != nil {
		return common.Value{}, err
	}
	return r.Value(idx), nil
}

func (e *ColumnRefExpr) OutputType() common.Type {
	return e.outputType
}

// Table returns the column's qualifier, empty if unqualified.
func (e *ColumnRefExpr) Table() string {
	return e.table
}

// Name returns the referenced column name.
func (e *ColumnRefExpr) Name() string {
	return e.name
}

func (e *ColumnRefExpr) String() string {
	if e.table == "" {
		return e.name
	}
	return e.table + "." + e.name
}

// ConstantExpr returns a literal Value.
type ConstantExpr struct {
	val common.Value
}

func NewConstant(val common.Value) *ConstantExpr {
	return &ConstantExpr{val: val}
}

func (e *ConstantExpr) Eval(r storage.Row) (common.Value, error) {
	return e.val, nil
}

func (e *ConstantExpr) OutputType() common.Type {
	return e.val.Type()
}

func (e *ConstantExpr) String() string {
	if e.val.Type() == common.TextType && !e.val.IsNull() {
		return fmt.Sprintf("'%s'", e.val.TextValue())
	}
	return e.val.String()
}

type ComparisonType int

const (
	Equal ComparisonType = iota
	NotEqual
	GreaterThan
	LessThan
	GreaterThanOrEqual
	LessThanOrEqual
)

func (c ComparisonType) String() string {
	switch c {
	case Equal:
		return "="
	case NotEqual:
		return "!="
	case GreaterThan:
		return ">"
	case LessThan:
		return "<"
	case GreaterThanOrEqual:
		return ">="
	case LessThanOrEqual:
		return "<="
	}
	return "???"
}

// ComparisonExpr compares its operands. A NULL operand yields boolean NULL;
// incompatible non-NULL operand types are a TypeMismatch error.
type ComparisonExpr struct {
	left     Expr
	right    Expr
	compType ComparisonType
}

func NewComparison(left Expr, right Expr, compType ComparisonType) *ComparisonExpr {
	return &ComparisonExpr{left: left, right: right, compType: compType}
}

func (e *ComparisonExpr) Eval(r storage.Row) (common.Value, error) {
	val1, err := e.left.Eval(r)
	if err != nil {
		return common.Value{}, err
	}
	val2, err := e.right.Eval(r)
	if err != nil {
		return common.Value{}, err
	}

	if val1.IsNull() || val2.IsNull() {
		return common.NewNullValue(common.BoolType), nil
	}

	cmp, err := val1.Compare(val2)
	if err != nil {
		return common.Value{}, err
	}

	var result bool
	switch e.compType {
	case Equal:
		result = cmp == 0
	case NotEqual:
		result = cmp != 0
	case GreaterThan:
		result = cmp > 0
	case LessThan:
		result = cmp < 0
	case GreaterThanOrEqual:
		result = cmp >= 0
	case LessThanOrEqual:
		result = cmp <= 0
	}
	return common.NewBoolValue(result), nil
}

func (e *ComparisonExpr) OutputType() common.Type {
	return common.BoolType
}

func (e *ComparisonExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.left.String(), e.compType.String(), e.right.String())
}

type BinaryLogicType int

const (
	And BinaryLogicType = iota
	Or
)

func (l BinaryLogicType) String() string {
	switch l {
	case And:
		return "AND"
	case Or:
		return "OR"
	}
	return "???"
}

// BinaryLogicExpr implements three-valued AND/OR: NULL AND true is NULL,
// NULL AND false is false, NULL OR true is true, NULL OR false is NULL.
type BinaryLogicExpr struct {
	left      Expr
	right     Expr
	logicType BinaryLogicType
}

func NewBinaryLogic(left Expr, right Expr, logicType BinaryLogicType) *BinaryLogicExpr {
	return &BinaryLogicExpr{left: left, right: right, logicType: logicType}
}

func (e *BinaryLogicExpr) Eval(r storage.Row) (common.Value, error) {
	val1, err := e.left.Eval(r)
	if err != nil {
		return common.Value{}, err
	}
	val2, err := e.right.Eval(r)
	if err != nil {
		return common.Value{}, err
	}

	switch e.logicType {
	case And:
		if ExprIsTrue(val1) && ExprIsTrue(val2) {
			return common.NewBoolValue(true), nil
		} else if ExprIsFalse(val1) || ExprIsFalse(val2) {
			return common.NewBoolValue(false), nil
		}
		return common.NewNullValue(common.BoolType), nil
	case Or:
		if ExprIsTrue(val1) || ExprIsTrue(val2) {
			return common.NewBoolValue(true), nil
		} else if ExprIsFalse(val1) && ExprIsFalse(val2) {
			return common.NewBoolValue(false), nil
		}
		return common.NewNullValue(common.BoolType), nil
	default:
		panic("unknown logic type")
	}
}

func (e *BinaryLogicExpr) OutputType() common.Type {
	return common.BoolType
}

func (e *BinaryLogicExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.left.String(), e.logicType.String(), e.right.String())
}

// NegationExpr is logical NOT; NOT NULL is NULL.
type NegationExpr struct {
	child Expr
}

func NewNegation(child Expr) *NegationExpr {
	return &NegationExpr{child: child}
}

func (e *NegationExpr) Eval(r storage.Row) (common.Value, error) {
	val, err := e.child.Eval(r)
	if err != nil {
		return common.Value{}, err
	}
	if val.IsNull() {
		return common.NewNullValue(common.BoolType), nil
	}
	if val.Type() != common.BoolType {
		return common.Value{}, common.Errorf(common.TypeMismatch,
			"NOT applied to %s operand", val.Type())
	}
	return common.NewBoolValue(!val.BoolValue()), nil
}

func (e *NegationExpr) OutputType() common.Type {
	return common.BoolType
}

func (e *NegationExpr) String() string {
	return fmt.Sprintf("!(%s)", e.child.String())
}

type NullCheckType int

const (
	IsNull NullCheckType = iota
	IsNotNull
)

func (n NullCheckType) String() string {
	switch n {
	case IsNull:
		return "IS NULL"
	case IsNotNull:
		return "IS NOT NULL"
	}
	return "???"
}

// NullCheckExpr is IS [NOT] NULL. Unlike comparisons it never yields NULL.
type NullCheckExpr struct {
	child     Expr
	checkType NullCheckType
}

func NewNullCheck(child Expr, checkType NullCheckType) *NullCheckExpr {
	return &NullCheckExpr{child: child, checkType: checkType}
}

func (e *NullCheckExpr) Eval(r storage.Row) (common.Value, error) {
	val, err := e.child.Eval(r)
	if err != nil {
		return common.Value{}, err
	}
	isNull := val.IsNull()
	if e.checkType == IsNotNull {
		return common.NewBoolValue(!isNull), nil
	}
	return common.NewBoolValue(isNull), nil
}

func (e *NullCheckExpr) OutputType() common.Type {
	return common.BoolType
}

func (e *NullCheckExpr) String() string {
	return fmt.Sprintf("(%s %s)", e.child.String(), e.checkType.String())
}

type ArithmeticType int

const (
	Add ArithmeticType = iota
	Sub
	Mult
	Div
	Mod
)

func (a ArithmeticType) String() string {
	switch a {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mult:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	}
	return "?"
}

// ArithmeticExpr performs numeric arithmetic. NULL operands propagate as
// NULL; non-numeric operands are a TypeMismatch error. A mixed int/float
// operation widens to float. Division by zero yields NULL.
type ArithmeticExpr struct {
	left  Expr
	right Expr
	op    ArithmeticType
}

func NewArithmetic(left Expr, right Expr, op ArithmeticType) *ArithmeticExpr {
	return &ArithmeticExpr{left: left, right: right, op: op}
}

func (e *ArithmeticExpr) Eval(r storage.Row) (common.Value, error) {
	val1, err := e.left.Eval(r)
	if err != nil {
		return common.Value{}, err
	}
	val2, err := e.right.Eval(r)
	if err != nil {
		return common.Value{}, err
	}

	if val1.IsNull() || val2.IsNull() {
		return common.NewNullValue(e.OutputType()), nil
	}
	if !val1.IsNumeric() || !val2.IsNumeric() {
		return common.Value{}, common.Errorf(common.TypeMismatch,
			"arithmetic %s on %s and %s operands", e.op, val1.Type(), val2.Type())
	}

	if val1.Type() == common.FloatType || val2.Type() == common.FloatType {
		return e.evalFloat(val1.AsFloat(), val2.AsFloat())
	}
	return e.evalInt(val1.IntValue(), val2.IntValue())
}

func (e *ArithmeticExpr) evalInt(v1, v2 int64) (common.Value, error) {
	var result int64
	switch e.op {
	case Add:
		result = v1 + v2
	case Sub:
		result = v1 - v2
	case Mult:
		result = v1 * v2
	case Div:
		if v2 == 0 {
			return common.NewNullValue(common.IntType), nil
		}
		result = v1 / v2
	case Mod:
		if v2 == 0 {
			return common.NewNullValue(common.IntType), nil
		}
		result = v1 % v2
	}
	return common.NewIntValue(result), nil
}

func (e *ArithmeticExpr) evalFloat(v1, v2 float64) (common.Value, error) {
	var result float64
	switch e.op {
	case Add:
		result = v1 + v2
	case Sub:
		result = v1 - v2
	case Mult:
		result = v1 * v2
	case Div:
		if v2 == 0 {
			return common.NewNullValue(common.FloatType), nil
		}
		result = v1 / v2
	case Mod:
		return common.Value{}, common.Errorf(common.TypeMismatch,
			"modulo requires integer operands")
	}
	return common.NewFloatValue(result), nil
}

func (e *ArithmeticExpr) OutputType() common.Type {
	if e.left.OutputType() == common.FloatType || e.right.OutputType() == common.FloatType {
		return common.FloatType
	}
	return common.IntType
}

func (e *ArithmeticExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.left.String(), e.op.String(), e.right.String())
}

// CoalesceExpr returns its first non-NULL argument. Evaluation
// short-circuits: later arguments are not evaluated once a non-NULL value
// is found. All-NULL arguments yield NULL.
type CoalesceExpr struct {
	args []Expr
}

func NewCoalesce(args ...Expr) *CoalesceExpr {
	common.Assert(len(args) > 0, "COALESCE requires at least one argument")
	return &CoalesceExpr{args: args}
}

func (e *CoalesceExpr) Eval(r storage.Row) (common.Value, error) {
	for _, arg := range e.args {
		val, err := arg.Eval(r)
		if err != nil {
			return common.Value{}, err
		}
		if !val.IsNull() {
			return val, nil
		}
	}
	return common.NewNullValue(e.OutputType()), nil
}

func (e *CoalesceExpr) OutputType() common.Type {
	return e.args[0].OutputType()
}

func (e *CoalesceExpr) String() string {
	s := "COALESCE("
	for i, arg := range e.args {
		if i > 0 {
			s += ", "
		}
		s += arg.String()
	}
	return s + ")"
}
