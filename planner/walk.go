package planner

// WalkExpr calls visit on e and every expression beneath it, parents before
// children. The executor builder uses this to find ExistsExpr nodes buried
// in predicates so it can attach their inner pipelines. The walk does not
// descend into subquery plans; those are separate plan trees built
// recursively by the caller.
func WalkExpr(e Expr, visit func(Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch x := e.(type) {
	case *ComparisonExpr:
		WalkExpr(x.left, visit)
		WalkExpr(x.right, visit)
	case *BinaryLogicExpr:
		WalkExpr(x.left, visit)
		WalkExpr(x.right, visit)
	case *NegationExpr:
		WalkExpr(x.child, visit)
	case *NullCheckExpr:
		WalkExpr(x.child, visit)
	case *ArithmeticExpr:
		WalkExpr(x.left, visit)
		WalkExpr(x.right, visit)
	case *CoalesceExpr:
		for _, arg := range x.args {
			WalkExpr(arg, visit)
		}
	case *AggregateRefExpr:
		WalkExpr(x.clause.Expr, visit)
	case *ExistsExpr:
		for _, b := range x.Bindings {
			WalkExpr(b.Outer, visit)
		}
	}
}
