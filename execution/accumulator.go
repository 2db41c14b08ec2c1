package execution

import (
	"github.com/steindb/stein/common"
	"github.com/steindb/stein/planner"
)

// Accumulator is the per-group state machine of one aggregate clause:
// created at group birth, fed one evaluated argument per input row,
// finalized once after the input is exhausted.
//
// Standard SQL NULL rules apply inside each implementation: NULL inputs are
// ignored as if absent. The implementations differ in what an all-NULL (or
// empty) input finalizes to: SUM/MIN/MAX yield NULL, COUNT yields 0. An
// unmatched left-outer row feeds a group exactly one NULL, so its SUM is
// NULL and a COALESCE above the aggregation can rewrite it to a default.
type Accumulator interface {
	// Accumulate folds one evaluated argument value into the state.
	Accumulate(v common.Value) error

	// Final returns the aggregate result for the finished group.
	Final() common.Value
}

// newAccumulator builds the accumulator for a clause. The aggregate set is
// a closed enum fixed at plan-construction time.
func newAccumulator(clause planner.AggregateClause) Accumulator {
	switch clause.Type {
	case planner.AggSum:
		return &sumAccumulator{outputType: clause.OutputType()}
	case planner.AggCount:
		return &countAccumulator{}
	case planner.AggMin:
		return &extremumAccumulator{outputType: clause.OutputType(), want: -1}
	case planner.AggMax:
		return &extremumAccumulator{outputType: clause.OutputType(), want: 1}
	}
	panic("unknown aggregator type")
}

type sumAccumulator struct {
	outputType common.Type
	sumInt     int64
	sumFloat   float64
	seen       bool
}

func (a *sumAccumulator) Accumulate(v common.Value) error {
	if v.IsNull() {
		return nil
	}
	if !v.IsNumeric() {
		return common.Errorf(common.TypeMismatch, "sum over %s value", v.Type())
	}
	a.seen = true
	if a.outputType == common.FloatType {
		a.sumFloat += v.AsFloat()
		return nil
	}
	a.sumInt += v.IntValue()
	return nil
}

func (a *sumAccumulator) Final() common.Value {
	if !a.seen {
		return common.NewNullValue(a.outputType)
	}
	if a.outputType == common.FloatType {
		return common.NewFloatValue(a.sumFloat)
	}
	return common.NewIntValue(a.sumInt)
}

// countAccumulator counts non-NULL argument evaluations. COUNT(*) arrives
// here as COUNT over the literal 1 and therefore counts every row.
type countAccumulator struct {
	n int64
}

func (a *countAccumulator) Accumulate(v common.Value) error {
	if !v.IsNull() {
		a.n++
	}
	return nil
}

func (a *countAccumulator) Final() common.Value {
	return common.NewIntValue(a.n)
}

// extremumAccumulator tracks MIN (want == -1) or MAX (want == 1).
type extremumAccumulator struct {
	outputType common.Type
	want       int
	best       common.Value
	seen       bool
}

func (a *extremumAccumulator) Accumulate(v common.Value) error {
	if v.IsNull() {
		return nil
	}
	if !a.seen {
		a.best = v
		a.seen = true
		return nil
	}
	cmp, err := v.Compare(a.best)
	if err != nil {
		return err
	}
	if (a.want < 0 && cmp < 0) || (a.want > 0 && cmp > 0) {
		a.best = v
	}
	return nil
}

func (a *extremumAccumulator) Final() common.Value {
	if !a.seen {
		return common.NewNullValue(a.outputType)
	}
	return a.best
}
