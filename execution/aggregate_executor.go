package execution

import (
	"fmt"
	"strings"

	"github.com/steindb/stein/common"
	"github.com/steindb/stein/planner"
	"github.com/steindb/stein/storage"
)

// AggregateExecutor implements grouped aggregation with HAVING. It is a
// blocking operator: the entire input is consumed before the first output
// row, since HAVING depends on complete aggregates. Groups are emitted in
// first-seen key order, which keeps output deterministic even without a
// downstream Sort.
type AggregateExecutor struct {
	plan  *planner.AggregateNode
	child Executor

	// Runtime state
	rows         []storage.Row
	computed     bool
	currentIndex int
	err          error
}

type groupState struct {
	keyValues    []common.Value
	accumulators []Accumulator
}

// NewAggregateExecutor creates a new AggregateExecutor.
func NewAggregateExecutor(plan *planner.AggregateNode, child Executor) *AggregateExecutor {
	return &AggregateExecutor{
		plan:         plan,
		child:        child,
		currentIndex: -1,
	}
}

func (e *AggregateExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *AggregateExecutor) Init(ctx *ExecutorContext) error {
	e.rows = nil
	e.computed = false
	e.currentIndex = -1
	e.err = nil
	return e.child.Init(ctx)
}

func (e *AggregateExecutor) newGroup(keyValues []common.Value) *groupState {
	accs := make([]Accumulator, len(e.plan.Aggregates))
	for i, clause := range e.plan.Aggregates {
		accs[i] = newAccumulator(clause)
	}
	stored := make([]common.Value, len(keyValues))
	copy(stored, keyValues)
	return &groupState{keyValues: stored, accumulators: accs}
}

func (e *AggregateExecutor) buildGroups() error {
	groups := make(map[string]*groupState)
	var order []*groupState

	keyBuffer := make([]common.Value, len(e.plan.GroupBy))
	for e.child.Next() {
		row := e.child.Current()
		for i, expr := range e.plan.GroupBy {
			v, err := expr.Eval(row)
			if err != nil {
				return err
			}
			keyBuffer[i] = v
		}
		key := encodeGroupKey(keyBuffer)
		state, found := groups[key]
		if !found {
			state = e.newGroup(keyBuffer)
			groups[key] = state
			order = append(order, state)
		}

		for i, clause := range e.plan.Aggregates {
			v, err := clause.Expr.Eval(row)
			if err != nil {
				return err
			}
			if err := state.accumulators[i].Accumulate(v); err != nil {
				return err
			}
		}
	}
	if err := e.child.Error(); err != nil {
		return err
	}

	// A global aggregation (no group-by) over empty input still produces
	// its single group, so COUNT comes back 0 and SUM comes back NULL.
	if len(e.plan.GroupBy) == 0 && len(order) == 0 {
		order = append(order, e.newGroup(nil))
	}

	for _, state := range order {
		values := make([]common.Value, 0, len(state.keyValues)+len(state.accumulators))
		values = append(values, state.keyValues...)
		for _, acc := range state.accumulators {
			values = append(values, acc.Final())
		}
		out := storage.NewRow(e.plan.OutputSchema(), values)

		if e.plan.Having != nil {
			res, err := e.plan.Having.Eval(out)
			if err != nil {
				return err
			}
			// False and NULL both drop the group.
			if !planner.ExprIsTrue(res) {
				continue
			}
		}
		e.rows = append(e.rows, out)
	}
	return nil
}

func (e *AggregateExecutor) Next() bool {
	if e.err != nil {
		return false
	}
	if !e.computed {
		if err := e.buildGroups(); err != nil {
			e.err = err
			return false
		}
		e.computed = true
	}
	e.currentIndex++
	return e.currentIndex < len(e.rows)
}

func (e *AggregateExecutor) Current() storage.Row {
	return e.rows[e.currentIndex]
}

func (e *AggregateExecutor) Error() error {
	return e.err
}

func (e *AggregateExecutor) Close() error {
	e.rows = nil
	return e.child.Close()
}

// encodeGroupKey renders a key tuple into a canonical string for group
// lookup. NULL is a distinct key value: two NULL keys land in the same
// group, and NULL never collides with any concrete value because of the
// null marker byte.
func encodeGroupKey(values []common.Value) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteByte(byte(v.Type()))
		if v.IsNull() {
			b.WriteByte('n')
		} else {
			b.WriteByte('v')
			fmt.Fprintf(&b, "%q", v.String())
		}
		b.WriteByte(0x1f)
	}
	return b.String()
}
