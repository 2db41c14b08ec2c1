package execution

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steindb/stein/catalog"
	"github.com/steindb/stein/common"
	"github.com/steindb/stein/planner"
	"github.com/steindb/stein/storage"
)

func text(s string) common.Value { return common.NewTextValue(s) }
func num(i int64) common.Value   { return common.NewIntValue(i) }
func nullInt() common.Value      { return common.NewNullValue(common.IntType) }

// setupBeersCatalog builds the fixture dataset shared by the operator
// tests: bars, sells (Blue Anchor sells nothing), drinkers, likes.
func setupBeersCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	bars := storage.NewMemTable(storage.NewSchema(
		storage.Column{Name: "name", Type: common.TextType},
		storage.Column{Name: "city", Type: common.TextType},
	))
	bars.MustInsert(text("Hop Pole"), text("New Haven"))
	bars.MustInsert(text("Blue Anchor"), text("New Haven"))
	bars.MustInsert(text("Lagerhaus"), text("Hartford"))

	sells := storage.NewMemTable(storage.NewSchema(
		storage.Column{Name: "bar", Type: common.TextType},
		storage.Column{Name: "beer", Type: common.TextType},
		storage.Column{Name: "price", Type: common.IntType},
		storage.Column{Name: "sales", Type: common.IntType},
	))
	sells.MustInsert(text("Hop Pole"), text("IPA"), num(10), num(60))
	sells.MustInsert(text("Lagerhaus"), text("IPA"), num(20), num(70))
	sells.MustInsert(text("Lagerhaus"), text("Lager"), num(5), num(30))

	drinkers := storage.NewMemTable(storage.NewSchema(
		storage.Column{Name: "name", Type: common.TextType},
	))
	drinkers.MustInsert(text("Ada"))
	drinkers.MustInsert(text("Grace"))
	drinkers.MustInsert(text("Edsger"))

	likes := storage.NewMemTable(storage.NewSchema(
		storage.Column{Name: "drinker", Type: common.TextType},
		storage.Column{Name: "beer", Type: common.TextType},
	))
	likes.MustInsert(text("Ada"), text("Lager"))
	likes.MustInsert(text("Grace"), text("IPA"))
	likes.MustInsert(text("Ada"), text("IPA"))

	cat := catalog.NewCatalog()
	require.NoError(t, cat.Register("bars", bars))
	require.NoError(t, cat.Register("sells", sells))
	require.NoError(t, cat.Register("drinkers", drinkers))
	require.NoError(t, cat.Register("likes", likes))
	return cat
}

func scanOf(t *testing.T, cat *catalog.Catalog, table, alias string) *planner.ScanNode {
	t.Helper()
	source, err := cat.Resolve(table)
	require.NoError(t, err)
	return planner.NewScanNode(table, alias, source.Schema())
}

// drain runs a plan to exhaustion and returns all rows.
func drain(t *testing.T, cat *catalog.Catalog, plan planner.PlanNode) []storage.Row {
	t.Helper()
	ctx := NewExecutorContext(cat, nil)
	exec, err := Build(plan, ctx)
	require.NoError(t, err)
	require.NoError(t, exec.Init(ctx))
	defer exec.Close()

	var rows []storage.Row
	for exec.Next() {
		rows = append(rows, exec.Current())
	}
	require.NoError(t, exec.Error())
	return rows
}

func TestScanExecutor(t *testing.T) {
	cat := setupBeersCatalog(t)
	rows := drain(t, cat, scanOf(t, cat, "sells", "s"))

	require.Len(t, rows, 3)
	// Alias qualification is applied to the output schema.
	idx, err := rows[0].Schema().Resolve("s", "beer")
	require.NoError(t, err)
	assert.Equal(t, "IPA", rows[0].Value(idx).TextValue())
}

func TestScanExecutorRestart(t *testing.T) {
	cat := setupBeersCatalog(t)
	ctx := NewExecutorContext(cat, nil)
	exec := NewScanExecutor(scanOf(t, cat, "sells", "s"))

	require.NoError(t, exec.Init(ctx))
	count1 := 0
	for exec.Next() {
		count1++
	}
	require.Equal(t, 3, count1)

	// Init again resets the cursor for a full re-scan.
	require.NoError(t, exec.Init(ctx))
	count2 := 0
	for exec.Next() {
		count2++
	}
	assert.Equal(t, 3, count2)
	require.NoError(t, exec.Close())
}

func TestScanExecutorUnknownTable(t *testing.T) {
	cat := setupBeersCatalog(t)
	ctx := NewExecutorContext(cat, nil)
	exec := NewScanExecutor(planner.NewScanNode("ghosts", "", storage.NewSchema()))

	err := exec.Init(ctx)
	require.Error(t, err)
	code, ok := common.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, common.NoSuchTable, code)
}

func TestFilterExecutorThreeValued(t *testing.T) {
	cat := setupBeersCatalog(t)

	// price > 5 admits 10 and 20; the NULL-producing comparison for a
	// hypothetical NULL price would exclude, which TestAggregate covers
	// via the outer-join path.
	plan := planner.NewFilterNode(
		scanOf(t, cat, "sells", "s"),
		planner.NewComparison(
			planner.NewColumnRef("s", "price", common.IntType),
			planner.NewConstant(num(5)),
			planner.GreaterThan,
		),
	)
	rows := drain(t, cat, plan)
	require.Len(t, rows, 2)
}

func TestFilterExecutorPredicateErrorAborts(t *testing.T) {
	cat := setupBeersCatalog(t)
	plan := planner.NewFilterNode(
		scanOf(t, cat, "sells", "s"),
		planner.NewComparison(
			planner.NewColumnRef("s", "no_such_column", common.IntType),
			planner.NewConstant(num(1)),
			planner.Equal,
		),
	)

	ctx := NewExecutorContext(cat, nil)
	exec, err := Build(plan, ctx)
	require.NoError(t, err)
	require.NoError(t, exec.Init(ctx))
	defer exec.Close()

	assert.False(t, exec.Next())
	require.Error(t, exec.Error())
	code, _ := common.CodeOf(exec.Error())
	assert.Equal(t, common.UnresolvedColumn, code)
}

func barSellsJoin(t *testing.T, cat *catalog.Catalog, mode planner.JoinMode) *planner.JoinNode {
	t.Helper()
	return planner.NewJoinNode(
		scanOf(t, cat, "bars", "b"),
		scanOf(t, cat, "sells", "s"),
		planner.NewComparison(
			planner.NewColumnRef("b", "name", common.TextType),
			planner.NewColumnRef("s", "bar", common.TextType),
			planner.Equal,
		),
		mode,
	)
}

func TestInnerJoin(t *testing.T) {
	cat := setupBeersCatalog(t)
	rows := drain(t, cat, barSellsJoin(t, cat, planner.InnerJoin))

	// Hop Pole matches 1 sells row, Blue Anchor 0, Lagerhaus 2.
	require.Len(t, rows, 3)

	// Output order is left-major (bars insertion order), right-minor
	// (sells insertion order).
	var barNames []string
	for _, r := range rows {
		barNames = append(barNames, r.Value(0).TextValue())
	}
	assert.Equal(t, []string{"Hop Pole", "Lagerhaus", "Lagerhaus"}, barNames)

	// Joined schema is left then right, qualifiers intact.
	schema := rows[0].Schema()
	assert.Equal(t, 6, schema.NumColumns())
	assert.Equal(t, "b.name", schema.Column(0).String())
	assert.Equal(t, "s.bar", schema.Column(2).String())
}

func TestLeftOuterJoin(t *testing.T) {
	cat := setupBeersCatalog(t)
	rows := drain(t, cat, barSellsJoin(t, cat, planner.LeftOuterJoin))

	// One extra row for Blue Anchor, NULL-padded on the right.
	require.Len(t, rows, 4)

	var anchor *storage.Row
	for i := range rows {
		if rows[i].Value(0).TextValue() == "Blue Anchor" {
			anchor = &rows[i]
		}
	}
	require.NotNil(t, anchor, "unmatched left row must be preserved")
	for i := 2; i < 6; i++ {
		assert.True(t, anchor.Value(i).IsNull(), "right side of unmatched row must be all NULL")
		// Padding keeps the declared column types.
		assert.Equal(t, anchor.Schema().Column(i).Type, anchor.Value(i).Type())
	}
}

func TestAggregateSumHaving(t *testing.T) {
	cat := setupBeersCatalog(t)

	// SELECT beer, SUM(sales) FROM sells GROUP BY beer
	// HAVING SUM(sales) > 100
	salesRef := planner.NewColumnRef("s", "sales", common.IntType)
	plan := planner.NewAggregateNode(
		scanOf(t, cat, "sells", "s"),
		[]planner.Expr{planner.NewColumnRef("s", "beer", common.TextType)},
		[]planner.AggregateClause{{Type: planner.AggSum, Expr: salesRef}},
		planner.NewComparison(
			planner.NewAggregateRef(planner.AggSum, salesRef),
			planner.NewConstant(num(100)),
			planner.GreaterThan,
		),
	)

	rows := drain(t, cat, plan)
	// IPA sums to 130 and survives; Lager sums to 30 and is dropped.
	require.Len(t, rows, 1)
	assert.Equal(t, "IPA", rows[0].Value(0).TextValue())
	assert.Equal(t, int64(130), rows[0].Value(1).IntValue())
}

func TestAggregateFirstSeenOrderAndCount(t *testing.T) {
	cat := setupBeersCatalog(t)

	beerRef := planner.NewColumnRef("s", "beer", common.TextType)
	plan := planner.NewAggregateNode(
		scanOf(t, cat, "sells", "s"),
		[]planner.Expr{beerRef},
		[]planner.AggregateClause{
			{Type: planner.AggCount, Expr: beerRef},
			{Type: planner.AggMin, Expr: planner.NewColumnRef("s", "price", common.IntType)},
			{Type: planner.AggMax, Expr: planner.NewColumnRef("s", "price", common.IntType)},
		},
		nil,
	)

	rows := drain(t, cat, plan)
	require.Len(t, rows, 2)
	// Groups come out in first-seen order: IPA before Lager.
	assert.Equal(t, "IPA", rows[0].Value(0).TextValue())
	assert.Equal(t, int64(2), rows[0].Value(1).IntValue())
	assert.Equal(t, int64(10), rows[0].Value(2).IntValue())
	assert.Equal(t, int64(20), rows[0].Value(3).IntValue())
	assert.Equal(t, "Lager", rows[1].Value(0).TextValue())
	assert.Equal(t, int64(1), rows[1].Value(1).IntValue())
}

func TestAggregateAllNullInputs(t *testing.T) {
	// A group fed only NULLs: SUM must finalize to NULL while COUNT
	// finalizes to 0. This mirrors what an unmatched left-outer row feeds
	// the aggregation.
	table := storage.NewMemTable(storage.NewSchema(
		storage.Column{Name: "k", Type: common.TextType},
		storage.Column{Name: "v", Type: common.IntType},
	))
	table.MustInsert(text("empty"), nullInt())
	table.MustInsert(text("full"), num(7))
	table.MustInsert(text("empty"), nullInt())

	cat := catalog.NewCatalog()
	require.NoError(t, cat.Register("obs", table))

	vRef := planner.NewColumnRef("o", "v", common.IntType)
	plan := planner.NewAggregateNode(
		scanOf(t, cat, "obs", "o"),
		[]planner.Expr{planner.NewColumnRef("o", "k", common.TextType)},
		[]planner.AggregateClause{
			{Type: planner.AggSum, Expr: vRef},
			{Type: planner.AggCount, Expr: vRef},
		},
		nil,
	)

	rows := drain(t, cat, plan)
	require.Len(t, rows, 2)

	assert.Equal(t, "empty", rows[0].Value(0).TextValue())
	assert.True(t, rows[0].Value(1).IsNull(), "SUM over all-NULL inputs must be NULL")
	assert.Equal(t, int64(0), rows[0].Value(2).IntValue(), "COUNT over all-NULL inputs must be 0")

	assert.Equal(t, "full", rows[1].Value(0).TextValue())
	assert.Equal(t, int64(7), rows[1].Value(1).IntValue())
	assert.Equal(t, int64(1), rows[1].Value(2).IntValue())
}

func TestGlobalAggregateOverEmptyInput(t *testing.T) {
	table := storage.NewMemTable(storage.NewSchema(
		storage.Column{Name: "v", Type: common.IntType},
	))
	cat := catalog.NewCatalog()
	require.NoError(t, cat.Register("empty", table))

	vRef := planner.NewColumnRef("e", "v", common.IntType)
	plan := planner.NewAggregateNode(
		scanOf(t, cat, "empty", "e"),
		nil,
		[]planner.AggregateClause{
			{Type: planner.AggCount, Expr: vRef},
			{Type: planner.AggSum, Expr: vRef},
		},
		nil,
	)

	rows := drain(t, cat, plan)
	require.Len(t, rows, 1, "global aggregation emits one row even on empty input")
	assert.Equal(t, int64(0), rows[0].Value(0).IntValue())
	assert.True(t, rows[0].Value(1).IsNull())
}

func TestLeftJoinAggregateCoalesce(t *testing.T) {
	cat := setupBeersCatalog(t)

	// SELECT b.name, COALESCE(SUM(s.price), 0) FROM bars b
	// LEFT JOIN sells s ON b.name = s.bar GROUP BY b.name
	priceRef := planner.NewColumnRef("s", "price", common.IntType)
	agg := planner.NewAggregateNode(
		barSellsJoin(t, cat, planner.LeftOuterJoin),
		[]planner.Expr{planner.NewColumnRef("b", "name", common.TextType)},
		[]planner.AggregateClause{{Type: planner.AggSum, Expr: priceRef}},
		nil,
	)
	plan := planner.NewProjectionNode(agg, []planner.ProjectionClause{
		{Expr: planner.NewColumnRef("b", "name", common.TextType)},
		{
			Expr: planner.NewCoalesce(
				planner.NewAggregateRef(planner.AggSum, priceRef),
				planner.NewConstant(num(0)),
			),
			Alias: "revenue",
		},
	})

	rows := drain(t, cat, plan)
	require.Len(t, rows, 3, "left-outer preserves the bar with no sells rows")

	revenue := map[string]int64{}
	for _, r := range rows {
		revenue[r.Value(0).TextValue()] = r.Value(1).IntValue()
	}
	assert.Equal(t, int64(10), revenue["Hop Pole"])
	assert.Equal(t, int64(0), revenue["Blue Anchor"], "NULL sum coalesces to 0")
	assert.Equal(t, int64(25), revenue["Lagerhaus"])
}

func TestSortStableWithNullLowest(t *testing.T) {
	// Rows with revenue [50, NULL, 50, 30]; the tag column distinguishes
	// the two 50s so stability is observable.
	table := storage.NewMemTable(storage.NewSchema(
		storage.Column{Name: "tag", Type: common.TextType},
		storage.Column{Name: "revenue", Type: common.IntType},
	))
	table.MustInsert(text("first50"), num(50))
	table.MustInsert(text("nullrow"), nullInt())
	table.MustInsert(text("second50"), num(50))
	table.MustInsert(text("thirty"), num(30))

	cat := catalog.NewCatalog()
	require.NoError(t, cat.Register("revs", table))

	plan := planner.NewSortNode(
		scanOf(t, cat, "revs", "r"),
		[]planner.OrderByClause{{
			Expr:      planner.NewColumnRef("r", "revenue", common.IntType),
			Direction: planner.SortAscending,
		}},
	)

	rows := drain(t, cat, plan)
	require.Len(t, rows, 4)
	var tags []string
	for _, r := range rows {
		tags = append(tags, r.Value(0).TextValue())
	}
	// NULL sorts lowest; the equal 50s keep their input order.
	assert.Equal(t, []string{"nullrow", "thirty", "first50", "second50"}, tags)
}

func TestSortDescending(t *testing.T) {
	cat := setupBeersCatalog(t)
	plan := planner.NewSortNode(
		scanOf(t, cat, "sells", "s"),
		[]planner.OrderByClause{{
			Expr:      planner.NewColumnRef("s", "price", common.IntType),
			Direction: planner.SortDescending,
		}},
	)
	rows := drain(t, cat, plan)
	require.Len(t, rows, 3)
	prices := []int64{rows[0].Value(2).IntValue(), rows[1].Value(2).IntValue(), rows[2].Value(2).IntValue()}
	assert.Equal(t, []int64{20, 10, 5}, prices)
}

func TestLimit(t *testing.T) {
	cat := setupBeersCatalog(t)

	// More rows than the limit.
	rows := drain(t, cat, planner.NewLimitNode(scanOf(t, cat, "sells", "s"), 2))
	assert.Len(t, rows, 2)

	// Fewer rows than the limit: all of them come back.
	rows = drain(t, cat, planner.NewLimitNode(scanOf(t, cat, "sells", "s"), 5))
	assert.Len(t, rows, 3)
}

func existsThriftyPlan(t *testing.T, cat *catalog.Catalog, maxPrice int64) planner.PlanNode {
	t.Helper()
	innerJoin := planner.NewJoinNode(
		scanOf(t, cat, "likes", "l"),
		scanOf(t, cat, "sells", "s"),
		planner.NewComparison(
			planner.NewColumnRef("l", "beer", common.TextType),
			planner.NewColumnRef("s", "beer", common.TextType),
			planner.Equal,
		),
		planner.InnerJoin,
	)
	drinkerParam := planner.NewParam("d.name", common.TextType)
	inner := planner.NewFilterNode(innerJoin, planner.NewBinaryLogic(
		planner.NewComparison(planner.NewColumnRef("l", "drinker", common.TextType), drinkerParam, planner.Equal),
		planner.NewComparison(planner.NewColumnRef("s", "price", common.IntType), planner.NewConstant(num(maxPrice)), planner.LessThanOrEqual),
		planner.And,
	))
	exists := planner.NewExists(inner, []planner.CorrelatedBinding{
		{Param: drinkerParam, Outer: planner.NewColumnRef("d", "name", common.TextType)},
	})
	return planner.NewFilterNode(scanOf(t, cat, "drinkers", "d"), exists)
}

func TestCorrelatedExists(t *testing.T) {
	cat := setupBeersCatalog(t)

	// Beers sold at price <= 10: IPA (10) and Lager (5). Ada likes both
	// (two qualifying pairs), Grace likes IPA (one), Edsger likes
	// nothing.
	rows := drain(t, cat, existsThriftyPlan(t, cat, 10))

	var names []string
	for _, r := range rows {
		names = append(names, r.Value(0).TextValue())
	}
	// Ada appears exactly once despite two qualifying pairs; Edsger, with
	// zero likes rows, is excluded.
	assert.Equal(t, []string{"Ada", "Grace"}, names)
}

func TestCorrelatedExistsNoMatches(t *testing.T) {
	cat := setupBeersCatalog(t)

	// Nothing sells at price <= 1, so EXISTS is false for every drinker.
	rows := drain(t, cat, existsThriftyPlan(t, cat, 1))
	assert.Empty(t, rows)
}

// failingSource surfaces an external row source failure mid-stream.
type failingSource struct {
	schema *storage.Schema
	err    error
}

func (f *failingSource) Schema() *storage.Schema { return f.schema }

func (f *failingSource) Open() (storage.RowCursor, error) {
	return &failingCursor{source: f}, nil
}

type failingCursor struct {
	source *failingSource
	n      int
}

func (c *failingCursor) Next() bool {
	c.n++
	return c.n <= 1
}

func (c *failingCursor) Current() storage.Row {
	return storage.NewRow(c.source.schema, []common.Value{num(1)})
}

func (c *failingCursor) Error() error {
	if c.n > 1 {
		return c.source.err
	}
	return nil
}

func (c *failingCursor) Close() error { return nil }

func TestRowSourceFailurePropagatesUnchanged(t *testing.T) {
	boom := errors.New("disk on fire")
	source := &failingSource{
		schema: storage.NewSchema(storage.Column{Name: "v", Type: common.IntType}),
		err:    boom,
	}
	cat := catalog.NewCatalog()
	require.NoError(t, cat.Register("flaky", source))

	ctx := NewExecutorContext(cat, nil)
	exec, err := Build(scanOf(t, cat, "flaky", "f"), ctx)
	require.NoError(t, err)
	require.NoError(t, exec.Init(ctx))
	defer exec.Close()

	require.True(t, exec.Next())
	assert.False(t, exec.Next())
	assert.ErrorIs(t, exec.Error(), boom, "external failures propagate unchanged")
}

func TestSortLimitPipeline(t *testing.T) {
	cat := setupBeersCatalog(t)

	// Top-2 sells rows by sales, descending.
	sorted := planner.NewSortNode(
		scanOf(t, cat, "sells", "s"),
		[]planner.OrderByClause{{
			Expr:      planner.NewColumnRef("s", "sales", common.IntType),
			Direction: planner.SortDescending,
		}},
	)
	rows := drain(t, cat, planner.NewLimitNode(sorted, 2))

	require.Len(t, rows, 2)
	assert.Equal(t, int64(70), rows[0].Value(3).IntValue())
	assert.Equal(t, int64(60), rows[1].Value(3).IntValue())
}
