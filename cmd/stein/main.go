// Command stein runs the engine's showcase queries over a small in-memory
// beers dataset: grouped aggregation with HAVING, a left-outer join with
// COALESCE over an empty group's SUM, and a correlated EXISTS filter.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	stein "github.com/steindb/stein"
	"github.com/steindb/stein/catalog"
	"github.com/steindb/stein/common"
	"github.com/steindb/stein/config"
	"github.com/steindb/stein/logging"
	"github.com/steindb/stein/planner"
	"github.com/steindb/stein/storage"
)

const version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:           "stein",
		Short:         "stein is a minimal relational query evaluation engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var configPath string
	demo := &cobra.Command{
		Use:   "demo",
		Short: "Run the showcase queries over the built-in beers dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(configPath)
		},
	}
	demo.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")

	root.AddCommand(demo)
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("stein", version)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runDemo(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cat, err := seedCatalog()
	if err != nil {
		return err
	}
	engine := stein.New(cat, cfg, logger)

	queries := []struct {
		title string
		plan  planner.PlanNode
	}{
		{"Beers with total sales over 100, best sellers first", topBeersPlan(cat)},
		{"Revenue per bar, bars with no sales included at 0", barRevenuePlan(cat)},
		{"Drinkers who like some beer sold for at most 5", thriftyDrinkersPlan(cat)},
	}

	for _, q := range queries {
		fmt.Println(q.title)
		if err := runAndPrint(engine, q.plan); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

func runAndPrint(engine *stein.Engine, plan planner.PlanNode) error {
	rs, err := engine.Execute(plan)
	if err != nil {
		return err
	}
	defer rs.Close()

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	schema := rs.Schema()
	for i := 0; i < schema.NumColumns(); i++ {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, schema.Column(i).String())
	}
	fmt.Fprintln(w)

	for rs.Next() {
		row := rs.Row()
		for i := 0; i < schema.NumColumns(); i++ {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, row.Value(i).String())
		}
		fmt.Fprintln(w)
	}
	if err := rs.Err(); err != nil {
		return err
	}
	return w.Flush()
}

// seedCatalog builds the classic beers schema: bars, sells, drinkers,
// likes. The Blue Anchor sells nothing, which is what makes the left-outer
// query interesting.
func seedCatalog() (*catalog.Catalog, error) {
	text := common.TextType
	integer := common.IntType

	bars := storage.NewMemTable(storage.NewSchema(
		storage.Column{Name: "name", Type: text},
		storage.Column{Name: "city", Type: text},
	))
	bars.MustInsert(common.NewTextValue("The Hop Pole"), common.NewTextValue("New Haven"))
	bars.MustInsert(common.NewTextValue("Blue Anchor"), common.NewTextValue("New Haven"))
	bars.MustInsert(common.NewTextValue("Lagerhaus"), common.NewTextValue("Hartford"))

	sells := storage.NewMemTable(storage.NewSchema(
		storage.Column{Name: "bar", Type: text},
		storage.Column{Name: "beer", Type: text},
		storage.Column{Name: "price", Type: integer},
		storage.Column{Name: "sales", Type: integer},
	))
	sells.MustInsert(common.NewTextValue("The Hop Pole"), common.NewTextValue("IPA"), common.NewIntValue(10), common.NewIntValue(60))
	sells.MustInsert(common.NewTextValue("Lagerhaus"), common.NewTextValue("IPA"), common.NewIntValue(20), common.NewIntValue(70))
	sells.MustInsert(common.NewTextValue("Lagerhaus"), common.NewTextValue("Lager"), common.NewIntValue(5), common.NewIntValue(30))
	sells.MustInsert(common.NewTextValue("The Hop Pole"), common.NewTextValue("Stout"), common.NewIntValue(4), common.NewIntValue(45))

	drinkers := storage.NewMemTable(storage.NewSchema(
		storage.Column{Name: "name", Type: text},
		storage.Column{Name: "city", Type: text},
	))
	drinkers.MustInsert(common.NewTextValue("Ada"), common.NewTextValue("New Haven"))
	drinkers.MustInsert(common.NewTextValue("Grace"), common.NewTextValue("Hartford"))
	drinkers.MustInsert(common.NewTextValue("Edsger"), common.NewTextValue("New Haven"))

	likes := storage.NewMemTable(storage.NewSchema(
		storage.Column{Name: "drinker", Type: text},
		storage.Column{Name: "beer", Type: text},
	))
	likes.MustInsert(common.NewTextValue("Ada"), common.NewTextValue("Stout"))
	likes.MustInsert(common.NewTextValue("Grace"), common.NewTextValue("IPA"))

	cat := catalog.NewCatalog()
	for name, table := range map[string]*storage.MemTable{
		"bars": bars, "sells": sells, "drinkers": drinkers, "likes": likes,
	} {
		if err := cat.Register(name, table); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// topBeersPlan is:
//
//	SELECT beer, SUM(sales) AS total_sales FROM sells s
//	GROUP BY s.beer HAVING SUM(s.sales) > 100
//	ORDER BY total_sales DESC LIMIT 5
func topBeersPlan(cat *catalog.Catalog) planner.PlanNode {
	sells := mustSchema(cat, "sells")
	scan := planner.NewScanNode("sells", "s", sells)

	salesRef := planner.NewColumnRef("s", "sales", common.IntType)
	sumSales := planner.AggregateClause{Type: planner.AggSum, Expr: salesRef}
	having := planner.NewComparison(
		planner.NewAggregateRef(planner.AggSum, salesRef),
		planner.NewConstant(common.NewIntValue(100)),
		planner.GreaterThan,
	)
	agg := planner.NewAggregateNode(scan,
		[]planner.Expr{planner.NewColumnRef("s", "beer", common.TextType)},
		[]planner.AggregateClause{sumSales},
		having,
	)
	project := planner.NewProjectionNode(agg, []planner.ProjectionClause{
		{Expr: planner.NewColumnRef("s", "beer", common.TextType)},
		{Expr: planner.NewAggregateRef(planner.AggSum, salesRef), Alias: "total_sales"},
	})
	sorted := planner.NewSortNode(project, []planner.OrderByClause{
		{Expr: planner.NewColumnRef("", "total_sales", common.IntType), Direction: planner.SortDescending},
	})
	return planner.NewLimitNode(sorted, 5)
}

// barRevenuePlan is:
//
//	SELECT b.name, COALESCE(SUM(s.price), 0) AS revenue
//	FROM bars b LEFT JOIN sells s ON b.name = s.bar
//	GROUP BY b.name ORDER BY revenue
func barRevenuePlan(cat *catalog.Catalog) planner.PlanNode {
	bars := planner.NewScanNode("bars", "b", mustSchema(cat, "bars"))
	sells := planner.NewScanNode("sells", "s", mustSchema(cat, "sells"))

	join := planner.NewJoinNode(bars, sells,
		planner.NewComparison(
			planner.NewColumnRef("b", "name", common.TextType),
			planner.NewColumnRef("s", "bar", common.TextType),
			planner.Equal,
		),
		planner.LeftOuterJoin,
	)

	priceRef := planner.NewColumnRef("s", "price", common.IntType)
	agg := planner.NewAggregateNode(join,
		[]planner.Expr{planner.NewColumnRef("b", "name", common.TextType)},
		[]planner.AggregateClause{{Type: planner.AggSum, Expr: priceRef}},
		nil,
	)
	project := planner.NewProjectionNode(agg, []planner.ProjectionClause{
		{Expr: planner.NewColumnRef("b", "name", common.TextType)},
		{
			Expr: planner.NewCoalesce(
				planner.NewAggregateRef(planner.AggSum, priceRef),
				planner.NewConstant(common.NewIntValue(0)),
			),
			Alias: "revenue",
		},
	})
	return planner.NewSortNode(project, []planner.OrderByClause{
		{Expr: planner.NewColumnRef("", "revenue", common.IntType), Direction: planner.SortAscending},
	})
}

// thriftyDrinkersPlan is:
//
//	SELECT d.name FROM drinkers d
//	WHERE EXISTS (SELECT 1 FROM likes l JOIN sells s ON l.beer = s.beer
//	              WHERE l.drinker = d.name AND s.price <= 5)
func thriftyDrinkersPlan(cat *catalog.Catalog) planner.PlanNode {
	drinkers := planner.NewScanNode("drinkers", "d", mustSchema(cat, "drinkers"))

	likes := planner.NewScanNode("likes", "l", mustSchema(cat, "likes"))
	sells := planner.NewScanNode("sells", "s", mustSchema(cat, "sells"))
	innerJoin := planner.NewJoinNode(likes, sells,
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
		planner.NewComparison(planner.NewColumnRef("s", "price", common.IntType), planner.NewConstant(common.NewIntValue(5)), planner.LessThanOrEqual),
		planner.And,
	))

	exists := planner.NewExists(inner, []planner.CorrelatedBinding{
		{Param: drinkerParam, Outer: planner.NewColumnRef("d", "name", common.TextType)},
	})
	filtered := planner.NewFilterNode(drinkers, exists)
	return planner.NewProjectionNode(filtered, []planner.ProjectionClause{
		{Expr: planner.NewColumnRef("d", "name", common.TextType)},
	})
}

func mustSchema(cat *catalog.Catalog, table string) *storage.Schema {
	source, err := cat.Resolve(table)
	if err != nil {
		panic(err)
	}
	return source.Schema()
}
