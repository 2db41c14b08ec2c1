// Package stein is a minimal pull-based relational query evaluation engine.
// It executes already-built plan trees (scan, filter, nested-loop join,
// grouped aggregation with HAVING, sort, limit, correlated EXISTS) over
// abstract row sources under three-valued logic. Parsing, storage and
// optimization live outside; the engine runs plans exactly as given.
package stein

import (
	"go.uber.org/zap"

	"github.com/steindb/stein/catalog"
	"github.com/steindb/stein/config"
	"github.com/steindb/stein/execution"
	"github.com/steindb/stein/planner"
	"github.com/steindb/stein/storage"
)

// Engine is the top-level container: a catalog of row sources plus
// configuration and a logger. One engine serves many queries; each Execute
// builds a fresh executor pipeline, so concurrent executions of different
// plans do not share operator state.
type Engine struct {
	catalog *catalog.Catalog
	cfg     *config.Config
	logger  *zap.SugaredLogger
}

// New creates an Engine. A nil cfg means defaults; a nil logger means
// silent operation.
func New(cat *catalog.Catalog, cfg *config.Config, logger *zap.SugaredLogger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Engine{catalog: cat, cfg: cfg, logger: logger}
}

// Catalog returns the engine's table registry.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Execute runs a plan tree and returns its result stream. The plan is
// consumed by exactly one execution; run a rebuilt plan for a rerun.
func (e *Engine) Execute(plan planner.PlanNode) (*ResultSet, error) {
	ctx := execution.NewExecutorContext(e.catalog, e.logger)
	exec, err := execution.Build(plan, ctx)
	if err != nil {
		return nil, err
	}
	if err := exec.Init(ctx); err != nil {
		_ = exec.Close()
		return nil, err
	}
	e.logger.Debugw("query started", "plan", plan.String())
	return &ResultSet{
		exec:    exec,
		schema:  plan.OutputSchema(),
		maxRows: e.cfg.Engine.MaxRows,
		logger:  e.logger,
	}, nil
}

// ResultSet is the lazy row stream of one executed query. Consumers pull
// with Next until it returns false, then check Err; Close releases the
// pipeline and is safe to call at any point, including before exhaustion.
type ResultSet struct {
	exec    execution.Executor
	schema  *storage.Schema
	logger  *zap.SugaredLogger
	maxRows int
	n       int
	closed  bool
}

// Schema returns the schema of the rows the result yields.
func (rs *ResultSet) Schema() *storage.Schema {
	return rs.schema
}

// Next advances to the next result row.
func (rs *ResultSet) Next() bool {
	if rs.closed {
		return false
	}
	if rs.maxRows > 0 && rs.n >= rs.maxRows {
		rs.logger.Warnw("result truncated by engine.max_rows", "max_rows", rs.maxRows)
		return false
	}
	if !rs.exec.Next() {
		return false
	}
	rs.n++
	return true
}

// Row returns the row most recently read by Next.
func (rs *ResultSet) Row() storage.Row {
	return rs.exec.Current()
}

// Err returns the error that terminated the stream, if any.
func (rs *ResultSet) Err() error {
	return rs.exec.Error()
}

// Close releases the pipeline.
func (rs *ResultSet) Close() error {
	if rs.closed {
		return nil
	}
	rs.closed = true
	rs.logger.Debugw("query finished", "rows", rs.n)
	return rs.exec.Close()
}
