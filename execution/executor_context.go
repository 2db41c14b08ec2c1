package execution

import (
	"go.uber.org/zap"

	"github.com/steindb/stein/catalog"
)

// ExecutorContext holds the state and resources required for one query
// execution. It is passed to every Executor at Init.
type ExecutorContext struct {
	catalog *catalog.Catalog
	logger  *zap.SugaredLogger
}

func NewExecutorContext(cat *catalog.Catalog, logger *zap.SugaredLogger) *ExecutorContext {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ExecutorContext{
		catalog: cat,
		logger:  logger,
	}
}

// Catalog returns the table registry scans resolve against.
func (ctx *ExecutorContext) Catalog() *catalog.Catalog {
	return ctx.catalog
}

// Logger returns the execution logger.
func (ctx *ExecutorContext) Logger() *zap.SugaredLogger {
	return ctx.logger
}
