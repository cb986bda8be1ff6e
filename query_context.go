package orawire

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/orawire/orawire-go/lib/column"
)

// StatementKind is the SQL text kind as it affects the exchange.
type StatementKind int

const (
	StatementQuery StatementKind = iota
	StatementDML
	StatementDDL
	StatementPLSQL
)

func (k StatementKind) String() string {
	switch k {
	case StatementQuery:
		return "query"
	case StatementDML:
		return "dml"
	case StatementDDL:
		return "ddl"
	case StatementPLSQL:
		return "plsql"
	}
	return "unknown"
}

// ResultHandle is delivered to the consumer exactly once per statement,
// when the first row header arrives. It carries the result set's shape.
type ResultHandle struct {
	ID      uuid.UUID
	Columns []column.Descriptor
}

// QueryContext holds a statement's immutable execution parameters. The
// engine owns it for the statement's lifetime and hands it back to the
// caller through the deliver-handle action.
type QueryContext struct {
	ID   uuid.UUID
	Kind StatementKind
	SQL  string

	// Handle is the promise for the initial result handle. The engine
	// never sends on it; the caller resolves it while executing the
	// deliver-handle action. Must be buffered.
	Handle chan<- *ResultHandle
}

// NewQueryContext assigns the statement a fresh identity.
func NewQueryContext(kind StatementKind, sql string, handle chan<- *ResultHandle) *QueryContext {
	return &QueryContext{
		ID:     uuid.New(),
		Kind:   kind,
		SQL:    sql,
		Handle: handle,
	}
}

func prepareQueryLogger(logger *slog.Logger, ctx *QueryContext) *slog.Logger {
	return logger.With(
		slog.String("statement_id", ctx.ID.String()),
		slog.String("kind", ctx.Kind.String()),
	)
}
