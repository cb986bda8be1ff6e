package orawire

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/orawire/orawire-go/lib/binary"
	"github.com/orawire/orawire-go/lib/column"
	"github.com/orawire/orawire-go/lib/driver"
	"github.com/orawire/orawire-go/lib/proto"
	"github.com/orawire/orawire-go/lib/rowstream"
)

// QueryState identifies where in the extended-query exchange a statement
// currently is.
type QueryState int

const (
	QueryStateInitialized QueryState = iota
	QueryStateDescribeReceived
	QueryStateStreaming
	QueryStateCancelRequested
	QueryStateCompleted
	QueryStateFailed

	// queryStateMutating is held only while a transition is being applied.
	// No caller may ever observe it.
	queryStateMutating
)

func (s QueryState) String() string {
	switch s {
	case QueryStateInitialized:
		return "initialized"
	case QueryStateDescribeReceived:
		return "describe-received"
	case QueryStateStreaming:
		return "streaming"
	case QueryStateCancelRequested:
		return "cancel-requested"
	case QueryStateCompleted:
		return "completed"
	case QueryStateFailed:
		return "failed"
	case queryStateMutating:
		return "mutating"
	}
	return "invalid"
}

func (s QueryState) terminal() bool {
	return s == QueryStateCompleted || s == QueryStateFailed
}

// ActionKind enumerates the effects the engine asks its caller to perform.
// The engine never performs I/O itself; actions must be executed in the
// order they are emitted.
type ActionKind int

const (
	// ActionWait: nothing to do until more inbound bytes arrive.
	ActionWait ActionKind = iota

	// ActionSendExecute: write the execute request to the transport.
	ActionSendExecute

	// ActionDeliverHandle: resolve the statement's result-handle promise.
	// Emitted exactly once per statement.
	ActionDeliverHandle

	// ActionResume: the row-data buffer may hold further rows; re-invoke
	// RowDataReceived with Remaining (which may be empty).
	ActionResume

	// ActionFetchMore: write the fetch request, then read the response.
	ActionFetchMore

	// ActionDeliverRows: hand the batch to the consumer, in order.
	ActionDeliverRows

	// ActionDeliverComplete: the statement finished; deliver the final
	// batch (possibly empty) and resolve the row stream successfully.
	ActionDeliverComplete

	// ActionDeliverError: fail the consumer's row stream. CursorID, when
	// nonzero, names a server-side cursor the caller should close later.
	ActionDeliverError

	// ActionSendCancel: write the break marker to the transport.
	ActionSendCancel
)

// Action is one emitted effect. Only the fields relevant to Kind are set.
type Action struct {
	Kind      ActionKind
	Execute   *proto.ExecuteRequest
	Fetch     *proto.FetchRequest
	Marker    []byte
	Context   *QueryContext
	Handle    *ResultHandle
	Remaining []byte
	Rows      []driver.DataRow
	Err       error
	CursorID  int
}

var actionWait = Action{Kind: ActionWait}

// Query drives one statement through the execute/describe/fetch/error
// lifecycle. It is single-threaded-cooperative: at most one inbound
// message is processed at a time and transitions never block.
type Query struct {
	ctx    *QueryContext
	opt    Options
	logger *slog.Logger
	span   trace.Span

	state     QueryState
	desc      []column.Descriptor
	bitVector proto.BitVector
	ctrl      *rowstream.Controller
	prevRow   [][]byte
	cursorID  uint32
	err       error
	closed    bool
}

// NewQuery builds an engine for one statement. The context is used only
// for trace propagation; the engine performs no I/O.
func NewQuery(ctx context.Context, qctx *QueryContext, opt Options) (*Query, error) {
	opt.setDefaults()
	if err := opt.validate(); err != nil {
		return nil, err
	}
	_, span := startSpan(ctx, "orawire.query",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(spanAttributes(qctx.SQL)...))
	return &Query{
		ctx:    qctx,
		opt:    opt,
		logger: prepareQueryLogger(opt.logger(), qctx),
		span:   span,
		state:  QueryStateInitialized,
	}, nil
}

// State reports the current lifecycle state.
func (q *Query) State() QueryState {
	return q.state
}

// IsComplete reports whether the statement reached a terminal state.
func (q *Query) IsComplete() bool {
	return q.state.terminal()
}

// Err returns the terminal error, if any.
func (q *Query) Err() error {
	return q.err
}

// Close releases the statement's trace span. Terminal transitions release
// it themselves; Close covers statements abandoned mid-exchange, failing
// them so no further transitions are accepted. Closing a finished or
// already-closed statement is a no-op.
func (q *Query) Close() error {
	if q.closed {
		return nil
	}
	q.closed = true
	if !q.state.terminal() {
		q.finish(ErrStatementAbandoned)
		q.state = QueryStateFailed
	}
	return nil
}

// transition applies f under the take-ownership/put-back discipline: the
// state is swapped into the placeholder while the next state is computed,
// so re-entrant calls surface as ErrMutatingState instead of corrupting
// the exchange.
func (q *Query) transition(f func(st QueryState) (QueryState, Action, error)) (Action, error) {
	if q.state == queryStateMutating {
		return actionWait, ErrMutatingState
	}
	st := q.state
	q.state = queryStateMutating
	next, action, err := f(st)
	q.state = next
	return action, err
}

// Start emits the execute request. Valid only in the initialized state;
// the state does not change until the server answers.
func (q *Query) Start() (Action, error) {
	return q.transition(func(st QueryState) (QueryState, Action, error) {
		if st != QueryStateInitialized {
			return st, actionWait, &UsageError{Op: "Start", State: st}
		}
		options := uint32(proto.ExecOptionParse | proto.ExecOptionExecute)
		if q.ctx.Kind == StatementQuery {
			options |= proto.ExecOptionDescribe | proto.ExecOptionFetch
		}
		q.logger.Debug("executing statement", slog.String("sql", q.ctx.SQL))
		return st, Action{
			Kind: ActionSendExecute,
			Execute: &proto.ExecuteRequest{
				CursorID:  q.cursorID,
				SQL:       q.ctx.SQL,
				Options:   options,
				FetchSize: q.opt.FetchSize,
			},
		}, nil
	})
}

// DescribeInfoReceived installs the result set's shape. More wire data is
// expected before rows can flow, so the only emitted action is to wait.
func (q *Query) DescribeInfoReceived(info *proto.DescribeInfo) (Action, error) {
	return q.transition(func(st QueryState) (QueryState, Action, error) {
		if st != QueryStateInitialized {
			return st, actionWait, &UsageError{Op: "DescribeInfoReceived", State: st}
		}
		q.desc = info.Columns
		q.logger.Debug("describe info received", slog.Int("columns", len(info.Columns)))
		return QueryStateDescribeReceived, actionWait, nil
	})
}

// RowHeaderReceived begins streaming. The consumer learns the shape of
// the result set here, exactly once.
func (q *Query) RowHeaderReceived(header *proto.RowHeader) (Action, error) {
	return q.transition(func(st QueryState) (QueryState, Action, error) {
		if st != QueryStateDescribeReceived {
			return st, actionWait, &UsageError{Op: "RowHeaderReceived", State: st}
		}
		q.bitVector = header.BitVector
		q.ctrl = rowstream.New()
		handle := &ResultHandle{ID: q.ctx.ID, Columns: q.desc}
		return QueryStateStreaming, Action{
			Kind:    ActionDeliverHandle,
			Context: q.ctx,
			Handle:  handle,
		}, nil
	})
}

// BitVectorReceived replaces the duplicate-column bitmap for the rows that
// follow.
func (q *Query) BitVectorReceived(bv proto.BitVector) (Action, error) {
	return q.transition(func(st QueryState) (QueryState, Action, error) {
		if st != QueryStateStreaming && st != QueryStateCancelRequested {
			return st, actionWait, &UsageError{Op: "BitVectorReceived", State: st}
		}
		q.bitVector = bv
		return st, actionWait, nil
	})
}

// RowDataReceived decodes one row from buf. A row-data message may carry
// more than one row's bytes: the emitted resume action holds whatever was
// not consumed, and the caller re-invokes with it. If the buffer ends
// mid-row the engine waits, leaving the bytes with the caller.
func (q *Query) RowDataReceived(buf []byte) (Action, error) {
	return q.transition(func(st QueryState) (QueryState, Action, error) {
		if st != QueryStateStreaming && st != QueryStateCancelRequested {
			return st, actionWait, &UsageError{Op: "RowDataReceived", State: st}
		}
		dec := binary.NewDecoder(buf)
		row, cols, err := q.decodeRow(dec)
		switch {
		case err == nil:
		case isInsufficient(err):
			return st, actionWait, nil
		default:
			// Corrupt stream. The exchange is unusable; fail loudly and
			// let nothing else read from it.
			q.finish(err)
			return QueryStateFailed, actionWait, err
		}
		q.prevRow = cols
		if st == QueryStateStreaming {
			q.ctrl.RecordDecodedRow(row)
		}
		return st, Action{Kind: ActionResume, Remaining: buf[dec.Pos():]}, nil
	})
}

// ReadCompleted marks the current network read as finished and flushes the
// rows it produced to the consumer.
func (q *Query) ReadCompleted() (Action, error) {
	return q.transition(func(st QueryState) (QueryState, Action, error) {
		switch st {
		case QueryStateStreaming:
			rows := q.ctrl.OnReadComplete()
			if len(rows) == 0 {
				return st, actionWait, nil
			}
			return st, Action{Kind: ActionDeliverRows, Context: q.ctx, Rows: rows}, nil
		case QueryStateCancelRequested:
			// Cancellation suppresses delivery; drop whatever was decoded.
			if q.ctrl != nil {
				q.ctrl.OnReadComplete()
			}
			return st, actionWait, nil
		}
		return st, actionWait, &UsageError{Op: "ReadCompleted", State: st}
	})
}

// RequestMoreRows is the consumer's pull. Backpressure lives in the
// streaming controller: a fetch goes out only when no read is outstanding
// and nothing is buffered.
func (q *Query) RequestMoreRows() (Action, error) {
	return q.transition(func(st QueryState) (QueryState, Action, error) {
		switch st {
		case QueryStateStreaming:
		case QueryStateCancelRequested:
			return st, actionWait, nil
		default:
			return st, actionWait, &UsageError{Op: "RequestMoreRows", State: st}
		}
		if q.ctrl.RequestMore() != rowstream.ActionIssueRead {
			return st, actionWait, nil
		}
		return st, Action{
			Kind: ActionFetchMore,
			Fetch: &proto.FetchRequest{
				CursorID:  q.cursorID,
				FetchSize: q.opt.FetchSize,
			},
		}, nil
	})
}

// ErrorReceived classifies a server error and terminates the statement
// accordingly. Valid from any non-terminal state.
func (q *Query) ErrorReceived(serverErr *proto.OracleError) (Action, error) {
	return q.transition(func(st QueryState) (QueryState, Action, error) {
		if st.terminal() {
			return st, actionWait, &UsageError{Op: "ErrorReceived", State: st}
		}
		if serverErr.CursorID != 0 {
			q.cursorID = uint32(serverErr.CursorID)
		}

		if st == QueryStateCancelRequested {
			// Whatever the server reports after a break acknowledges the
			// cancellation; the break already ended the call server-side.
			q.logger.Debug("cancel acknowledged", slog.Int("code", serverErr.Code))
			q.finish(ErrStatementCancelled)
			return QueryStateFailed, Action{
				Kind:    ActionDeliverError,
				Context: q.ctx,
				Err:     ErrStatementCancelled,
			}, nil
		}

		switch proto.Classify(serverErr.Code) {
		case proto.DispositionIgnorable:
			var rows []driver.DataRow
			if q.ctrl != nil {
				rows = q.ctrl.OnReadComplete()
			}
			q.logger.Debug("statement complete",
				slog.Int("code", serverErr.Code),
				slog.Int("rows", len(rows)))
			q.finish(nil)
			return QueryStateCompleted, Action{
				Kind:    ActionDeliverComplete,
				Context: q.ctx,
				Rows:    rows,
			}, nil

		case proto.DispositionCursorFatal:
			q.finish(serverErr)
			return QueryStateFailed, Action{
				Kind:     ActionDeliverError,
				Context:  q.ctx,
				Err:      serverErr,
				CursorID: serverErr.CursorID,
			}, nil
		}

		cursorID := 0
		if serverErr.CursorID != 0 && serverErr.Code != 0 &&
			proto.ExceptionCategory(serverErr.Code) != proto.CategoryIntegrity {
			cursorID = serverErr.CursorID
		}
		q.finish(serverErr)
		return QueryStateFailed, Action{
			Kind:     ActionDeliverError,
			Context:  q.ctx,
			Err:      serverErr,
			CursorID: cursorID,
		}, nil
	})
}

// Cancel interrupts an in-flight statement with a break marker. The wire
// abort is best-effort: delivery is suppressed immediately, and the next
// server message acknowledges the break. Repeated or post-terminal
// cancels are no-ops; cancelling before Start is a usage fault.
func (q *Query) Cancel() (Action, error) {
	return q.transition(func(st QueryState) (QueryState, Action, error) {
		switch st {
		case QueryStateInitialized:
			return st, actionWait, &UsageError{Op: "Cancel", State: st}
		case QueryStateCancelRequested, QueryStateCompleted, QueryStateFailed:
			return st, actionWait, nil
		}
		q.logger.Debug("cancelling statement")
		return QueryStateCancelRequested, Action{
			Kind:   ActionSendCancel,
			Marker: proto.BreakMarker(),
		}, nil
	})
}

func (q *Query) finish(err error) {
	q.err = err
	recordError(q.span, err)
	q.span.End()
}
