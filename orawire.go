// Package orawire implements the client side of the Oracle TNS/TTC
// extended-query exchange as a sans-I/O protocol engine: transitions are
// synchronous functions over in-memory state, and every effect (send
// bytes, read more, deliver rows) is emitted as an action for the
// enclosing connection loop to execute. The transport, handshake and
// session negotiation live outside this module.
package orawire

import (
	"errors"
	"fmt"

	"github.com/orawire/orawire-go/lib/proto"
)

type (
	OracleError  = proto.OracleError
	DescribeInfo = proto.DescribeInfo
	RowHeader    = proto.RowHeader
	BitVector    = proto.BitVector
)

var (
	// ErrStatementCancelled terminates a statement whose break marker was
	// acknowledged by the server.
	ErrStatementCancelled = errors.New("orawire: statement cancelled")

	// ErrStatementAbandoned terminates a statement closed before the
	// server finished answering it.
	ErrStatementAbandoned = errors.New("orawire: statement abandoned")

	// ErrMutatingState is returned when a transition observes the
	// internal placeholder state. That can only happen if a transition
	// callback re-entered the engine: an internal-consistency fault.
	ErrMutatingState = errors.New("orawire: query state observed mid-transition")
)

// UsageError reports an operation invoked from a state that does not
// permit it. It is a programmer error, not a wire-level condition.
type UsageError struct {
	Op    string
	State QueryState
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("orawire: %s is not valid in state %s", e.Op, e.State)
}
