// Package rowstream accounts for consumer demand during row streaming: it
// buffers rows decoded while a network read is in flight and decides, when
// the consumer pulls, whether another read is actually needed. The client
// never asks the server for more rows than the consumer has pulled.
package rowstream

import (
	"github.com/orawire/orawire-go/lib/driver"
)

// Action is the controller's answer to a pull request.
type Action int

const (
	// ActionWait: no network activity needed — a read is already
	// outstanding or undelivered rows are still buffered.
	ActionWait Action = iota

	// ActionIssueRead: request more rows from the server.
	ActionIssueRead
)

// New returns a controller in the demand-pending state: the statement's
// initial execute counts as the first outstanding read.
func New() *Controller {
	return &Controller{reading: true}
}

// Controller is not safe for concurrent use; like the rest of the engine
// it assumes a single caller.
type Controller struct {
	buffered []driver.DataRow
	reading  bool
}

// RecordDecodedRow appends a row decoded from the current network read.
// Rows leave the buffer in exactly this order.
func (c *Controller) RecordDecodedRow(row driver.DataRow) {
	c.buffered = append(c.buffered, row)
}

// Buffered reports how many rows await delivery.
func (c *Controller) Buffered() int {
	return len(c.buffered)
}

// OnReadComplete marks the outstanding read as finished and flushes every
// row it produced, clearing the buffer. Also used on completion paths to
// hand out whatever was still held.
func (c *Controller) OnReadComplete() []driver.DataRow {
	c.reading = false
	rows := c.buffered
	c.buffered = nil
	return rows
}

// RequestMore is called when the consumer pulls. It issues at most one
// read at a time and none while delivered-but-unread rows remain.
func (c *Controller) RequestMore() Action {
	if c.reading || len(c.buffered) > 0 {
		return ActionWait
	}
	c.reading = true
	return ActionIssueRead
}
