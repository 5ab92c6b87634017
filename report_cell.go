package rootcause

import "sync/atomic"

// reportCell is the refcounted, type-erased storage behind every Report
// handle (§4.C). It plays the role the teacher's statePool-managed state
// plays for a log record: one allocation, shared by pointer, whose
// lifetime is governed by an explicit counter rather than by Go's own
// garbage collector alone — the counter is what lets strongCount(),
// try_into_mutable's uniqueness check, and the drop-triggered recursive
// release all behave the way the spec requires, regardless of whatever
// the GC decides to do with the backing memory later.
type reportCell struct {
	refcount atomic.Int64

	vtable  *vtableEntry
	context any // always a *C for the report's current concrete context type C

	children    []*reportCell
	attachments []*attachmentCell
}

func newReportCell[C any](ctx C, handler ContextHandler[C]) *reportCell {
	c := ctx
	cell := &reportCell{
		vtable:  getContextVtable[C](handler),
		context: &c,
	}
	cell.refcount.Store(1)
	return cell
}

// clone increments the refcount and returns the same cell, the
// type-erased counterpart of a Rust Arc::clone.
func (c *reportCell) clone() *reportCell {
	c.refcount.Add(1)
	return c
}

// release decrements the refcount and, on reaching zero, recursively
// releases every child and discards the attachments and context — the
// type-erased counterpart of Rust's Drop for the report cell (§3
// invariant 4).
func (c *reportCell) release() {
	n := c.refcount.Add(-1)
	if n < 0 {
		preconditionViolation("Release called on a report whose refcount was already 0")
	}
	if n != 0 {
		return
	}
	for _, child := range c.children {
		child.release()
	}
	c.children = nil
	c.attachments = nil
	c.context = nil
}

func (c *reportCell) strongCount() int64 { return c.refcount.Load() }
