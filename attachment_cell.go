package rootcause

import (
	"io"
	"reflect"
)

// attachmentCell is the unique-owned storage for one attachment (§4.B):
// a vtable pointer plus the erased value it describes. Unlike a report
// cell it carries no refcount — an attachment's lifetime is tied
// one-to-one to the attachment slot that holds it, mirroring a Box rather
// than an Arc.
type attachmentCell struct {
	vtable *vtableEntry
	value  any // always a *A for the attachment's concrete type A
}

func newAttachmentCell[A any](value A, handler AttachmentHandler[A]) *attachmentCell {
	v := value
	return &attachmentCell{vtable: getAttachmentVtable[A](handler), value: &v}
}

func (c *attachmentCell) display(w io.Writer) error { return c.vtable.display(c.value, w) }

func (c *attachmentCell) debugFmt(w io.Writer) error { return c.vtable.debug(c.value, w) }

func (c *attachmentCell) preferredStyle(fn FormatFunction) AttachmentFormattingStyle {
	return c.vtable.preferredStyle(c.value, fn).(AttachmentFormattingStyle)
}

func downcastAttachment[A any](c *attachmentCell) (*A, bool) {
	if c.vtable.typeID != concreteType[A]() {
		return nil, false
	}
	return c.value.(*A), true
}

// Attachment is a read-only, type-erased view onto one attachment slot,
// returned by an AttachmentCollection's iteration (§4.B, §4.E).
type Attachment struct {
	cell *attachmentCell
}

// TypeID identifies the attachment's concrete Go type. Two attachments
// with the same TypeID were not necessarily built with the same handler;
// Attachment does not expose which handler an attachment was built with.
func (a Attachment) TypeID() reflect.Type { return a.cell.vtable.typeID }

func (a Attachment) Display(w io.Writer) error { return a.cell.display(w) }

func (a Attachment) Debug(w io.Writer) error { return a.cell.debugFmt(w) }

func (a Attachment) PreferredStyle(fn FormatFunction) AttachmentFormattingStyle {
	return a.cell.preferredStyle(fn)
}

// DowncastAttachment recovers the concrete *A backing an Attachment, or
// reports false if a's concrete type isn't A.
func DowncastAttachment[A any](a Attachment) (*A, bool) {
	return downcastAttachment[A](a.cell)
}
