package rootcause

import (
	"io"
	"strings"
)

// preformattedContext is the frozen stand-in context type Preformat
// installs at every cell it visits: the handler's Display/Debug output
// captured as plain strings, plus the layout advice captured as plain
// values, so that formatting a preformatted tree again calls none of the
// original handlers, only preformattedContextHandler, which writes the
// stored strings back out (§4.H). Grounded on the teacher's buffer.Clone, which
// snapshots a handler's in-progress output into an independently owned
// copy; here the snapshot is taken one level higher, of the handler's
// *result* rather than of an in-progress byte buffer, because a report
// cell's content is a tree of independently-formatted values rather than
// one append-only stream.
type preformattedContext struct {
	display        string
	debug          string
	displayStyle   ContextFormattingStyle
	debugStyle     ContextFormattingStyle
	originalTypeID string
}

type preformattedContextHandler struct{}

func (preformattedContextHandler) Display(c *preformattedContext, w io.Writer) error {
	_, err := w.Write([]byte(c.display))
	return err
}

func (preformattedContextHandler) Debug(c *preformattedContext, w io.Writer) error {
	_, err := w.Write([]byte(c.debug))
	return err
}

func (preformattedContextHandler) Source(c *preformattedContext) (error, bool) { return nil, false }

func (preformattedContextHandler) PreferredStyle(c *preformattedContext, fn FormatFunction) ContextFormattingStyle {
	if fn == FormatDebug {
		return c.debugStyle
	}
	return c.displayStyle
}

type preformattedAttachment struct {
	display        string
	debug          string
	displayStyle   AttachmentFormattingStyle
	debugStyle     AttachmentFormattingStyle
	originalTypeID string
}

type preformattedAttachmentHandler struct{}

func (preformattedAttachmentHandler) Display(a *preformattedAttachment, w io.Writer) error {
	_, err := w.Write([]byte(a.display))
	return err
}

func (preformattedAttachmentHandler) Debug(a *preformattedAttachment, w io.Writer) error {
	_, err := w.Write([]byte(a.debug))
	return err
}

func (preformattedAttachmentHandler) PreferredStyle(a *preformattedAttachment, fn FormatFunction) AttachmentFormattingStyle {
	if fn == FormatDebug {
		return a.debugStyle
	}
	return a.displayStyle
}

// Preformat recursively snapshots r and every descendant into owned,
// string-shaped cells (§4.H): every context and attachment value is
// rendered once, through the hooked path, and replaced by the rendered
// strings plus the layout advice that went with them. The result always
// has Mutable ownership (it is a freshly allocated tree no one else holds
// a handle to) and SendSync thread-safety (plain strings and enum values
// are always safe to share), which is the one sanctioned way to cross
// from Local to SendSync (see markers.go).
func Preformat[C any, O Ownership, T ThreadSafety](r Report[C, O, T]) Report[preformattedContext, Mutable, SendSync] {
	cell := preformatCell(r.cell)
	return Report[preformattedContext, Mutable, SendSync]{cell: cell}
}

func preformatCell(cell *reportCell) *reportCell {
	var displayBuf, debugBuf strings.Builder
	_ = formatCurrentContextHooked(cell, &displayBuf, FormatDisplay)
	_ = formatCurrentContextHooked(cell, &debugBuf, FormatDebug)

	pc := preformattedContext{
		display:        displayBuf.String(),
		debug:          debugBuf.String(),
		displayStyle:   preferredContextStyleHooked(cell, FormatDisplay),
		debugStyle:     preferredContextStyleHooked(cell, FormatDebug),
		originalTypeID: cell.vtable.typeName,
	}

	out := newReportCell(pc, preformattedContextHandler{})

	for _, att := range cell.attachments {
		var dbuf, gbuf strings.Builder
		_ = formatAttachmentHooked(att, &dbuf, FormatDisplay)
		_ = formatAttachmentHooked(att, &gbuf, FormatDebug)
		pa := preformattedAttachment{
			display:        dbuf.String(),
			debug:          gbuf.String(),
			displayStyle:   preferredAttachmentStyleHooked(att, FormatDisplay),
			debugStyle:     preferredAttachmentStyleHooked(att, FormatDebug),
			originalTypeID: att.vtable.typeName,
		}
		out.attachments = append(out.attachments, newAttachmentCell(pa, preformattedAttachmentHandler{}))
	}

	for _, child := range cell.children {
		out.children = append(out.children, preformatCell(child))
	}

	return out
}
