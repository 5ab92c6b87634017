package rootcause

import (
	"io"
	"strings"
)

// formatCurrentContextHooked renders cell's own context value, consulting
// any InstallContextOverride registered for its concrete type before
// falling back to the handler the cell was built with (§4.F, §4.G). This
// is the hooked path; formatCurrentContextRaw below is the unhooked one.
func formatCurrentContextHooked(cell *reportCell, w io.Writer, fn FormatFunction) error {
	if o, ok := lookupContextOverride(cell.vtable.typeID); ok {
		if fn == FormatDebug {
			return o.debug(cell.context, w)
		}
		return o.display(cell.context, w)
	}
	return formatCurrentContextRaw(cell, w, fn)
}

// formatCurrentContextRaw renders cell's context using only the handler
// installed at construction time, ignoring any registry override.
func formatCurrentContextRaw(cell *reportCell, w io.Writer, fn FormatFunction) error {
	if fn == FormatDebug {
		return cell.vtable.debug(cell.context, w)
	}
	return cell.vtable.display(cell.context, w)
}

// preferredContextStyleHooked returns the layout advice for cell's
// context, preferring a registry override over the construction-time
// handler.
func preferredContextStyleHooked(cell *reportCell, fn FormatFunction) ContextFormattingStyle {
	if o, ok := lookupContextOverride(cell.vtable.typeID); ok {
		return o.preferredStyle(cell.context, fn)
	}
	return cell.vtable.preferredStyle(cell.context, fn).(ContextFormattingStyle)
}

func formatAttachmentHooked(att *attachmentCell, w io.Writer, fn FormatFunction) error {
	if o, ok := lookupAttachmentOverride(att.vtable.typeID); ok {
		if fn == FormatDebug {
			return o.debug(att.value, w)
		}
		return o.display(att.value, w)
	}
	if fn == FormatDebug {
		return att.debugFmt(w)
	}
	return att.display(w)
}

func preferredAttachmentStyleHooked(att *attachmentCell, fn FormatFunction) AttachmentFormattingStyle {
	if o, ok := lookupAttachmentOverride(att.vtable.typeID); ok {
		return o.preferredStyle(att.value, fn)
	}
	return att.preferredStyle(fn)
}

// currentContextErrorSource walks one step of the error-source chain for
// cell's context, via its handler's Source function. It does not recurse
// into children: the core only supplies the indirection one cell at a
// time, matching the Open Question decision recorded in DESIGN.md.
func currentContextErrorSource(cell *reportCell) (error, bool) {
	if cell.vtable.source == nil {
		return nil, false
	}
	return cell.vtable.source(cell.context)
}

// writeFormatted runs write against w and wraps any writer failure in
// *WriteError, matching the teacher's own "err = h.out.Write(...)"
// passthrough in handler.Handle.
func writeFormatted(w io.Writer, write func(io.Writer) error) error {
	if err := write(w); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

// Display writes r's hooked Display rendering to w, using the installed
// ReportFormatter (render_default.go's defaultReportFormatter unless
// InstallReportFormatter replaced it).
func Display[C any, O Ownership, T ThreadSafety](r Report[C, O, T], w io.Writer) error {
	return formatReport(r, w, FormatDisplay)
}

// Debug writes r's hooked Debug rendering to w.
func Debug[C any, O Ownership, T ThreadSafety](r Report[C, O, T], w io.Writer) error {
	return formatReport(r, w, FormatDebug)
}

func formatReport[C any, O Ownership, T ThreadSafety](r Report[C, O, T], w io.Writer, fn FormatFunction) error {
	borrow := SharedBorrow[Dynamic, RefUncloneable, Local]{cell: r.cell}
	return writeFormatted(w, func(w io.Writer) error {
		return currentReportFormatter().FormatReport(borrow, w, fn)
	})
}

// String renders r's hooked Display form into a string, swallowing the
// impossible case of a strings.Builder write failing.
func String[C any, O Ownership, T ThreadSafety](r Report[C, O, T]) string {
	return formatToString(r, FormatDisplay)
}

// DebugString renders r's hooked Debug form into a string.
func DebugString[C any, O Ownership, T ThreadSafety](r Report[C, O, T]) string {
	return formatToString(r, FormatDebug)
}

func formatToString[C any, O Ownership, T ThreadSafety](r Report[C, O, T], fn FormatFunction) string {
	var b strings.Builder
	_ = formatReport(r, &b, fn)
	return b.String()
}
