package rootcause

// FormatFunction records which of the two standard renderings a handler
// is being asked to produce. Handlers key their PreferredStyle answer off
// of it because a context or attachment often wants different layout
// advice for its Display form than for its Debug form.
type FormatFunction int

const (
	FormatDisplay FormatFunction = iota
	FormatDebug
)

func (f FormatFunction) String() string {
	switch f {
	case FormatDisplay:
		return "display"
	case FormatDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ContextFormattingStyle is the layout advice a context handler returns
// from PreferredStyle (§6). The default report formatter (render_default.go)
// does not read it: every context is rendered the same way whatever its
// style says, and Collapsed takes effect only under a ReportFormatter that
// checks it.
type ContextFormattingStyle struct {
	// Function is the rendering the style applies to.
	Function FormatFunction
	// Collapsed asks the renderer to print this context on a single line
	// even when it has children, instead of the usual indented block.
	Collapsed bool
}

// AttachmentFormattingPlacement controls where in the rendered tree an
// attachment's text appears (§6, §9). Hidden and InlineWithHeader are the
// two variants the spec names explicitly; Footnote is this
// implementation's resolution of the Open Question about renderer-defined
// placements (see DESIGN.md).
type AttachmentFormattingPlacement interface {
	isAttachmentFormattingPlacement()
}

// Hidden suppresses the attachment from the default rendering entirely.
// It is still reachable through Attachments(); it just isn't printed.
type Hidden struct{}

func (Hidden) isAttachmentFormattingPlacement() {}

// InlineWithHeader prints the attachment's text directly under the
// owning report, introduced by Header.
type InlineWithHeader struct {
	Header string
}

func (InlineWithHeader) isAttachmentFormattingPlacement() {}

// Footnote defers the attachment's text to a numbered list printed after
// the whole tree body; nothing is printed at the attachment's point of
// origin.
type Footnote struct{}

func (Footnote) isAttachmentFormattingPlacement() {}

// AttachmentFormattingStyle is the layout advice an attachment handler
// returns from PreferredStyle (§6).
type AttachmentFormattingStyle struct {
	Function  FormatFunction
	Placement AttachmentFormattingPlacement
}
