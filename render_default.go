package rootcause

import (
	"fmt"
	"io"
	"strings"
)

// defaultReportFormatter is the package's built-in ReportFormatter (§1,
// §6), installed by globalRegistry's lazy initializer and replaceable via
// InstallReportFormatter. Its shape is grounded on the teacher's
// proseHandler: build one small struct of rendering behavior driven by
// env-var/TTY detection (NO_COLOR, ROOTCAUSE_COLORS, isTerminal), then
// drive the whole tree through it.
//
// Display shows only the root context's rendering, matching the
// conventional split (also used by the source crate) between a short
// single-line Display and a fully expanded, chain-and-attachments Debug.
type defaultReportFormatter struct{}

func (defaultReportFormatter) FormatReport(r SharedBorrow[Dynamic, RefUncloneable, Local], w io.Writer, fn FormatFunction) error {
	palette := newAnsiPalette(w)
	if fn == FormatDisplay {
		return formatCurrentContextHooked(r.cell, w, FormatDisplay)
	}
	var footnotes []string
	if err := renderDebugNode(r.cell, w, palette, 0, &footnotes); err != nil {
		return err
	}
	if len(footnotes) > 0 {
		fmt.Fprintf(w, "\n\n%s\n", palette.wrap(palette.heading, "Notes:"))
		for i, note := range footnotes {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, palette.wrap(palette.footnote, note))
		}
	}
	return nil
}

// renderDebugNode writes cell's Debug rendering: just the node's own
// Debug-formatted context for a childless, attachment-free node (so a
// freshly built report's DebugString is exactly its context's Debug form,
// with no added scaffolding), growing a "Caused by:"/indented-attachment
// tree only once there is something to hang it off of.
func renderDebugNode(cell *reportCell, w io.Writer, palette ansiPalette, depth int, footnotes *[]string) error {
	if depth > 0 {
		fmt.Fprintf(w, "%s%d: ", strings.Repeat("  ", depth), depth)
	}
	if err := formatCurrentContextHooked(cell, w, FormatDebug); err != nil {
		return err
	}

	indent := strings.Repeat("  ", depth)
	for _, att := range cell.attachments {
		style := preferredAttachmentStyleHooked(att, FormatDebug)
		switch placement := style.Placement.(type) {
		case Hidden:
			continue
		case Footnote:
			var buf strings.Builder
			if err := formatAttachmentHooked(att, &buf, FormatDebug); err != nil {
				return err
			}
			*footnotes = append(*footnotes, buf.String())
		case InlineWithHeader:
			var buf strings.Builder
			if err := formatAttachmentHooked(att, &buf, FormatDebug); err != nil {
				return err
			}
			fmt.Fprint(w, "\n")
			header := placement.Header
			rendered := buf.String()
			if header != "" {
				fmt.Fprintf(w, "%s    %s %s", indent, palette.wrap(palette.location, header), rendered)
			} else {
				fmt.Fprintf(w, "%s    %s", indent, palette.wrap(palette.location, rendered))
			}
		}
	}

	if len(cell.children) > 0 {
		if depth == 0 {
			fmt.Fprintf(w, "\n\n%s\n", palette.wrap(palette.heading, "Caused by:"))
		} else {
			fmt.Fprint(w, "\n")
		}
		for i, child := range cell.children {
			if i > 0 {
				fmt.Fprint(w, "\n")
			}
			if err := renderDebugNode(child, w, palette, depth+1, footnotes); err != nil {
				return err
			}
		}
	}
	return nil
}
