package rootcause

import (
	"fmt"
	"io"
	"runtime"
)

// Location is the call-site attachment the default creation hook installs
// on every report (§1): the file, line, and function active when the
// report was created. Grounded on the teacher's Handle method, which
// resolves a single PC into a *runtime.Frame via runtime.CallersFrames
// for its WriteSource hook; here the same resolution happens once at
// report-creation time instead of once per formatted record.
type Location struct {
	File     string
	Line     int
	Function string
}

func (l Location) String() string {
	if l.Function != "" {
		return fmt.Sprintf("%s:%d (%s)", l.File, l.Line, l.Function)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

type locationHandler struct{}

func (locationHandler) Display(l *Location, w io.Writer) error {
	_, err := io.WriteString(w, l.String())
	return err
}

func (locationHandler) Debug(l *Location, w io.Writer) error {
	_, err := fmt.Fprintf(w, "%+v", *l)
	return err
}

func (locationHandler) PreferredStyle(l *Location, fn FormatFunction) AttachmentFormattingStyle {
	return AttachmentFormattingStyle{Function: fn, Placement: InlineWithHeader{Header: "at"}}
}

// defaultLocationHook is the package's built-in CreationHook, installed
// into both hook tables by globalRegistry's lazy initializer. It walks
// the call stack past this package's own frames to find the caller's
// site.
type defaultLocationHook struct{}

func (defaultLocationHook) OnLocalCreation(r MutBorrow[Dynamic, Local]) {
	if loc, ok := captureLocation(); ok {
		r.AttachmentsMut().push(newAttachmentCell(loc, locationHandler{}))
	}
}

func (defaultLocationHook) OnSendSyncCreation(r MutBorrow[Dynamic, SendSync]) {
	if loc, ok := captureLocation(); ok {
		r.AttachmentsMut().push(newAttachmentCell(loc, locationHandler{}))
	}
}

func captureLocation() (Location, bool) {
	var pcs [16]uintptr
	n := runtime.Callers(2, pcs[:])
	if n == 0 {
		return Location{}, false
	}
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !isInternalFrame(frame.Function) {
			return Location{File: frame.File, Line: frame.Line, Function: frame.Function}, true
		}
		if !more {
			break
		}
	}
	return Location{}, false
}

func isInternalFrame(function string) bool {
	const prefix = "github.com/rootcause-go/rootcause."
	return len(function) >= len(prefix) && function[:len(prefix)] == prefix
}
