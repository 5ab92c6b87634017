package rootcause

import (
	"io"
	"strings"
	"testing"
)

func TestDisplayShowsOnlyRoot(t *testing.T) {
	leaf := NewUnhooked("disk read failed", DisplayHandler[string]())
	root := WrapWithContext(leaf, "could not load config", DisplayHandler[string]())

	var b strings.Builder
	if err := Display(root, &b); err != nil {
		t.Fatalf("Display: %v", err)
	}
	if got, want := b.String(), "could not load config"; got != want {
		t.Fatalf("Display output = %q, want %q", got, want)
	}
}

func TestDebugShowsChain(t *testing.T) {
	leaf := NewUnhooked("disk read failed", DisplayHandler[string]())
	root := WrapWithContext(leaf, "could not load config", DisplayHandler[string]())

	out := DebugString(root)
	if !strings.Contains(out, "could not load config") {
		t.Fatalf("Debug output missing root message:\n%s", out)
	}
	if !strings.Contains(out, "disk read failed") {
		t.Fatalf("Debug output missing child message:\n%s", out)
	}
	if !strings.Contains(out, "Caused by:") {
		t.Fatalf("Debug output missing chain heading:\n%s", out)
	}
}

func TestHiddenAttachmentOmittedFromDebug(t *testing.T) {
	r := NewUnhooked("boom", DisplayHandler[string]())
	r = AttachWithHandler(r, "secret-token", hiddenStringHandler{})

	out := DebugString(r)
	if strings.Contains(out, "secret-token") {
		t.Fatalf("hidden attachment leaked into Debug output:\n%s", out)
	}
}

type hiddenStringHandler struct{}

func (hiddenStringHandler) Display(a *string, w io.Writer) error {
	_, err := w.Write([]byte(*a))
	return err
}
func (hiddenStringHandler) Debug(a *string, w io.Writer) error {
	_, err := w.Write([]byte(*a))
	return err
}
func (hiddenStringHandler) PreferredStyle(a *string, fn FormatFunction) AttachmentFormattingStyle {
	return AttachmentFormattingStyle{Function: fn, Placement: Hidden{}}
}

func TestFootnotePlacement(t *testing.T) {
	r := NewUnhooked("boom", DisplayHandler[string]())
	r = AttachWithHandler(r, "see appendix", footnoteStringHandler{})

	out := DebugString(r)
	if !strings.Contains(out, "Notes:") {
		t.Fatalf("footnote section missing from Debug output:\n%s", out)
	}
	if !strings.Contains(out, "see appendix") {
		t.Fatalf("footnote text missing from Debug output:\n%s", out)
	}
}

type footnoteStringHandler struct{}

func (footnoteStringHandler) Display(a *string, w io.Writer) error {
	_, err := w.Write([]byte(*a))
	return err
}
func (footnoteStringHandler) Debug(a *string, w io.Writer) error {
	_, err := w.Write([]byte(*a))
	return err
}
func (footnoteStringHandler) PreferredStyle(a *string, fn FormatFunction) AttachmentFormattingStyle {
	return AttachmentFormattingStyle{Function: fn, Placement: Footnote{}}
}

func TestPreformatIsIdempotentAndSendSync(t *testing.T) {
	leaf := NewUnhooked("disk read failed", DisplayHandler[string]())
	root := WrapWithContext(leaf, "could not load config", DisplayHandler[string]())

	pre := Preformat(root)
	if got := DebugString(pre); got != DebugString(root) {
		t.Fatalf("preformatted Debug output differs:\ngot:  %q\nwant: %q", got, DebugString(root))
	}

	prePre := Preformat(pre)
	if got, want := DebugString(prePre), DebugString(pre); got != want {
		t.Fatalf("preformat is not idempotent:\ngot:  %q\nwant: %q", got, want)
	}
}
