package rootcause

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func borrowDisplayString(cell *reportCell) string {
	var b strings.Builder
	_ = formatCurrentContextHooked(cell, &b, FormatDisplay)
	return b.String()
}

func TestNewAndDisplay(t *testing.T) {
	r := NewUnhooked("file missing", DisplayHandler[string]())
	if got, want := String(r), "file missing"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if got, want := DebugString(r), `"file missing"`; got != want {
		t.Fatalf("DebugString() = %q, want %q", got, want)
	}
}

func TestStrongCountAndClone(t *testing.T) {
	m := NewUnhooked("boom", DisplayHandler[string]())
	if got := StrongCount(m); got != 1 {
		t.Fatalf("StrongCount(mutable) = %d, want 1", got)
	}

	c := IntoCloneable(m)
	if got := StrongCount(c); got != 1 {
		t.Fatalf("StrongCount(cloneable) = %d, want 1", got)
	}

	c2 := Clone(c)
	if got := StrongCount(c); got != 2 {
		t.Fatalf("StrongCount after clone = %d, want 2", got)
	}

	if _, ok := TryIntoMutable(c); ok {
		t.Fatal("TryIntoMutable should fail with refcount 2")
	}

	c2.Release()
	if got := StrongCount(c); got != 1 {
		t.Fatalf("StrongCount after release = %d, want 1", got)
	}

	if _, ok := TryIntoMutable(c); !ok {
		t.Fatal("TryIntoMutable should succeed with refcount 1")
	}
}

func TestDowncast(t *testing.T) {
	r := NewUnhooked(42, DisplayHandler[int]()).IntoDynamic()

	if _, ok := Downcast[string](r); ok {
		t.Fatal("Downcast to wrong type should fail")
	}

	typed, ok := Downcast[int](r)
	if !ok {
		t.Fatal("Downcast to correct type should succeed")
	}
	if got := *CurrentContext(typed); got != 42 {
		t.Fatalf("CurrentContext = %d, want 42", got)
	}
}

func TestWrapWithContextAndChildren(t *testing.T) {
	inner := NewUnhooked("disk read failed", DisplayHandler[string]())
	outer := WrapWithContext(inner, "could not load config", DisplayHandler[string]())

	children := Children(outer)
	if got := children.Len(); got != 1 {
		t.Fatalf("len(children) = %d, want 1", got)
	}
	child, ok := children.Get(0)
	if !ok {
		t.Fatal("Get(0) should succeed")
	}
	if got, want := String(child), "disk read failed"; got != want {
		t.Fatalf("child String() = %q, want %q", got, want)
	}
}

func TestAttachAndAttachments(t *testing.T) {
	r := NewUnhooked("file missing", DisplayHandler[string]())
	r = AttachString(r, "path=/etc/x")

	atts := Attachments(r)
	if got := atts.Len(); got != 1 {
		t.Fatalf("len(attachments) = %d, want 1", got)
	}
	a, ok := atts.Get(0)
	if !ok {
		t.Fatal("Get(0) should succeed")
	}
	if got := a.PreferredStyle(FormatDisplay); got.Function != FormatDisplay {
		t.Fatalf("unexpected style: %+v", got)
	}
	s, ok := DowncastAttachment[string](a)
	if !ok {
		t.Fatal("DowncastAttachment[string] should succeed")
	}
	if got, want := *s, "path=/etc/x"; got != want {
		t.Fatalf("attachment value = %q, want %q", got, want)
	}
}

type wrappedErr struct {
	inner error
}

func (w wrappedErr) Error() string { return "wrapped: " + w.inner.Error() }
func (w wrappedErr) Unwrap() error { return w.inner }

func TestDefaultHandlerSource(t *testing.T) {
	base := errors.New("base failure")
	r := NewUnhooked(wrappedErr{inner: base}, DisplayHandler[wrappedErr]())

	src, ok := currentContextErrorSource(r.cell)
	if !ok {
		t.Fatal("expected a source error")
	}
	if !errors.Is(src, base) {
		t.Fatalf("source = %v, want %v", src, base)
	}
}

func TestIterReportsPreOrder(t *testing.T) {
	leaf := NewUnhooked("leaf", DisplayHandler[string]())
	root := WrapWithContext(leaf, "root", DisplayHandler[string]())

	var seen []string
	for b := range IterReports(root) {
		seen = append(seen, borrowDisplayString(b.cell))
	}
	want := []string{"root", "leaf"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("pre-order traversal mismatch (-want +got):\n%s", diff)
	}
}

func TestIterSubReportsExcludesSelf(t *testing.T) {
	leaf := NewUnhooked("leaf", DisplayHandler[string]())
	root := WrapWithContext(leaf, "root", DisplayHandler[string]())

	count := 0
	for range IterSubReports(root) {
		count++
	}
	if count != 1 {
		t.Fatalf("IterSubReports count = %d, want 1", count)
	}
}

func TestIntoPartsFromParts(t *testing.T) {
	leaf := NewUnhooked("leaf", DisplayHandler[string]())
	root := WrapWithContext(leaf, "root", DisplayHandler[string]())
	root = AttachString(root, "key=value")

	parts := IntoParts(root)
	if got, want := parts.Context, "root"; got != want {
		t.Fatalf("parts.Context = %q, want %q", got, want)
	}
	if got := parts.Children.Len(); got != 1 {
		t.Fatalf("parts.Children.Len() = %d, want 1", got)
	}
	if got := parts.Attachments.Len(); got != 1 {
		t.Fatalf("parts.Attachments.Len() = %d, want 1", got)
	}

	rebuilt := FromPartsUnhooked(parts, DisplayHandler[string]())
	if got, want := String(rebuilt), "root"; got != want {
		t.Fatalf("rebuilt String() = %q, want %q", got, want)
	}
}

func TestIntoCurrentContext(t *testing.T) {
	r := NewUnhooked("leaf", DisplayHandler[string]())
	val, ok := IntoCurrentContext(r)
	if !ok {
		t.Fatal("IntoCurrentContext should succeed on a unique handle")
	}
	if got, want := val, "leaf"; got != want {
		t.Fatalf("IntoCurrentContext value = %q, want %q", got, want)
	}
}
