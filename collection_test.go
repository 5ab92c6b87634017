package rootcause

import "testing"

func TestReportCollectionPushPop(t *testing.T) {
	var c ReportCollection[Local]
	if !c.IsEmpty() {
		t.Fatal("new collection should be empty")
	}

	a := IntoCloneable(NewUnhooked("a", DisplayHandler[string]())).IntoDynamic()
	b := IntoCloneable(NewUnhooked("b", DisplayHandler[string]())).IntoDynamic()
	c.Push(a)
	c.Push(b)

	if got := c.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	popped, ok := c.Pop()
	if !ok {
		t.Fatal("Pop() should succeed")
	}
	if got, want := String(popped), "b"; got != want {
		t.Fatalf("Pop() = %q, want %q", got, want)
	}
	if got := c.Len(); got != 1 {
		t.Fatalf("Len() after Pop = %d, want 1", got)
	}
}

func TestReportCollectionAll(t *testing.T) {
	var c ReportCollection[Local]
	c.Push(IntoCloneable(NewUnhooked("a", DisplayHandler[string]())).IntoDynamic())
	c.Push(IntoCloneable(NewUnhooked("b", DisplayHandler[string]())).IntoDynamic())

	var seen []string
	for r := range c.All() {
		seen = append(seen, String(r))
	}
	if got, want := len(seen), 2; got != want {
		t.Fatalf("len(seen) = %d, want %d", got, want)
	}
}

func TestChildrenMutLiveView(t *testing.T) {
	root := NewUnhooked("root", DisplayHandler[string]())
	child := IntoCloneable(NewUnhooked("child", DisplayHandler[string]())).IntoDynamic()

	ChildrenMut(root).Push(child)
	if got := Children(root).Len(); got != 1 {
		t.Fatalf("Children(root).Len() = %d, want 1", got)
	}

	popped, ok := ChildrenMut(root).Pop()
	if !ok {
		t.Fatal("ChildrenMut(root).Pop() should succeed")
	}
	if got, want := String(popped), "child"; got != want {
		t.Fatalf("popped child = %q, want %q", got, want)
	}
	if got := Children(root).Len(); got != 0 {
		t.Fatalf("Children(root).Len() after Pop = %d, want 0", got)
	}
}

func TestAttachmentsMutLiveViewAndPush(t *testing.T) {
	root := NewUnhooked("root", DisplayHandler[string]())
	PushAttachment(AttachmentsMut(root), "k=v", stringAttachmentHandler{})

	if got := Attachments(root).Len(); got != 1 {
		t.Fatalf("Attachments(root).Len() = %d, want 1", got)
	}

	popped, ok := AttachmentsMut(root).Pop()
	if !ok {
		t.Fatal("AttachmentsMut(root).Pop() should succeed")
	}
	v, ok := DowncastAttachment[string](popped)
	if !ok || *v != "k=v" {
		t.Fatalf("popped attachment = %v, ok=%v, want \"k=v\"", v, ok)
	}
}
