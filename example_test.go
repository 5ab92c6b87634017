package rootcause_test

import (
	"fmt"

	rootcause "github.com/rootcause-go/rootcause"
)

func ExampleNew() {
	r := rootcause.NewUnhooked("file missing", rootcause.DisplayHandler[string]())
	fmt.Println(rootcause.String(r))
	// Output: file missing
}

func ExampleWrapWithContext() {
	cause := rootcause.NewUnhooked("disk read failed", rootcause.DisplayHandler[string]())
	wrapped := rootcause.WrapWithContext(cause, "could not load config", rootcause.DisplayHandler[string]())
	fmt.Println(rootcause.String(wrapped))
	// Output: could not load config
}

func ExampleAttachString() {
	r := rootcause.NewUnhooked("file missing", rootcause.DisplayHandler[string]())
	r = rootcause.AttachString(r, "path=/etc/x")

	att, _ := rootcause.Attachments(r).Get(0)
	v, _ := rootcause.DowncastAttachment[string](att)
	fmt.Println(*v)
	// Output: path=/etc/x
}
