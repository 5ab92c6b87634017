// Package rootcause implements a type-erased, reference-counted error
// report tree: a Report is a node holding an arbitrary context value, a
// list of attachments (ad hoc diagnostic values attached alongside the
// context), and a list of child reports it was built from.
//
// A Report is parameterized by three things: the static type of its
// current context (or Dynamic, once type-erased), an ownership marker
// (Mutable, the unique owner of a cell, or Cloneable, one of possibly
// several refcounted owners), and a thread-safety marker (SendSync or
// Local). These are phantom type parameters — Go has neither Rust's
// borrow checker nor its Send/Sync auto-traits, so most of what the
// markers buy here is a shaped API surface (operations requiring
// uniqueness simply don't typecheck against a Cloneable handle) rather
// than a compiler-enforced guarantee; see markers.go for the details of
// where that approximation holds and where it is a documented caller
// obligation instead.
//
// Context and attachment values are rendered through handlers
// (ContextHandler / AttachmentHandler) rather than through Go's own
// fmt.Stringer, so that a cell's formatting behavior survives being
// type-erased to Dynamic: the handler is captured, once, into a shared
// vtable entry at construction time, and dispatch afterward goes through
// that entry rather than through a type switch. A process-wide hook
// registry (hooks.go) lets callers observe every report as it's created,
// override how specific concrete types are rendered, and replace the
// top-level tree renderer.
package rootcause
