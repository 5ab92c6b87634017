package rootcause

import "iter"

// Report is an owned handle onto a report cell (§4.D): C is the static
// type the handle currently claims for the cell's context (Dynamic if
// type-erased), O is the ownership marker (Mutable or Cloneable), and T
// is the thread-safety marker (SendSync or Local).
//
// Operations that require Mutable are free functions taking a
// Report[C, Mutable, T] parameter rather than methods on Report, because
// Go does not allow a method to fix one of its receiver's type
// parameters to a concrete type — only a generic method over the full
// parameter list compiles. Marker coercions that hold for every O (e.g.
// IntoDynamic, IntoLocal) are methods; the rest (Attach, IntoCloneable,
// TryIntoMutable, WrapWithContext, ...) are package-level functions.
type Report[C any, O Ownership, T ThreadSafety] struct {
	cell *reportCell
}

// New builds a Mutable, Local report from ctx using handler.
func New[C any](ctx C, handler ContextHandler[C]) Report[C, Mutable, Local] {
	cell := newReportCell(ctx, handler)
	runCreationHooksLocal(MutBorrow[Dynamic, Local]{cell: cell})
	return Report[C, Mutable, Local]{cell: cell}
}

// NewUnhooked is New without consulting the creation-hook registry,
// matching the spec's distinction between the hooked and raw
// construction paths (§4.F).
func NewUnhooked[C any](ctx C, handler ContextHandler[C]) Report[C, Mutable, Local] {
	return Report[C, Mutable, Local]{cell: newReportCell(ctx, handler)}
}

// NewSendSync builds a Mutable, SendSync report. The caller is asserting
// that ctx, and everything ever attached or wrapped beneath this report,
// is safe to hand to another goroutine; see the SendSync doc comment in
// markers.go for why Go cannot check this itself.
func NewSendSync[C any](ctx C, handler ContextHandler[C]) Report[C, Mutable, SendSync] {
	cell := newReportCell(ctx, handler)
	runCreationHooksSendSync(MutBorrow[Dynamic, SendSync]{cell: cell})
	return Report[C, Mutable, SendSync]{cell: cell}
}

// NewSendSyncUnhooked is NewSendSync without consulting the
// creation-hook registry.
func NewSendSyncUnhooked[C any](ctx C, handler ContextHandler[C]) Report[C, Mutable, SendSync] {
	return Report[C, Mutable, SendSync]{cell: newReportCell(ctx, handler)}
}

// NewDefault builds a Mutable, Local report using DisplayHandler[C]() as
// the handler, for callers that don't need a custom rendering.
func NewDefault[C any](ctx C) Report[C, Mutable, Local] {
	return New[C](ctx, DisplayHandler[C]())
}

// StrongCount returns the cell's current refcount (§3, §8 S3). For a
// Mutable handle this is always 1.
func StrongCount[C any, O Ownership, T ThreadSafety](r Report[C, O, T]) int64 {
	return r.cell.strongCount()
}

// IntoDynamic erases the static context type, valid for either ownership
// marker since it changes nothing about the cell itself.
func (r Report[C, O, T]) IntoDynamic() Report[Dynamic, O, T] {
	return Report[Dynamic, O, T]{cell: r.cell}
}

// IntoLocal downgrades the thread-safety marker to Local. Always
// available, in either direction of the ownership marker.
func (r Report[C, O, T]) IntoLocal() Report[C, O, Local] {
	return Report[C, O, Local]{cell: r.cell}
}

// Release drops this handle, decrementing the cell's refcount and
// recursively tearing the tree down once it reaches zero (§3 invariant
// 4). Go has no destructors, so callers own calling this explicitly —
// typically via defer, the same discipline Go code uses for os.File or
// sync.Mutex-guarded resources.
func (r Report[C, O, T]) Release() { r.cell.release() }

// Clone produces a new Cloneable handle to the same cell, incrementing
// the refcount. Defined as a free function, not a method, and fixed to a
// Cloneable input: cloning a Mutable handle would silently create a
// second owner, breaking the uniqueness invariant a Mutable handle exists
// to witness. (A Go method cannot fix one of its receiver's type
// parameters to a concrete type — the receiver clause must name every
// parameter generically — so any operation that only makes sense for one
// specific marker has to be a package-level function instead of a
// method; IntoCloneable, TryIntoMutable, and Attach below follow the same
// rule.)
func Clone[C any, T ThreadSafety](r Report[C, Cloneable, T]) Report[C, Cloneable, T] {
	return Report[C, Cloneable, T]{cell: r.cell.clone()}
}

// IntoCloneable converts a unique Mutable handle into a Cloneable one.
// Always succeeds and is always cheap: it changes no refcount, only the
// marker under which the same cell is now held.
func IntoCloneable[C any, T ThreadSafety](r Report[C, Mutable, T]) Report[C, Cloneable, T] {
	return Report[C, Cloneable, T]{cell: r.cell}
}

// TryIntoMutable converts a Cloneable handle back into a Mutable one, but
// only if the cell's refcount is currently 1 — i.e. no other owned handle
// to the same cell exists. On failure it returns the zero value and
// false; because Go passes Report by value, the caller's original r is
// completely unaffected either way and remains usable.
//
// This check cannot see outstanding SharedBorrow values obtained via
// AsRefCloneable: Go has no borrow checker, so holding one of those
// across a TryIntoMutable call that succeeds, then mutating through the
// resulting Mutable handle, is a caller bug this package cannot detect
// (see DESIGN.md's Open Question decision on this).
func TryIntoMutable[C any, T ThreadSafety](r Report[C, Cloneable, T]) (Report[C, Mutable, T], bool) {
	if r.cell.strongCount() != 1 {
		var zero Report[C, Mutable, T]
		return zero, false
	}
	return Report[C, Mutable, T]{cell: r.cell}, true
}

// Downcast recovers a Report[D, O, T] from a type-erased one, succeeding
// only if the cell's concrete context type is exactly D. On failure the
// caller's original r remains valid and usable.
func Downcast[D any, O Ownership, T ThreadSafety](r Report[Dynamic, O, T]) (Report[D, O, T], bool) {
	if r.cell.vtable.typeID != concreteType[D]() {
		var zero Report[D, O, T]
		return zero, false
	}
	return Report[D, O, T]{cell: r.cell}, true
}

// CurrentContext returns a pointer to the cell's current context value.
// Go has no const-reference type, so nothing stops a caller from
// mutating through this pointer even when O is Cloneable; doing so
// breaks the invariant that only a Mutable handle's owner may write.
// CurrentContextMut is the operation actually sanctioned for writing.
func CurrentContext[C any, O Ownership, T ThreadSafety](r Report[C, O, T]) *C {
	return r.cell.context.(*C)
}

// CurrentContextMut returns a mutable pointer to the cell's context,
// available only through a Mutable handle.
func CurrentContextMut[C any, T ThreadSafety](r Report[C, Mutable, T]) *C {
	return r.cell.context.(*C)
}

// IntoCurrentContext consumes a Mutable handle and extracts its context
// value by value, releasing the cell. The ownership marker already
// guarantees refcount == 1, so this always succeeds for a genuinely
// unique handle; the bool return exists for symmetry with the spec and
// as a defensive check against a refcount invariant violation upstream.
func IntoCurrentContext[C any, T ThreadSafety](r Report[C, Mutable, T]) (C, bool) {
	if r.cell.strongCount() != 1 {
		var zero C
		return zero, false
	}
	val := *r.cell.context.(*C)
	r.cell.release()
	return val, true
}

// Children returns a read-only view of r's children.
func Children[C any, O Ownership, T ThreadSafety](r Report[C, O, T]) ReportCollection[T] {
	return ReportCollection[T]{items: wrapChildren[T](r.cell.children)}
}

// ChildrenMut returns a pointer to a live view of r's children, writes
// through which are visible on r. Available only through a Mutable
// handle.
func ChildrenMut[C any, T ThreadSafety](r Report[C, Mutable, T]) *liveReportCollection[T] {
	return &liveReportCollection[T]{cell: r.cell}
}

// Attachments returns a read-only view of r's attachments.
func Attachments[C any, O Ownership, T ThreadSafety](r Report[C, O, T]) AttachmentCollection[T] {
	out := AttachmentCollection[T]{}
	for _, a := range r.cell.attachments {
		out.push(a)
	}
	return out
}

// AttachmentsMut returns a pointer to a live view of r's attachments,
// writes through which are visible on r. Available only through a
// Mutable handle.
func AttachmentsMut[C any, T ThreadSafety](r Report[C, Mutable, T]) *liveAttachmentCollection[T] {
	return &liveAttachmentCollection[T]{cell: r.cell}
}

func wrapChildren[T ThreadSafety](cells []*reportCell) []Report[Dynamic, Cloneable, T] {
	out := make([]Report[Dynamic, Cloneable, T], len(cells))
	for i, c := range cells {
		out[i] = Report[Dynamic, Cloneable, T]{cell: c}
	}
	return out
}

// liveReportCollection mutates a cell's children slice in place, backing
// ChildrenMut. It intentionally has a narrower surface than
// ReportCollection: only the operations that make sense while mutating
// the live parent.
type liveReportCollection[T ThreadSafety] struct {
	cell *reportCell
}

func (c *liveReportCollection[T]) Push(child Report[Dynamic, Cloneable, T]) {
	c.cell.children = append(c.cell.children, child.cell)
}

func (c *liveReportCollection[T]) Pop() (Report[Dynamic, Cloneable, T], bool) {
	n := len(c.cell.children)
	if n == 0 {
		var zero Report[Dynamic, Cloneable, T]
		return zero, false
	}
	last := c.cell.children[n-1]
	c.cell.children[n-1] = nil
	c.cell.children = c.cell.children[:n-1]
	return Report[Dynamic, Cloneable, T]{cell: last}, true
}

func (c *liveReportCollection[T]) Len() int { return len(c.cell.children) }

// liveAttachmentCollection mutates a cell's attachments slice in place,
// backing AttachmentsMut.
type liveAttachmentCollection[T ThreadSafety] struct {
	cell *reportCell
}

func (c *liveAttachmentCollection[T]) push(cell *attachmentCell) {
	c.cell.attachments = append(c.cell.attachments, cell)
}

func (c *liveAttachmentCollection[T]) Pop() (Attachment, bool) {
	n := len(c.cell.attachments)
	if n == 0 {
		return Attachment{}, false
	}
	last := c.cell.attachments[n-1]
	c.cell.attachments[n-1] = nil
	c.cell.attachments = c.cell.attachments[:n-1]
	return Attachment{cell: last}, true
}

func (c *liveAttachmentCollection[T]) Len() int { return len(c.cell.attachments) }

// PushAttachment appends value to a live attachment view obtained from
// AttachmentsMut. It is a free function, not a method on
// liveAttachmentCollection, because a method cannot introduce a new type
// parameter (A) beyond the ones its receiver already carries.
func PushAttachment[A any, T ThreadSafety](c *liveAttachmentCollection[T], value A, handler AttachmentHandler[A]) {
	c.push(newAttachmentCell(value, handler))
}

// Attach adds value to r's attachment list using AttachDisplay[A]() as
// its handler and returns r for chaining, matching the fluent-builder
// idiom the spec's "attach" examples use.
func Attach[C any, A any, T ThreadSafety](r Report[C, Mutable, T], value A) Report[C, Mutable, T] {
	return AttachWithHandler(r, value, AttachDisplay[A]())
}

// AttachString is Attach specialized for plain string attachments (the
// common case in the spec's own examples, e.g. "path=/etc/x").
func AttachString[C any, T ThreadSafety](r Report[C, Mutable, T], value string) Report[C, Mutable, T] {
	return AttachWithHandler(r, value, stringAttachmentHandler{})
}

// AttachWithHandler adds value to r's attachment list using an explicit
// handler and returns r for chaining.
func AttachWithHandler[C any, A any, T ThreadSafety](r Report[C, Mutable, T], value A, handler AttachmentHandler[A]) Report[C, Mutable, T] {
	r.cell.attachments = append(r.cell.attachments, newAttachmentCell(value, handler))
	return r
}

// WrapWithContext allocates a new Mutable report whose context is newCtx
// and whose sole child is r, converted to a Cloneable handle as every
// child slot requires. This is the Go analogue of eyre's/anyhow's
// "context" wrapping combinator.
func WrapWithContext[NewC any, OldC any, O Ownership, T ThreadSafety](r Report[OldC, O, T], newCtx NewC, handler ContextHandler[NewC]) Report[NewC, Mutable, T] {
	child := toCloneableCell(r.cell)
	cell := newReportCell(newCtx, handler)
	cell.children = append(cell.children, child)
	return Report[NewC, Mutable, T]{cell: cell}
}

func toCloneableCell(cell *reportCell) *reportCell {
	cell.refcount.Add(1)
	return cell
}

// Parts is the deconstructed form of a Mutable report produced by
// IntoParts and consumed by FromParts (§6).
type Parts[C any, T ThreadSafety] struct {
	Context     C
	Children    ReportCollection[T]
	Attachments AttachmentCollection[T]
}

// IntoParts deconstructs a unique Mutable report into its pieces,
// releasing the cell itself (its children and attachments survive,
// handed to the caller).
func IntoParts[C any, T ThreadSafety](r Report[C, Mutable, T]) Parts[C, T] {
	ctx := *r.cell.context.(*C)
	children := wrapChildren[T](r.cell.children)
	attachments := AttachmentCollection[T]{}
	for _, a := range r.cell.attachments {
		attachments.push(a)
	}
	r.cell.children = nil
	r.cell.attachments = nil
	r.cell.release()
	return Parts[C, T]{Context: ctx, Children: ReportCollection[T]{items: children}, Attachments: attachments}
}

// FromParts builds a fresh Mutable report from previously-deconstructed
// parts, running the hooked creation path.
func FromParts[C any, T ThreadSafety](parts Parts[C, T], handler ContextHandler[C]) Report[C, Mutable, T] {
	r := FromPartsUnhooked(parts, handler)
	runCreationHooksForCell(r.cell)
	return r
}

// FromPartsUnhooked is FromParts without consulting the creation-hook
// registry.
func FromPartsUnhooked[C any, T ThreadSafety](parts Parts[C, T], handler ContextHandler[C]) Report[C, Mutable, T] {
	cell := newReportCell(parts.Context, handler)
	for _, child := range parts.Children.items {
		cell.children = append(cell.children, child.cell)
	}
	for _, a := range parts.Attachments.items {
		cell.attachments = append(cell.attachments, a.cell)
	}
	return Report[C, Mutable, T]{cell: cell}
}

// AsRef takes a non-owning, uncloneable borrow of a Mutable report.
// Because Uncloneable borrows can never become a second owner, taking
// one alongside a unique writer is always sound.
func AsRef[C any, T ThreadSafety](r Report[C, Mutable, T]) SharedBorrow[C, RefUncloneable, T] {
	return SharedBorrow[C, RefUncloneable, T]{cell: r.cell}
}

// AsRefCloneable takes a non-owning, cloneable borrow of a Cloneable
// report; the borrow may later be upgraded back into a fresh owned
// handle via Upgrade.
func AsRefCloneable[C any, T ThreadSafety](r Report[C, Cloneable, T]) SharedBorrow[C, RefCloneable, T] {
	return SharedBorrow[C, RefCloneable, T]{cell: r.cell}
}

// AsMut takes a mutable borrow of a Mutable report.
func AsMut[C any, T ThreadSafety](r Report[C, Mutable, T]) MutBorrow[C, T] {
	return MutBorrow[C, T]{cell: r.cell}
}

// MutBorrow is a non-owning handle that permits mutating the context,
// children, and attachments of a cell reached through a unique Mutable
// owner (§4.D). It carries no ownership marker of its own: only a
// Mutable owned handle can produce one.
type MutBorrow[C any, T ThreadSafety] struct {
	cell *reportCell
}

func (b MutBorrow[C, T]) CurrentContext() *C { return b.cell.context.(*C) }

func (b MutBorrow[C, T]) IntoDynamic() MutBorrow[Dynamic, T] { return MutBorrow[Dynamic, T]{cell: b.cell} }

func (b MutBorrow[C, T]) IntoLocal() MutBorrow[C, Local] { return MutBorrow[C, Local]{cell: b.cell} }

func (b MutBorrow[C, T]) ChildrenMut() *liveReportCollection[T] {
	return &liveReportCollection[T]{cell: b.cell}
}

func (b MutBorrow[C, T]) AttachmentsMut() *liveAttachmentCollection[T] {
	return &liveAttachmentCollection[T]{cell: b.cell}
}

// SharedBorrow is a non-owning, read-only handle onto a cell (§4.D). R
// records whether it may be upgraded into a fresh owned handle.
type SharedBorrow[C any, R RefOwnership, T ThreadSafety] struct {
	cell *reportCell
}

func (b SharedBorrow[C, R, T]) CurrentContext() *C { return b.cell.context.(*C) }

func (b SharedBorrow[C, R, T]) IntoDynamic() SharedBorrow[Dynamic, R, T] {
	return SharedBorrow[Dynamic, R, T]{cell: b.cell}
}

func (b SharedBorrow[C, R, T]) IntoLocal() SharedBorrow[C, R, Local] {
	return SharedBorrow[C, R, Local]{cell: b.cell}
}

// IntoUncloneable forgets a borrow's ability to be upgraded. Always
// available, never reversible directly (matching IntoLocal/SendSync).
func (b SharedBorrow[C, R, T]) IntoUncloneable() SharedBorrow[C, RefUncloneable, T] {
	return SharedBorrow[C, RefUncloneable, T]{cell: b.cell}
}

// Upgrade clones the borrowed cell into a fresh owned Cloneable handle.
// Only callable on a RefCloneable borrow.
func Upgrade[C any, T ThreadSafety](b SharedBorrow[C, RefCloneable, T]) Report[C, Cloneable, T] {
	return Report[C, Cloneable, T]{cell: b.cell.clone()}
}

// IterReports performs the depth-first pre-order traversal over r and
// its descendants (§4.D, §8 S4), including r itself first. Defined for
// Mutable owners; the handles it yields are RefUncloneable since r's
// uniqueness must not be compromised by letting a yielded borrow be
// upgraded into a second owner.
func IterReports[C any, T ThreadSafety](r Report[C, Mutable, T]) iter.Seq[SharedBorrow[Dynamic, RefUncloneable, T]] {
	return func(yield func(SharedBorrow[Dynamic, RefUncloneable, T]) bool) {
		walkPreOrder(r.cell, func(cell *reportCell) bool {
			return yield(SharedBorrow[Dynamic, RefUncloneable, T]{cell: cell})
		})
	}
}

// IterReportsCloneable is IterReports for Cloneable owners, yielding
// RefCloneable borrows since nothing about traversing a shared cell
// forbids further sharing.
func IterReportsCloneable[C any, T ThreadSafety](r Report[C, Cloneable, T]) iter.Seq[SharedBorrow[Dynamic, RefCloneable, T]] {
	return func(yield func(SharedBorrow[Dynamic, RefCloneable, T]) bool) {
		walkPreOrder(r.cell, func(cell *reportCell) bool {
			return yield(SharedBorrow[Dynamic, RefCloneable, T]{cell: cell})
		})
	}
}

// IterSubReports traverses r's descendants only, excluding r itself,
// always yielding RefCloneable borrows: a child slot is by construction
// already a shared position, regardless of what r's own ownership marker
// is (§4.D).
func IterSubReports[C any, O Ownership, T ThreadSafety](r Report[C, O, T]) iter.Seq[SharedBorrow[Dynamic, RefCloneable, T]] {
	return func(yield func(SharedBorrow[Dynamic, RefCloneable, T]) bool) {
		for _, child := range r.cell.children {
			if !walkPreOrder(child, func(cell *reportCell) bool {
				return yield(SharedBorrow[Dynamic, RefCloneable, T]{cell: cell})
			}) {
				return
			}
		}
	}
}

func walkPreOrder(cell *reportCell, yield func(*reportCell) bool) bool {
	if !yield(cell) {
		return false
	}
	for _, child := range cell.children {
		if !walkPreOrder(child, yield) {
			return false
		}
	}
	return true
}
