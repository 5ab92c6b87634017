package rootcause

// Dynamic is the context marker used for a type-erased root handle: it
// claims nothing about the concrete type stored in the cell. Every
// formatting and hook-registry entry point coerces down to
// Report[Dynamic, ...] before doing its work, matching the "coerce to the
// most general form" step in the formatting pipeline.
type Dynamic struct{}

// Mutable and Cloneable are the two ownership markers for owned handles
// (§4.D). A Mutable handle is the unique writer for its cell: its
// existence is the runtime's only evidence that the cell's refcount is 1
// and that no other owned or shared handle to the same cell exists.
// Cloneable handles participate in refcounted sharing; cloning one is an
// atomic increment, dropping one is an atomic decrement.
//
// Go has no linear types and no borrow checker, so nothing in the
// language stops a caller from keeping two Go values that both alias the
// same cell. The Ownership marker therefore documents a discipline that
// this package's API is shaped to encourage (operations that require
// uniqueness are free functions parameterized on a fixed Mutable
// argument type, so they simply don't typecheck against a Cloneable
// handle) but ultimately relies on the caller not stashing a second
// reference to a cell behind a Mutable handle's back.
type Mutable struct{}
type Cloneable struct{}

// Ownership is the type-set constraint satisfied by exactly the two
// ownership markers above. Using a union-type constraint (rather than a
// sealed marker interface, which is the idiom Go code reaches for when it
// needs to forbid outside implementations of an interface) is enough to
// close the set here, because Go generics already refuse to instantiate
// Report[C, O, T] with any O outside the listed union.
type Ownership interface {
	Mutable | Cloneable
}

// RefCloneable and RefUncloneable are the reference-ownership markers for
// borrow handles (SharedBorrow). A RefCloneable borrow may be upgraded
// into a brand new Cloneable owned handle (AsRefCloneable's result);
// a RefUncloneable borrow — typically obtained from a Mutable owner via
// AsRef — may not, because doing so would let a second owner exist
// alongside a unique writer.
type RefCloneable struct{}
type RefUncloneable struct{}

// RefOwnership is the constraint satisfied by the two reference-ownership
// markers.
type RefOwnership interface {
	RefCloneable | RefUncloneable
}

// SendSync and Local are the thread-safety markers (§4.D, §5). A SendSync
// handle (and, inductively, every context/attachment/child reachable from
// it) is safe to hand to another goroutine. A Local handle must not
// cross a goroutine boundary.
//
// Go has no Send/Sync auto-traits, so "is C safe to share across
// goroutines" cannot be checked by the compiler the way it is in the
// source language. NewSendSync trusts its caller on this point — exactly
// the "run-time-rejected-at-construction for languages that cannot [check
// statically]" compromise the spec calls out in §5, except Go cannot even
// check at construction time, only document the obligation. The one
// direction that is fully safe regardless is Local, which every handle
// can always become (IntoLocal), and the one direction that is never
// offered directly is Local → SendSync: there is deliberately no
// "IntoSendSync" method anywhere in this package. Preformat is the only
// way to cross that boundary (§4.H).
type SendSync struct{}
type Local struct{}

// ThreadSafety is the constraint satisfied by the two thread-safety
// markers.
type ThreadSafety interface {
	SendSync | Local
}
