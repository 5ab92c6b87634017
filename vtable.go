package rootcause

import (
	"io"
	"reflect"
	"sync"
)

// vtableKind distinguishes a context vtable entry from an attachment one;
// the two share a table and key shape but carry different thunk sets
// (only context entries have Source).
type vtableKind uint8

const (
	vtableKindContext vtableKind = iota
	vtableKindAttachment
)

// vtableEntry is the function-pointer descriptor a cell carries instead
// of a Go interface value, matching §4.A: one entry per distinct
// (concrete type, handler type) pair, deduplicated so that two cells
// built from the same pair share the exact same *vtableEntry, making
// pointer equality a valid and cheap "same dispatch strategy" test. The
// struct shape — a handful of independent function fields rather than one
// method-bearing interface — is ported directly from the teacher's
// formatter[S state], which does the same thing for its Start/End/Append*
// hooks.
type vtableEntry struct {
	kind          vtableKind
	typeID        reflect.Type
	typeName      string
	handlerTypeID reflect.Type

	display        func(v any, w io.Writer) error
	debug          func(v any, w io.Writer) error
	source         func(v any) (error, bool) // context only; nil for attachment entries
	preferredStyle func(v any, fn FormatFunction) any
}

type vtableKey struct {
	kind          vtableKind
	typeID        reflect.Type
	handlerTypeID reflect.Type
}

var (
	vtableMu sync.RWMutex
	vtables  = map[vtableKey]*vtableEntry{}
)

func concreteType[C any]() reflect.Type {
	return reflect.TypeOf((*C)(nil)).Elem()
}

// getContextVtable returns the shared vtableEntry for (C, handler's
// dynamic type), creating and interning it on first use.
func getContextVtable[C any](handler ContextHandler[C]) *vtableEntry {
	typeID := concreteType[C]()
	handlerTypeID := reflect.TypeOf(handler)
	key := vtableKey{kind: vtableKindContext, typeID: typeID, handlerTypeID: handlerTypeID}

	vtableMu.RLock()
	if e, ok := vtables[key]; ok {
		vtableMu.RUnlock()
		return e
	}
	vtableMu.RUnlock()

	vtableMu.Lock()
	defer vtableMu.Unlock()
	if e, ok := vtables[key]; ok {
		return e
	}
	h := handler
	e := &vtableEntry{
		kind:          vtableKindContext,
		typeID:        typeID,
		typeName:      typeID.String(),
		handlerTypeID: handlerTypeID,
		display:       func(v any, w io.Writer) error { return h.Display(v.(*C), w) },
		debug:         func(v any, w io.Writer) error { return h.Debug(v.(*C), w) },
		source:        func(v any) (error, bool) { return h.Source(v.(*C)) },
		preferredStyle: func(v any, fn FormatFunction) any {
			return h.PreferredStyle(v.(*C), fn)
		},
	}
	vtables[key] = e
	return e
}

// getAttachmentVtable returns the shared vtableEntry for (A, handler's
// dynamic type), creating and interning it on first use.
func getAttachmentVtable[A any](handler AttachmentHandler[A]) *vtableEntry {
	typeID := concreteType[A]()
	handlerTypeID := reflect.TypeOf(handler)
	key := vtableKey{kind: vtableKindAttachment, typeID: typeID, handlerTypeID: handlerTypeID}

	vtableMu.RLock()
	if e, ok := vtables[key]; ok {
		vtableMu.RUnlock()
		return e
	}
	vtableMu.RUnlock()

	vtableMu.Lock()
	defer vtableMu.Unlock()
	if e, ok := vtables[key]; ok {
		return e
	}
	h := handler
	e := &vtableEntry{
		kind:          vtableKindAttachment,
		typeID:        typeID,
		typeName:      typeID.String(),
		handlerTypeID: handlerTypeID,
		display:       func(v any, w io.Writer) error { return h.Display(v.(*A), w) },
		debug:         func(v any, w io.Writer) error { return h.Debug(v.(*A), w) },
		preferredStyle: func(v any, fn FormatFunction) any {
			return h.PreferredStyle(v.(*A), fn)
		},
	}
	vtables[key] = e
	return e
}
