package rootcause

import (
	"io"
	"reflect"
	"sync"
)

// CreationHook observes every report as it is constructed (§1, §4.F),
// the extension point the default location collector (hooks_location.go)
// uses to attach a call-site automatically. Hooks see a MutBorrow so they
// may attach to, but not replace, the report being created.
type CreationHook interface {
	OnLocalCreation(r MutBorrow[Dynamic, Local])
	OnSendSyncCreation(r MutBorrow[Dynamic, SendSync])
}

// ReportFormatter is the top-level formatter consulted by Report's
// Display/Debug (§1, §4.F, §6). Installing one replaces the entire
// default tree rendering; render_default.go supplies the package's own
// default.
type ReportFormatter interface {
	FormatReport(r SharedBorrow[Dynamic, RefUncloneable, Local], w io.Writer, fn FormatFunction) error
}

type erasedContextOverride struct {
	display        func(v any, w io.Writer) error
	debug          func(v any, w io.Writer) error
	preferredStyle func(v any, fn FormatFunction) ContextFormattingStyle
}

type erasedAttachmentOverride struct {
	display        func(v any, w io.Writer) error
	debug          func(v any, w io.Writer) error
	preferredStyle func(v any, fn FormatFunction) AttachmentFormattingStyle
}

// registry is the process-wide hook table (§4.F): a single RWMutex-guarded
// struct, lazily populated with its defaults on first use. This is the
// generalization of the teacher's misc.go sync.OnceValue-guarded global
// (there, a single bool; here, a whole mutable struct) combined with the
// "one mutable package-level singleton" shape of zlog.go's package-level
// logger variable.
type registry struct {
	mu sync.RWMutex

	creationHooksLocal    []CreationHook
	creationHooksSendSync []CreationHook

	contextOverrides    map[reflect.Type]erasedContextOverride
	attachmentOverrides map[reflect.Type]erasedAttachmentOverride

	reportFormatter ReportFormatter
}

var globalRegistry = sync.OnceValue(func() *registry {
	return &registry{
		creationHooksLocal:    []CreationHook{defaultLocationHook{}},
		creationHooksSendSync: []CreationHook{defaultLocationHook{}},
		contextOverrides:      map[reflect.Type]erasedContextOverride{},
		attachmentOverrides:   map[reflect.Type]erasedAttachmentOverride{},
		reportFormatter:       defaultReportFormatter{},
	}
})

// InstallCreationHook registers hook to run against every subsequently
// created report, local and SendSync alike.
func InstallCreationHook(hook CreationHook) {
	r := globalRegistry()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creationHooksLocal = append(r.creationHooksLocal, hook)
	r.creationHooksSendSync = append(r.creationHooksSendSync, hook)
}

// InstallReportFormatter replaces the top-level report formatter.
func InstallReportFormatter(f ReportFormatter) {
	r := globalRegistry()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reportFormatter = f
}

// InstallContextOverride registers formatting overrides for context
// values of concrete type C, consulted by the hooked formatting path
// (format.go) in place of the handler the report was constructed with.
func InstallContextOverride[C any](o ContextHandler[C]) {
	r := globalRegistry()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contextOverrides[concreteType[C]()] = erasedContextOverride{
		display:        func(v any, w io.Writer) error { return o.Display(v.(*C), w) },
		debug:          func(v any, w io.Writer) error { return o.Debug(v.(*C), w) },
		preferredStyle: func(v any, fn FormatFunction) ContextFormattingStyle { return o.PreferredStyle(v.(*C), fn) },
	}
}

// InstallAttachmentOverride registers formatting overrides for attachment
// values of concrete type A.
func InstallAttachmentOverride[A any](o AttachmentHandler[A]) {
	r := globalRegistry()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachmentOverrides[concreteType[A]()] = erasedAttachmentOverride{
		display:        func(v any, w io.Writer) error { return o.Display(v.(*A), w) },
		debug:          func(v any, w io.Writer) error { return o.Debug(v.(*A), w) },
		preferredStyle: func(v any, fn FormatFunction) AttachmentFormattingStyle { return o.PreferredStyle(v.(*A), fn) },
	}
}

func runCreationHooksLocal(r MutBorrow[Dynamic, Local]) {
	reg := globalRegistry()
	reg.mu.RLock()
	hooks := reg.creationHooksLocal
	reg.mu.RUnlock()
	for _, h := range hooks {
		h.OnLocalCreation(r)
	}
}

func runCreationHooksSendSync(r MutBorrow[Dynamic, SendSync]) {
	reg := globalRegistry()
	reg.mu.RLock()
	hooks := reg.creationHooksSendSync
	reg.mu.RUnlock()
	for _, h := range hooks {
		h.OnSendSyncCreation(r)
	}
}

// runCreationHooksForCell is used by FromParts, which only has a cell and
// not a statically-typed MutBorrow[C, T] to pass to the Local/SendSync
// entry points; the hook sees it through the Dynamic, Local view. A
// FromParts-reconstructed SendSync report still runs the same hook set,
// since both registries are identical by default and differ only if a
// caller deliberately installs a SendSync-only or Local-only hook, which
// this package's API does not currently expose a way to do.
func runCreationHooksForCell(cell *reportCell) {
	runCreationHooksLocal(MutBorrow[Dynamic, Local]{cell: cell})
}

func lookupContextOverride(t reflect.Type) (erasedContextOverride, bool) {
	reg := globalRegistry()
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	o, ok := reg.contextOverrides[t]
	return o, ok
}

func lookupAttachmentOverride(t reflect.Type) (erasedAttachmentOverride, bool) {
	reg := globalRegistry()
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	o, ok := reg.attachmentOverrides[t]
	return o, ok
}

func currentReportFormatter() ReportFormatter {
	reg := globalRegistry()
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.reportFormatter
}
