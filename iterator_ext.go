package rootcause

import "iter"

// CollectReports drains the whole of seq, a sequence of (T, error) pairs,
// accumulating every non-nil error into a report collection, in order.
// Matching the source crate's iterator_ext.rs doc ("collect all errors...
// continue processing... not just the first one") and the spec's
// Result-collecting scenario, this does not stop at the first error: every
// item is visited, and the successful values are discarded — only the
// failures are worth reporting back. An empty returned collection means
// every item succeeded.
func CollectReports[T any](seq iter.Seq2[T, error]) ReportCollection[SendSync] {
	var out ReportCollection[SendSync]
	seq(func(_ T, err error) bool {
		if err != nil {
			out.Push(IntoCloneable(NewSendSync[error](err, DisplayHandler[error]())).IntoDynamic())
		}
		return true
	})
	return out
}

// CollectReportsInto is CollectReports, but wraps each error through wrap
// and handler instead of formatting the bare error, convenient when every
// failure from a batch should carry a consistent context type rather than
// error's own Display.
func CollectReportsInto[T any, C any](seq iter.Seq2[T, error], wrap func(error) C, handler ContextHandler[C]) ReportCollection[SendSync] {
	var out ReportCollection[SendSync]
	seq(func(_ T, err error) bool {
		if err != nil {
			out.Push(IntoCloneable(NewSendSync(wrap(err), handler)).IntoDynamic())
		}
		return true
	})
	return out
}
