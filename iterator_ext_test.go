package rootcause

import (
	"errors"
	"iter"
	"testing"
)

func seqFromResults(results []struct {
	v   int
	err error
}) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		for _, r := range results {
			if !yield(r.v, r.err) {
				return
			}
		}
	}
}

func TestCollectReportsGathersAllErrorsInOrder(t *testing.T) {
	e1 := errors.New("first failure")
	e2 := errors.New("second failure")
	seq := seqFromResults([]struct {
		v   int
		err error
	}{
		{1, nil},
		{2, nil},
		{0, e1},
		{3, nil},
		{0, e2},
	})

	reports := CollectReports(seq)
	if got := reports.Len(); got != 2 {
		t.Fatalf("reports.Len() = %d, want 2", got)
	}

	var seen []string
	for r := range reports.All() {
		seen = append(seen, String(r))
	}
	if got, want := seen[0], e1.Error(); got != want {
		t.Fatalf("reports[0] = %q, want %q", got, want)
	}
	if got, want := seen[1], e2.Error(); got != want {
		t.Fatalf("reports[1] = %q, want %q", got, want)
	}
}

func TestCollectReportsEmptyWhenNoErrors(t *testing.T) {
	seq := seqFromResults([]struct {
		v   int
		err error
	}{
		{1, nil},
		{2, nil},
	})

	reports := CollectReports(seq)
	if !reports.IsEmpty() {
		t.Fatalf("expected no error reports, got %d", reports.Len())
	}
}
