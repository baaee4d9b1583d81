package normalizer

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

// fieldsExtractor treats every whitespace separated token as a candidate.
type fieldsExtractor struct{}

func (fieldsExtractor) Extract(inputs ...string) []string {
	var out []string
	for _, in := range inputs {
		out = append(out, strings.Fields(in)...)
	}
	return out
}

type panickingExtractor struct{}

func (panickingExtractor) Extract(...string) []string {
	panic("extractor failure")
}

type countingRecorder struct {
	mu         sync.Mutex
	normalized int
	dropped    int
	batches    []Stats
}

func (r *countingRecorder) RecordCandidate(normalized bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if normalized {
		r.normalized++
	} else {
		r.dropped++
	}
}

func (r *countingRecorder) RecordBatch(stats Stats) {
	r.mu.Lock()
	r.batches = append(r.batches, stats)
	r.mu.Unlock()
}

func TestNormalizeAllKeepsOrder(t *testing.T) {
	t.Parallel()

	text := "http://blog.twingly.com/ http://www.twingly. http://twingly.com/ nonsense http://twingly.com/"
	want := []string{
		"http://blog.twingly.com/",
		"http://www.twingly.com/",
		"http://www.twingly.com/",
	}

	for _, workers := range []int{1, 2, 8} {
		workers := workers
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			t.Parallel()
			b := NewBatch(testNormalizer(), fieldsExtractor{}, WithWorkers(workers))
			got := b.NormalizeAll(text)
			if len(got) != len(want) {
				t.Fatalf("got %d urls %v, want %v", len(got), got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("url %d = %q, want %q", i, got[i], want[i])
				}
			}
		})
	}
}

func TestNormalizeAllAcceptsLists(t *testing.T) {
	t.Parallel()

	b := NewBatch(testNormalizer(), fieldsExtractor{})
	got := b.NormalizeAll("http://blog.twingly.com/", "http://twingly.com/")
	if len(got) != 2 || got[0] != "http://blog.twingly.com/" || got[1] != "http://www.twingly.com/" {
		t.Fatalf("unexpected result %v", got)
	}
}

func TestNormalizeAllEmptyInput(t *testing.T) {
	t.Parallel()

	b := NewBatch(testNormalizer(), fieldsExtractor{}, WithWorkers(4))
	if got := b.NormalizeAll(); len(got) != 0 {
		t.Fatalf("expected no urls, got %v", got)
	}
	if got := b.NormalizeAll(""); len(got) != 0 {
		t.Fatalf("expected no urls, got %v", got)
	}
	if got := b.NormalizeAll("This is, just, some words. Yay!"); len(got) != 0 {
		t.Fatalf("expected no urls, got %v", got)
	}
}

func TestRunReportsStats(t *testing.T) {
	t.Parallel()

	rec := &countingRecorder{}
	b := NewBatch(testNormalizer(), fieldsExtractor{}, WithWorkers(3), WithRecorder(rec))

	var inputs []string
	for i := 0; i < 50; i++ {
		inputs = append(inputs, fmt.Sprintf("http://site%d.com/page/", i), "http://broken.")
	}
	res := b.Run(inputs...)

	if res.Stats.Candidates != 100 {
		t.Fatalf("candidates = %d, want 100", res.Stats.Candidates)
	}
	if res.Stats.Normalized != 50 || res.Stats.Dropped != 50 {
		t.Fatalf("normalized/dropped = %d/%d, want 50/50", res.Stats.Normalized, res.Stats.Dropped)
	}
	for i, u := range res.URLs {
		if want := fmt.Sprintf("http://www.site%d.com/page", i); u != want {
			t.Fatalf("url %d = %q, want %q", i, u, want)
		}
	}
	if rec.normalized != 50 || rec.dropped != 50 {
		t.Fatalf("recorder saw %d/%d, want 50/50", rec.normalized, rec.dropped)
	}
	if len(rec.batches) != 1 || rec.batches[0].Candidates != 100 {
		t.Fatalf("unexpected batch observations %+v", rec.batches)
	}
}

func TestRunSurvivesCollaboratorPanics(t *testing.T) {
	t.Parallel()

	b := NewBatch(testNormalizer(), panickingExtractor{})
	if got := b.NormalizeAll("http://twingly.com/"); len(got) != 0 {
		t.Fatalf("expected no urls, got %v", got)
	}

	b = NewBatch(New(panickingParser{}), fieldsExtractor{}, WithWorkers(2))
	res := b.Run("http://twingly.com/ http://127.0.0.1/")
	if len(res.URLs) != 1 || res.URLs[0] != "http://127.0.0.1/" {
		t.Fatalf("unexpected urls %v", res.URLs)
	}
	if res.Stats.Dropped != 1 {
		t.Fatalf("dropped = %d, want 1", res.Stats.Dropped)
	}
}
