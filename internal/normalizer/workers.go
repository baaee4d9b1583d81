package normalizer

import "sync"

type job struct {
	index     int
	candidate string
}

type outcome struct {
	url string
	ok  bool
}

// normalizeCandidates writes each outcome at its candidate's index, so the
// result keeps extraction order whatever the number of workers.
func (b *Batch) normalizeCandidates(candidates []string) []outcome {
	outcomes := make([]outcome, len(candidates))
	workers := min(b.workers, len(candidates))
	if workers <= 1 {
		for i, candidate := range candidates {
			outcomes[i] = b.normalizeOne(candidate)
		}
		return outcomes
	}

	jobs := make(chan job, workers*2)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.worker(jobs, outcomes)
		}()
	}
	for i, candidate := range candidates {
		jobs <- job{index: i, candidate: candidate}
	}
	close(jobs)
	wg.Wait()
	return outcomes
}

func (b *Batch) worker(jobs <-chan job, outcomes []outcome) {
	for j := range jobs {
		outcomes[j.index] = b.normalizeOne(j.candidate)
	}
}

func (b *Batch) normalizeOne(candidate string) outcome {
	canonical, err := b.normalizer.canonicalize(candidate)
	if b.recorder != nil {
		b.recorder.RecordCandidate(err == nil)
	}
	if err != nil {
		b.logger.Debug("Dropping candidate.", "candidate", candidate, "error", err)
		return outcome{}
	}
	return outcome{url: canonical, ok: true}
}
