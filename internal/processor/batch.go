package processor

import (
	"sync"

	"github.com/Abhishekkumar2021/SynqX-sub006/internal/spatial"

	"github.com/rs/zerolog/log"
)

// DefaultConcurrency is used when a non-positive worker count is given.
const DefaultConcurrency = 8

type job struct {
	Index  int
	Record any
}

type result struct {
	Index int
	Value *spatial.Result
}

// ExtractAll runs the extractor over records with a bounded worker pool.
// The returned slice is aligned with records; entries without spatial data
// are nil.
func ExtractAll(ex *spatial.Extractor, records []any, concurrency int) []*spatial.Result {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if concurrency > len(records) {
		concurrency = len(records)
	}

	jobs := make(chan job, len(records))
	results := make(chan result, len(records))

	go func() {
		for i, r := range records {
			jobs <- job{Index: i, Record: r}
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res, ok := ex.Extract(j.Record)
				if !ok {
					log.Trace().Int("record", j.Index).Msg("No usable spatial data")
					results <- result{Index: j.Index}
					continue
				}
				results <- result{Index: j.Index, Value: &res}
			}
		}()
	}
	wg.Wait()
	close(results)

	out := make([]*spatial.Result, len(records))
	for res := range results {
		out[res.Index] = res.Value
	}

	return out
}
