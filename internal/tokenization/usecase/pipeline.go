package usecase

import (
	"context"

	tokenizationDomain "github.com/allisson/tokenizer/internal/tokenization/domain"
)

// batchPipeline runs the stages shared by every operation:
// cache check, remote fetch of the uncached keys, merge, cache update.
type batchPipeline[K comparable, I any, S any] struct {
	// lookup resolves a key from the cache.
	lookup func(key K) (I, bool)
	// fetch resolves keys remotely. keys are unique and never empty.
	fetch func(ctx context.Context, keys []K) (map[K]I, error)
	// summarize computes the summary over the merged results.
	summarize func(results []I) S
	// store writes a fetched item back to the cache when it is worth caching.
	store func(item I)
}

// run resolves keys and returns one result per key, in input order.
func (p *batchPipeline[K, I, S]) run(ctx context.Context, keys []K) (*tokenizationDomain.BatchResult[I, S], error) {
	results := make([]I, len(keys))
	resolved := make([]bool, len(keys))

	var uncached []K
	pending := make(map[K]struct{})
	for i, key := range keys {
		if item, ok := p.lookup(key); ok {
			results[i] = item
			resolved[i] = true
			continue
		}
		if _, dup := pending[key]; !dup {
			pending[key] = struct{}{}
			uncached = append(uncached, key)
		}
	}

	if len(uncached) > 0 {
		fetched, err := p.fetch(ctx, uncached)
		if err != nil {
			return nil, err
		}

		for i, key := range keys {
			if resolved[i] {
				continue
			}
			item, ok := fetched[key]
			if !ok {
				return nil, tokenizationDomain.ErrMissingResult
			}
			results[i] = item
		}

		for _, key := range uncached {
			p.store(fetched[key])
		}
	}

	return &tokenizationDomain.BatchResult[I, S]{
		Results: results,
		Summary: p.summarize(results),
	}, nil
}
