package lumen

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultMaxConcurrent is the admission-gate width used when the caller
// passes a non-positive limit to Batch.
const DefaultMaxConcurrent = 5

// BatchResult is the outcome of one batch item. Conversation is the same
// pointer that was passed in; on success it has one new assistant message,
// on failure it is unmodified and Err holds the item's error.
type BatchResult struct {
	Conversation *Conversation
	Err          error
}

// Batch runs provider.Predict over every conversation with at most
// maxConcurrent calls in flight. Results are returned in input order.
//
// The batch is fail-independent: one item's error is captured in its
// BatchResult and does not cancel or block sibling items. Upstream provider
// calls are flaky enough that a fail-fast batch would routinely throw away
// good work. Cancelling ctx stops admitting new items; items already past the
// gate run to completion under their own Predict call's ctx handling.
//
// Each conversation must be owned by exactly one item; Batch provides no
// locking for conversations aliased across items.
func Batch(ctx context.Context, provider ChatProvider, convs []*Conversation, opts *GenerateOptions, maxConcurrent int) []BatchResult {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}

	results := make([]BatchResult, len(convs))
	gate := semaphore.NewWeighted(int64(maxConcurrent))

	var wg sync.WaitGroup
	for i, conv := range convs {
		wg.Add(1)
		go func(i int, conv *Conversation) {
			defer wg.Done()

			if err := gate.Acquire(ctx, 1); err != nil {
				results[i] = BatchResult{Conversation: conv, Err: err}
				return
			}
			defer gate.Release(1)

			err := provider.Predict(ctx, conv, opts)
			results[i] = BatchResult{Conversation: conv, Err: err}
		}(i, conv)
	}
	wg.Wait()

	return results
}
