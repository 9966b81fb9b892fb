package cache

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FileResult is what a caller already knows about one parsed file by the
// time a compile has finished — enough to build its cache Payload
// without this package reaching back into internal/ast or internal/symbols.
type FileResult struct {
	Path          string
	Content       []byte
	SectionCount  int
	LocationCount int
	ChoiceCount   int
	Broken        bool
}

// WarmAll populates the cache for every file in results concurrently.
// Each file's hash-and-encode-and-write is independent of every other
// file's, so they fan out onto an errgroup rather than running
// sequentially. The first write failure cancels gctx so the remaining
// goroutines stop early; errgroup.Wait returns that first error.
func (c *Disk) WarmAll(ctx context.Context, results []FileResult) error {
	if c == nil || len(results) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, res := range results {
		res := res
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			payload := NewPayload(res.Path, res.Content, res.SectionCount, res.LocationCount, res.ChoiceCount, res.Broken)
			return c.Put(payload.ContentHash, payload)
		})
	}
	return g.Wait()
}
