package cache

import (
	"context"
	"log"

	"github.com/sanjams2/sfn-profiler/sfn"
	"github.com/sanjams2/sfn-profiler/timeline"
)

// A Source wraps a history source with the cache. Hits skip the wrapped
// source entirely; misses are fetched and buffered for writing.
type Source struct {
	store *Store
	next  sfn.Source
}

// NewSource builds a caching source in front of next.
func NewSource(store *Store, next sfn.Source) *Source {
	return &Source{store: store, next: next}
}

// History implements sfn.Source.
func (s *Source) History(
	ctx context.Context,
	arn sfn.ExecutionArn,
) ([]timeline.RawRecord, error) {
	if records, ok := s.store.Get(arn.String()); ok {
		log.Printf("using cached history for %s", arn)
		return records, nil
	}

	records, err := s.next.History(ctx, arn)
	if err != nil {
		return nil, err
	}

	s.store.Put(arn.String(), records)

	return records, nil
}
