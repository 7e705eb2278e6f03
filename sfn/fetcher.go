package sfn

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/sanjams2/sfn-profiler/timeline"
)

//go:generate mockgen -destination "mock_source_test.go" -package sfn -write_package_comment=false github.com/sanjams2/sfn-profiler/sfn Source

// defaultFetchConcurrency bounds the number of in-flight history fetches.
const defaultFetchConcurrency = 8

// A Fetcher materializes the span trees a timeline build needs. The parent
// history and every contributor history are independent fetches, so they are
// issued concurrently and joined before the build starts.
type Fetcher struct {
	source      Source
	concurrency int
}

// NewFetcher creates a Fetcher on top of a history source. A non-positive
// concurrency falls back to the default bound.
func NewFetcher(source Source, concurrency int) *Fetcher {
	if concurrency <= 0 {
		concurrency = defaultFetchConcurrency
	}

	return &Fetcher{source: source, concurrency: concurrency}
}

// Fetch retrieves and normalizes the parent execution and every contributor
// execution. Any failed fetch cancels the remaining ones and fails the whole
// call; per-execution data-quality problems are carried as warnings on the
// returned trees instead.
func (f *Fetcher) Fetch(
	ctx context.Context,
	parent ExecutionArn,
	contributors []ExecutionArn,
	separateRetries bool,
) (timeline.Input, error) {
	var (
		parentTree *timeline.Tree
		trees      = make([]*timeline.Tree, len(contributors))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	g.Go(func() error {
		tree, err := f.fetchTree(ctx, parent, separateRetries)
		parentTree = tree

		return err
	})

	for i, arn := range contributors {
		g.Go(func() error {
			tree, err := f.fetchTree(ctx, arn, separateRetries)
			trees[i] = tree

			return err
		})
	}

	if err := g.Wait(); err != nil {
		return timeline.Input{}, err
	}

	return timeline.Input{Parent: parentTree, Contributors: trees}, nil
}

func (f *Fetcher) fetchTree(
	ctx context.Context,
	arn ExecutionArn,
	separateRetries bool,
) (*timeline.Tree, error) {
	records, err := f.source.History(ctx, arn)
	if err != nil {
		return nil, err
	}

	log.Printf("fetched %d history records for %s", len(records), arn)

	events, warnings := timeline.Normalize(arn.String(), records)

	tree := timeline.BuildSpans(arn.String(), events, separateRetries)
	tree.Warnings = append(warnings, tree.Warnings...)

	// Disorder found during normalization makes the tree best-effort, the
	// same as an unmatched exit found during span building.
	for _, w := range warnings {
		if w.Kind == timeline.WarnMalformedHistory {
			tree.Partial = true
		}
	}

	return tree, nil
}
