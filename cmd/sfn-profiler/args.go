package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sanjams2/sfn-profiler/cache"
	"github.com/sanjams2/sfn-profiler/sfn"
)

// expandContributors resolves file:// entries into their contents, one
// execution id per line. Blank lines and #-comments are skipped.
func expandContributors(args []string) ([]string, error) {
	var ids []string

	for _, arg := range args {
		path, ok := strings.CutPrefix(arg, "file://")
		if !ok {
			ids = append(ids, arg)
			continue
		}

		fromFile, err := readIDList(path)
		if err != nil {
			return nil, err
		}

		ids = append(ids, fromFile...)
	}

	return ids, nil
}

func readIDList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading contributor list: %w", err)
	}
	defer f.Close()

	var ids []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		ids = append(ids, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading contributor list: %w", err)
	}

	return ids, nil
}

func resolveArns(
	ctx context.Context,
	client *sfn.Client,
	ids []string,
) ([]sfn.ExecutionArn, error) {
	arns := make([]sfn.ExecutionArn, 0, len(ids))

	for _, id := range ids {
		arn, err := client.ResolveArn(ctx, id)
		if err != nil {
			return nil, err
		}

		arns = append(arns, arn)
	}

	return arns, nil
}

// newSource wraps the client in the on-disk history cache unless caching is
// disabled. Histories of finished executions never change, so cache hits are
// always safe. The returned flush writes buffered entries out; callers that
// block indefinitely after fetching must call it themselves, since the atexit
// flush only runs on exit.
func newSource(client *sfn.Client, noCache bool) (sfn.Source, func()) {
	if noCache {
		return client, func() {}
	}

	store := cache.Open(filepath.Join(cache.Dir(), "histories.db"))

	return cache.NewSource(store, client), store.Flush
}
