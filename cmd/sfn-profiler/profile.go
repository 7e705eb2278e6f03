package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sanjams2/sfn-profiler/export"
	"github.com/sanjams2/sfn-profiler/sfn"
	"github.com/sanjams2/sfn-profiler/timeline"
	"github.com/sanjams2/sfn-profiler/viewer"
)

var profileFlags = struct {
	contributors    []string
	minContributor  time.Duration
	noAggregate     bool
	noInterleave    bool
	noCoalesceLoops bool
	separateRetries bool
	topN            int
	port            int
	noCache         bool
	outDir          string
}{}

var profileCmd = &cobra.Command{
	Use:   "profile <execution>",
	Short: "Build and serve an interactive profile of an execution.",
	Long: `profile fetches the history of the given execution and of every ` +
		`--contributors execution, builds the timeline, and serves it on a ` +
		`local web server. Executions can be full ARNs or ` +
		`"stateMachine:execution" short ids; a contributor argument of the ` +
		`form file://path reads one execution id per line.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	f := profileCmd.Flags()

	f.StringSliceVar(&profileFlags.contributors, "contributors", nil,
		"contributor execution ids, or file://path with one id per line")
	f.DurationVar(&profileFlags.minContributor,
		"min-contributor-task-duration", 120*time.Second,
		"hide contributor tasks shorter than this")
	f.BoolVar(&profileFlags.noAggregate, "no-aggregate", false,
		"show every contributor task instead of per-name aggregates")
	f.BoolVar(&profileFlags.noInterleave, "no-interleave", false,
		"render contributor lanes below the parent instead of interleaved")
	f.BoolVar(&profileFlags.noCoalesceLoops, "no-coalesce-loops", false,
		"do not collapse detected loops into single timeline entries")
	f.BoolVar(&profileFlags.separateRetries, "separate-retries", false,
		"show each retry attempt as its own span")
	f.IntVar(&profileFlags.topN, "top-n", 10,
		"number of tasks in the largest-contributor ranking, 0 for all")
	f.IntVar(&profileFlags.port, "port", 8888,
		"port for the profile server, 0 for a random port")
	f.BoolVar(&profileFlags.noCache, "no-cache", false,
		"bypass the on-disk history cache")
	f.StringVar(&profileFlags.outDir, "out-dir", "",
		"also write the profile as a Chrome trace into this directory")

	rootCmd.AddCommand(profileCmd)
}

func profilePolicy() timeline.Policy {
	p := timeline.DefaultPolicy()
	p.MinContributorTaskDuration = profileFlags.minContributor
	p.Aggregate = !profileFlags.noAggregate
	p.Interleave = !profileFlags.noInterleave
	p.CoalesceLoops = !profileFlags.noCoalesceLoops
	p.SeparateRetries = profileFlags.separateRetries
	p.TopN = profileFlags.topN

	return p
}

func runProfile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	policy := profilePolicy()
	if err := policy.Validate(); err != nil {
		return err
	}

	client, err := sfn.NewClient(ctx)
	if err != nil {
		return err
	}

	arn, err := client.ResolveArn(ctx, args[0])
	if err != nil {
		return err
	}

	info, err := client.Describe(ctx, arn)
	if err != nil {
		return err
	}

	contributorIDs, err := expandContributors(profileFlags.contributors)
	if err != nil {
		return err
	}

	contributors, err := resolveArns(ctx, client, contributorIDs)
	if err != nil {
		return err
	}

	source, flush := newSource(client, profileFlags.noCache)

	input, err := sfn.NewFetcher(source, 0).
		Fetch(ctx, arn, contributors, policy.SeparateRetries)
	if err != nil {
		return err
	}

	flush()

	model, err := timeline.Build(input, policy)
	if err != nil {
		return err
	}

	if profileFlags.outDir != "" {
		if err := writeTrace(profileFlags.outDir, arn, model); err != nil {
			return err
		}
	}

	return viewer.NewViewer(model).
		WithExecutionInfo(info).
		WithPortNumber(profileFlags.port).
		WithBrowser().
		Run()
}

func writeTrace(dir string, arn sfn.ExecutionArn, model *timeline.Model) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	path := filepath.Join(dir, arn.Filename()+".trace.json")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	defer f.Close()

	if err := export.WriteTEF(f, export.Walk(model)); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Wrote trace to %s\n", path)

	return nil
}
