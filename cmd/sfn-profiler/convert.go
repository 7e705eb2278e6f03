package main

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/spf13/cobra"

	"github.com/sanjams2/sfn-profiler/export"
	"github.com/sanjams2/sfn-profiler/sfn"
	"github.com/sanjams2/sfn-profiler/timeline"
)

var convertFlags = struct {
	output          string
	separateRetries bool
	noCache         bool
}{}

var convertCmd = &cobra.Command{
	Use:   "convert <execution>...",
	Short: "Convert executions into a Chrome trace file.",
	Long: `convert fetches the history of each given execution, builds its ` +
		`timeline, and writes all of them into one Chrome Trace Event Format ` +
		`file, loadable in the Perfetto UI. Each execution becomes its own ` +
		`process in the trace.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()

	f.StringVarP(&convertFlags.output, "output", "o", "",
		"output file, defaults to a generated trace-<id>.json")
	f.BoolVar(&convertFlags.separateRetries, "separate-retries", false,
		"show each retry attempt as its own span")
	f.BoolVar(&convertFlags.noCache, "no-cache", false,
		"bypass the on-disk history cache")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	policy := timeline.DefaultPolicy()
	policy.SeparateRetries = convertFlags.separateRetries

	client, err := sfn.NewClient(ctx)
	if err != nil {
		return err
	}

	source, flush := newSource(client, convertFlags.noCache)
	defer flush()

	fetcher := sfn.NewFetcher(source, 0)

	traces := make([]export.Trace, 0, len(args))
	for _, id := range args {
		arn, err := client.ResolveArn(ctx, id)
		if err != nil {
			return err
		}

		input, err := fetcher.Fetch(ctx, arn, nil, policy.SeparateRetries)
		if err != nil {
			return err
		}

		model, err := timeline.Build(input, policy)
		if err != nil {
			return err
		}

		traces = append(traces, export.Walk(model))
	}

	path := convertFlags.output
	if path == "" {
		path = fmt.Sprintf("trace-%s.json", xid.New())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	defer f.Close()

	if err := export.WriteTEF(f, traces...); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Wrote trace to %s\n", path)

	return nil
}
