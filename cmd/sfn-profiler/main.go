// The sfn-profiler command profiles Step Functions executions: it fetches
// execution histories, builds a timeline of where the time went, and either
// serves an interactive profile or converts the result into a Chrome trace.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sfn-profiler",
	Short: "Profile AWS Step Functions executions.",
	Long: `sfn-profiler fetches the event histories of a Step Functions ` +
		`execution and its contributor executions, builds a timeline showing ` +
		`where the wall time went, and serves it as an interactive profile ` +
		`or exports it as a Chrome trace.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits through atexit so registered
// cleanup, such as the history cache flush, always runs.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func main() {
	// A missing .env file is fine; any other load error is not.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "Error loading .env:", err)
		atexit.Exit(1)
	}

	Execute()
}
