package cli

import (
	"fmt"

	"github.com/glyph-dev/glyph/internal/output"
	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "glyph",
		Short: "Crawl source trees into control-flow graphs",
		Long: `Glyph parses Rust, Python and TypeScript/JavaScript sources into one
namespaced graph of functions, branches and loops. Edges carry the branch
outcome that leads to them, and every node gets a hierarchy depth.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error (default: config or warn)")

	crawlCmd := &cobra.Command{
		Use:   "crawl [path]",
		Short: "Crawl a directory and print its flow graph",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunCrawl,
	}
	addCrawlFlags(crawlCmd)
	crawlCmd.Flags().Int("top", 5, "Number of most-called nodes in the summary")
	crawlCmd.Flags().String("out", "", "Write output to this file instead of stdout")

	levelsCmd := &cobra.Command{
		Use:   "levels [path]",
		Short: "Print the hierarchy depth of every node",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunLevels,
	}
	addCrawlFlags(levelsCmd)

	traceCmd := &cobra.Command{
		Use:   "trace <source> <sink>",
		Short: "Show every path between two nodes",
		Args:  cobra.ExactArgs(2),
		RunE:  RunTrace,
	}
	addCrawlFlags(traceCmd)
	traceCmd.Flags().String("root", ".", "Directory to crawl")

	watchCmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-crawl whenever sources change",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunWatch,
	}
	addCrawlFlags(watchCmd)
	watchCmd.Flags().Int("top", 5, "Number of most-called nodes in the summary")
	watchCmd.Flags().Int("debounce", 0, "Quiet period in milliseconds before re-crawling (default: config or 500)")

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve crawl, trace_flow and levels tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunMCP(cmd, version)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "glyph %s\n", version)
		},
	}

	rootCmd.AddCommand(
		crawlCmd,
		levelsCmd,
		traceCmd,
		watchCmd,
		mcpCmd,
		versionCmd,
	)

	return rootCmd
}

func addCrawlFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("flat", false, "Suppress branch and loop nodes (plain call graph)")
	cmd.Flags().String("format", string(output.FormatText), "Output format: text|json|jsonl")
	cmd.Flags().Bool("json", false, "Shorthand for --format json")
}
