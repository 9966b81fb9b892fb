// Command urdc compiles Schema Markdown (.urd.md) source into a single
// deterministic JSON world document (spec §2). The root command carries
// global --color/--max-diagnostics/--format flags shared by one
// cobra.Command per verb across urdc's four subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/urdwyrd/urdc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "urdc",
	Short: "Compile Schema Markdown worlds into a deterministic JSON document",
	Long:  "urdc is the compiler for the Urd world-description language: Schema Markdown (.urd.md) in, a single JSON world document out.",
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize diagnostics (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 500, "maximum number of diagnostics to display")
	rootCmd.PersistentFlags().String("format", "pretty", "diagnostic output format (pretty|json|sarif)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal, used to
// decide --color=auto and --ui=auto behavior.
func isTerminal(f *os.File) bool {
	return isTerminalFd(f)
}

func resolveColor(cmd *cobra.Command, out *os.File) (bool, error) {
	flag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to read color flag: %w", err)
	}
	switch flag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(out), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", flag)
	}
}
