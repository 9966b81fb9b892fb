package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/urdwyrd/urdc/internal/compiler"
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/diagfmt"
	"github.com/urdwyrd/urdc/internal/source"
)

var compileCmd = &cobra.Command{
	Use:   "compile [entry.urd.md]",
	Short: "Compile a world into a JSON document",
	Long:  "Run the full PARSE/IMPORT -> LINK -> VALIDATE -> ANALYZE -> EMIT pipeline and write the resulting JSON world document.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringP("output", "o", "", "write the world document here instead of stdout")
	compileCmd.Flags().Bool("timings", false, "show per-stage timing information")
}

func runCompile(cmd *cobra.Command, args []string) error {
	var arg string
	if len(args) == 1 {
		arg = args[0]
	}
	entry, err := resolveEntry(cmd, arg)
	if err != nil {
		return err
	}

	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to read timings flag: %w", err)
	}

	res, err := compiler.Compile(cmd.Context(), compiler.Request{
		RootDir:       entry.RootDir,
		EntryPath:     entry.EntryPath,
		EnableTimings: timings,
	})
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}

	if err := renderDiagnostics(cmd, res.Diagnostics, res.FileSet, entry.MaxDiagnostics); err != nil {
		return err
	}

	if timings {
		for _, stage := range []compiler.Stage{compiler.StageParse, compiler.StageLink, compiler.StageValidate, compiler.StageAnalyze, compiler.StageEmit} {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", stage, res.Timings.Duration(stage)) //nolint:errcheck
		}
	}

	if !res.Success {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}

	out, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to read output flag: %w", err)
	}
	if out == "" {
		_, err = cmd.OutOrStdout().Write(append(res.World, '\n'))
		return err
	}
	return os.WriteFile(out, res.World, 0o644)
}

// renderDiagnostics writes items in whichever --format the caller chose
// (pretty, json, sarif), honoring --max-diagnostics as a display cap —
// the json path still reports the true total separately
// (diagfmt.Output.Count) and only caps how many entries are listed;
// pretty and sarif are given the truncated list alone.
func renderDiagnostics(cmd *cobra.Command, items []diag.Diagnostic, fs *source.FileSet, maxDiagnostics int) error {
	if len(items) == 0 {
		return nil
	}
	format, err := cmd.Root().PersistentFlags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to read format flag: %w", err)
	}

	full := diag.NewBag()
	for _, d := range items {
		full.Add(d)
	}

	switch format {
	case "pretty", "":
		useColor, err := resolveColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), truncated(full, maxDiagnostics), fs, diagfmt.PrettyOpts{Color: useColor, Context: 2})
	case "json":
		return diagfmt.JSON(cmd.ErrOrStderr(), full, fs, diagfmt.JSONOpts{IncludePositions: true, Max: maxDiagnostics})
	case "sarif":
		return diagfmt.Sarif(cmd.ErrOrStderr(), truncated(full, maxDiagnostics), fs, diagfmt.SarifRunMeta{ToolName: "urdc", ToolVersion: versionString()})
	default:
		return fmt.Errorf("unknown --format %q (expected pretty|json|sarif)", format)
	}
	return nil
}

// truncated returns a bag holding at most max diagnostics from full,
// for the formats (pretty, sarif) that have no separate "true total"
// field the way diagfmt.JSONOpts.Max's Output.Count does.
func truncated(full *diag.Bag, max int) *diag.Bag {
	items := full.Items()
	if max <= 0 || max >= len(items) {
		return full
	}
	b := diag.NewBag()
	for _, d := range items[:max] {
		b.Add(d)
	}
	return b
}
