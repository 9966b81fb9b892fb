package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/urdwyrd/urdc/internal/compiler"
)

var checkCmd = &cobra.Command{
	Use:   "check [entry.urd.md]",
	Short: "Run the pipeline without writing a world document",
	Long:  "Run PARSE/IMPORT -> LINK -> VALIDATE -> ANALYZE -> EMIT and report diagnostics only, for CI gating: exits 1 on any error-severity diagnostic.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	var arg string
	if len(args) == 1 {
		arg = args[0]
	}
	entry, err := resolveEntry(cmd, arg)
	if err != nil {
		return err
	}

	res, err := compiler.Compile(cmd.Context(), compiler.Request{
		RootDir:   entry.RootDir,
		EntryPath: entry.EntryPath,
	})
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	if err := renderDiagnostics(cmd, res.Diagnostics, res.FileSet, entry.MaxDiagnostics); err != nil {
		return err
	}

	if !res.Success {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}
