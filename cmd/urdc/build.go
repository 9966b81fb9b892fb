package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/urdwyrd/urdc/internal/compiler"
	"github.com/urdwyrd/urdc/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build [entry.urd.md]",
	Short: "Compile with a live progress display",
	Long:  "Like compile, but drives a terminal progress UI across PARSE -> LINK -> VALIDATE -> ANALYZE -> EMIT (disabled automatically when stdout isn't a terminal).",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "write the world document here instead of stdout")
	buildCmd.Flags().String("ui", "auto", "progress display (auto|on|off)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	var arg string
	if len(args) == 1 {
		arg = args[0]
	}
	entry, err := resolveEntry(cmd, arg)
	if err != nil {
		return err
	}

	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to read ui flag: %w", err)
	}
	useUI, err := shouldShowProgress(uiValue)
	if err != nil {
		return err
	}

	var res compiler.Result
	if useUI {
		res, err = runCompileWithUI(cmd.Context(), "compiling "+entry.EntryPath, entry)
	} else {
		res, err = compiler.Compile(cmd.Context(), compiler.Request{RootDir: entry.RootDir, EntryPath: entry.EntryPath})
	}
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	if err := renderDiagnostics(cmd, res.Diagnostics, res.FileSet, entry.MaxDiagnostics); err != nil {
		return err
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

func shouldShowProgress(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return isTerminal(os.Stdout), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// runCompileWithUI runs Compile in a goroutine, forwarding its progress
// events into a bubbletea program so the UI updates live while the
// compile proceeds in the background, then waits for both to finish.
func runCompileWithUI(ctx context.Context, title string, entry resolvedEntry) (compiler.Result, error) {
	events := make(chan compiler.Event, 16)
	type outcome struct {
		res compiler.Result
		err error
	}
	outcomeCh := make(chan outcome, 1)

	go func() {
		res, err := compiler.Compile(ctx, compiler.Request{
			RootDir:   entry.RootDir,
			EntryPath: entry.EntryPath,
			Progress:  compiler.ChannelSink{Ch: events},
		})
		outcomeCh <- outcome{res: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	out := <-outcomeCh
	if uiErr != nil {
		return out.res, uiErr
	}
	return out.res, out.err
}
