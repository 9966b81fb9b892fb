package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/urdwyrd/urdc/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionFormat string

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show urdc build fingerprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch strings.ToLower(versionFormat) {
		case "json":
			return renderVersionJSON(cmd.OutOrStdout())
		case "pretty", "":
			fmt.Fprintf(cmd.OutOrStdout(), "urdc %s\n", versionString()) //nolint:errcheck
			return nil
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}

// versionString returns the effective version, defaulting to "dev" when
// a release build didn't stamp one in via -ldflags.
func versionString() string {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		return "dev"
	}
	return v
}

func renderVersionJSON(out io.Writer) error {
	payload := versionPayload{
		Tool:      "urdc",
		Version:   versionString(),
		GitCommit: strings.TrimSpace(version.GitCommit),
		BuildDate: strings.TrimSpace(version.BuildDate),
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
