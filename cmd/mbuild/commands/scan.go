package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"
	"go.trai.ch/mbuild/internal/app"
	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Show which files a target would build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := c.buildOptions(cmd)
			if opts.Target == "" {
				_ = cmd.Help()
				return nil
			}

			res, err := c.app.Scan(cmd.Context(), app.ScanOptions{
				Target:    opts.Target,
				Toolchain: opts.Toolchain,
				Roots:     opts.Roots,
				BuildDir:  opts.BuildDir,
				Policy:    opts.Policy,
			})
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return writeScanJSON(cmd.OutOrStdout(), res)
			}
			writeScanText(cmd.OutOrStdout(), res)
			return nil
		},
	}
	c.addTargetFlags(cmd)
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	return cmd
}

type scanSummary struct {
	Target    string                 `json:"target"`
	Toolchain string                 `json:"toolchain"`
	Warnings  []string               `json:"warnings,omitempty"`
	Resources domain.ResourceSummary `json:"resources"`
}

func writeScanJSON(w io.Writer, res *app.ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(scanSummary{
		Target:    res.Target,
		Toolchain: res.Toolchain,
		Warnings:  res.Warnings,
		Resources: res.Resources.Summary(),
	})
	if err != nil {
		return zerr.Wrap(err, "failed to encode scan summary")
	}
	return nil
}

func writeScanText(w io.Writer, res *app.ScanResult) {
	summary := res.Resources.Summary()
	_, _ = fmt.Fprintf(w, "%s with %s\n", res.Target, res.Toolchain)
	for _, category := range slices.Sorted(maps.Keys(summary.Counts)) {
		_, _ = fmt.Fprintf(w, "  %-8s %d\n", category, summary.Counts[category])
	}
	script := summary.LinkerScript
	if script == "" {
		script = "(none)"
	}
	_, _ = fmt.Fprintf(w, "linker script: %s\n", script)
	_, _ = fmt.Fprintf(w, "config header: %t\n", summary.HasConfig)
	_, _ = fmt.Fprintln(w, "include dirs:")
	for _, dir := range summary.IncludeDirs {
		_, _ = fmt.Fprintf(w, "  %s\n", dir)
	}
}
