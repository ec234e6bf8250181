package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/mbuild/internal/app"
	"go.trai.ch/mbuild/internal/engine/toolchain"
)

// addTargetFlags registers the flags every target-scoped command shares.
func (c *CLI) addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("target", "t", "", "Target to build for (required)")
	cmd.Flags().StringP("toolchain", "T", "", "Toolchain or toolchain family (default: the target's first supported toolchain)")
	cmd.Flags().StringSliceP("source", "s", []string{"."}, "Source root, repeatable")
	cmd.Flags().String("build", c.settings.BuildDir, "Build directory (default BUILD/<target>/<toolchain>)")
	cmd.Flags().Bool("pin-legacy", c.settings.PinLegacy, "Prefer the oldest supported toolchain generation")
	cmd.Flags().Bool("no-stdlib-fallback", c.settings.NoStdLibFallback,
		"Fail instead of substituting the standard C library for an unsupported variant")
}

// addBuildFlags registers the flags of commands that compile.
func (c *CLI) addBuildFlags(cmd *cobra.Command) {
	c.addTargetFlags(cmd)
	cmd.Flags().IntP("jobs", "j", c.settings.Jobs, "Parallel compiler processes (default: number of cores)")
	cmd.Flags().Duration("timeout", c.settings.Timeout, "Wall-clock limit for compiling one batch")
	cmd.Flags().BoolP("force", "f", false, "Rebuild every translation unit")
	cmd.Flags().Bool("inject-config", false, "Pre-include the build config header into every translation unit")
	cmd.Flags().Bool("report", false, "Write build_report.json into the build directory")
	cmd.Flags().String("name", "", "Artifact base name (default: the first source root's directory name)")
}

// policy layers the resolution flags over the environment settings.
func (c *CLI) policy(cmd *cobra.Command) *toolchain.Policy {
	p := toolchain.PolicyFromSettings(c.settings)
	p.PinLegacy, _ = cmd.Flags().GetBool("pin-legacy")
	noFallback, _ := cmd.Flags().GetBool("no-stdlib-fallback")
	p.StdLibFallback = !noFallback
	return &p
}

func (c *CLI) buildOptions(cmd *cobra.Command) app.BuildOptions {
	target, _ := cmd.Flags().GetString("target")
	tc, _ := cmd.Flags().GetString("toolchain")
	roots, _ := cmd.Flags().GetStringSlice("source")
	buildDir, _ := cmd.Flags().GetString("build")
	jobs, _ := cmd.Flags().GetInt("jobs")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	force, _ := cmd.Flags().GetBool("force")
	inject, _ := cmd.Flags().GetBool("inject-config")
	report, _ := cmd.Flags().GetBool("report")
	name, _ := cmd.Flags().GetString("name")

	return app.BuildOptions{
		Target:       target,
		Toolchain:    tc,
		Roots:        roots,
		BuildDir:     buildDir,
		Name:         name,
		Jobs:         jobs,
		Timeout:      timeout,
		Force:        force,
		InjectConfig: inject,
		Report:       report,
		Policy:       c.policy(cmd),
	}
}

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile and link a target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := c.buildOptions(cmd)
			if opts.Target == "" {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}

			started := time.Now()
			res, err := c.app.Build(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s (%s, %d compiled, %d up to date, %s)\n",
				res.Artifact, res.Toolchain, res.Compiled, res.UpToDate, time.Since(started).Round(time.Millisecond))
			if res.ReportPath != "" {
				_, _ = fmt.Fprintf(out, "report: %s\n", res.ReportPath)
			}
			return nil
		},
	}
	c.addBuildFlags(cmd)
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild a target whenever its sources change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := c.buildOptions(cmd)
			if opts.Target == "" {
				_ = cmd.Help()
				return nil
			}
			return c.app.Watch(cmd.Context(), opts)
		},
	}
	c.addBuildFlags(cmd)
	return cmd
}
