package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newToolchainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toolchains",
		Short: "List known toolchains and whether they are installed",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "NAME\tFAMILY\tCOMPILER\tSTATUS")
			for _, a := range c.app.Toolchains() {
				status := "missing"
				switch {
				case a.Deprecated:
					status = "deprecated"
				case a.Path != "":
					status = a.Path
				}
				family := a.Family
				if family == "" {
					family = "-"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Name, family, a.Compiler, status)
			}
			_ = tw.Flush()
		},
	}
}

func (c *CLI) newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the targets of the targets file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := c.app.Targets()
			if err != nil {
				return err
			}
			for _, name := range names {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
