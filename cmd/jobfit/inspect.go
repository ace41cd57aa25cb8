package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/jobmatch/internal/artifact"
)

func (c *cli) newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load the artifacts in a directory and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.bindFlags(cmd, map[string]string{keyOut: "dir"}); err != nil {
				return err
			}
			layout := artifact.DefaultLayout(c.v.GetString(keyOut))
			if missing := artifact.Missing(layout); len(missing) > 0 {
				return fmt.Errorf("missing artifacts in %s: %v", layout.Dir, missing)
			}
			m, err := artifact.Load(layout)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "dir:\t%s\n", layout.Dir)
			printSummary(c.out, m)
			return nil
		},
	}

	cmd.Flags().String("dir", "", "artifact directory")
	return cmd
}
