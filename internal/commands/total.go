package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/nullnotice/internal/amount"
	"github.com/cleared-dev/nullnotice/internal/records"
)

func newTotalCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "total [file]",
		Short: "Print the grand total of a nullity file without sending anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load(cmd)
			if err != nil {
				return err
			}
			path := cfg.InputFile
			if len(args) > 0 {
				path = args[0]
			}
			return runTotal(cmd, path)
		},
	}
}

func runTotal(cmd *cobra.Command, path string) error {
	recs, err := records.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading data file: %w", err)
	}

	malformed := 0
	for _, r := range recs {
		if r.Malformed() {
			malformed++
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Grand total of nullities: %s\n", amount.Format(amount.SumAllValid(recs)))
	fmt.Fprintf(out, "Records: %d (%d with insufficient data)\n", len(recs), malformed)
	return nil
}
