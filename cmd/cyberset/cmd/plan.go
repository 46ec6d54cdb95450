package cmd

import (
	"errors"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/cyberset/internal/dataset"
	"github.com/MeKo-Tech/cyberset/internal/split"
)

// planCmd represents the plan command.
var planCmd = &cobra.Command{
	Use:   "plan [SOURCE]",
	Short: "Show how each class would be split without writing anything",
	Long: `Read every class of a source tree and print the train, validation and test
counts that generate would use. Classes with too few samples to split are
reported as degenerate. Nothing is written.

Examples:
  cyberset plan ./covers
  cyberset plan ./covers --train 80 --validation 10 --test 10`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, slices.Concat(splitBindings, sourceBindings))
	},
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if len(args) > 0 {
		cfg.Source.Dir = args[0]
	}
	if cfg.Source.Dir == "" {
		return errors.New("source directory is required")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	classes, err := dataset.ScanSource(cfg.Source.Dir, dataset.SourceOptions{
		CardFile:    cfg.Source.CardFile,
		ClassPrefix: cfg.Source.ClassPrefix,
	})
	if err != nil {
		return err
	}

	pct := cfg.ToPercentages()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CODE\tLABEL\tSAMPLES\tTRAIN\tVALIDATION\tTEST\tSTATUS")

	var total, degenerate int
	var sum split.Plan
	for _, class := range classes {
		plan := split.Determine(len(class.Samples), pct)
		status := "ok"
		if err := plan.Validate(); err != nil {
			status = "degenerate"
			degenerate++
		} else {
			sum.Train += plan.Train
			sum.Validation += plan.Validation
			sum.Test += plan.Test
		}
		total += len(class.Samples)
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			class.Card.Code, class.Label(), plan.Total, plan.Train, plan.Validation, plan.Test, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "\n%s classes, %s samples: %s train, %s validation, %s test\n",
		humanize.Comma(int64(len(classes))),
		humanize.Comma(int64(total)),
		humanize.Comma(int64(sum.Train)),
		humanize.Comma(int64(sum.Validation)),
		humanize.Comma(int64(sum.Test)),
	)
	if degenerate > 0 {
		_, _ = fmt.Fprintf(out, "%d degenerate classes would fail generate (use --skip-degenerate to skip them)\n", degenerate)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(planCmd)
	addSplitFlags(planCmd)
	addSourceFlags(planCmd)
}
