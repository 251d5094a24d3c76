package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tushle/internal/trending"
)

func newTrendingCommand(ctx *commandContext) *cobra.Command {
	var field string
	var limit int

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Fetch and rank trending topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			aggregator := trending.NewAggregator(cfg, logger,
				trending.WithCache(trending.NewCache(cfg, logger)))
			result, err := aggregator.Refresh(cmd.Context(), field)
			if err != nil {
				return fmt.Errorf("refresh trending: %w", err)
			}

			rows := make([][]string, 0, limit)
			for i, topic := range result.Topics {
				if i == limit {
					break
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					topic.Name,
					topic.Source,
					fmt.Sprintf("%.1f", topic.ComprehensiveScore),
					fmt.Sprintf("%.1f", topic.BusinessScore),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Field %s, %d topics from %d sources\n", result.Field, len(result.Topics), len(result.Sources))
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Topic", "Source", "Score", "Business"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&field, "field", "technology", "Business field to analyze")
	cmd.Flags().IntVar(&limit, "limit", 15, "Maximum rows to print")
	return cmd
}
