package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tushle/internal/config"
	"tushle/internal/reports"
	"tushle/internal/services/groq"
	"tushle/internal/store"
	"tushle/internal/trending"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Generate PDF reports",
	}
	reportCmd.AddCommand(newReportGenerateCommand(ctx))
	return reportCmd
}

func newReportGenerateCommand(ctx *commandContext) *cobra.Command {
	var reportType, field, user string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a business or trending report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				logger, err := ctx.newLogger()
				if err != nil {
					return err
				}
				generator := reports.NewGenerator(cfg, st, logger)

				var report *store.Report
				switch strings.ToLower(strings.TrimSpace(reportType)) {
				case "business":
					llm := groq.NewClient(cfg.LLM.APIKey,
						groq.WithBaseURL(cfg.LLM.BaseURL),
						groq.WithModel(cfg.LLM.Model))
					summary, err := st.SummarizeRevenue(cmd.Context())
					if err != nil {
						return err
					}
					metrics := fmt.Sprintf("Total invoiced: %s. Collected: %s. Outstanding: %s.",
						formatDollars(summary.TotalCents),
						formatDollars(summary.PaidCents),
						formatDollars(summary.OutstandingCents))
					recommendations, err := llm.Recommendations(cmd.Context(), metrics)
					if err != nil {
						recommendations = groq.FallbackRecommendations()
					}
					report, err = generator.GenerateBusinessReport(cmd.Context(), user, recommendations)
					if err != nil {
						return err
					}
				case "trending":
					aggregator := trending.NewAggregator(cfg, logger,
						trending.WithCache(trending.NewCache(cfg, logger)))
					result, err := aggregator.Refresh(cmd.Context(), field)
					if err != nil {
						return err
					}
					report, err = generator.GenerateTrendingReport(cmd.Context(), result, user)
					if err != nil {
						return err
					}
				default:
					return fmt.Errorf("unknown report type %q (want business or trending)", reportType)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Report %d written to %s\n", report.ID, report.FilePath)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reportType, "type", "business", "Report type: business or trending")
	cmd.Flags().StringVar(&field, "field", "technology", "Business field for trending reports")
	cmd.Flags().StringVar(&user, "user", "cli", "Requesting user, used in the report filename")
	return cmd
}
