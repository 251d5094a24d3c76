package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tushle/internal/config"
	"tushle/internal/store"
)

func newInvoiceCommand(ctx *commandContext) *cobra.Command {
	invoiceCmd := &cobra.Command{
		Use:   "invoice",
		Short: "Inspect invoices",
	}
	invoiceCmd.AddCommand(newInvoiceListCommand(ctx))
	invoiceCmd.AddCommand(newInvoiceSummaryCommand(ctx))
	return invoiceCmd
}

func newInvoiceListCommand(ctx *commandContext) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				filter := store.InvoiceFilter{
					Status: store.InvoiceStatus(strings.ToLower(strings.TrimSpace(status))),
				}
				invoices, err := st.ListInvoices(cmd.Context(), filter, store.Page{})
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(invoices))
				for _, invoice := range invoices {
					due := ""
					if invoice.DueDate != nil {
						due = invoice.DueDate.Format("2006-01-02")
					}
					rows = append(rows, []string{
						invoice.InvoiceNumber,
						fmt.Sprintf("%d", invoice.ClientID),
						formatDollars(invoice.AmountCents),
						string(invoice.Status),
						due,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Number", "Client", "Amount", "Status", "Due"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	return cmd
}

func newInvoiceSummaryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show revenue totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				summary, err := st.SummarizeRevenue(cmd.Context())
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Total invoiced", formatDollars(summary.TotalCents)},
					{"Collected", formatDollars(summary.PaidCents)},
					{"Outstanding", formatDollars(summary.OutstandingCents)},
					{"Overdue", formatDollars(summary.OverdueCents)},
					{"Invoice count", fmt.Sprintf("%d", summary.InvoiceCount)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Metric", "Value"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}

func formatDollars(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
