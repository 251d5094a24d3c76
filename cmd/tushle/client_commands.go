package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tushle/internal/config"
	"tushle/internal/store"
)

func newClientCommand(ctx *commandContext) *cobra.Command {
	clientCmd := &cobra.Command{
		Use:   "client",
		Short: "Inspect clients",
	}
	clientCmd.AddCommand(newClientListCommand(ctx))
	return clientCmd
}

func newClientListCommand(ctx *commandContext) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				filter := store.ClientFilter{
					Status: store.ClientStatus(strings.ToLower(strings.TrimSpace(status))),
				}
				clients, err := st.ListClients(cmd.Context(), filter, store.Page{})
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(clients))
				for _, client := range clients {
					rows = append(rows, []string{
						fmt.Sprintf("%d", client.ID),
						client.Name,
						client.Company,
						string(client.Status),
						client.OnboardingStage,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Company", "Status", "Stage"},
					rows,
					[]columnAlignment{alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	return cmd
}
