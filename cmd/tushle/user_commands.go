package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tushle/internal/auth"
	"tushle/internal/config"
	"tushle/internal/store"
)

func newUserCommand(ctx *commandContext) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	userCmd.AddCommand(newUserCreateCommand(ctx))
	userCmd.AddCommand(newUserListCommand(ctx))

	return userCmd
}

func newUserCreateCommand(ctx *commandContext) *cobra.Command {
	var email, password, fullName, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.ToLower(strings.TrimSpace(email))
			if email == "" || !strings.Contains(email, "@") {
				return fmt.Errorf("a valid --email is required")
			}
			if len(password) < 8 {
				return fmt.Errorf("--password must be at least 8 characters")
			}
			userRole := store.Role(strings.ToLower(strings.TrimSpace(role)))
			switch userRole {
			case store.RoleAdmin, store.RoleManager, store.RoleEmployee:
			default:
				return fmt.Errorf("unknown role %q", role)
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				hash, err := auth.HashPassword(password)
				if err != nil {
					return err
				}
				user := &store.User{
					Email:          email,
					HashedPassword: hash,
					FullName:       strings.TrimSpace(fullName),
					Role:           userRole,
					IsActive:       true,
				}
				if err := st.CreateUser(cmd.Context(), user); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s account %s (id %d)\n", user.Role, user.Email, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().StringVar(&fullName, "name", "", "Full name")
	cmd.Flags().StringVar(&role, "role", "employee", "Role: admin, manager, or employee")
	return cmd
}

func newUserListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				users, err := st.ListUsers(cmd.Context(), store.Page{})
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(users))
				for _, user := range users {
					rows = append(rows, []string{
						fmt.Sprintf("%d", user.ID),
						user.Email,
						user.FullName,
						string(user.Role),
						yesNo(user.IsActive),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Email", "Name", "Role", "Active"},
					rows,
					[]columnAlignment{alignRight},
				))
				return nil
			})
		},
	}
}
