package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/edvin/kitcatalog/internal/core"
	"github.com/edvin/kitcatalog/internal/model"
)

type createUserOptions struct {
	email       string
	password    string
	displayName string
	role        string
}

func (o createUserOptions) validate() error {
	if !strings.Contains(o.email, "@") {
		return fmt.Errorf("--email must be an email address")
	}
	if len(o.password) < 8 {
		return fmt.Errorf("--password must be at least 8 characters")
	}
	if o.role != model.RoleAdmin && o.role != model.RoleViewer {
		return fmt.Errorf("--role must be %q or %q", model.RoleAdmin, model.RoleViewer)
	}
	return nil
}

func newCreateUserCmd() *cobra.Command {
	var opts createUserOptions

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an admin UI account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			pool, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			hash, err := core.HashPassword(opts.password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			now := time.Now()
			user := &model.User{
				ID:           uuid.NewString(),
				Email:        strings.ToLower(strings.TrimSpace(opts.email)),
				PasswordHash: hash,
				Role:         opts.role,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if opts.displayName != "" {
				user.DisplayName = &opts.displayName
			}

			if err := core.NewUserService(pool).Create(ctx, user); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "User created.\n\n  ID:    %s\n  Email: %s\n  Role:  %s\n", user.ID, user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&opts.password, "password", "", "Password, at least 8 characters (required)")
	cmd.Flags().StringVar(&opts.displayName, "name", "", "Display name")
	cmd.Flags().StringVar(&opts.role, "role", model.RoleAdmin, "Role: admin or viewer")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}
