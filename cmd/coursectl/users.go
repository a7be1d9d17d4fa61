package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hqtest/courses-server/internal/features/user"
	"github.com/hqtest/courses-server/pkg/types"
)

func newCreateUserCmd(a *app) *cobra.Command {
	var (
		username string
		password string
		userType string
		admin    bool
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := types.UserType(userType)
			if admin {
				kind = types.UserTypeAdmin
			}

			usr, err := user.Create(a.db, user.CreateInput{
				Username: username,
				Password: password,
				UserType: kind,
			})
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			if a.jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(usr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", usr.UserType, usr.Username, usr.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password, at least 8 characters (required)")
	cmd.Flags().StringVar(&userType, "type", string(types.UserTypeStudent), "User type (student, instructor, admin, superadmin)")
	cmd.Flags().BoolVar(&admin, "admin", false, "Shortcut for --type admin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
