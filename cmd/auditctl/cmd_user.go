package main

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ginternational/backoffice/client"
)

var roleNames = map[string]int{
	"user":    client.RoleUser,
	"admin":   client.RoleAdmin,
	"manager": client.RoleManager,
}

func parseRole(s string) (int, error) {
	if r, ok := roleNames[s]; ok {
		return r, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		for _, r := range roleNames {
			if r == n {
				return n, nil
			}
		}
	}
	return 0, errors.New("role must be user, admin, manager or 0-2")
}

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage back-office accounts",
	}
	cmd.AddCommand(userCreateCmd())
	cmd.AddCommand(userUpdateCmd())
	cmd.AddCommand(userDeleteCmd())
	return cmd
}

func userCreateCmd() *cobra.Command {
	var req client.CreateUserRequest
	var role string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != "" {
				r, err := parseRole(role)
				if err != nil {
					return err
				}
				req.Role = &r
			}
			u, err := apiClient.Users.Create(context.Background(), req)
			if err != nil {
				fatal("user create", err)
			}
			printUser(u)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&req.Email, "email", "", "Login email (required)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Initial password (required)")
	cmd.Flags().StringVar(&role, "role", "", "user, admin or manager")
	cmd.Flags().StringVar(&req.Note, "note", "", "Free-form note")
	cmd.Flags().StringVar(&req.Avatar, "avatar", "", "Avatar URL")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func userUpdateCmd() *cobra.Command {
	var name, email, role, note, avatar string
	var active bool
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an account; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req client.UpdateUserRequest
			f := cmd.Flags()
			if f.Changed("name") {
				req.Name = &name
			}
			if f.Changed("email") {
				req.Email = &email
			}
			if f.Changed("note") {
				req.Note = &note
			}
			if f.Changed("avatar") {
				req.Avatar = &avatar
			}
			if f.Changed("active") {
				req.IsActive = &active
			}
			if f.Changed("role") {
				r, err := parseRole(role)
				if err != nil {
					return err
				}
				req.Role = &r
			}
			if req == (client.UpdateUserRequest{}) {
				return errors.New("nothing to update")
			}

			u, err := apiClient.Users.Update(context.Background(), args[0], req)
			if err != nil {
				fatal("user update", err)
			}
			printUser(u)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&role, "role", "", "user, admin or manager")
	cmd.Flags().StringVar(&note, "note", "", "Free-form note")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar URL")
	cmd.Flags().BoolVar(&active, "active", true, "Whether the account may sign in")
	return cmd
}

func userDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Users.Delete(context.Background(), args[0]); err != nil {
				fatal("user delete", err)
			}
			output(map[string]string{"deleted": args[0]}, args[0])
		},
	}
}

func printUser(u *client.User) {
	if flagFmt == "table" {
		formatTable(
			[]string{"ID", "USER_ID", "ADMIN_ID", "NAME", "EMAIL", "ROLE", "ACTIVE"},
			[][]string{{u.ID, u.UserID, u.AdminID, u.Name, u.Email, strconv.Itoa(u.Role), strconv.FormatBool(u.IsActive)}},
		)
		return
	}
	output(u, u.ID)
}
