package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"notefiber-sync/internal/bootstrap"
	"notefiber-sync/internal/store"

	"github.com/spf13/cobra"
)

var (
	password string
)

var registerCmd = &cobra.Command{
	Use:   "register [email]",
	Short: "Create an account and sign in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return signIn(cmd, store.Register, args[0])
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in with email and password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return signIn(cmd, store.Login, args[0])
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *bootstrap.Container) error {
			if out := app.Store.Run(ctx, store.Logout()); out.Err != nil {
				return errors.New(store.Select(app.Store, store.SelectAuthError))
			}
			printSuccess("Signed out")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *bootstrap.Container) error {
			user := store.Select(app.Store, store.SelectUser)
			if user == nil {
				fmt.Println("Not signed in")
				return nil
			}
			titleColor.Println(user.Email)
			fmt.Printf("uid: %s\n", user.Uid)
			if user.DisplayName != "" {
				fmt.Printf("name: %s\n", user.DisplayName)
			}
			return nil
		})
	},
}

func signIn(cmd *cobra.Command, command func(email, password string) store.Command, email string) error {
	pw := password
	if pw == "" {
		var err error
		pw, err = prompt(bufio.NewReader(os.Stdin), os.Stderr, "Password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	return withApp(cmd, func(ctx context.Context, app *bootstrap.Container) error {
		if out := app.Store.Run(ctx, command(email, pw)); out.Err != nil {
			return errors.New(store.Select(app.Store, store.SelectAuthError))
		}
		user := store.Select(app.Store, store.SelectUser)
		printSuccess("Signed in as %s", user.Email)
		return nil
	})
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	}
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
}
