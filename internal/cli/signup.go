package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/appspark/waitlist/internal/signup"
	"github.com/appspark/waitlist/internal/store"
	"github.com/spf13/cobra"
)

var signupName string

var signupCmd = &cobra.Command{
	Use:   "signup <email>",
	Short: "Add someone to the waitlist",
	Long: `Add a signup to the waitlist, the same way the landing page form does.

Example:
  waitlist signup ada@example.com --name "Ada Lovelace"`,
	Args: cobra.ExactArgs(1),
	RunE: runSignup,
}

func init() {
	signupCmd.Flags().StringVarP(&signupName, "name", "n", "", "name of the person signing up")
	signupCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(signupCmd)
}

func runSignup(cmd *cobra.Command, args []string) error {
	email := args[0]

	return withStore(func(s store.Store) error {
		client := signup.New(s, signup.WithLogger(logger))
		if err := resultError(client.CreateSignup(context.Background(), signupName, email)); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added %s <%s> to the waitlist\n", signupName, email)
		return nil
	})
}

// resultError turns a failed Result into an error for the command to return.
func resultError(res signup.Result) error {
	if res.OK {
		return nil
	}
	return errors.New(res.Message)
}
