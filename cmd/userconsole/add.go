package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eion/userconsole/internal/users"
)

var (
	flagName  string
	flagEmail string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a user through the service",
	Long:  "Loads the user list, submits a new user, and prints the outcome using the configured submit profile.",
	Args:  cobra.NoArgs,
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&flagName, "name", "", "name of the new user")
	addCmd.Flags().StringVar(&flagEmail, "email", "", "email of the new user")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("email")
}

func runAdd(cmd *cobra.Command, args []string) error {
	draft, err := draftFromFlags(flagName, flagEmail)
	if err != nil {
		return err
	}

	as, err := newAppState()
	if err != nil {
		return err
	}
	defer as.Logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	as.Controller.Initialize(ctx)

	user, submitErr := as.Controller.Submit(ctx, draft)

	out := cmd.OutOrStdout()
	if notice := as.Controller.TakeNotice(); notice != nil {
		if err := writeNotice(out, flagFormat, notice); err != nil {
			return err
		}
	}
	if submitErr != nil {
		// already shown as a notice or logged, depending on the profile
		errorHandled = true
		return submitErr
	}

	if flagFormat == "json" {
		return writeUser(out, user)
	}
	return writeUsers(out, flagFormat, as.Controller.Snapshot().Users)
}

// draftFromFlags plays the role of the form's required-field check
func draftFromFlags(name, email string) (users.DraftUser, error) {
	var missing []error
	if name == "" {
		missing = append(missing, fmt.Errorf("--name must not be empty"))
	}
	if email == "" {
		missing = append(missing, fmt.Errorf("--email must not be empty"))
	}
	if len(missing) > 0 {
		return users.DraftUser{}, errors.Join(missing...)
	}
	return users.DraftUser{Name: name, Email: email}, nil
}
