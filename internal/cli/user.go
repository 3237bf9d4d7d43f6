package cli

import (
	"fmt"

	"github.com/MyelinBots/vitals-go/config"
	"github.com/MyelinBots/vitals-go/internal/app"
	"github.com/MyelinBots/vitals-go/internal/db/repositories"
	"github.com/MyelinBots/vitals-go/internal/logging"
	"github.com/spf13/cobra"
)

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administer accounts",
	}

	var email string
	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete an account and all of its data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfigOrPanic()
			logger := logging.New(cfg.LogConfig)

			database, err := app.OpenDatabase(cmd.Context(), cfg.DBConfig, logger)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := app.DeleteUser(cmd.Context(), repositories.NewStore(database), email); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", email)
			return nil
		},
	}
	del.Flags().StringVar(&email, "email", "", "Email of the account to delete")
	_ = del.MarkFlagRequired("email")

	cmd.AddCommand(del)
	return cmd
}
