package cli

import (
	"github.com/spf13/cobra"

	"workshopsite/internal/repository/postgres"
)

func newMigrateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := app.DB(cmd.Context())
			if err != nil {
				return err
			}
			return postgres.Migrate(db, app.Logger)
		},
	}
}
