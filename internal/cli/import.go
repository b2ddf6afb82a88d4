package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/spf13/cobra"

	"workshopsite/internal/adapters/remote"
	"workshopsite/internal/content"
	"workshopsite/internal/domain"
	"workshopsite/internal/repository/postgres"
	"workshopsite/internal/validation"
)

func newImportCommand(app *App) *cobra.Command {
	var (
		migrate bool
		force   bool
	)
	cmd := &cobra.Command{
		Use:   "import <file|url>",
		Short: "Copy a content file into Postgres",
		Long: "Loads a YAML or JSON content file, or downloads one from an http(s) URL, validates it\n" +
			"and replaces the stored workshop with the same slug. With --force, content that fails\n" +
			"validation is stored as is.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadSource(cmd.Context(), args[0])
			if err != nil {
				return withCode(ExitCheckFailed, err)
			}
			if cmd.Flags().Changed("slug") {
				w.Slug = app.Config.Slug
			}
			report := validation.Report(w)
			if !report.OK() && !force {
				printValidationReport(app.Stderr, report)
				return withCode(ExitCheckFailed, errors.New("refusing to import invalid content (use --force)"))
			}

			db, err := app.DB(cmd.Context())
			if err != nil {
				return err
			}
			if migrate {
				if err := postgres.Migrate(db, app.Logger); err != nil {
					return err
				}
			}
			if err := postgres.NewWorkshopRepository(db).Save(cmd.Context(), w); err != nil {
				return saveError(err)
			}
			fmt.Fprintf(app.Stdout, "imported %s (%d sessions, %d papers)\n", w.Slug, len(w.Schedule), len(w.Papers))
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations first")
	cmd.Flags().BoolVar(&force, "force", false, "import even when validation reports issues")
	return cmd
}

// saveError reports content the database refused as a failed check rather than
// an internal error.
func saveError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
		return withCode(ExitCheckFailed, fmt.Errorf("database rejected content (%s): %w", pqErr.Code.Name(), err))
	}
	return err
}

func loadSource(ctx context.Context, src string) (*domain.Workshop, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return remote.NewHTTPFetcher(nil).Fetch(ctx, src)
	}
	return content.Load(src)
}
