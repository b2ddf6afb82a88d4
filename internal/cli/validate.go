package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"workshopsite/internal/content"
	"workshopsite/internal/domain"
	"workshopsite/internal/validation"
)

func newValidateCommand(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the content rules and print every issue",
		Long: "Checks author lists, titles, paper order by first-author surname, schedule order and\n" +
			"overlap, link form and the image credit. Exits 1 when any issue is found.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := loadReport(cmd, app, file)
			if err != nil {
				return err
			}
			printValidationReport(app.Stdout, report)
			if !report.OK() {
				return withCode(ExitCheckFailed, errors.New("content is invalid"))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "validate this content file instead of the configured source")
	return cmd
}

func loadReport(cmd *cobra.Command, app *App, file string) (domain.ValidationReport, error) {
	if file != "" {
		w, err := content.Load(file)
		if err != nil {
			// A file that does not parse is invalid content, not a crash.
			return domain.ValidationReport{}, withCode(ExitCheckFailed, err)
		}
		return validation.Report(w), nil
	}
	site, err := app.SiteService(cmd.Context())
	if err != nil {
		return domain.ValidationReport{}, err
	}
	return site.Validate(cmd.Context(), app.Config.Slug)
}
