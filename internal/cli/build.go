package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"workshopsite/internal/domain"
)

func newBuildCommand(app *App) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Validate the content and write the static site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outDir == "" {
				outDir = app.Config.OutputDir
			}
			site, err := app.SiteService(cmd.Context())
			if err != nil {
				return err
			}
			res, err := site.Build(cmd.Context(), app.Config.Slug, outDir)
			if err != nil {
				var verr *domain.ValidationError
				if errors.As(err, &verr) {
					printValidationReport(app.Stderr, domain.ValidationReport{Slug: app.Config.Slug, Issues: verr.Issues})
					return withCode(ExitCheckFailed, errors.New("build aborted, nothing written"))
				}
				return err
			}
			for _, f := range res.Files {
				fmt.Fprintln(app.Stdout, f)
			}
			okColor.Fprint(app.Stdout, "built")
			fmt.Fprintf(app.Stdout, " %s into %s (build %s)\n", app.Config.Slug, res.OutDir, res.BuildID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from OUTPUT_DIR)")
	return cmd
}
