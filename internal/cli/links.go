package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newCheckLinksCommand(app *App) *cobra.Command {
	var (
		verbose bool
		cached  bool
	)
	cmd := &cobra.Command{
		Use:   "check-links",
		Short: "Probe every outbound link of the page",
		Long: "Sends HEAD requests (GET when HEAD is refused) to organizer profiles, slides, paper PDFs\n" +
			"and image credit links. Results are cached in Redis when REDIS_URL is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := app.LinkService(cmd.Context(), nil)
			if err != nil {
				return err
			}
			check := svc.CheckLinks
			if cached {
				check = svc.Cached
			}
			report, err := check(cmd.Context(), app.Config.Slug)
			if err != nil {
				return err
			}
			printLinkReport(app.Stdout, report, verbose)
			if len(report.Broken()) > 0 && !cached {
				return withCode(ExitCheckFailed, errors.New("broken links found"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list reachable links too")
	cmd.Flags().BoolVar(&cached, "cached", false, "print cached statuses without probing")
	return cmd
}
