package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"workshopsite/config"
)

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := &App{Stdin: stdin, Stdout: stdout, Stderr: stderr}
	cmd := NewRootCommand(app)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if app.Logger != nil {
		app.Close()
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
	}
	return exitCode(err)
}

// NewRootCommand builds the command tree. When app.Config is already set (tests)
// the environment is not read.
func NewRootCommand(app *App) *cobra.Command {
	var (
		slug       string
		source     string
		contentDir string
	)
	root := &cobra.Command{
		Use:           "workshopsite",
		Short:         "Author, validate, build and serve a workshop page",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if app.Config == nil {
				cfg, err := config.Load()
				if err != nil {
					return withCode(ExitConfigError, err)
				}
				app.Config = cfg
			}
			flags := cmd.Flags()
			if flags.Changed("slug") {
				app.Config.Slug = slug
			}
			if flags.Changed("source") {
				app.Config.Source = source
			}
			if flags.Changed("content-dir") {
				app.Config.ContentDir = contentDir
			}
			if err := app.Config.Validate(); err != nil {
				return withCode(ExitConfigError, err)
			}
			if app.Logger == nil {
				app.Logger = config.NewLogger(app.Config)
			}
			if app.Stdin == nil {
				app.Stdin = os.Stdin
			}
			return nil
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(ExitInvalidInvocation, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&slug, "slug", "", "workshop slug (default from WORKSHOP_SLUG)")
	pf.StringVar(&source, "source", "", `content source, "file" or "db" (default from CONTENT_SOURCE)`)
	pf.StringVar(&contentDir, "content-dir", "", "directory of content files (default from CONTENT_DIR)")

	root.AddCommand(
		newBuildCommand(app),
		newValidateCommand(app),
		newServeCommand(app),
		newCheckLinksCommand(app),
		newMigrateCommand(app),
		newImportCommand(app),
		newAnnounceCommand(app),
		newHashPasswordCommand(),
	)
	return root
}
