package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"workshopsite/internal/adapters/email"
	"workshopsite/internal/services"
)

func newAnnounceCommand(app *App) *cobra.Command {
	var (
		to      []string
		toFile  string
		pageURL string
	)
	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Email the programme and accepted papers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recipients := append([]string(nil), to...)
			if toFile != "" {
				fromFile, err := readRecipients(toFile)
				if err != nil {
					return err
				}
				recipients = append(recipients, fromFile...)
			}
			if len(recipients) == 0 {
				return withCode(ExitInvalidInvocation, errors.New("no recipients, use --to or --to-file"))
			}
			if pageURL == "" {
				pageURL = app.Config.SiteURL
			}

			cfg := app.Config
			mailer, err := email.NewMailer(email.MailerConfig{
				Provider:    cfg.Email.Provider,
				FromAddress: cfg.Email.FromAddress,
				FromName:    cfg.Email.FromName,
				ReplyTo:     cfg.Email.ReplyTo,
				SES: email.SESConfig{
					Region:             cfg.AWS.Region,
					AccessKeyID:        cfg.AWS.AccessKeyID,
					SecretAccessKey:    cfg.AWS.SecretAccessKey,
					InsecureSkipVerify: cfg.AWS.SESInsecureSkipVerify,
				},
			}, app.Logger)
			if err != nil {
				return withCode(ExitConfigError, err)
			}
			templates, err := email.NewTemplateRenderer()
			if err != nil {
				return err
			}
			repo, err := app.Repository(cmd.Context())
			if err != nil {
				return err
			}
			svc := services.NewAnnouncementService(repo, mailer, templates, app.Logger, cfg.ServiceTimeout)
			res, err := svc.Announce(cmd.Context(), cfg.Slug, pageURL, recipients)
			if err != nil {
				return err
			}

			fmt.Fprintf(app.Stdout, "sent %d announcement(s)\n", res.Sent)
			failed := make([]string, 0, len(res.Failed))
			for addr := range res.Failed {
				failed = append(failed, addr)
			}
			sort.Strings(failed)
			for _, addr := range failed {
				failColor.Fprint(app.Stdout, "✗ ")
				fmt.Fprintf(app.Stdout, "%s: %s\n", addr, res.Failed[addr])
			}
			if len(failed) > 0 {
				return withCode(ExitCheckFailed, fmt.Errorf("%d recipient(s) failed", len(failed)))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&to, "to", nil, "recipient address (repeatable or comma separated)")
	cmd.Flags().StringVar(&toFile, "to-file", "", "file with one recipient per line; # starts a comment")
	cmd.Flags().StringVar(&pageURL, "page-url", "", "public page address (default from SITE_URL)")
	return cmd
}

func readRecipients(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recipients: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read recipients: %w", err)
	}
	return out, nil
}
