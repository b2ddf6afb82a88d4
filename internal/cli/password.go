package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"workshopsite/internal/adapters/auth"
)

func newHashPasswordCommand() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its bcrypt hash for EDITOR_PASSWORD_HASH",
		Args:  cobra.NoArgs,
		// The hash is independent of content and connections.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return withCode(ExitInvalidInvocation, errors.New("no password on stdin"))
			}
			password := strings.TrimRight(line, "\r\n")
			hash, err := auth.NewBcryptHasher(cost).Hash(password)
			if err != nil {
				return withCode(ExitInvalidInvocation, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 0, "bcrypt cost (default bcrypt.DefaultCost)")
	return cmd
}
