// Command workshopsite authors, validates, builds and serves a workshop page.
package main

import (
	"context"
	"os"

	"workshopsite/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
