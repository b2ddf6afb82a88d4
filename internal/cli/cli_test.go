package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"workshopsite/config"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func newTestApp(t *testing.T, environ map[string]string) (*App, *bytes.Buffer) {
	t.Helper()
	if environ == nil {
		environ = map[string]string{}
	}
	if _, ok := environ["CONTENT_DIR"]; !ok {
		environ["CONTENT_DIR"] = "testdata"
	}
	cfg, err := config.Parse(environ)
	require.NoError(t, err)
	var out bytes.Buffer
	return &App{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Stdin:  strings.NewReader(""),
		Stdout: &out,
		Stderr: &out,
	}, &out
}

func run(t *testing.T, app *App, stdin string, args ...string) int {
	t.Helper()
	cmd := NewRootCommand(app)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(app.Stdout)
	cmd.SetErr(app.Stderr)
	err := cmd.ExecuteContext(context.Background())
	app.Close()
	return exitCode(err)
}

func TestValidate_OK(t *testing.T) {
	app, out := newTestApp(t, nil)
	code := run(t, app, "", "validate")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out.String(), "OK pn-workshop: content is valid")
}

func TestValidate_FileWithIssues(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "pn-workshop.yaml"))
	require.NoError(t, err)
	// Move the Akyildiz paper after Bonakdarpour by renaming its first author.
	broken := strings.Replace(string(raw), "Deniz Akyildiz", "Deniz Zed", 1)
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o644))

	app, out := newTestApp(t, nil)
	code := run(t, app, "", "validate", "--file", path)
	assert.Equal(t, ExitCheckFailed, code)
	assert.Contains(t, out.String(), "papers[1] [sorted]")
	assert.Contains(t, out.String(), "FAIL")
}

func TestValidate_UnknownSlug(t *testing.T) {
	app, _ := newTestApp(t, nil)
	assert.Equal(t, ExitInternalError, run(t, app, "", "validate", "--slug", "missing"))
}

func TestBuild(t *testing.T) {
	outDir := t.TempDir()
	app, out := newTestApp(t, nil)
	code := run(t, app, "", "build", "--out", outDir)
	require.Equal(t, ExitSuccess, code, out.String())

	for _, name := range []string{"index.html", "workshop.json", filepath.Join("static", "style.css")} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
	assert.Contains(t, out.String(), "built pn-workshop into "+outDir)
}

func TestHashPassword(t *testing.T) {
	app, out := newTestApp(t, nil)
	code := run(t, app, "s3cret\n", "hash-password", "--cost", "4")
	require.Equal(t, ExitSuccess, code)
	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	app, _ = newTestApp(t, nil)
	assert.Equal(t, ExitInvalidInvocation, run(t, app, "", "hash-password"))
}

func TestAnnounce_Noop(t *testing.T) {
	list := filepath.Join(t.TempDir(), "recipients.txt")
	require.NoError(t, os.WriteFile(list, []byte("# programme committee\nb@example.org\n\nc@example.org # chair\n"), 0o644))

	app, out := newTestApp(t, map[string]string{"SITE_URL": "https://example.org/pn-workshop/"})
	code := run(t, app, "", "announce", "--to", "a@example.org", "--to-file", list)
	require.Equal(t, ExitSuccess, code, out.String())
	assert.Contains(t, out.String(), "sent 3 announcement(s)")

	app, _ = newTestApp(t, nil)
	assert.Equal(t, ExitInvalidInvocation, run(t, app, "", "announce"))
}

func TestInvocationErrors(t *testing.T) {
	app, _ := newTestApp(t, nil)
	assert.Equal(t, ExitInvalidInvocation, run(t, app, "", "build", "--bogus"))

	app, _ = newTestApp(t, nil)
	assert.Equal(t, ExitInvalidInvocation, run(t, app, "", "import"))

	app, _ = newTestApp(t, nil)
	assert.Equal(t, ExitConfigError, run(t, app, "", "validate", "--source", "s3"))
}

func TestImportSaveError(t *testing.T) {
	violation := fmt.Errorf("insert paper: %w", &pq.Error{Code: "23502", Message: "null value in column"})
	err := saveError(violation)
	assert.Equal(t, ExitCheckFailed, exitCode(err))
	assert.Contains(t, err.Error(), "not_null_violation")

	assert.Equal(t, ExitInternalError, exitCode(saveError(&pq.Error{Code: "08006"})))
	assert.Equal(t, ExitInternalError, exitCode(saveError(errors.New("connection reset"))))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCode(nil))
	assert.Equal(t, ExitCheckFailed, exitCode(withCode(ExitCheckFailed, errors.New("x"))))
	assert.Equal(t, ExitInvalidInvocation, exitCode(errors.New(`unknown command "publish" for "workshopsite"`)))
	assert.Equal(t, ExitInternalError, exitCode(errors.New("disk full")))
}
