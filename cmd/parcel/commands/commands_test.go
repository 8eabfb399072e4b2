package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/parcel/cmd/parcel/commands"
	"go.trai.ch/parcel/internal/app"
	"go.trai.ch/parcel/internal/build"
	"go.trai.ch/parcel/internal/ui/output"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func newCLI() (*commands.CLI, *bytes.Buffer, *bytes.Buffer) {
	cli := commands.New(app.New(nopLogger{}, output.Quiet{}))

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cli.SetOutput(out, errOut)

	return cli, out, errOut
}

func TestVersionCommand(t *testing.T) {
	cli, out, _ := newCLI()
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t,
		"parcel version "+build.Version+" (commit: "+build.Commit+", date: "+build.Date+")\n",
		out.String())
}

func TestInstallCommand_MissingManifest(t *testing.T) {
	cli, _, _ := newCLI()
	cli.SetArgs([]string{"install", "--project-path", t.TempDir()})

	err := cli.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to load manifest")
}

func TestInstallCommand_RejectsArgs(t *testing.T) {
	cli, _, _ := newCLI()
	cli.SetArgs([]string{"install", "extra"})

	require.Error(t, cli.Execute(context.Background()))
}

func TestCleanCommand(t *testing.T) {
	projectPath := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(projectPath, "Packages", "_Index"), 0o755))

	cli, _, _ := newCLI()
	cli.SetArgs([]string{"clean", "-p", projectPath})

	require.NoError(t, cli.Execute(context.Background()))
	assert.NoDirExists(t, filepath.Join(projectPath, "Packages"))
}

func TestUnknownCommand(t *testing.T) {
	cli, _, _ := newCLI()
	cli.SetArgs([]string{"bogus"})

	require.Error(t, cli.Execute(context.Background()))
}
