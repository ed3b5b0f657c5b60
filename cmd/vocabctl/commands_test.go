package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	t.Setenv("DB_PATH", "file:"+filepath.Join(dir, "cli.db"))

	vocabFile := filepath.Join(dir, "words.yaml")
	require.NoError(t, os.WriteFile(vocabFile, []byte(`entries:
  - term: embarazada
    correction: avergonzada
  - term: "  "
  - term: la carpeta
    correction: el carpeta
`), 0o644))

	out, err := run(t, "profile", "add", "ana")
	require.NoError(t, err)
	assert.Contains(t, out, `created student "ana" with id 1`)

	out, err = run(t, "profile", "add", "marta", "--role", "tutor")
	require.NoError(t, err)
	assert.Contains(t, out, `created tutor "marta" with id 2`)

	out, err = run(t, "profile", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ana")
	assert.Contains(t, out, "marta")

	out, err = run(t, "import", vocabFile, "--student", "1", "--tutor", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 entries")
	assert.Contains(t, out, "skipped 1")

	out, err = run(t, "due", "--student", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "2 cards due")
	assert.Contains(t, out, "embarazada -> avergonzada")

	out, err = run(t, "stats", "--student", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "cards:       2 (new 2)")
	assert.Contains(t, out, "due now:     2")
}

func TestCommandErrors(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	t.Setenv("DB_PATH", "file:"+filepath.Join(dir, "cli.db"))

	_, err := run(t, "due")
	assert.ErrorContains(t, err, `required flag(s) "student" not set`)

	_, err = run(t, "stats", "--student", "42")
	assert.ErrorContains(t, err, "NOT_FOUND")

	_, err = run(t, "import", filepath.Join(dir, "missing.yaml"), "--student", "1")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = run(t, "profile", "add", "x", "--role", "admin")
	assert.ErrorContains(t, err, "VALIDATION")
}
