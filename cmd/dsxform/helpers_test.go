package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const birdsDataset = `{
  "name": "birds",
  "interface": {"type": "image_classification"},
  "samples": [
    {"_id": "a", "imageUrl": "https://example.com/a.png"},
    {"_id": "b"},
    {"_id": "c", "imageUrl": "https://example.com/c.png"}
  ]
}
`

type cliFixture struct {
	dir     string
	dataset string
	config  string
	journal string
}

func newCLIFixture(t *testing.T, extraConfig string) cliFixture {
	t.Helper()

	dir := t.TempDir()
	f := cliFixture{
		dir:     dir,
		dataset: filepath.Join(dir, "birds.json"),
		config:  filepath.Join(dir, "dsxform.yaml"),
		journal: filepath.Join(dir, "state", "journal.json"),
	}
	require.NoError(t, os.WriteFile(f.dataset, []byte(birdsDataset), 0o644))

	cfg := "environment: web\njournal:\n  path: " + f.journal + "\n" + extraConfig
	require.NoError(t, os.WriteFile(f.config, []byte(cfg), 0o644))
	return f
}

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func (f cliFixture) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeCommand(t, append([]string{"--config", f.config}, args...)...)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func countSamples(t *testing.T, path string) int {
	t.Helper()
	return strings.Count(readFile(t, path), `"_id"`)
}
