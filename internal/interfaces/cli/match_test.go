package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestMatchCmd_RequiresExactlyOneArgument(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "match")
	assert.Error(t, err)

	_, _, err = runCLI(t, "match", "a", "b")
	assert.Error(t, err)
}

func TestMatchCmd_RejectsMissingDirectory(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "match", filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a readable directory")
}

func TestMatchCmd_RejectsDirectoryWithoutDocuments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "readme.txt", "nothing to see")

	_, _, err := runCLI(t, "match", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no JSON documents found")
}

func TestMatchCmd_TextOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "a.json", `{"components": [{"name": "AES", "keySize": 256}]}`)
	writeDoc(t, dir, "b.json", `{"components": [{"name": "AES", "keySize": 256}]}`)

	stdout, _, err := runCLI(t, "match", dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Found 2 JSON documents")
	assert.Contains(t, stdout, "Strategy: pivot")
	assert.Contains(t, stdout, "Matches: 1")
	assert.Contains(t, stdout, "(0, 0) - (1, 0), cost: 0")
	assert.Contains(t, stdout, "Chains: 1")
}

func TestMatchCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "a.json", `{"components": [{"name": "AES"}]}`)
	writeDoc(t, dir, "b.json", `{"components": [{"name": "AES"}]}`)

	stdout, _, err := runCLI(t, "--output", "json", "match", dir)
	require.NoError(t, err)

	var report struct {
		RunID    string            `json:"run_id"`
		Strategy string            `json:"strategy"`
		Files    []string          `json:"files"`
		Matches  []json.RawMessage `json:"matches"`
		Chains   []json.RawMessage `json:"chains"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "pivot", report.Strategy)
	assert.Len(t, report.Files, 2)
	assert.Len(t, report.Matches, 1)
	assert.Len(t, report.Chains, 1)
}

func TestMatchCmd_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "a.json", `{"components": [{"name": "AES"}]}`)
	writeDoc(t, dir, "b.json", `{"components": [{"name": "RSA"}]}`)

	// A threshold of 0.1 vetoes the unit-cost rename of 1.
	stdout, _, err := runCLI(t, "match", dir, "--cost-thresh", "0.1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Matches: 0")

	stdout, _, err = runCLI(t, "match", dir, "--strategy", "all", "--cost-model", "label")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Matches: 2")
}

func TestMatchCmd_ConfigFileFromFlag(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "a.json", `{"components": [{"name": "AES"}]}`)
	writeDoc(t, dir, "b.json", `{"components": [{"name": "RSA"}]}`)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath,
		[]byte("matching:\n  cost_threshold: 0.1\n"), 0o644))

	stdout, _, err := runCLI(t, "--config", cfgPath, "match", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Matches: 0")
}

func TestMatchCmd_MetricsDump(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "a.json", `{"components": [{"name": "AES"}]}`)
	writeDoc(t, dir, "b.json", `{"components": [{"name": "AES"}]}`)

	// Metrics go to the process stderr; here it is enough that the run
	// succeeds with the flag set.
	_, _, err := runCLI(t, "match", dir, "--metrics")
	require.NoError(t, err)
}

func TestRootCmd_UnknownCommandFails(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "frobnicate")
	assert.Error(t, err)
}
