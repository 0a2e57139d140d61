package json2ansi

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/json2ansi/pkg/errors"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const keyValueDoc = `{
  // two columns: a fixed key and a flexible value
  "styles": {"key": {"fg": "red", "bold": true}},
  "content": [
    {
      "type": "table",
      "columns": [{"size": {"mode": "fixed", "value": 4}}, {}],
      "rows": [[
        {"type": "text", "value": "key", "styles": "key"},
        {"type": "text", "value": "value"},
      ]]
    }
  ]
}`

// isolate keeps the user's config and log files out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("JSON2ANSI_LOG_FILE", "false")
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return dir
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRenderToStdout(t *testing.T) {
	dir := isolate(t)
	path := writeDoc(t, dir, "doc.json", keyValueDoc)

	stdout, _, err := execute(t, "render", path, "--width", "20", "--color", "never")
	require.NoError(t, err)
	assert.Equal(t, "key  value          \n", stdout)
}

func TestRenderColorAlways(t *testing.T) {
	dir := isolate(t)
	path := writeDoc(t, dir, "doc.json", keyValueDoc)

	// The built-in default color mode is always.
	stdout, _, err := execute(t, "render", path, "-w", "20")
	require.NoError(t, err)
	assert.Contains(t, stdout, "\x1b[")
	assert.Equal(t, "key  value          \n", ansi.Strip(stdout))
}

func TestRenderToFile(t *testing.T) {
	dir := isolate(t)
	path := writeDoc(t, dir, "doc.json", keyValueDoc)
	out := filepath.Join(dir, "out.ansi")

	stdout, stderr, err := execute(t, "render", path, "-w", "20", "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Wrote 1 lines to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\x1b[")
	assert.Equal(t, "key  value          \n", ansi.Strip(string(data)))
}

func TestRenderToFilePlain(t *testing.T) {
	dir := isolate(t)
	path := writeDoc(t, dir, "doc.json", keyValueDoc)
	out := filepath.Join(dir, "out.txt")
	t.Setenv("JSON2ANSI_COLOR", "never")

	_, _, err := execute(t, "render", path, "-w", "20", "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "key  value          \n", string(data))
}

func TestRenderYAML(t *testing.T) {
	dir := isolate(t)
	path := writeDoc(t, dir, "doc.yaml", `
content:
  - type: indent
    indent: 2
    content:
      - type: table
        columns: [{size: {mode: fixed, value: 0}}]
        rows: [[{type: text, value: "hi"}]]
  - type: br
`)

	stdout, _, err := execute(t, "render", path, "-w", "6", "--color", "never")
	require.NoError(t, err)
	assert.Equal(t, "  hi  \n\n", stdout)
}

func TestRenderWidthFromConfigFile(t *testing.T) {
	dir := isolate(t)
	path := writeDoc(t, dir, "doc.json", keyValueDoc)
	cfgPath := writeDoc(t, dir, "custom.toml", "width = 12\ncolor = \"never\"\n")

	stdout, _, err := execute(t, "--config", cfgPath, "render", path)
	require.NoError(t, err)
	assert.Equal(t, "key  value  \n", stdout)
}

func TestRenderErrors(t *testing.T) {
	dir := isolate(t)
	good := writeDoc(t, dir, "doc.json", keyValueDoc)
	badStyle := writeDoc(t, dir, "bad.json", `{"content": [{"type": "table", "columns": [{}],
		"rows": [[{"type": "text", "value": "x", "styles": "missing"}]]}]}`)

	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
		path string
	}{
		{"missing file", []string{"render", filepath.Join(dir, "nope.json")}, errors.ErrDocumentRead, ""},
		{"zero width", []string{"render", good, "--width", "0"}, errors.ErrConfigValid, ""},
		{"bad color mode", []string{"render", good, "--color", "sometimes"}, errors.ErrConfigValid, ""},
		{"too narrow", []string{"render", good, "--width", "3"}, errors.ErrInsufficientWidth, "content[0]"},
		{"flex squeezed", []string{"render", good, "--width", "5"}, errors.ErrMinWidthViolation, "content[0]"},
		{"undefined style", []string{"render", badStyle}, errors.ErrStyleResolution, "content[0].rows[0][0]"},
		{"missing config file", []string{"--config", filepath.Join(dir, "none.toml"), "render", good}, errors.ErrConfigLoad, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
			assert.Empty(t, stdout)
			if tt.path != "" {
				assert.Equal(t, tt.path, errors.GetErrorDetails(err)[errors.DetailPath])
			}
		})
	}
}

func TestValidate(t *testing.T) {
	dir := isolate(t)
	path := writeDoc(t, dir, "doc.json", keyValueDoc)

	stdout, _, err := execute(t, "validate", path, "--width", "30")
	require.NoError(t, err)
	assert.Equal(t, path+": ok (1 lines at width 30)\n", stdout)

	_, _, err = execute(t, "validate", path, "--width", "3")
	require.Error(t, err)
	assert.Equal(t, path, errors.GetErrorDetails(err)["file"])
}

func TestConfigCommand(t *testing.T) {
	isolate(t)
	t.Setenv("JSON2ANSI_WIDTH", "77")

	stdout, _, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "77")
	assert.Contains(t, stdout, "[log]")

	stdout, _, err = execute(t, "config", "--template")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# width = 100")
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "json2ansi dev"))
}

func TestTopics(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "topics")
	require.NoError(t, err)
	for _, name := range []string{"document", "styles", "tables", "text"} {
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stdout, "--width")

	stdout, _, err = execute(t, "topics", "tables", "--plain")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "# Tables"))

	stdout, _, err = execute(t, "help", "styles")
	require.NoError(t, err)
	assert.Contains(t, stdout, "References")

	_, _, err = execute(t, "topics", "nonsense")
	assert.Error(t, err)
}

func TestNoCommand(t *testing.T) {
	isolate(t)

	_, _, err := execute(t)
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidInput, errors.GetErrorCode(err))
}

func TestFormatError(t *testing.T) {
	err := errors.New(errors.ErrNegativeWidth, "indent leaves no room").
		WithDetail(errors.DetailPath, "content[0]").
		WithDetail(errors.DetailWidth, 4)

	out := formatError(err, false)
	assert.Equal(t, "ERROR: [NEGATIVE_WIDTH] content[0]: indent leaves no room\n  width=4", out)

	styled := formatError(err, true)
	assert.Contains(t, styled, "[NEGATIVE_WIDTH] content[0]: indent leaves no room")
	assert.Contains(t, styled, "width=4")
	assert.Empty(t, FormatError(nil))
}
