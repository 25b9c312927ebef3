package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rampScene = `
tps: 4
frames: 10
alphas:
  ramp:
    loop_count: 1
    trigger: 500ms
    increasing: 1s
    at_one: 250ms
sprites:
  - name: box
    x: 10
    y: 10
    width: 8
    height: 8
    color: [1, 1, 1, 1]
interpolators:
  - name: grow
    target: box
    alpha: ramp
    min_scale: 0.1
    max_scale: 1.0
    copies: 1
    spacing: 20
`

func writeScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmdHasSubcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"version", "validate", "trace", "plot", "run"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "arbor version "+version)

	out, _, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, version, v["version"])
}

func TestValidateCmd(t *testing.T) {
	out, _, err := execute(t, "validate", "-c", writeScene(t, rampScene))
	require.NoError(t, err)
	assert.Equal(t, "ok: 1 sprites, 2 targets, 2 interpolators\n", out)
}

func TestValidateCmdBuiltinScene(t *testing.T) {
	out, _, err := execute(t, "validate", "--json")
	require.NoError(t, err)
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, true, v["valid"])
	assert.EqualValues(t, 1, v["interpolators"])
}

func TestValidateCmdReportsErrors(t *testing.T) {
	bad := `
alphas:
  a: {mode: sideways}
sprites:
  - name: box
interpolators:
  - {name: p, target: ghost, alpha: a}
`
	_, _, err := execute(t, "validate", "-c", writeScene(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown mode "sideways"`)
	assert.Contains(t, err.Error(), `unknown target "ghost"`)
}

func TestTraceCmdText(t *testing.T) {
	out, _, err := execute(t, "trace", "-c", writeScene(t, rampScene))
	require.NoError(t, err)
	assert.Contains(t, out, "10 frames at 4 tps")
	assert.Contains(t, out, "grow ")
	assert.Contains(t, out, "grow#1")
	assert.Contains(t, out, "writes=6")
	assert.Contains(t, out, "state=armed-passive")
}

func TestTraceCmdJSONWithFrameOverride(t *testing.T) {
	out, _, err := execute(t, "trace", "-c", writeScene(t, rampScene), "--json", "-n", "3")
	require.NoError(t, err)

	var tr struct {
		Frames  int `json:"frames"`
		Records []struct {
			Frame   uint64 `json:"frame"`
			Written bool   `json:"written"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &tr))
	assert.Equal(t, 3, tr.Frames)
	assert.Len(t, tr.Records, 6)
}

func TestTraceCmdDebugLogs(t *testing.T) {
	_, stderr, err := execute(t, "trace", "-c", writeScene(t, rampScene), "--debug", "--log-level", "debug", "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "msg=tracing")
	assert.Contains(t, stderr, "msg=frame")
}

func TestTraceCmdLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "arbor.log")
	_, stderr, err := execute(t, "trace", "-n", "2", "--log-level", "warn", "--log-file", logPath)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "tracing", "info is below the terminal level")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"tracing"`)
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "trace", "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid --log-level")
}

func TestPlotCmd(t *testing.T) {
	png := filepath.Join(t.TempDir(), "scale.png")
	out, _, err := execute(t, "plot", "-c", writeScene(t, rampScene), "-o", png)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+png)

	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestMissingConfig(t *testing.T) {
	_, _, err := execute(t, "trace", "-c", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}
