package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/sketchdeck/internal/demo"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func readScene(t *testing.T, path string) map[string]any {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var scene map[string]any
	require.NoError(t, json.Unmarshal(raw, &scene))
	return scene
}

func TestBuildWritesExcalidrawAndDebug(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.deck")
	require.NoError(t, os.WriteFile(input, []byte(`deck talk v1 {
  slide s1 {
    section s1-title "Hello ${speaker.name}"
    tip s1-tip "${missing|fallback}"
  }
}`), 0o644))
	data := filepath.Join(dir, "data.yaml")
	require.NoError(t, os.WriteFile(data, []byte("speaker:\n  name: Ann\n"), 0o644))

	out := filepath.Join(dir, "out", "talk.excalidraw")
	debug := filepath.Join(dir, "out", "layout.json")
	stdout, err := execute(t, "build", "-i", input, "-o", out, "--debug", debug, "--data", data, "--seed", "200000")
	require.NoError(t, err)
	require.Contains(t, stdout, "talk")
	require.Contains(t, stdout, out)

	scene := readScene(t, out)
	els := scene["elements"].([]any)
	require.Len(t, els, 6)
	first := els[0].(map[string]any)
	require.Equal(t, "s1", first["id"])
	require.Equal(t, 200001.0, first["seed"])

	texts := map[string]string{}
	for _, raw := range els {
		el := raw.(map[string]any)
		if el["type"] == "text" {
			texts[el["id"].(string)] = el["text"].(string)
		}
	}
	require.Equal(t, "Hello Ann", texts["s1-title-text"])
	require.Equal(t, "fallback", texts["s1-tip-text"])

	_, err = os.Stat(debug)
	require.NoError(t, err)
}

func TestBuildIsReproducibleWithSeed(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "demo.deck")
	require.NoError(t, os.WriteFile(input, []byte(demo.Source), 0o644))

	a := filepath.Join(dir, "a.excalidraw")
	b := filepath.Join(dir, "b.excalidraw")
	_, err := execute(t, "build", "-i", input, "-o", a, "--seed", "123456")
	require.NoError(t, err)
	_, err = execute(t, "build", "-i", input, "-o", b, "--seed", "123456")
	require.NoError(t, err)

	rawA, err := os.ReadFile(a)
	require.NoError(t, err)
	rawB, err := os.ReadFile(b)
	require.NoError(t, err)
	require.Equal(t, string(rawA), string(rawB))
}

func TestBuildErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "build")
	require.Error(t, err, "缺少 --input")

	_, err = execute(t, "build", "-i", filepath.Join(dir, "missing.deck"), "-o", filepath.Join(dir, "x.excalidraw"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.deck")
	require.NoError(t, os.WriteFile(bad, []byte(`deck bad v1 { slide s1 { wobble w } }`), 0o644))
	_, err = execute(t, "build", "-i", bad, "-o", filepath.Join(dir, "x.excalidraw"))
	require.ErrorContains(t, err, "wobble")

	ok := filepath.Join(dir, "ok.deck")
	require.NoError(t, os.WriteFile(ok, []byte(`deck ok v1 { slide s1 { separator s } }`), 0o644))
	_, err = execute(t, "build", "-i", ok)
	require.Error(t, err, "没有任何输出时应报错")
}

func TestBuildUsesConfigOutputs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ok.deck")
	require.NoError(t, os.WriteFile(input, []byte(`deck ok v1 { slide s1 { separator s } }`), 0o644))
	out := filepath.Join(dir, "from-config.excalidraw")
	cfg := filepath.Join(dir, "sketchdeck.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("seed: 300000\nlog:\n  level: warn\noutput:\n  excalidraw: "+out+"\n"), 0o644))

	_, err := execute(t, "--config", cfg, "build", "-i", input)
	require.NoError(t, err)

	scene := readScene(t, out)
	first := scene["elements"].([]any)[0].(map[string]any)
	require.Equal(t, 300001.0, first["seed"])
}

func TestBuildShapesOnlyPreview(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "shapes.deck")
	require.NoError(t, os.WriteFile(input, []byte(`deck shapes v1 {
  slide s1 { separator a; dots d total 3 active 1 }
  slide s2 { separator b }
}`), 0o644))
	preview := filepath.Join(dir, "shapes.svg")
	stdout, err := execute(t, "build", "-i", input, "--preview", preview)
	require.NoError(t, err)
	require.Contains(t, stdout, "svg")

	raw, err := os.ReadFile(preview)
	require.NoError(t, err)
	require.Contains(t, string(raw), "<svg")
}

func TestDemoCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "demo.excalidraw")
	stdout, err := execute(t, "demo", "-o", out, "--seed", "500000")
	require.NoError(t, err)
	require.Contains(t, stdout, "demo")

	scene := readScene(t, out)
	require.Equal(t, "excalidraw", scene["type"])
	require.Equal(t, "s1-bg", scene["elements"].([]any)[0].(map[string]any)["id"])

	src, err := execute(t, "demo", "--source")
	require.NoError(t, err)
	require.Equal(t, demo.Source, src)
}

func TestThemesCommand(t *testing.T) {
	stdout, err := execute(t, "themes")
	require.NoError(t, err)
	for _, name := range []string{"blue", "green", "orange", "yellow", "red", "purple", "violet", "cyan", "neutral"} {
		require.Contains(t, stdout, name)
	}
	require.Contains(t, stdout, "#be4bdb")
}

func TestVersionCommandOutputsBuildInfo(t *testing.T) {
	originalVersion, originalCommit, originalDate := version, commit, date
	t.Cleanup(func() {
		version, commit, date = originalVersion, originalCommit, originalDate
	})
	version, commit, date = "1.2.3", "abcdef1", "2026-10-01"

	stdout, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, stdout, "1.2.3")
	require.Contains(t, stdout, "abcdef1")
	require.Contains(t, stdout, "2026-10-01")
}
