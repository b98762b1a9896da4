package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kfmtool/pkg/errors"
	kfmio "github.com/matzehuels/kfmtool/pkg/io"
	"github.com/matzehuels/kfmtool/pkg/kfm"
	"github.com/matzehuels/kfmtool/pkg/observability"
)

// execute runs the root command with args and an isolated config directory.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	defer observability.Reset()

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

// writeGunbot writes four anims, each with a transition to every other.
func writeGunbot(t *testing.T, path string) {
	t.Helper()
	names := []string{"mech_gunbot_m_idle", "mech_gunbot_m_run", "mech_gunbot_a_attack", "mech_gunbot_h_onhit"}
	f := &kfm.File{
		Header: kfm.Header{Version: kfm.DefaultVersion, IsLittleEndian: true},
		Body: kfm.Graph{
			Model: kfm.Model{Path: "./../../mesh/newenemies/mech_order_darkling_1.nif", Root: "Accumulation_Root"},
			DefaultTransitions: kfm.DefaultTransitions{
				SyncKind: kfm.KindMorph, SyncDuration: 0.25,
				NonSyncKind: kfm.KindBlend, NonSyncDuration: 0.25,
			},
			LayerGroups: []kfm.LayerGroup{},
		},
	}
	for id, name := range names {
		c := kfm.Clip{ID: uint32(id), Path: "./mech/" + name + ".kf", Edges: []kfm.Edge{}}
		for target := range names {
			if target != id {
				c.Edges = append(c.Edges, kfm.Edge{Target: uint32(target), Kind: kfm.KindDefaultNonSync})
			}
		}
		f.Body.Clips = append(f.Body.Clips, c)
	}
	if err := kfmio.Export(context.Background(), f, path); err != nil {
		t.Fatal(err)
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func targets(c kfm.Clip) []uint32 {
	var out []uint32
	for _, e := range c.Edges {
		out = append(out, e.Target)
	}
	return out
}

func TestConvertRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "gunbot.yaml")
	writeGunbot(t, src)

	if err := execute(t, "convert", "-i", src); err != nil {
		t.Fatalf("convert yaml: %v", err)
	}
	bin := filepath.Join(dir, "gunbot.kfm")
	original, err := os.ReadFile(bin)
	if err != nil {
		t.Fatalf("convert did not write %s: %v", bin, err)
	}

	back := filepath.Join(dir, "back.yaml")
	if err := execute(t, "convert", "-i", bin, "-o", back); err != nil {
		t.Fatalf("convert kfm: %v", err)
	}
	again := filepath.Join(dir, "again.kfm")
	if err := execute(t, "convert", "-i", back, "-o", again); err != nil {
		t.Fatalf("convert back: %v", err)
	}
	got, err := os.ReadFile(again)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(original) {
		t.Error("kfm -> yaml -> kfm changed the bytes")
	}
}

func TestConvertUnsupportedExtension(t *testing.T) {
	err := execute(t, "convert", "-i", "gunbot.json")
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("convert error = %v, want UNSUPPORTED", err)
	}
}

func TestPatch(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "gunbot.kfm")
	writeGunbot(t, src)
	patchPath := filepath.Join(dir, "patch.yaml")
	writeFile(t, patchPath, `anims:
- add:
    id: 4
    path: ./mech/mech_gunbot_h_ondie.kf
    index: 0
    trans: []
- update:
    id: /.*/
    trans:
    - add:
        id: 4
        type: default_non_sync
- delete:
    id: 2
`)

	if err := execute(t, "patch", "-s", src, "-p", patchPath); err != nil {
		t.Fatalf("patch: %v", err)
	}

	f, err := kfmio.Import(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	want := map[uint32][]uint32{0: {1, 3, 4}, 1: {0, 3, 4}, 3: {0, 1, 4}, 4: nil}
	if len(f.Body.Clips) != len(want) {
		t.Fatalf("got %d anims, want %d", len(f.Body.Clips), len(want))
	}
	for _, c := range f.Body.Clips {
		if got := targets(c); !slices.Equal(got, want[c.ID]) {
			t.Errorf("anim %d targets = %v, want %v", c.ID, got, want[c.ID])
		}
	}
}

func TestPatchFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "gunbot.yaml")
	writeGunbot(t, src)
	before, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	patchPath := filepath.Join(dir, "patch.yaml")
	writeFile(t, patchPath, "anims:\n- delete:\n    id: 0\n- add:\n    id: 1\n    path: dup.kf\n    index: 0\n    trans: []\n")

	out := filepath.Join(dir, "out.yaml")
	for _, args := range [][]string{
		{"patch", "-s", src, "-p", patchPath, "-o", out},
		{"patch", "-s", src, "-p", patchPath, "--atomic=false"},
	} {
		err := execute(t, args...)
		if !errors.Is(err, errors.ErrCodeConflict) {
			t.Fatalf("%v: error = %v, want CONFLICT", args, err)
		}
		if !strings.Contains(err.Error(), "anims[1]") {
			t.Errorf("%v: error %q lacks position", args, err)
		}
	}

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output written after failed patch: %v", err)
	}
	after, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != string(before) {
		t.Error("source rewritten after failed patch")
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "inventor_broombot.yaml")
	writeGunbot(t, src)
	outDir := filepath.Join(dir, "out")
	if err := os.Mkdir(outDir, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "build", "-i", src, "-o", outDir); err != nil {
		t.Fatalf("build: %v", err)
	}

	if _, err := kfmio.Import(context.Background(), filepath.Join(outDir, "inventor_broombot.kfm")); err != nil {
		t.Errorf("built kfm does not load: %v", err)
	}
	h, err := os.ReadFile(filepath.Join(outDir, "inventor_broombot.h"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"#ifndef INVENTOR_BROOMBOT_ANIM_H__",
		"namespace inventor_broombot_Anim",
		"MECH_GUNBOT_H_ONHIT = 3\n",
	} {
		if !strings.Contains(string(h), want) {
			t.Errorf("header lacks %q:\n%s", want, h)
		}
	}
}

func TestBuildRejectsMissingDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.yaml")
	writeGunbot(t, src)

	err := execute(t, "build", "-i", src, "-o", filepath.Join(dir, "missing"))
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("build error = %v, want INVALID_PATH", err)
	}
}

func TestGraphDOT(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "gunbot.kfm")
	writeGunbot(t, src)
	out := filepath.Join(dir, "gunbot.dot")

	if err := execute(t, "graph", "-i", src, "-o", out, "--detailed"); err != nil {
		t.Fatalf("graph: %v", err)
	}
	dot, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "digraph G {") || !strings.Contains(string(dot), `"3" -> "2"`) {
		t.Errorf("unexpected DOT:\n%s", dot)
	}
}

func TestValidateGraphFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if err := validateGraphFormat(tt.format); (err != nil) != tt.wantErr {
				t.Errorf("validateGraphFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	src := filepath.Join(t.TempDir(), "gunbot.kfm")
	writeGunbot(t, src)
	if err := execute(t, "inspect", src); err != nil {
		t.Errorf("inspect: %v", err)
	}
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	writeFile(t, cfg, "[graph]\nformat = \"pdf\"\n")
	src := filepath.Join(dir, "gunbot.kfm")
	writeGunbot(t, src)

	err := execute(t, "--config", cfg, "inspect", src)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		if err := execute(t, "completion", shell); err != nil {
			t.Errorf("completion %s: %v", shell, err)
		}
	}
	if err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}

	exts, directive := completeAssetArg(nil, nil, "")
	if directive != cobra.ShellCompDirectiveFilterFileExt || !slices.Equal(exts, assetExtensions) {
		t.Errorf("completeAssetArg() = %v, %v", exts, directive)
	}
	if _, directive := completeAssetArg(nil, []string{"a.kfm"}, ""); directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("second argument directive = %v, want NoFileComp", directive)
	}
}
