package io

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/kfmtool/pkg/errors"
	"github.com/matzehuels/kfmtool/pkg/kfm"
	"github.com/matzehuels/kfmtool/pkg/observability"
)

func testFile() *kfm.File {
	return &kfm.File{
		Header: kfm.Header{Version: kfm.DefaultVersion, IsLittleEndian: true},
		Body: kfm.Graph{
			Model: kfm.Model{Path: "./mesh/broombot.nif", Root: "Accumulation_Root"},
			DefaultTransitions: kfm.DefaultTransitions{
				SyncKind:        kfm.KindMorph,
				SyncDuration:    0.25,
				NonSyncKind:     kfm.KindBlend,
				NonSyncDuration: 0.25,
			},
			Clips: []kfm.Clip{
				{ID: 0, Path: "./idle.kf", Edges: []kfm.Edge{
					{Target: 1, Kind: kfm.KindDefaultNonSync},
				}},
				{ID: 1, Path: "./run.kf", Index: 2, Edges: []kfm.Edge{
					{Target: 0, Kind: kfm.KindCrossfade, Ext: &kfm.Extension{
						Duration:          0.1,
						IntermediateAnims: []kfm.IntermediateAnim{{StartKey: "a", TargetKey: "b"}},
						ChainAnims:        []kfm.ChainAnim{},
					}},
				}},
			},
			LayerGroups: []kfm.LayerGroup{
				{ID: 1, Name: "upper", Layers: []kfm.Layer{
					{ID: 2, Priority: -1, Weight: 1, EaseInTime: 0.5, EaseOutTime: 0.5, SyncID: 3},
				}},
			},
		},
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.kfm", FormatKFM, false},
		{"dir/A.KFM", FormatKFM, false},
		{"a.yaml", FormatYAML, false},
		{"a.yml", FormatYAML, false},
		{"a.json", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DetectFormat(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeUnsupported) {
				t.Errorf("error = %v, want UNSUPPORTED", err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestSwapExtension(t *testing.T) {
	tests := []struct{ in, want string }{
		{"assets/broombot.kfm", "assets/broombot.yaml"},
		{"broombot.yaml", "broombot.kfm"},
		{"broombot.yml", "broombot.kfm"},
	}
	for _, tt := range tests {
		if got, err := SwapExtension(tt.in); err != nil || got != tt.want {
			t.Errorf("SwapExtension(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	f := testFile()
	var buf bytes.Buffer
	if err := WriteYAML(f, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"is_little_endian: true",
		"sync_type: morph",
		"type: default_non_sync",
		"type: crossfade",
		"start_key: a",
		"priority: -1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ext: null") {
		t.Errorf("default edges should omit ext:\n%s", out)
	}

	got, err := ReadYAML(&buf)
	if err != nil {
		t.Fatalf("ReadYAML() = %v", err)
	}
	if !reflect.DeepEqual(got, f) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, f)
	}
}

func TestReadYAMLRejectsUnknownFields(t *testing.T) {
	doc := "header:\n  version: 1\n  is_little_endian: true\n  colour: red\n"
	if _, err := ReadYAML(strings.NewReader(doc)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ReadYAML() error = %v, want INVALID_INPUT", err)
	}
	if _, err := ReadYAML(strings.NewReader("")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ReadYAML(empty) error = %v, want INVALID_INPUT", err)
	}
}

func TestReadYAMLRequiresFields(t *testing.T) {
	const header = "header: {version: 1, is_little_endian: true}\n"
	const model = "  model: {path: a.nif, root: r}\n" +
		"  default_trans: {sync_type: morph, sync_duration: 0.25, non_sync_type: blend, non_sync_duration: 0.25}\n"
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"complete", header + "body:\n" + model + "  anims: []\n  layer_groups: []\n", ""},
		{"no header", "body:\n" + model + "  anims: []\n  layer_groups: []\n", `"header"`},
		{"no body", header, `"body"`},
		{"no endianness", "header: {version: 1}\nbody:\n" + model + "  anims: []\n  layer_groups: []\n", `"is_little_endian"`},
		{"edge without type", header + "body:\n" + model +
			"  anims: [{id: 0, path: a.kf, index: 0, trans: [{id: 1}]}]\n  layer_groups: []\n", `"type"`},
		{"anim without index", header + "body:\n" + model +
			"  anims: [{id: 0, path: a.kf, trans: []}]\n  layer_groups: []\n", `"index"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ReadYAML(strings.NewReader(tt.doc))
			if tt.wantErr == "" {
				if err != nil || !f.Header.IsLittleEndian {
					t.Fatalf("ReadYAML() = %+v, %v", f, err)
				}
				return
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadYAML() error = %v, want INVALID_INPUT naming %s", err, tt.wantErr)
			}
		})
	}
}

func TestBinaryThroughYAMLIsStable(t *testing.T) {
	f := testFile()
	var bin bytes.Buffer
	if err := WriteKFM(f, &bin); err != nil {
		t.Fatal(err)
	}
	original := bytes.Clone(bin.Bytes())

	decoded, err := ReadKFM(&bin)
	if err != nil {
		t.Fatal(err)
	}
	var text bytes.Buffer
	if err := WriteYAML(decoded, &text); err != nil {
		t.Fatal(err)
	}
	back, err := ReadYAML(&text)
	if err != nil {
		t.Fatal(err)
	}
	var again bytes.Buffer
	if err := WriteKFM(back, &again); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again.Bytes(), original) {
		t.Error("kfm -> yaml -> kfm changed the bytes")
	}
}

type recordingHooks struct {
	observability.NoopIOHooks
	reads, writes []string
	trailing      int
}

func (h *recordingHooks) OnTrailingData(_ context.Context, _ string, n int) {
	h.trailing += n
}

func (h *recordingHooks) OnReadComplete(_ context.Context, path, format string, _ int, _ time.Duration, _ error) {
	h.reads = append(h.reads, format+":"+filepath.Base(path))
}

func (h *recordingHooks) OnWriteComplete(_ context.Context, path, format string, _ int, _ time.Duration, _ error) {
	h.writes = append(h.writes, format+":"+filepath.Base(path))
}

func TestImportExport(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetIOHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	dir := t.TempDir()
	f := testFile()

	for _, name := range []string{"a.kfm", "a.yaml"} {
		path := filepath.Join(dir, name)
		if err := Export(ctx, f, path); err != nil {
			t.Fatalf("Export(%s) = %v", name, err)
		}
		got, err := Import(ctx, path)
		if err != nil {
			t.Fatalf("Import(%s) = %v", name, err)
		}
		if !reflect.DeepEqual(got, f) {
			t.Errorf("%s round trip mismatch", name)
		}
	}

	if want := []string{"kfm:a.kfm", "yaml:a.yaml"}; !reflect.DeepEqual(hooks.writes, want) {
		t.Errorf("writes = %v, want %v", hooks.writes, want)
	}
	if want := []string{"kfm:a.kfm", "yaml:a.yaml"}; !reflect.DeepEqual(hooks.reads, want) {
		t.Errorf("reads = %v, want %v", hooks.reads, want)
	}
}

func TestImportReportsTrailingData(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetIOHooks(hooks)
	defer observability.Reset()

	var buf bytes.Buffer
	if err := WriteKFM(testFile(), &buf); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "padded.kfm")
	if err := os.WriteFile(path, append(buf.Bytes(), 0, 0, 0), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Import(context.Background(), path)
	if err != nil {
		t.Fatalf("Import() = %v", err)
	}
	if !reflect.DeepEqual(got, testFile()) {
		t.Error("padded file decoded differently")
	}
	if hooks.trailing != 3 {
		t.Errorf("trailing = %d, want 3", hooks.trailing)
	}

	if err := Export(context.Background(), testFile(), path); err != nil {
		t.Fatal(err)
	}
	hooks.trailing = 0
	if _, err := Import(context.Background(), path); err != nil || hooks.trailing != 0 {
		t.Errorf("unpadded import: err = %v, trailing = %d", err, hooks.trailing)
	}
}

func TestExportFailureLeavesNoFile(t *testing.T) {
	f := testFile()
	f.Body.Model.Root = "Wurzel_Ä"
	path := filepath.Join(t.TempDir(), "bad.kfm")

	err := Export(context.Background(), f, path)
	if !errors.Is(err, errors.ErrCodeEncoding) {
		t.Fatalf("Export() error = %v, want ENCODING", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("output file exists after failed export: %v", statErr)
	}
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.kfm")
	if err := os.WriteFile(garbage, []byte("not a kfm"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Import(context.Background(), garbage); !errors.Is(err, errors.ErrCodeFormat) {
		t.Errorf("Import(garbage) error = %v, want INVALID_FORMAT", err)
	}
	if _, err := Import(context.Background(), filepath.Join(dir, "missing.kfm")); err == nil {
		t.Error("Import(missing) should fail")
	}
	if _, err := Import(context.Background(), "x.txt"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Import(x.txt) error = %v, want UNSUPPORTED", err)
	}
}
