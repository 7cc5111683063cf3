package diff

import (
	"embed"
	"encoding/json"
	"path"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

//go:embed testdata/*.txtar
var testData embed.FS

type goldenCase struct {
	previous    string
	current     string
	deltas      []Delta
	decorations Decorations
}

func loadGolden(t *testing.T, file string) goldenCase {
	t.Helper()

	content, err := testData.ReadFile(file)
	require.NoError(t, err)
	a := txtar.Parse([]byte(strings.ReplaceAll(string(content), "\r\n", "\n")))

	var gc goldenCase
	seen := map[string]bool{}
	for _, f := range a.Files {
		name := strings.TrimSpace(f.Name)
		seen[name] = true
		switch name {
		case "previous.txt":
			gc.previous = string(f.Data)
		case "current.txt":
			gc.current = string(f.Data)
		case "deltas.json":
			require.NoError(t, json.Unmarshal(f.Data, &gc.deltas), "deltas.json")
		case "decorations.json":
			require.NoError(t, json.Unmarshal(f.Data, &gc.decorations), "decorations.json")
		default:
			t.Fatalf("unexpected file %q in %s", name, file)
		}
	}
	for _, want := range []string{"previous.txt", "current.txt", "deltas.json", "decorations.json"} {
		require.True(t, seen[want], "%s is missing %s", file, want)
	}
	return gc
}

func TestGolden(t *testing.T) {
	files, err := testData.ReadDir("testdata")
	require.NoError(t, err)

	opts := cmpopts.EquateEmpty()
	for _, fileEntry := range files {
		if fileEntry.IsDir() || !strings.HasSuffix(fileEntry.Name(), ".txtar") {
			continue
		}
		gc := loadGolden(t, path.Join("testdata", fileEntry.Name()))

		for _, name := range Sources() {
			src, err := Source(name)
			require.NoError(t, err)

			t.Run(strings.TrimSuffix(fileEntry.Name(), ".txtar")+"/"+name, func(t *testing.T) {
				blocks := BlocksFrom(src, gc.previous, gc.current)

				if d := cmp.Diff(gc.deltas, Group(blocks), opts); d != "" {
					t.Errorf("deltas mismatch (-want +got):\n%s", d)
				}
				dec := Decorate(blocks)
				require.NoError(t, dec.Validate())
				if d := cmp.Diff(gc.decorations, dec, opts); d != "" {
					t.Errorf("decorations mismatch (-want +got):\n%s", d)
				}

				got, err := ApplyText(gc.previous, gc.deltas)
				require.NoError(t, err)
				if d := cmp.Diff(strings.TrimSuffix(gc.current, "\n"), got); d != "" {
					t.Errorf("apply mismatch (-want +got):\n%s", d)
				}
			})
		}
	}
}
