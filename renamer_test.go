package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPadWidth(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 1},
		{1, 1},
		{9, 1},
		{10, 2},
		{99, 2},
		{100, 3},
		{1234, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, padWidth(tt.n), "padWidth(%d)", tt.n)
	}
}

func TestPadIndex(t *testing.T) {
	assert.Equal(t, "03", padIndex(3, 2))
	assert.Equal(t, "3", padIndex(3, 1))
	assert.Equal(t, "012", padIndex(12, 3))
	assert.Equal(t, "100", padIndex(100, 3))
}

func TestSplitEntry(t *testing.T) {
	tests := []struct {
		raw        string
		wantDir    string
		wantBase   string
		wantPrefix string
	}{
		{"a.txt", "", "a.txt", ""},
		{"dir/", "", "dir", ""},
		{"dir2/x.txt", "dir2", "x.txt", "dir2/"},
		{"a/b/c.txt", "a/b", "c.txt", "a/b/"},
		{"a/b/", "a", "b", "a/"},
		{"a//b.txt", "a", "b.txt", "a/"},
		{"/a.txt", "/", "a.txt", "/"},
		{"/srv/data/", "/srv", "data", "/srv/"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			e := splitEntry(tt.raw)
			assert.Equal(t, tt.raw, e.Raw)
			assert.Equal(t, tt.wantDir, e.Dir)
			assert.Equal(t, tt.wantBase, e.Base)
			assert.Equal(t, tt.wantPrefix, e.Prefix())
		})
	}
}

func newMemFs(t *testing.T, paths ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, p := range paths {
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, afero.WriteFile(fs, p, []byte(p), 0644))
	}
	return fs
}

func collect(r *Renamer, entries []string) []Result {
	var out []Result
	for res := range r.Sequence(entries) {
		out = append(out, res)
	}
	return out
}

func targets(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Target
	}
	return out
}

func TestSequenceTenEntriesUseTwoDigits(t *testing.T) {
	var entries []string
	for c := 'a'; c <= 'j'; c++ {
		entries = append(entries, fmt.Sprintf("%c.txt", c))
	}
	fs := newMemFs(t, entries...)

	results := collect(NewRenamer(fs, "", false, nil), entries)
	require.Len(t, results, 10)

	assert.Equal(t, "01 - a.txt", results[0].Target)
	assert.Equal(t, "10 - j.txt", results[9].Target)
	for i, res := range results {
		assert.Equal(t, i+1, res.Index)
		assert.Equal(t, OutcomeRenamed, res.Outcome)
		assert.NoError(t, res.Err)

		exists, err := afero.Exists(fs, res.Target)
		require.NoError(t, err)
		assert.True(t, exists, "expected %s to exist", res.Target)

		exists, err = afero.Exists(fs, entries[i])
		require.NoError(t, err)
		assert.False(t, exists, "expected %s to be gone", entries[i])
	}
}

func TestSequencePreservesOrderAndDirectories(t *testing.T) {
	entries := []string{"z.txt", "sub/m.txt", "a.txt"}
	fs := newMemFs(t, entries...)

	results := collect(NewRenamer(fs, "", false, nil), entries)

	want := []string{"1 - z.txt", "sub/2 - m.txt", "3 - a.txt"}
	if diff := cmp.Diff(want, targets(results)); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}

	content, err := afero.ReadFile(fs, "sub/2 - m.txt")
	require.NoError(t, err)
	assert.Equal(t, "sub/m.txt", string(content))
}

func TestSequenceTrailingSeparatorNamesDirectory(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.Mkdir("dir", 0755))
	require.NoError(t, os.Mkdir("dir2", 0755))
	require.NoError(t, os.WriteFile(filepath.Join("dir2", "x.txt"), []byte("x"), 0644))

	results := collect(NewRenamer(afero.NewOsFs(), "", false, nil), []string{"dir/", "dir2/x.txt"})

	if diff := cmp.Diff([]string{"1 - dir", "dir2/2 - x.txt"}, targets(results)); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
	for _, res := range results {
		assert.Equal(t, OutcomeRenamed, res.Outcome, "entry %s: %v", res.Entry.Raw, res.Err)
	}

	info, err := os.Stat("1 - dir")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	_, err = os.Stat(filepath.Join("dir2", "2 - x.txt"))
	assert.NoError(t, err)
}

func TestSequenceContinuesAfterFailure(t *testing.T) {
	entries := []string{"a.txt", "missing.txt", "c.txt"}
	fs := newMemFs(t, "a.txt", "c.txt")

	results := collect(NewRenamer(fs, "", false, nil), entries)
	require.Len(t, results, 3)

	assert.Equal(t, OutcomeRenamed, results[0].Outcome)
	assert.Equal(t, OutcomeFailed, results[1].Outcome)
	assert.Error(t, results[1].Err)
	assert.Equal(t, "2 - missing.txt", results[1].Target)
	assert.Equal(t, OutcomeRenamed, results[2].Outcome)

	exists, err := afero.Exists(fs, "3 - c.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSequenceWidthCountsFailedEntries(t *testing.T) {
	entries := make([]string, 10)
	for i := range entries {
		entries[i] = fmt.Sprintf("f%d", i)
	}
	fs := newMemFs(t, "f0") // Only the first one exists

	results := collect(NewRenamer(fs, "", false, nil), entries)
	assert.Equal(t, "01 - f0", results[0].Target)
	assert.Equal(t, "10 - f9", results[9].Target)
	assert.Equal(t, OutcomeFailed, results[9].Outcome)
}

func TestSequenceIsLazy(t *testing.T) {
	fs := newMemFs(t, "a.txt", "b.txt")
	r := NewRenamer(fs, "", false, nil)

	for res := range r.Sequence([]string{"a.txt", "b.txt"}) {
		assert.Equal(t, "1 - a.txt", res.Target)
		break
	}

	exists, err := afero.Exists(fs, "b.txt")
	require.NoError(t, err)
	assert.True(t, exists, "second entry should not be touched")
}

func TestSequenceDryRunTouchesNothing(t *testing.T) {
	fs := newMemFs(t, "a.txt")

	results := collect(NewRenamer(fs, "", true, nil), []string{"a.txt", "missing.txt"})
	for _, res := range results {
		assert.Equal(t, OutcomePlanned, res.Outcome)
		assert.NoError(t, res.Err)
	}

	exists, err := afero.Exists(fs, "a.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSequenceCustomSeparator(t *testing.T) {
	fs := newMemFs(t, "a.txt")

	results := collect(NewRenamer(fs, "_", false, nil), []string{"a.txt"})
	assert.Equal(t, "1_a.txt", results[0].Target)
}

func TestRunWritesOneLinePerEntryPlusFailures(t *testing.T) {
	fs := newMemFs(t, "a.txt", "c.txt")
	var buf bytes.Buffer

	results, summary := NewRenamer(fs, "", false, nil).Run([]string{"a.txt", "missing.txt", "c.txt"}, &buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `"a.txt" -> "1 - a.txt"`, lines[0])
	assert.Equal(t, `"missing.txt" -> "2 - missing.txt"`, lines[1])
	assert.Equal(t, results[1].Err.Error(), lines[2])
	assert.Equal(t, `"c.txt" -> "3 - c.txt"`, lines[3])

	assert.Equal(t, Summary{Total: 3, Renamed: 2, Failed: 1}, summary)
}
