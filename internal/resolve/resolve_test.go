// internal/resolve/resolve_test.go
package resolve

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpleaf-core/chemistry"
	"simpleaf-core/filter"
)

func writeIndexMetadata(t *testing.T, dir, indexType, t2g string) {
	t.Helper()
	body := `{"cmd": "x", "index_type": "` + indexType + `"`
	if t2g != "" {
		body += `, "t2g_file": "` + t2g + `"`
	} else {
		body += `, "t2g_file": null`
	}
	body += `}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFileName), []byte(body), 0o644))
}

func noFetch(chemistry.Chemistry) (string, error) {
	return "", errors.New("fetch should not be called")
}

func TestResolveIndexFromMetadata(t *testing.T) {
	dir := t.TempDir()

	writeIndexMetadata(t, dir, "piscem", "t2g_3col.tsv")
	meta, err := LoadIndexMetadata(dir)
	require.NoError(t, err)
	ref, err := ResolveIndex(dir, false, meta)
	require.NoError(t, err)
	assert.Equal(t, IndexRef{Kind: IndexPiscem, Path: filepath.Join(dir, "piscem_idx")}, ref)

	writeIndexMetadata(t, dir, "salmon", "")
	meta, err = LoadIndexMetadata(dir)
	require.NoError(t, err)
	ref, err = ResolveIndex(dir, false, meta)
	require.NoError(t, err)
	assert.Equal(t, IndexRef{Kind: IndexSalmon, Path: dir}, ref)
}

func TestResolveIndexExplicitPiscemWins(t *testing.T) {
	dir := t.TempDir()
	writeIndexMetadata(t, dir, "salmon", "")
	meta, err := LoadIndexMetadata(dir)
	require.NoError(t, err)

	ref, err := ResolveIndex(dir, true, meta)
	require.NoError(t, err)
	assert.Equal(t, IndexRef{Kind: IndexPiscem, Path: dir}, ref)
}

func TestResolveIndexDefaults(t *testing.T) {
	dir := t.TempDir() // no metadata file
	meta, err := LoadIndexMetadata(dir)
	require.NoError(t, err)
	require.Nil(t, meta)

	ref, err := ResolveIndex(dir, false, meta)
	require.NoError(t, err)
	assert.Equal(t, IndexRef{Kind: IndexSalmon, Path: dir}, ref)

	ref, err = ResolveIndex("", false, nil)
	require.NoError(t, err)
	assert.Equal(t, IndexNone, ref.Kind)
}

func TestResolveIndexUnknownType(t *testing.T) {
	dir := t.TempDir()
	writeIndexMetadata(t, dir, "bowtie2", "")
	meta, err := LoadIndexMetadata(dir)
	require.NoError(t, err)
	_, err = ResolveIndex(dir, false, meta)
	require.Error(t, err)
}

func TestResolveT2G(t *testing.T) {
	dir := t.TempDir()
	t2g := "t2g_3col.tsv"
	meta := &IndexMetadata{T2GFile: &t2g}

	got, err := ResolveT2G("explicit.tsv", dir, meta)
	require.NoError(t, err)
	assert.Equal(t, "explicit.tsv", got)

	got, err = ResolveT2G("", dir, meta)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, t2g), got)

	_, err = ResolveT2G("", dir, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "t2g")
}

func TestResolveOrientation(t *testing.T) {
	v3 := chemistry.Resolve("10xv3", nil)
	other := chemistry.Resolve("dropseq", nil)

	ori, err := ResolveOrientation("", v3)
	require.NoError(t, err)
	assert.Equal(t, chemistry.OriForward, ori)

	ori, err = ResolveOrientation("", other)
	require.NoError(t, err)
	assert.Equal(t, chemistry.OriBoth, ori)

	ori, err = ResolveOrientation("rc", v3)
	require.NoError(t, err)
	assert.Equal(t, "rc", ori)

	_, err = ResolveOrientation("backwards", v3)
	require.Error(t, err)
}

func quantInputs(t *testing.T) (Inputs, string) {
	t.Helper()
	dir := t.TempDir()
	t2g := filepath.Join(dir, "t2g.tsv")
	require.NoError(t, os.WriteFile(t2g, []byte("tx\tgene\n"), 0o644))
	return Inputs{
		MapDir:    filepath.Join(dir, "af_map"),
		Chemistry: "10xv2",
		Threads:   1,
		T2GMap:    t2g,
		Filter:    filter.Spec{ForcedCells: 500},
	}, dir
}

func TestQuantPreMappedDirectory(t *testing.T) {
	in, _ := quantInputs(t)
	cfg, err := Quant(in, nil, noFetch)
	require.NoError(t, err)
	assert.Equal(t, IndexNone, cfg.Index.Kind)
	assert.Equal(t, in.MapDir, cfg.MapDir)
	assert.Equal(t, filter.ForceCells, cfg.Filter.Kind)
	assert.Equal(t, 500, cfg.Filter.Count)
	assert.Equal(t, chemistry.OriForward, cfg.Ori)
}

func TestQuantRequiresIndexOrMapDir(t *testing.T) {
	in, _ := quantInputs(t)
	in.MapDir = ""
	_, err := Quant(in, nil, noFetch)
	require.Error(t, err)
}

func TestQuantNoFilterFails(t *testing.T) {
	in, _ := quantInputs(t)
	in.Filter = filter.Spec{}
	_, err := Quant(in, nil, noFetch)
	require.ErrorIs(t, err, filter.ErrNoFilter)
}

func TestQuantUnfilteredExplicitPathMustExist(t *testing.T) {
	in, dir := quantInputs(t)
	in.Filter = filter.Spec{
		Unfiltered:     filter.UnfilteredPath,
		UnfilteredFile: filepath.Join(dir, "missing_pl.txt"),
		MinReads:       10,
	}
	_, err := Quant(in, nil, noFetch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "regular file")
}

func TestQuantAutoFetchUsesResolvedChemistry(t *testing.T) {
	in, dir := quantInputs(t)
	in.Filter = filter.Spec{Unfiltered: filter.UnfilteredAuto, MinReads: 10}

	var asked chemistry.Chemistry
	pl := filepath.Join(dir, "10x_v2_permit.txt")
	cfg, err := Quant(in, nil, func(c chemistry.Chemistry) (string, error) {
		asked = c
		return pl, nil
	})
	require.NoError(t, err)
	assert.Equal(t, chemistry.TenxV2, asked.Kind)
	assert.Equal(t, filter.UnfilteredExternalList, cfg.Filter.Kind)
	assert.Equal(t, pl, cfg.Filter.Path)
	assert.Equal(t, 10, cfg.Filter.MinReads)
}

func TestQuantCustomChemistrySubstitution(t *testing.T) {
	in, _ := quantInputs(t)
	in.Chemistry = "flarechem"
	custom := map[string]string{"flarechem": "B1[1-12]U1[13-20]R2[1-end]"}

	cfg, err := Quant(in, custom, noFetch)
	require.NoError(t, err)
	assert.Equal(t, chemistry.Other, cfg.Chem.Kind)
	assert.Equal(t, custom["flarechem"], cfg.Chem.Raw)
	assert.Equal(t, chemistry.OriBoth, cfg.Ori)
}

func TestQuantThreadClamp(t *testing.T) {
	in, _ := quantInputs(t)
	in.Threads = runtime.NumCPU() + 64
	cfg, err := Quant(in, nil, noFetch)
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), cfg.Threads)
	assert.True(t, cfg.ThreadsClamped)
}
