// internal/home/home_test.go
package home

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpleaf/internal/progs"
)

func testHome(t *testing.T) Home {
	t.Helper()
	return Home{Dir: filepath.Join(t.TempDir(), "af_home")}
}

func TestResolveRequiresEnv(t *testing.T) {
	t.Setenv(EnvVar, "")
	_, err := Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvVar)

	t.Setenv(EnvVar, "/tmp/af")
	h, err := Resolve()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/af", h.Dir)
}

func TestProgsRoundTrip(t *testing.T) {
	h := testHome(t)
	rp := progs.ReqProgs{
		Salmon:    &progs.Prog{ExePath: "/opt/salmon", Version: "1.10.1"},
		AlevinFry: &progs.Prog{ExePath: "/opt/alevin-fry", Version: "0.8.2"},
	}
	require.NoError(t, h.SaveProgs(rp))

	got, err := h.LoadProgs()
	require.NoError(t, err)
	assert.Equal(t, rp, got)
	assert.Nil(t, got.Piscem)
}

func TestLoadProgsMissing(t *testing.T) {
	h := testHome(t)
	_, err := h.LoadProgs()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set-paths")
}

func TestCustomChemistries(t *testing.T) {
	h := testHome(t)

	// missing file is benign
	m, err := h.LoadCustomChemistries()
	require.NoError(t, err)
	assert.Empty(t, m)

	replaced, err := h.AddCustomChemistry("flarechem", "B1[1-12]U1[13-20]R2[1-end]")
	require.NoError(t, err)
	assert.False(t, replaced)

	replaced, err = h.AddCustomChemistry("flarechem", "B1[1-16]U1[17-28]R2[1-end]")
	require.NoError(t, err)
	assert.True(t, replaced)

	m, err = h.LoadCustomChemistries()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"flarechem": "B1[1-16]U1[17-28]R2[1-end]"}, m)
}
