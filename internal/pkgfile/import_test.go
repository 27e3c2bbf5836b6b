package pkgfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/dfmgen/internal/model"
)

// TestImport_JSONC verifies comment stripping, overlay onto the defaults
// and the dual-source repair of the fixture document.
func TestImport_JSONC(t *testing.T) {
	pkg, err := Import(filepath.Join("testdata", "package.jsonc"))
	require.NoError(t, err)

	assert.Equal(t, "Field A", pkg.ModelName)
	assert.Equal(t, model.GridRef("/models/fieldA/grid"), pkg.Grid)
	assert.True(t, pkg.IncludeObliqueFracs)

	ym := pkg.Mechanical.YoungsMod
	assert.Equal(t, model.GridResultRef("/cases/geomech/E"), ym.GridResult)
	assert.True(t, ym.Property.IsNull(), "the grid result wins over the property")
	assert.Equal(t, 2e10, ym.Default)

	require.Equal(t, 2, pkg.EpisodeCount())
	assert.Equal(t, 10.0, pkg.Episode(1).Duration)

	assert.Equal(t, model.ApertureBartonBandis, pkg.Aperture.Method)
	assert.Equal(t, 10.0, pkg.Aperture.JRC, "omitted aperture parameters keep their default")
	assert.Equal(t, 0.25, pkg.Mechanical.PoissonsRatio.Default)
}

func TestImportBytes_Episodes(t *testing.T) {
	pkg, err := ImportBytes([]byte(`{
  "episodes": [
    {"ehminAzimuth": 30},
    {"ehminAzimuth": 45},
    {"duration": 2, "ehminRate": null},
  ],
}`), "doc.jsonc")
	require.NoError(t, err)
	require.Equal(t, 3, pkg.EpisodeCount())

	assert.Equal(t, "1: until termination; Ehmin -0.01/ma @ 30deg; Ehmax 0/ma", pkg.EpisodeLabel(0))
	assert.Equal(t, "2: until termination; Ehmin -0.01/ma @ 45deg; Ehmax 0/ma", pkg.EpisodeLabel(1))
	assert.Equal(t, 2.0, pkg.Episode(2).Duration)
	assert.Equal(t, -0.01, pkg.Episode(2).EhminRate, "null keeps the default")
}

func TestImportBytes_NoEpisodes(t *testing.T) {
	pkg, err := ImportBytes([]byte(`{"modelName": "Field B"}`), "doc.jsonc")
	require.NoError(t, err)

	require.Equal(t, 1, pkg.EpisodeCount())
	assert.Equal(t, model.NewDeformationEpisode().EhminRate, pkg.Episode(0).EhminRate)
}

func TestImportBytes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "unknown key", input: `{"modelname": "typo"}`, wantErr: "unknown field"},
		{name: "unknown episode key", input: `{"episodes": [{"durration": 1}]}`, wantErr: "unknown field"},
		{name: "wrong type", input: `{"noIntermediateOutputs": "two"}`, wantErr: "noIntermediateOutputs"},
		{name: "not json", input: `modelName: yaml`, wantErr: "doc.jsonc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportBytes([]byte(tt.input), "doc.jsonc")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestImport_NotFound(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "missing.jsonc"))

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitPackageNotFound, cliErr.Code)
}
