package crs

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wktWGS84 = `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],UNIT["degree",0.0174532925199433,AUTHORITY["EPSG","9122"]],AUTHORITY["EPSG","4326"]]`

	wktESRISIRGAS = `GEOGCS["GCS_SIRGAS_2000",DATUM["D_SIRGAS_2000",SPHEROID["GRS_1980",6378137.0,298.257222101]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

	wktESRIWebMercator = `PROJCS["WGS_1984_Web_Mercator_Auxiliary_Sphere",GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]],PROJECTION["Mercator_Auxiliary_Sphere"],UNIT["Meter",1.0]]`

	wktUTM23S = `PROJCS["SIRGAS 2000 / UTM zone 23S",GEOGCS["SIRGAS 2000",DATUM["Sistema_de_Referencia_Geocentrico_para_las_AmericaS_2000",SPHEROID["GRS 1980",6378137,298.257222101,AUTHORITY["EPSG","7019"]],AUTHORITY["EPSG","6674"]],AUTHORITY["EPSG","4674"]],PROJECTION["Transverse_Mercator"],UNIT["metre",1,AUTHORITY["EPSG","9001"]],AUTHORITY["EPSG","31983"]]`

	wktESRIUTM23S = `PROJCS["SIRGAS_2000_UTM_Zone_23S",GEOGCS["GCS_SIRGAS_2000",DATUM["D_SIRGAS_2000",SPHEROID["GRS_1980",6378137.0,298.257222101]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]],PROJECTION["Transverse_Mercator"],UNIT["Meter",1.0]]`
)

func TestFromWKT(t *testing.T) {
	tests := []struct {
		name string
		wkt  string
		want string
	}{
		{"epsg authority", wktWGS84, WGS84},
		{"esri sirgas name", wktESRISIRGAS, WGS84},
		{"esri web mercator name", wktESRIWebMercator, WebMercator},
		{"surrounding whitespace", "\n  " + wktWGS84 + "\n", WGS84},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromWKT(tt.wkt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromWKT_Unsupported(t *testing.T) {
	for name, wkt := range map[string]string{
		"utm by authority": wktUTM23S,
		"utm by name":      wktESRIUTM23S,
		"empty":            "",
		"not a crs":        `UNIT["metre",1]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := FromWKT(wkt)
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrUnsupportedCRS))
		})
	}
}

func TestFromWKT_IgnoresNestedAuthority(t *testing.T) {
	// The geographic base carries EPSG:4674 but the projected CRS is unknown.
	_, err := FromWKT(wktUTM23S)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "31983")
}
