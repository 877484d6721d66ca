package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"experience-nv/geo"
	"experience-nv/models"
)

func TestResolveFromVercelHeaders(t *testing.T) {
	src := geo.MapHeaderSource{
		"X-Forwarded-For":            "203.0.113.9, 10.0.0.1",
		"X-Vercel-IP-City":           "Las%20Vegas",
		"X-Vercel-IP-Country-Region": "NV",
		"X-Vercel-IP-Latitude":       "36.1699",
		"X-Vercel-IP-Longitude":      "-115.1398",
	}

	g := geo.Resolve(src, nil)
	assert.Equal(t, "203.0.113.9", g.IP)
	assert.Equal(t, "Las Vegas", g.City)
	assert.Equal(t, "NV", g.CountryRegion)
	assert.Equal(t, "36.1699", g.Latitude)
	assert.Equal(t, "-115.1398", g.Longitude)
	assert.True(t, g.HasCoordinates())
}

func TestResolveCityFallbackHeader(t *testing.T) {
	src := geo.MapHeaderSource{
		"X-Real-IP":              "198.51.100.4",
		"CloudFront-Viewer-City": "Reno",
	}

	g := geo.Resolve(src, nil)
	assert.Equal(t, "198.51.100.4", g.IP)
	assert.Equal(t, "Reno", g.City)
	assert.False(t, g.HasCoordinates())
}

func TestResolveKeepsProvidedFields(t *testing.T) {
	src := geo.MapHeaderSource{
		"X-Vercel-IP-City":     "Henderson",
		"X-Vercel-IP-Latitude": "36.0395",
	}
	provided := &models.GeoInfo{City: "Elko", IP: "192.0.2.1"}

	g := geo.Resolve(src, provided)
	// provided values win; only gaps are filled
	assert.Equal(t, "Elko", g.City)
	assert.Equal(t, "192.0.2.1", g.IP)
	assert.Equal(t, "36.0395", g.Latitude)
}

func TestResolveNoHeadersIsEmptyNotError(t *testing.T) {
	g := geo.Resolve(geo.MapHeaderSource{}, nil)
	assert.True(t, g.IsEmpty())
}
