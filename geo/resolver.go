package geo

import (
	"net/http"
	"net/url"
	"strings"

	"experience-nv/logger"
	"experience-nv/models"
)

// HeaderSource abstracts wherever the request headers come from, so the
// resolver can run outside a request-scoped environment (tests, workers).
type HeaderSource interface {
	Get(key string) string
}

// HTTPHeaderSource adapts a net/http header map.
type HTTPHeaderSource struct {
	Header http.Header
}

func (s HTTPHeaderSource) Get(key string) string { return s.Header.Get(key) }

// MapHeaderSource is a plain map source, mainly for tests.
type MapHeaderSource map[string]string

func (s MapHeaderSource) Get(key string) string { return s[key] }

// For each geo field a primary and a platform-specific header are
// checked, in that order.
var (
	ipHeaders        = []string{"X-Forwarded-For", "X-Real-IP"}
	cityHeaders      = []string{"X-Vercel-IP-City", "CloudFront-Viewer-City"}
	regionHeaders    = []string{"X-Vercel-IP-Country-Region", "CloudFront-Viewer-Country-Region"}
	latitudeHeaders  = []string{"X-Vercel-IP-Latitude", "CloudFront-Viewer-Latitude"}
	longitudeHeaders = []string{"X-Vercel-IP-Longitude", "CloudFront-Viewer-Longitude"}
)

// Resolve derives a best-effort GeoInfo for the current request.
// If provided is non-nil it is used as the starting point and only the
// missing fields are filled. Each fill step is independently
// best-effort; a field that stays empty is a valid outcome and the
// function never errors.
func Resolve(src HeaderSource, provided *models.GeoInfo) models.GeoInfo {
	var g models.GeoInfo
	if provided != nil {
		g = *provided
	}

	// Step 1: primary extraction from forwarding + platform geo headers.
	if g.IP == "" {
		g.IP = resolveIP(src)
	}
	if g.City == "" {
		g.City = decodeCity(src.Get(cityHeaders[0]))
	}
	if g.CountryRegion == "" {
		g.CountryRegion = firstHeader(src, regionHeaders)
	}

	// Step 2: city fallback lookup against the platform-specific header.
	if g.City == "" {
		g.City = lookupCity(src)
	}

	// Step 3: coordinate fallback lookup if still absent.
	if g.Latitude == "" || g.Longitude == "" {
		lat, lng := lookupCoordinates(src)
		if g.Latitude == "" {
			g.Latitude = lat
		}
		if g.Longitude == "" {
			g.Longitude = lng
		}
	}

	if g.City == "" {
		logger.Log.Warn("geo: city unresolved, prompts will omit location context")
	}
	return g
}

func resolveIP(src HeaderSource) string {
	for _, h := range ipHeaders {
		v := src.Get(h)
		if v == "" {
			continue
		}
		// X-Forwarded-For carries a chain; the client is the first hop.
		if i := strings.IndexByte(v, ','); i >= 0 {
			v = v[:i]
		}
		return strings.TrimSpace(v)
	}
	return ""
}

// lookupCity checks the remaining city headers after the primary one
// came up empty.
func lookupCity(src HeaderSource) string {
	for _, h := range cityHeaders[1:] {
		if v := src.Get(h); v != "" {
			return decodeCity(v)
		}
	}
	return ""
}

// decodeCity undoes percent escaping; edge proxies URL-encode city
// names ("Las%20Vegas").
func decodeCity(v string) string {
	if v == "" {
		return ""
	}
	if decoded, err := url.QueryUnescape(v); err == nil {
		return decoded
	}
	return v
}

func lookupCoordinates(src HeaderSource) (string, string) {
	return firstHeader(src, latitudeHeaders), firstHeader(src, longitudeHeaders)
}

func firstHeader(src HeaderSource, keys []string) string {
	for _, k := range keys {
		if v := src.Get(k); v != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
