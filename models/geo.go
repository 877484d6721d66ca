package models

// GeoInfo is a best-effort location snapshot derived from request
// headers. Empty string means the field could not be resolved; that is
// a valid terminal state, not an error.
type GeoInfo struct {
	City          string `bson:"city" json:"city,omitempty"`
	CountryRegion string `bson:"country_region" json:"country_region,omitempty"`
	Latitude      string `bson:"latitude" json:"latitude,omitempty"`
	Longitude     string `bson:"longitude" json:"longitude,omitempty"`
	IP            string `bson:"ip" json:"ip,omitempty"`
}

// HasCity reports whether a city was resolved.
func (g GeoInfo) HasCity() bool { return g.City != "" }

// HasCoordinates reports whether both latitude and longitude were resolved.
func (g GeoInfo) HasCoordinates() bool { return g.Latitude != "" && g.Longitude != "" }

// IsEmpty reports whether nothing at all was resolved.
func (g GeoInfo) IsEmpty() bool {
	return g.City == "" && g.CountryRegion == "" && g.Latitude == "" && g.Longitude == "" && g.IP == ""
}
