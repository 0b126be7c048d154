package catalog

// Station is one platform group in the station directory. A physical complex
// may appear as several Station records sharing a name and location but
// carrying distinct ids and line sets.
type Station struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Lines []string `json:"lines"`
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
}
