package catalog

// Developer identifies the publisher of an app as reported by the upstream
// provider.
type Developer struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// AppRecord is the normalized representation of one catalog application. All
// fields are denormalized copies taken from the upstream payload at fetch
// time; absent upstream fields stay zero-valued rather than being invented.
type AppRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Developer   Developer `json:"developer"`
	Category    string    `json:"category"`
	Rating      float64   `json:"rating"`
	Reviews     int64     `json:"reviews"`
	Size        string    `json:"size"`
	Version     string    `json:"version"`
	LastUpdated string    `json:"lastUpdated"`
	Installs    string    `json:"installs"`
	Screenshots []string  `json:"screenshots"`
	StoreURL    string    `json:"storeUrl"`
}

// SearchResult is the paginated search envelope. TotalApps reflects only the
// size of the single upstream response, so TotalPages is derived from a
// potentially incomplete count.
type SearchResult struct {
	Apps        []AppRecord `json:"apps"`
	TotalApps   int         `json:"totalApps"`
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
}
