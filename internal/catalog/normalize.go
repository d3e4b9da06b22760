package catalog

import "github.com/appgrid/catalogd/internal/upstream"

// NormalizeApp maps one provider-shaped record onto the stable AppRecord
// schema. It is total over anything the adapter can produce: absent provider
// fields propagate as zero values and are never fabricated. Search listings
// carry only a summary while detail records carry a full description; the
// summary stands in when the description is missing.
func NormalizeApp(raw upstream.RawApp) AppRecord {
	description := raw.Description
	if description == "" {
		description = raw.Summary
	}
	return AppRecord{
		ID:          raw.AppID,
		Name:        raw.Title,
		Description: description,
		Icon:        raw.Icon,
		Developer: Developer{
			Name: raw.Developer,
			URL:  raw.DeveloperURL,
		},
		Category:    raw.Genre,
		Rating:      raw.Score,
		Reviews:     raw.Reviews,
		Size:        raw.Size,
		Version:     raw.Version,
		LastUpdated: raw.Updated,
		Installs:    raw.Installs,
		Screenshots: raw.Screenshots,
		StoreURL:    raw.URL,
	}
}

// NormalizeSearch reshapes a provider search response into the paginated
// search envelope. TotalApps counts only what this single call returned, so
// TotalPages is computed from an incomplete total. The listing is clipped to
// perPage entries even if the provider over-delivers.
func NormalizeSearch(raw []upstream.RawApp, page, perPage int) SearchResult {
	total := len(raw)
	if len(raw) > perPage {
		raw = raw[:perPage]
	}
	apps := make([]AppRecord, 0, len(raw))
	for _, item := range raw {
		apps = append(apps, NormalizeApp(item))
	}
	totalPages := (total + perPage - 1) / perPage
	return SearchResult{
		Apps:        apps,
		TotalApps:   total,
		CurrentPage: page,
		TotalPages:  totalPages,
	}
}
