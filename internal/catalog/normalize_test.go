package catalog

import (
	"testing"

	"github.com/appgrid/catalogd/internal/upstream"
	"github.com/stretchr/testify/require"
)

func sampleRaw() upstream.RawApp {
	return upstream.RawApp{
		AppID:        "com.example.chess",
		Title:        "Chess Master",
		Summary:      "Play chess online",
		Icon:         "https://cdn.example.com/icon.png",
		Developer:    "Example Games",
		DeveloperURL: "https://example.com",
		Genre:        "GAME_BOARD",
		Score:        4.6,
		Reviews:      128734,
		Size:         "45M",
		Version:      "2.1.0",
		Updated:      "June 12, 2025",
		Installs:     "10,000,000+",
		Screenshots:  []string{"https://cdn.example.com/s1.png", "https://cdn.example.com/s2.png"},
		URL:          "https://store.example.com/apps/com.example.chess",
	}
}

func TestNormalizeAppMapsFields(t *testing.T) {
	raw := sampleRaw()
	app := NormalizeApp(raw)

	require.Equal(t, raw.AppID, app.ID)
	require.Equal(t, raw.Title, app.Name)
	require.Equal(t, raw.Summary, app.Description)
	require.Equal(t, raw.Icon, app.Icon)
	require.Equal(t, raw.Developer, app.Developer.Name)
	require.Equal(t, raw.DeveloperURL, app.Developer.URL)
	require.Equal(t, raw.Genre, app.Category)
	require.Equal(t, raw.Score, app.Rating)
	require.Equal(t, raw.Reviews, app.Reviews)
	require.Equal(t, raw.Size, app.Size)
	require.Equal(t, raw.Version, app.Version)
	require.Equal(t, raw.Updated, app.LastUpdated)
	require.Equal(t, raw.Installs, app.Installs)
	require.Equal(t, raw.Screenshots, app.Screenshots)
	require.Equal(t, raw.URL, app.StoreURL)
}

func TestNormalizeAppPrefersFullDescription(t *testing.T) {
	raw := sampleRaw()
	raw.Description = "A long form description."
	app := NormalizeApp(raw)
	require.Equal(t, "A long form description.", app.Description)
}

func TestNormalizeAppKeepsAbsentFieldsEmpty(t *testing.T) {
	app := NormalizeApp(upstream.RawApp{AppID: "com.example.bare"})
	require.Equal(t, "com.example.bare", app.ID)
	require.Empty(t, app.Name)
	require.Empty(t, app.Description)
	require.Zero(t, app.Rating)
	require.Zero(t, app.Reviews)
	require.Nil(t, app.Screenshots)
}

func TestNormalizeSearchDerivesPagination(t *testing.T) {
	raw := []upstream.RawApp{sampleRaw(), sampleRaw(), sampleRaw()}
	result := NormalizeSearch(raw, 1, 2)

	require.Len(t, result.Apps, 2, "listing is clipped to perPage")
	require.Equal(t, 3, result.TotalApps)
	require.Equal(t, 1, result.CurrentPage)
	// ceil(3/2)
	require.Equal(t, 2, result.TotalPages)
}

func TestNormalizeSearchWithinPageBound(t *testing.T) {
	raw := []upstream.RawApp{sampleRaw(), sampleRaw()}
	result := NormalizeSearch(raw, 2, 10)

	require.Len(t, result.Apps, 2)
	require.Equal(t, 2, result.TotalApps)
	require.Equal(t, 2, result.CurrentPage)
	require.Equal(t, 1, result.TotalPages)
}

func TestNormalizeSearchEmptyResponse(t *testing.T) {
	result := NormalizeSearch(nil, 1, 20)
	require.NotNil(t, result.Apps)
	require.Empty(t, result.Apps)
	require.Zero(t, result.TotalApps)
	require.Zero(t, result.TotalPages)
}
