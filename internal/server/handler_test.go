package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/appgrid/catalogd/internal/cache"
	"github.com/appgrid/catalogd/internal/catalog"
	"github.com/appgrid/catalogd/internal/upstream"
	"github.com/gavv/httpexpect/v2"
)

type scriptedProvider struct {
	searchCalls  int
	detailsCalls int
	apps         []upstream.RawApp
	err          error
}

func (p *scriptedProvider) Search(context.Context, string, int) ([]upstream.RawApp, error) {
	p.searchCalls++
	if p.err != nil {
		return nil, p.err
	}
	return p.apps, nil
}

func (p *scriptedProvider) Details(context.Context, string) (upstream.RawApp, error) {
	p.detailsCalls++
	if p.err != nil {
		return upstream.RawApp{}, p.err
	}
	if len(p.apps) == 0 {
		return upstream.RawApp{}, errors.New("no app scripted")
	}
	return p.apps[0], nil
}

func newCatalogExpect(t *testing.T, provider catalog.Provider) (*httpexpect.Expect, cache.Store) {
	t.Helper()

	store := cache.NewMemory(time.Hour)
	service := catalog.NewService(catalog.Options{
		Provider: provider,
		Store:    store,
		TTL:      time.Hour,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	handler := NewHandler(service, slog.New(slog.NewTextHandler(io.Discard, nil)))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handler.ServeHealth)
	mux.HandleFunc("/catalog", handler.ServeCatalog)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  srv.URL,
		Reporter: httpexpect.NewRequireReporter(t),
	}), store
}

func TestCatalogSearchEndToEnd(t *testing.T) {
	provider := &scriptedProvider{apps: []upstream.RawApp{
		{AppID: "com.example.chess", Title: "Chess Master", Genre: "GAME_BOARD", Score: 4.6},
	}}
	expect, store := newCatalogExpect(t, provider)

	result := expect.POST("/catalog").
		WithJSON(map[string]any{"action": "search", "query": "chess", "page": 1, "perPage": 10}).
		Expect()

	result.Status(http.StatusOK)
	result.Header("Access-Control-Allow-Origin").IsEqual("*")
	body := result.JSON().Object()
	body.Value("totalApps").Number().IsEqual(1)
	body.Value("currentPage").Number().IsEqual(1)
	body.Value("totalPages").Number().IsEqual(1)
	apps := body.Value("apps").Array()
	apps.Length().IsEqual(1)
	apps.Value(0).Object().Value("id").String().IsEqual("com.example.chess")
	apps.Value(0).Object().Value("category").String().IsEqual("GAME_BOARD")

	size, err := store.Size(context.Background())
	if err != nil || size != 1 {
		t.Fatalf("expected one cache entry, got size=%d err=%v", size, err)
	}

	// Replaying the query hits the cache and returns the identical body.
	replay := expect.POST("/catalog").
		WithJSON(map[string]any{"action": "search", "query": "chess", "page": 1, "perPage": 10}).
		Expect()
	replay.Status(http.StatusOK)
	replay.Body().IsEqual(result.Body().Raw())
	if provider.searchCalls != 1 {
		t.Fatalf("expected a single provider call, got %d", provider.searchCalls)
	}
}

func TestCatalogDetailsEndToEnd(t *testing.T) {
	provider := &scriptedProvider{apps: []upstream.RawApp{
		{AppID: "com.example.chess", Title: "Chess Master", Description: "Full chess."},
	}}
	expect, _ := newCatalogExpect(t, provider)

	result := expect.POST("/catalog").
		WithJSON(map[string]any{"action": "details", "appId": "com.example.chess"}).
		Expect()

	result.Status(http.StatusOK)
	body := result.JSON().Object()
	body.Value("id").String().IsEqual("com.example.chess")
	body.Value("name").String().IsEqual("Chess Master")
	body.Value("description").String().IsEqual("Full chess.")
}

func TestCatalogUpstreamFailureReturns500WithoutCaching(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("provider unreachable")}
	expect, store := newCatalogExpect(t, provider)

	result := expect.POST("/catalog").
		WithJSON(map[string]any{"action": "details", "appId": "com.example.app"}).
		Expect()

	result.Status(http.StatusInternalServerError)
	result.Header("Access-Control-Allow-Origin").IsEqual("*")
	result.JSON().Object().Value("error").String().Contains("provider unreachable")

	size, err := store.Size(context.Background())
	if err != nil || size != 0 {
		t.Fatalf("expected no cache entries, got size=%d err=%v", size, err)
	}
}

func TestCatalogValidationFailures(t *testing.T) {
	provider := &scriptedProvider{}
	expect, _ := newCatalogExpect(t, provider)

	expect.POST("/catalog").
		WithJSON(map[string]any{"action": "details"}).
		Expect().
		Status(http.StatusInternalServerError).
		JSON().Object().Value("error").String().Contains("appId required")

	expect.POST("/catalog").
		WithJSON(map[string]any{"action": "browse"}).
		Expect().
		Status(http.StatusInternalServerError).
		JSON().Object().Value("error").String().Contains("unknown action")

	expect.POST("/catalog").
		WithText("{not json").
		Expect().
		Status(http.StatusInternalServerError).
		JSON().Object().Value("error").String().IsEqual("invalid JSON body")

	if provider.searchCalls != 0 || provider.detailsCalls != 0 {
		t.Fatalf("invalid requests must never reach the provider")
	}
}

func TestCatalogPreflight(t *testing.T) {
	expect, _ := newCatalogExpect(t, &scriptedProvider{})

	result := expect.OPTIONS("/catalog").Expect()
	result.Status(http.StatusNoContent)
	result.Header("Access-Control-Allow-Origin").IsEqual("*")
	result.Header("Access-Control-Allow-Headers").Contains("content-type")
	result.Body().IsEmpty()
}

func TestCatalogRejectsUnsupportedMethods(t *testing.T) {
	expect, _ := newCatalogExpect(t, &scriptedProvider{})

	expect.GET("/catalog").
		Expect().
		Status(http.StatusInternalServerError).
		JSON().Object().Value("error").String().Contains("method GET not supported")
}

func TestHealthReportsCacheEntries(t *testing.T) {
	provider := &scriptedProvider{apps: []upstream.RawApp{{AppID: "com.example.chess"}}}
	expect, _ := newCatalogExpect(t, provider)

	expect.POST("/catalog").
		WithJSON(map[string]any{"action": "search", "query": "chess"}).
		Expect().
		Status(http.StatusOK)

	health := expect.GET("/healthz").Expect()
	health.Status(http.StatusOK)
	obj := health.JSON().Object()
	obj.Value("status").String().IsEqual("ok")
	obj.Value("cacheEntries").Number().IsEqual(1)

	var decoded map[string]any
	raw := health.Body().Raw()
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("health body is not valid JSON: %v", err)
	}
}
