package site_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfinch/furniture-watch/internal/site"
	domain "github.com/mfinch/furniture-watch/pkg/types"
)

func TestFetchCategory_Success(t *testing.T) {
	t.Parallel()

	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<div class="summary-item"><a href="/sofa/x" data-title="X"></a></div>`))
	}))
	defer srv.Close()

	c := site.NewHTTPClient(
		site.WithBaseURL(srv.URL),
		site.WithUserAgent("furnwatch/1.0"),
	)

	doc, err := c.FetchCategory(context.Background(), domain.CategorySofa)
	require.NoError(t, err)
	assert.Equal(t, "/sofa", gotPath)
	assert.Equal(t, "furnwatch/1.0", gotUA)
	assert.Equal(t, 1, doc.Find("div.summary-item").Length())
}

func TestFetchCategory_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := site.NewHTTPClient(site.WithBaseURL(srv.URL))

	_, err := c.FetchCategory(context.Background(), domain.CategoryChair)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetchCategory_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := site.NewHTTPClient(site.WithBaseURL(srv.URL))

	_, err := c.FetchCategory(context.Background(), domain.CategoryTable)
	require.Error(t, err)
}

func TestFetchCategory_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	c := site.NewHTTPClient(site.WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchCategory(ctx, domain.CategorySofa)
	require.Error(t, err)
}

func TestBaseURL(t *testing.T) {
	t.Parallel()

	c := site.NewHTTPClient(site.WithBaseURL("https://example.org"))
	assert.Equal(t, "https://example.org", c.BaseURL())
}
