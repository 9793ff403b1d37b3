// internal/network/httpclient_test.go
package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("nil config falls back to defaults", func(t *testing.T) {
		client := NewClient(nil)
		require.NotNil(t, client)
		assert.Equal(t, DefaultRequestTimeout, client.Timeout)
	})

	t.Run("attaches the configured user agent", func(t *testing.T) {
		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		cfg := NewDefaultClientConfig()
		cfg.UserAgent = "formfill-test/1.0"
		client := NewClient(cfg)

		req, err := client.NewRequest(context.Background(), http.MethodGet, server.URL, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "formfill-test/1.0", gotUA)
	})

	t.Run("follows redirects by default", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/end", http.StatusFound)
		})
		mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client := NewClient(NewDefaultClientConfig())
		resp, err := client.Get(server.URL + "/start")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("can observe redirects instead of following them", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/elsewhere", http.StatusFound)
		}))
		defer server.Close()

		cfg := NewDefaultClientConfig()
		cfg.FollowRedirects = false
		client := NewClient(cfg)

		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode)
	})
}
