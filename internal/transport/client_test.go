package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confradar/confradar/pkg/errors"
)

func TestGetSetsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Contains(t, r.Header.Get("User-Agent"), "confradar")
		fmt.Fprint(w, `{"ok": true}`)
	}))
	defer server.Close()

	resp, err := New().Get(context.Background(), server.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
}

func TestDecodeResponse(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"name": "KubeCon"}`)
		}))
		defer server.Close()

		resp, err := New().Get(context.Background(), server.URL)
		require.NoError(t, err)

		var out struct {
			Name string `json:"name"`
		}
		require.NoError(t, DecodeResponse(resp, &out))
		assert.Equal(t, "KubeCon", out.Name)
	})

	t.Run("NonOKStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusNotFound)
		}))
		defer server.Close()

		resp, err := New().Get(context.Background(), server.URL)
		require.NoError(t, err)

		var out any
		err = DecodeResponse(resp, &out)
		require.Error(t, err)
		var apiErr *errors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "not json")
		}))
		defer server.Close()

		resp, err := New().Get(context.Background(), server.URL)
		require.NoError(t, err)

		var out any
		err = DecodeResponse(resp, &out)
		var parseErr *errors.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})
}

func TestReadBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("x", 1000))
	}))
	defer server.Close()

	resp, err := New().Get(context.Background(), server.URL)
	require.NoError(t, err)

	body, err := ReadBody(resp, 100)
	require.NoError(t, err)
	assert.Len(t, body, 100)
}
