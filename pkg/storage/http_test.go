package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTP_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/hero.png" {
			w.Write([]byte("png bytes"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	backend := NewHTTP()
	ctx := context.Background()

	reader, err := backend.Get(ctx, srv.URL+"/hero.png")
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(content))

	_, err = backend.Get(ctx, srv.URL+"/missing.png")
	assert.Error(t, err)
}

func TestHTTP_Exists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hero.png" {
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	backend := NewHTTP()
	ctx := context.Background()

	exists, err := backend.Exists(ctx, srv.URL+"/hero.png")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = backend.Exists(ctx, srv.URL+"/missing.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHTTP_ReadOnly(t *testing.T) {
	backend := NewHTTP()
	ctx := context.Background()

	assert.Error(t, backend.Put(ctx, "https://example.com/out.png", strings.NewReader("x")))
	assert.Error(t, backend.Delete(ctx, "https://example.com/out.png"))
}

func TestHTTP_RejectsOtherSchemes(t *testing.T) {
	backend := NewHTTP()

	_, err := backend.Get(context.Background(), "file:///tmp/hero.png")
	assert.Error(t, err)
}
