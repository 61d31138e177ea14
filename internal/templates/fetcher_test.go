package templates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-intake-report/internal/layout"
	"github.com/a3tai/mcp-intake-report/internal/pdf"
	pdferrors "github.com/a3tai/mcp-intake-report/internal/pdf/errors"
)

func onePagePDF(t *testing.T) []byte {
	t.Helper()
	c := pdf.NewCanvas(layout.A4, pdf.CanvasOptions{})
	c.AddPage()
	c.Text(72, 72, layout.DefaultTypography().Style(layout.StyleBody), "template")
	data, err := c.Bytes()
	require.NoError(t, err)
	return data
}

func TestFetcher_LocalFiles(t *testing.T) {
	dir := t.TempDir()
	doc := onePagePDF(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.pdf"), doc, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "end.pdf"), doc, 0o644))

	f, err := New(Config{Directory: dir, Cover: "cover.pdf", End: filepath.Join(dir, "end.pdf")})
	require.NoError(t, err)

	tpl, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, doc, tpl.Cover)
	assert.Equal(t, doc, tpl.End)
}

func TestFetcher_LocalFileErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.pdf"), onePagePDF(t), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.pdf"), []byte("plain text"), 0o644))

	tests := []struct {
		name string
		end  string
		want pdferrors.ErrorType
	}{
		{"missing", "missing.pdf", pdferrors.ErrorTypeTemplateFetch},
		{"outside directory", "../end.pdf", pdferrors.ErrorTypeTemplateFetch},
		{"not a pdf", "notes.pdf", pdferrors.ErrorTypeTemplateParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(Config{Directory: dir, Cover: "cover.pdf", End: tt.end})
			require.NoError(t, err)

			_, err = f.Fetch(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.want, pdferrors.TypeOf(err))
		})
	}
}

func TestFetcher_HTTP(t *testing.T) {
	doc := onePagePDF(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/cover.pdf", "/end.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write(doc)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f, err := New(Config{Cover: srv.URL + "/cover.pdf", End: srv.URL + "/end.pdf"})
	require.NoError(t, err)

	tpl, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, doc, tpl.Cover)
	assert.Equal(t, doc, tpl.End)

	_, err = f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(4), hits.Load(), "templates are fetched on every call")
}

func TestFetcher_HTTPFailures(t *testing.T) {
	doc := onePagePDF(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cover.pdf":
			_, _ = w.Write(doc)
		case "/html.pdf":
			_, _ = w.Write([]byte("<!doctype html><p>Not found</p>"))
		case "/slow.pdf":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write(doc)
		default:
			http.Error(w, "missing", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	t.Run("status", func(t *testing.T) {
		f, err := New(Config{Cover: srv.URL + "/cover.pdf", End: srv.URL + "/gone.pdf"})
		require.NoError(t, err)
		_, err = f.Fetch(context.Background())
		assert.Equal(t, pdferrors.ErrorTypeTemplateFetch, pdferrors.TypeOf(err))
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("html body", func(t *testing.T) {
		f, err := New(Config{Cover: srv.URL + "/cover.pdf", End: srv.URL + "/html.pdf"})
		require.NoError(t, err)
		_, err = f.Fetch(context.Background())
		assert.Equal(t, pdferrors.ErrorTypeTemplateParse, pdferrors.TypeOf(err))
	})

	t.Run("timeout", func(t *testing.T) {
		f, err := New(Config{Cover: srv.URL + "/cover.pdf", End: srv.URL + "/slow.pdf", Timeout: 20 * time.Millisecond})
		require.NoError(t, err)
		_, err = f.Fetch(context.Background())
		assert.Equal(t, pdferrors.ErrorTypeTemplateFetch, pdferrors.TypeOf(err))
	})

	t.Run("too large", func(t *testing.T) {
		f, err := New(Config{Cover: srv.URL + "/cover.pdf", End: srv.URL + "/cover.pdf", MaxSize: 64})
		require.NoError(t, err)
		_, err = f.Fetch(context.Background())
		assert.Equal(t, pdferrors.ErrorTypeTemplateParse, pdferrors.TypeOf(err))
	})

	t.Run("canceled", func(t *testing.T) {
		f, err := New(Config{Cover: srv.URL + "/cover.pdf", End: srv.URL + "/end.pdf"})
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = f.Fetch(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestNew_RequiresTemplates(t *testing.T) {
	_, err := New(Config{Cover: "cover.pdf"})
	assert.Error(t, err)
}

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("https://example.com/cover.pdf"))
	assert.True(t, isURL("http://localhost:8080/end.pdf"))
	assert.False(t, isURL("templates/cover.pdf"))
	assert.False(t, isURL("/abs/cover.pdf"))
	assert.False(t, isURL("file:///abs/cover.pdf"))
}
