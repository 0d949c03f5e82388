package fetch

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	cache, err := NewDirCache(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return NewFetcher(cache, nil)
}

func TestFetchCachesByURL(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("1 parlar\n"))
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	ctx := context.Background()

	first, err := f.Fetch(ctx, srv.URL+"/freq.txt")
	require.NoError(t, err)
	second, err := f.Fetch(ctx, srv.URL+"/freq.txt")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second fetch must be served from cache")
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	_, err := f.Fetch(context.Background(), srv.URL+"/missing")

	var fe *FetchError
	require.True(t, errors.As(err, &fe), "expected *FetchError, got %v", err)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)

	// Failures are not cached.
	_, ok, err := f.Cache.Get(context.Background(), srv.URL+"/missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFetchBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), 64))
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	f.MaxBodySize = 16
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestFetchLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "freq.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 anar\n"), 0644))

	f := newTestFetcher(t)
	body, err := f.Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "1 anar\n", string(body))
}

func tarGz(t *testing.T, files map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, name := range order {
		content := files[name]
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0644, Size: int64(len(content)), Typeflag: tar.TypeReg}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestFetchArchiveMemberTarball(t *testing.T) {
	archive := tarGz(t, map[string]string{
		"cat-eng/README":      "readme",
		"cat-eng/cat-eng.tei": "<TEI/>",
		"cat-eng/other.tei":   "<other/>",
	}, []string{"cat-eng/README", "cat-eng/cat-eng.tei", "cat-eng/other.tei"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	body, err := f.FetchArchiveMember(context.Background(), srv.URL+"/cat-eng.tar.gz", ".tei")
	require.NoError(t, err)
	assert.Equal(t, "<TEI/>", string(body), "first matching member wins")
}

func TestFetchArchiveMemberPlainGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	gz.Write([]byte("<TEI>gz</TEI>"))
	gz.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	body, err := f.FetchArchiveMember(context.Background(), srv.URL+"/freedict-cat-eng.tei.gz", ".tei")
	require.NoError(t, err)
	assert.Equal(t, "<TEI>gz</TEI>", string(body))
}

func TestFetchArchiveMemberDecompressedLimit(t *testing.T) {
	big := strings.Repeat("<entry/>", 256)
	archive := tarGz(t, map[string]string{"cat-eng/cat-eng.tei": big}, []string{"cat-eng/cat-eng.tei"})

	var gzBuf bytes.Buffer
	gz := gzip.NewWriter(&gzBuf)
	gz.Write([]byte(big))
	gz.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".tar.gz") {
			w.Write(archive)
			return
		}
		w.Write(gzBuf.Bytes())
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	// Both compressed bodies fit; the expanded members do not.
	f.MaxBodySize = int64(len(big)) - 1
	require.Less(t, len(archive), len(big))
	require.Less(t, gzBuf.Len(), len(big))

	var ee *ExtractionError
	_, err := f.FetchArchiveMember(context.Background(), srv.URL+"/cat-eng.tar.gz", ".tei")
	require.True(t, errors.As(err, &ee), "expected *ExtractionError, got %v", err)

	_, err = f.FetchArchiveMember(context.Background(), srv.URL+"/cat-eng.tei.gz", ".tei")
	require.True(t, errors.As(err, &ee), "expected *ExtractionError, got %v", err)

	f.MaxBodySize = int64(len(big))
	body, err := f.FetchArchiveMember(context.Background(), srv.URL+"/cat-eng.tar.gz", ".tei")
	require.NoError(t, err)
	assert.Equal(t, big, string(body))
}

func TestFetchArchiveMemberMissing(t *testing.T) {
	archive := tarGz(t, map[string]string{"a/README": "x"}, []string{"a/README"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	_, err := f.FetchArchiveMember(context.Background(), srv.URL+"/dict.tgz", ".tei")

	var ee *ExtractionError
	require.True(t, errors.As(err, &ee), "expected *ExtractionError, got %v", err)
	assert.Equal(t, ".tei", ee.Suffix)
}

func TestDirCacheFlush(t *testing.T) {
	ctx := context.Background()
	cache, err := NewDirCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cache.Put(ctx, "https://example.com/a", []byte("a")))
	body, ok, err := cache.Get(ctx, "https://example.com/a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", string(body))

	require.NoError(t, cache.Flush(ctx))
	_, ok, err = cache.Get(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.False(t, ok)
}
