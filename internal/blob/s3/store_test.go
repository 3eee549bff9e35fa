package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/dsxform/internal/config"
)

// mockRoundTripper records PutObject requests without network access.
type mockRoundTripper struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if req.Method != http.MethodPut {
		return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}, Request: req}, nil
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	if dec, ok := decodeChunked(body); ok {
		body = dec
	}
	// Path-style: /bucket/key
	key := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)[1]
	m.objects[key] = body
	m.types[key] = req.Header.Get("Content-Type")

	header := http.Header{}
	header.Set("ETag", `"etag"`)
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Header: header, Request: req}, nil
}

// decodeChunked unwraps a single-chunk aws-chunked payload: <hex>\r\n<body>\r\n0\r\n...
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 {
		return nil, false
	}
	size, err := strconv.ParseInt(parts[0], 16, 64)
	if err != nil || int64(len(parts[1])) != size || parts[2] != "0" {
		return nil, false
	}
	return []byte(parts[1]), true
}

func newTestStore(t *testing.T, cfg config.UploadConfig) (*Store, *mockRoundTripper) {
	t.Helper()
	rt := &mockRoundTripper{objects: map[string][]byte{}, types: map[string]string{}}
	store, err := New(context.Background(), cfg, Options{
		Credentials: credentials.NewStaticCredentialsProvider("AKIA", "SECRET", ""),
		HTTPClient:  &http.Client{Transport: rt},
	})
	require.NoError(t, err)
	store.newKey = func(name string) string { return "fixed-" + name }
	return store, rt
}

func TestUploadPutsObjectAndReturnsPublicURL(t *testing.T) {
	t.Parallel()

	store, rt := newTestStore(t, config.UploadConfig{
		Bucket:        "datasets",
		Endpoint:      "https://minio.local",
		PathStyle:     true,
		Prefix:        "/frames/",
		PublicBaseURL: "https://cdn.example.com/",
	})

	local := filepath.Join(t.TempDir(), "cat 1.png")
	require.NoError(t, os.WriteFile(local, []byte("png-bytes"), 0o644))

	url, err := store.Upload(context.Background(), local)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/frames/fixed-cat%201.png", url)

	require.Equal(t, []byte("png-bytes"), rt.objects["frames/fixed-cat 1.png"])
	require.Equal(t, "image/png", rt.types["frames/fixed-cat 1.png"])
}

func TestObjectURLVariants(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, config.UploadConfig{Bucket: "b", Region: "eu-west-1"})
	require.Equal(t, "https://b.s3.eu-west-1.amazonaws.com/k.png", store.objectURL("k.png"))

	store, _ = newTestStore(t, config.UploadConfig{Bucket: "b", Endpoint: "http://localhost:9000", PathStyle: true})
	require.Equal(t, "http://localhost:9000/b/k.png", store.objectURL("k.png"))

	store, _ = newTestStore(t, config.UploadConfig{Bucket: "b", Endpoint: "https://storage.example.com"})
	require.Equal(t, "https://b.storage.example.com/k.png", store.objectURL("k.png"))
}

func TestUploadMissingFile(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, config.UploadConfig{Bucket: "b", Endpoint: "https://minio.local", PathStyle: true})
	_, err := store.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
}

func TestNewRequiresBucket(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), config.UploadConfig{}, Options{})
	require.Error(t, err)
}
