package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbackge/ai-backend/internal/config"
)

func TestNewArchive_DisabledWithoutEndpoint(t *testing.T) {
	a, err := NewArchive(context.Background(), &config.Config{S3BucketName: "imports"})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, a)

	assert.NoError(t, a.Put(context.Background(), "imports/x/doc.txt", []byte("hi"), "text/plain"))
}

// fakeS3 answers the handful of S3 calls the archive makes.
type fakeS3 struct {
	mu            sync.Mutex
	bucketMade    bool
	objects       map[string][]byte
	contentTypes  map[string]string
	failObjectPut bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Query().Has("location"):
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, `<LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/">us-east-1</LocationConstraint>`)
	case key == "" && r.Method == http.MethodHead:
		if !f.bucketMade {
			w.WriteHeader(http.StatusNotFound)
		}
	case key == "" && r.Method == http.MethodPut:
		f.bucketMade = true
	case r.Method == http.MethodPut && bucket == "uploads":
		if f.failObjectPut {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`)
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		f.contentTypes[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func newFakeS3Archive(t *testing.T, fake *fakeS3) Archive {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	a, err := NewArchive(context.Background(), &config.Config{
		S3Endpoint:        strings.TrimPrefix(srv.URL, "http://"),
		S3AccessKeyID:     "access",
		S3SecretAccessKey: "secret",
		S3BucketName:      "uploads",
		S3Region:          "us-east-1",
	})
	require.NoError(t, err)
	return a
}

func TestS3Archive_CreatesBucketAndPuts(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
	a := newFakeS3Archive(t, fake)
	assert.True(t, fake.bucketMade)

	err := a.Put(context.Background(), "imports/123/notes.txt", []byte("menu feedback"), "text/plain; charset=utf-8")
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Contains(t, fake.objects, "imports/123/notes.txt")
	// Plain-HTTP uploads may be chunk-signed, so only containment is stable.
	assert.Contains(t, string(fake.objects["imports/123/notes.txt"]), "menu feedback")
	assert.Equal(t, "text/plain; charset=utf-8", fake.contentTypes["imports/123/notes.txt"])
}

func TestS3Archive_PutError(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, contentTypes: map[string]string{}, bucketMade: true, failObjectPut: true}
	a := newFakeS3Archive(t, fake)

	err := a.Put(context.Background(), "imports/123/notes.txt", []byte("x"), "text/plain")
	assert.ErrorContains(t, err, "failed to upload imports/123/notes.txt")
}
