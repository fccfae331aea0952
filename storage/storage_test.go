package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	var gotPath, gotAuth, gotMIME string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotMIME = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "gear-photos", "tok")
	url, err := c.Upload(context.Background(), UserFolder(FolderReservations, "u1"), "a.jpg", []byte("jpegdata"), "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, "/object/gear-photos/reservations/u1/a.jpg", gotPath)
	require.Equal(t, "Bearer tok", gotAuth)
	require.Equal(t, "image/jpeg", gotMIME)
	require.Equal(t, []byte("jpegdata"), gotBody)
	require.Equal(t, srv.URL+"/object/public/gear-photos/reservations/u1/a.jpg", url)
}

func TestUploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "gear-photos", "tok")
	_, err := c.Upload(context.Background(), FolderProfiles, "a.png", []byte("x"), "image/png")
	require.Error(t, err)
}

func TestUploadAll(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.URL.Path] = true
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "b", "t")
	urls, err := c.UploadAll(context.Background(), FolderReturns, []File{
		{Name: "1.jpg", Data: []byte("a"), MIME: "image/jpeg"},
		{Name: "2.jpg", Data: []byte("b"), MIME: "image/jpeg"},
		{Name: "3.jpg", Data: []byte("c"), MIME: "image/jpeg"},
	})
	require.NoError(t, err)
	require.Len(t, urls, 3)
	require.Len(t, seen, 3)
	// order of returned URLs matches input order
	require.True(t, strings.HasSuffix(urls[0], "/1.jpg"))
	require.True(t, strings.HasSuffix(urls[2], "/3.jpg"))
}

func TestUploadAllPartialFailure(t *testing.T) {
	var n int
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		n++
		fail := strings.HasSuffix(r.URL.Path, "/2.jpg")
		mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "b", "t")
	_, err := c.UploadAll(context.Background(), FolderReturns, []File{
		{Name: "1.jpg"}, {Name: "2.jpg"}, {Name: "3.jpg"},
	})
	require.Error(t, err)
	require.Equal(t, 3, n, "all uploads attempted, no early cancel or cleanup")
}

func TestObjectName(t *testing.T) {
	n := ObjectName("photo.JPG")
	require.True(t, strings.HasSuffix(n, ".jpg"))
	require.NotEqual(t, n, ObjectName("photo.JPG"))
}
