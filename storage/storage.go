// Package storage uploads photos to the hosted bucket over HTTP and hands
// back the public URL that gets stored on the owning row.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Folder prefixes inside the bucket.
const (
	FolderProfiles     = "profiles"
	FolderEquipment    = "equipment"
	FolderReservations = "reservations"
	FolderReturns      = "returns"
)

type Client struct {
	baseURL string
	bucket  string
	token   string
	client  *http.Client
}

func NewClient(baseURL, bucket, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		bucket:  bucket,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload writes one object under folder/ and returns its public URL.
func (c *Client) Upload(ctx context.Context, folder, name string, data []byte, mime string) (string, error) {
	objectPath := path.Join(folder, name)
	endpoint := fmt.Sprintf("%s/object/%s/%s", c.baseURL, c.bucket, objectPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", mime)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload %s failed: %s", objectPath, resp.Status)
	}

	return fmt.Sprintf("%s/object/public/%s/%s", c.baseURL, c.bucket, objectPath), nil
}

// ObjectName builds a collision-free object name keeping the original
// extension.
func ObjectName(original string) string {
	ext := strings.ToLower(path.Ext(original))
	return uuid.NewString() + ext
}

// UserFolder scopes a prefix by owner, e.g. reservations/<userID>.
func UserFolder(prefix, userID string) string {
	return path.Join(prefix, userID)
}

// UploadAll uploads the files in parallel, one request per file. The first
// failure aborts the whole batch; objects that already made it are not
// deleted.
func (c *Client) UploadAll(ctx context.Context, folder string, files []File) ([]string, error) {
	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f File) {
			defer wg.Done()
			urls[i], errs[i] = c.Upload(ctx, folder, f.Name, f.Data, f.MIME)
		}(i, f)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return urls, nil
}

type File struct {
	Name string
	Data []byte
	MIME string
}
