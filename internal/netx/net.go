// Package netx holds small HTTP helpers for talking to object storage.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of an error response is quoted in the error.
const maxErrorBody = 4 << 10

// Upload describes one request against a presigned URL.
type Upload struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    io.Reader
	Size    int64
}

// UploadToPresignedURL sends u with client (http.DefaultClient when nil).
// Any 2xx response counts as success.
func UploadToPresignedURL(ctx context.Context, client *http.Client, u Upload) error {
	if client == nil {
		client = http.DefaultClient
	}
	method := u.Method
	if method == "" {
		method = http.MethodPut
	}

	req, err := http.NewRequestWithContext(ctx, method, u.URL, u.Body)
	if err != nil {
		return err
	}
	if u.Size > 0 {
		req.ContentLength = u.Size
	}
	for k, v := range u.Headers {
		// Go sets Content-Length from req.ContentLength.
		if strings.EqualFold(k, "Content-Length") {
			continue
		}
		req.Header.Set(k, v)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/octet-stream")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
