// Package storage sube imágenes al almacenamiento de objetos de Supabase a
// través de su API REST.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload sube el contenido al bucket y devuelve la URL pública. El nombre del
// objeto lleva un uuid para no pisar subidas previas.
func (c *Client) Upload(ctx context.Context, bucket, filename string, data []byte, contentType string) (string, error) {
	objectPath := uuid.NewString() + path.Ext(filename)
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, objectPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("subir objeto: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("subir objeto: status %d: %s", resp.StatusCode, body)
	}
	return c.PublicURL(bucket, objectPath), nil
}

func (c *Client) Delete(ctx context.Context, bucket, objectPath string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("borrar objeto: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("borrar objeto: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, objectPath)
}

// ExtractPath recupera la ruta del objeto a partir de una URL pública.
// Devuelve cadena vacía si la URL no corresponde al bucket.
func (c *Client) ExtractPath(publicURL, bucket string) string {
	prefix := fmt.Sprintf("%s/storage/v1/object/public/%s/", c.baseURL, bucket)
	if !strings.HasPrefix(publicURL, prefix) {
		return ""
	}
	return strings.TrimPrefix(publicURL, prefix)
}
