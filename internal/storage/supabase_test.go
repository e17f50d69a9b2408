package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadYPublicURL(t *testing.T) {
	var gotPath, gotUpsert, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUpsert = r.Header.Get("x-upsert")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "clave")
	url, err := c.Upload(context.Background(), "eventos", "foto.png", []byte("img"), "image/png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(gotPath, "/storage/v1/object/eventos/") {
		t.Fatalf("ruta inesperada: %s", gotPath)
	}
	if !strings.HasSuffix(gotPath, ".png") {
		t.Fatalf("se perdió la extensión: %s", gotPath)
	}
	if gotUpsert != "true" || gotAuth != "Bearer clave" {
		t.Fatalf("cabeceras inesperadas: upsert=%q auth=%q", gotUpsert, gotAuth)
	}
	if !strings.HasPrefix(url, srv.URL+"/storage/v1/object/public/eventos/") {
		t.Fatalf("url pública inesperada: %s", url)
	}
}

func TestUploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "clave")
	if _, err := c.Upload(context.Background(), "nada", "foto.png", []byte("img"), "image/png"); err == nil {
		t.Fatal("esperaba error")
	}
}

func TestExtractPath(t *testing.T) {
	c := NewClient("https://proj.supabase.co", "clave")
	url := c.PublicURL("eventos", "abc.png")
	if got := c.ExtractPath(url, "eventos"); got != "abc.png" {
		t.Fatalf("ruta extraída inesperada: %q", got)
	}
	if got := c.ExtractPath(url, "noticias"); got != "" {
		t.Fatalf("esperaba vacío para otro bucket, obtuve %q", got)
	}
	if got := c.ExtractPath("https://otro.host/x.png", "eventos"); got != "" {
		t.Fatalf("esperaba vacío para otro host, obtuve %q", got)
	}
}
