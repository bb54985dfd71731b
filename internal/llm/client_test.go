package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func completionBody(content string) []byte {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return b
}

func TestParseFilename_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		w.Write(completionBody(`{"title":"Inception","year":"2010","type":"movie"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "")
	result := c.ParseFilename(context.Background(), "Inception.2010.mkv")
	if result["title"] != "Inception" {
		t.Errorf("expected title Inception, got %v", result["title"])
	}
	if result["type"] != "movie" {
		t.Errorf("expected type movie, got %v", result["type"])
	}
}

func TestParseFilename_NoAPIKey(t *testing.T) {
	c := NewClient("http://unused", "", "")
	if got := c.ParseFilename(context.Background(), "x.mkv"); len(got) != 0 {
		t.Errorf("missing key must yield empty map, got %v", got)
	}
}

func TestParseFilename_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "")
	if got := c.ParseFilename(context.Background(), "x.mkv"); len(got) != 0 {
		t.Errorf("5xx must yield empty map, got %v", got)
	}
}

func TestParseFilename_GarbageCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionBody("this is not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "")
	if got := c.ParseFilename(context.Background(), "x.mkv"); len(got) != 0 {
		t.Errorf("unparseable completion must yield empty map, got %v", got)
	}
}

func TestParseFilename_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "k", "")
	if got := c.ParseFilename(context.Background(), "x.mkv"); len(got) != 0 {
		t.Errorf("network error must yield empty map, got %v", got)
	}
}
