package edgar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Accession dashes must be stripped from the directory segment.
		if r.URL.Path != "/1234567/000123456725000123/index.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"directory": {
				"item": [
					{"name": "0001234567-25-000123-index.htm"},
					{"name": "form4.xml"},
					{"name": "form4.html"}
				]
			}
		}`))
	}))
	defer server.Close()

	client := NewClient("test-agent", WithArchivesURL(server.URL))

	url, err := client.ResolveDocument(context.Background(), "1234567", "0001234567-25-000123")
	if err != nil {
		t.Fatalf("ResolveDocument: %v", err)
	}

	want := server.URL + "/1234567/000123456725000123/form4.xml"
	if url != want {
		t.Errorf("expected %s, got %s", want, url)
	}
}

func TestResolveDocument_NoXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"directory": {"item": [{"name": "cover.htm"}, {"name": "notes.txt"}]}}`))
	}))
	defer server.Close()

	client := NewClient("test-agent", WithArchivesURL(server.URL))

	_, err := client.ResolveDocument(context.Background(), "1234567", "0001234567-25-000123")
	if !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
}

func TestResolveDocument_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient("test-agent", WithArchivesURL(server.URL), WithMaxRetries(0))

	if _, err := client.ResolveDocument(context.Background(), "1234567", "acc"); err == nil {
		t.Fatal("expected error when index fetch fails")
	}
}
