package threads

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCreateContainer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/12345/threads" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("media_type") != "TEXT" || q.Get("text") != "hello\n\n#ai" || q.Get("access_token") != "tok" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"id":"cnt-1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	id, err := c.CreateContainer(context.Background(), "tok", "12345", "hello\n\n#ai")
	if err != nil {
		t.Fatalf("create container: %v", err)
	}
	if id != "cnt-1" {
		t.Fatalf("id = %q", id)
	}
}

func TestPublishContainer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/12345/threads_publish" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("creation_id") != "cnt-1" || q.Get("access_token") != "tok" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"id":"post-7"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	id, err := c.PublishContainer(context.Background(), "tok", "12345", "cnt-1")
	if err != nil {
		t.Fatalf("publish container: %v", err)
	}
	if id != "post-7" {
		t.Fatalf("id = %q", id)
	}
}

func TestFetchMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/post-7" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if !strings.Contains(r.URL.Query().Get("fields"), "like_count") {
			t.Errorf("fields = %q", r.URL.Query().Get("fields"))
		}
		w.Write([]byte(`{"like_count":5,"replies_count":2,"reposts_count":1,"views":80}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	m, err := c.FetchMetrics(context.Background(), "tok", "post-7")
	if err != nil {
		t.Fatalf("fetch metrics: %v", err)
	}
	if m.Likes != 5 || m.Replies != 2 || m.Reposts != 1 || m.Views != 80 {
		t.Fatalf("metrics = %+v", m)
	}
}

func TestNon2xxSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.CreateContainer(context.Background(), "bad", "12345", "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "threads api status 400") ||
		!strings.Contains(err.Error(), "Invalid OAuth access token") {
		t.Fatalf("error = %v", err)
	}
}

func TestPostURL(t *testing.T) {
	got := PostURL("acct", "post-7")
	if got != "https://www.threads.net/@acct/post/post-7" {
		t.Fatalf("url = %q", got)
	}
}
