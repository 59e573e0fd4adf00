package domjudge_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"contestdump/internal/domjudge"
	"contestdump/internal/services"
	"contestdump/internal/testsupport"
)

func newLiveClient(t *testing.T, handler http.HandlerFunc, cid string) *domjudge.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(srv.URL+"/domjudge/"), testsupport.WithCID(cid))
	client, err := domjudge.New(cfg, domjudge.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestFetchSendsAuthHeadersAndQuery(t *testing.T) {
	client := newLiveClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/domjudge/api/v4/contests/5/runs" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "10000" {
			t.Errorf("expected limit=10000, got %q", got)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "secret" {
			t.Errorf("unexpected basic auth %q/%q (ok=%v)", user, pass, ok)
		}
		if !r.Close {
			t.Errorf("expected Connection: close")
		}
		if got := r.Header.Get("User-Agent"); got != "contestdump/dev" {
			t.Errorf("unexpected user agent %q", got)
		}
		_, _ = w.Write([]byte(`[{"id":"1"}]`))
	}, "5")

	body, err := client.Fetch(context.Background(), "runs", "runs.1.json", url.Values{"limit": {"10000"}})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(body) != `[{"id":"1"}]` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestFetchContestObjectUsesBarePath(t *testing.T) {
	client := newLiveClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/domjudge/api/v4/contests/1" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{}`))
	}, "1")

	if _, err := client.Fetch(context.Background(), "", "contest.json", nil); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
}

func TestFetchNon200IsTransportError(t *testing.T) {
	client := newLiveClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}, "1")

	_, err := client.Fetch(context.Background(), "teams", "teams.json", nil)
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if !services.IsFatal(err) {
		t.Fatal("expected transport error to be fatal")
	}
}

func TestFetchDecodesDeclaredCharset(t *testing.T) {
	encoded, err := charmap.Windows1251.NewEncoder().String(`[{"name":"Привет"}]`)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	client := newLiveClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=windows-1251")
		_, _ = w.Write([]byte(encoded))
	}, "1")

	body, err := client.Fetch(context.Background(), "teams", "teams.json", nil)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(body) != `[{"name":"Привет"}]` {
		t.Fatalf("expected utf-8 body, got %q", body)
	}
}

func TestFetchUnknownCharsetKeepsRawBytes(t *testing.T) {
	client := newLiveClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=x-made-up")
		_, _ = w.Write([]byte(`[]`))
	}, "1")

	body, err := client.Fetch(context.Background(), "teams", "teams.json", nil)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(body) != `[]` {
		t.Fatalf("expected raw body, got %q", body)
	}
}

func TestFetchMediaResolvesHref(t *testing.T) {
	client := newLiveClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/domjudge/api/v4/contests/1/teams/t2/photo.jpg" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte{0xff, 0xd8})
	}, "1")

	body, err := client.FetchMedia(context.Background(), "contests/1/teams/t2/photo.jpg")
	if err != nil {
		t.Fatalf("FetchMedia returned error: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("unexpected body %v", body)
	}
	if got := client.MediaURL("https://cdn.example.org/x.png"); got != "https://cdn.example.org/x.png" {
		t.Fatalf("absolute href rewritten to %q", got)
	}
}

func TestReplayReadsMirror(t *testing.T) {
	root := testsupport.WriteAPITree(t, t.TempDir(), map[string]string{"teams.json": `[{"id":"t1"}]`})
	cfg := testsupport.NewConfig(t, testsupport.WithReplaySource(root))

	client, err := domjudge.New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if !client.Replay() {
		t.Fatal("expected replay client")
	}
	body, err := client.Fetch(context.Background(), "teams", "teams.json", nil)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(body) != `[{"id":"t1"}]` {
		t.Fatalf("unexpected body %q", body)
	}

	if _, err := client.Fetch(context.Background(), "groups", "groups.json", nil); !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected ErrTransport for missing mirror file, got %v", err)
	}
	if _, err := client.FetchBinary(context.Background(), "submissions/1/files"); !errors.Is(err, domjudge.ErrReplayOnly) {
		t.Fatalf("expected ErrReplayOnly, got %v", err)
	}
}

func TestNewRequiresContestID(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCID(""))
	if _, err := domjudge.New(cfg); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
