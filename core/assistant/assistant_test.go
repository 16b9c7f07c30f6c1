package assistant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"osprey-mdi/config"
)

func testConfig(baseURL string) config.AssistantConfig {
	return config.AssistantConfig{
		BaseURL:     baseURL,
		Model:       "test-model",
		APIKey:      "test-key",
		TimeoutSec:  2,
		Temperature: 0.2,
		MaxTokens:   100,
	}
}

func TestClientSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":" analysis text "}}]}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	answer, err := c.Complete(context.Background(), "what first?", "By status:\n- Open: 3")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if answer != "analysis text" {
		t.Fatalf("unexpected answer %q", answer)
	}
}

func TestClientNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	if _, err := c.Complete(context.Background(), "q", ""); err == nil {
		t.Fatalf("expected error on non-2xx")
	}
}

func TestClientMissingAPIKey(t *testing.T) {
	cfg := testConfig("http://localhost:0")
	cfg.APIKey = ""
	c := NewClient(cfg)
	if _, err := c.Complete(context.Background(), "q", ""); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestServiceFallsBackOffline(t *testing.T) {
	// Unreachable endpoint simulates a network failure; the answer must be
	// the deterministic offline response.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	svc := NewService(NewClient(testConfig(srv.URL)), nil, nil)
	answer := svc.Ask(context.Background(), "what should we prioritise first?")
	if !answer.Offline {
		t.Fatalf("expected offline answer")
	}
	if answer.Text == "" || !strings.Contains(answer.Text, "Offline") {
		t.Fatalf("offline answer must be non-empty and contain the word Offline: %q", answer.Text)
	}
	if !strings.Contains(answer.Text, "Prioritisation advice") {
		t.Fatalf("expected prioritisation rule to match: %q", answer.Text)
	}
}

func TestOfflineResponseRules(t *testing.T) {
	cases := []struct {
		question string
		want     string
	}{
		{"what should we do first?", "Prioritisation advice"},
		{"lots of phishing emails lately", "Phishing guidance"},
		{"is there a backlog problem?", "Backlog / bottleneck analysis"},
		{"hello", "General guidance"},
	}
	for _, tc := range cases {
		got := OfflineResponse(tc.question, "")
		if !strings.Contains(got, "Offline") {
			t.Errorf("%q: missing Offline banner", tc.question)
		}
		if !strings.Contains(got, tc.want) {
			t.Errorf("%q: expected section %q in %q", tc.question, tc.want, got)
		}
	}
}

func TestOfflineResponseIncludesContext(t *testing.T) {
	got := OfflineResponse("hello", "By status:\n- Open: 3")
	if !strings.Contains(got, "Open: 3") {
		t.Fatalf("context summary missing: %q", got)
	}
}
