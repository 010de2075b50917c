package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := NewClient(logger.Nop(), Config{BaseURL: srv.URL + "/", APIKey: "k-123", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return p
}

func TestGenerateSendsPayloadAndKey(t *testing.T) {
	var got generateRequest
	p := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/generate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "k-123" {
			t.Errorf("x-api-key: want=%q got=%q", "k-123", r.Header.Get("x-api-key"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"workout_plan":{"total_weeks":4},"diet_plan":{},"metadata":{"llm_model":"m1"}}`))
	})

	prefs := domain.PreferencePayload{ExperienceLevel: "beginner", EquipmentList: []string{}, DurationWeeks: 4, FrequencyPerWeek: 5}
	out, err := p.Generate(context.Background(), "u1", prefs)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got.UserID != "u1" || got.Preferences.DurationWeeks != 4 {
		t.Fatalf("request body: got=%+v", got)
	}
	meta, _ := out["metadata"].(map[string]interface{})
	if meta["llm_model"] != "m1" {
		t.Fatalf("metadata: got=%v", out["metadata"])
	}
}

func TestGenerateNonOKIsError(t *testing.T) {
	p := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	if _, err := p.Generate(context.Background(), "u1", domain.PreferencePayload{}); err == nil {
		t.Fatalf("expected error for 500 response")
	}
}

func TestGenerateAcceptsAny2xx(t *testing.T) {
	p := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"workout_plan":{},"diet_plan":{}}`))
	})
	out, err := p.Generate(context.Background(), "u1", domain.PreferencePayload{})
	if err != nil {
		t.Fatalf("201 response: want nil error got=%v", err)
	}
	if _, ok := out["workout_plan"]; !ok {
		t.Fatalf("body: got=%v", out)
	}
}

func TestGenerateTruncatedBodyReportsReadError(t *testing.T) {
	p := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		_, _ = w.Write([]byte(`{"workout_plan":`))
	})
	_, err := p.Generate(context.Background(), "u1", domain.PreferencePayload{})
	if err == nil {
		t.Fatalf("expected error for truncated body")
	}
	if !strings.Contains(err.Error(), "read body") {
		t.Fatalf("error should name the read failure, got=%v", err)
	}
}

func TestGenerateMalformedBodyIsError(t *testing.T) {
	p := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	if _, err := p.Generate(context.Background(), "u1", domain.PreferencePayload{}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestTriggerReindexDefaultsToFull(t *testing.T) {
	var body map[string]string
	p := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reindex" {
			t.Errorf("path: want=/reindex got=%s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if _, err := p.TriggerReindex(context.Background(), ""); err != nil {
		t.Fatalf("TriggerReindex: %v", err)
	}
	if body["mode"] != "full" {
		t.Fatalf("mode: want=full got=%q", body["mode"])
	}
}

type recordingProvider struct {
	mu    sync.Mutex
	calls int
	err   error
	done  chan struct{}
}

func (p *recordingProvider) Generate(context.Context, string, domain.PreferencePayload) (map[string]interface{}, error) {
	return nil, errors.New("not used")
}

func (p *recordingProvider) Status(context.Context) (map[string]interface{}, error) {
	return nil, errors.New("not used")
}

func (p *recordingProvider) TriggerReindex(context.Context, string) (map[string]interface{}, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil, p.err
}

func TestNotifierFiresAfterDelayAndSwallowsErrors(t *testing.T) {
	prov := &recordingProvider{err: errors.New("down"), done: make(chan struct{}, 1)}
	n := NewDelayedReindexNotifier(prov, 10*time.Millisecond, logger.Nop())

	start := time.Now()
	n.NotifyContentChanged("exercise created")

	select {
	case <-prov.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("reindex was never triggered")
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Fatalf("reindex fired before delay: %v", elapsed)
	}
	prov.mu.Lock()
	defer prov.mu.Unlock()
	if prov.calls != 1 {
		t.Fatalf("calls: want=1 got=%d", prov.calls)
	}
}
