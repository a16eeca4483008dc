package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"gitlab-youtrack-automation/internal/model"
	"gitlab-youtrack-automation/pkg/log"
	"gitlab-youtrack-automation/pkg/response"
)

type stubRules struct{}

func (stubRules) Rules() map[model.EventKind]map[model.Bucket][]string {
	return map[model.EventKind]map[model.Bucket][]string{
		model.KindMergeRequest: {model.BucketMerged: {"close-stale"}},
	}
}

type stubWebhook struct{ calls int }

func (s *stubWebhook) HandleGitLabWebhook(c *gin.Context) {
	s.calls++
	c.Status(http.StatusAccepted)
}

func serve(t *testing.T, srv *HTTPServer, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewValidation(t *testing.T) {
	if _, err := New(log.NewNop(), Config{Mode: gin.TestMode}); err == nil {
		t.Error("New() without port succeeded")
	}
	if _, err := New(nil, Config{Mode: gin.TestMode, Port: 8080}); err == nil {
		t.Error("New() without logger succeeded")
	}
}

func TestRoutes(t *testing.T) {
	hook := &stubWebhook{}
	srv, err := New(log.NewNop(), Config{
		Port:           8080,
		Mode:           gin.TestMode,
		Environment:    environmentProduction,
		WebhookHandler: hook,
		Rules:          stubRules{},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	for _, path := range []string{"/health", "/ready", "/live"} {
		if w := serve(t, srv, http.MethodGet, path); w.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, w.Code)
		}
	}

	if w := serve(t, srv, http.MethodPost, "/webhook/gitlab"); w.Code != http.StatusAccepted || hook.calls != 1 {
		t.Errorf("POST /webhook/gitlab = %d, calls = %d", w.Code, hook.calls)
	}

	w := serve(t, srv, http.MethodGet, "/api/v1/rules")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/rules = %d", w.Code)
	}
	var resp struct {
		Data map[string]map[string][]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := resp.Data["on-merge-request"]["merged"]; len(got) != 1 || got[0] != "close-stale" {
		t.Errorf("rules = %v", resp.Data)
	}
}

func TestNotReadyWithoutRules(t *testing.T) {
	srv, err := New(log.NewNop(), Config{Port: 8080, Mode: gin.TestMode})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	w := serve(t, srv, http.MethodGet, "/ready")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /ready = %d, want 503", w.Code)
	}
	var resp response.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Message != "rules not loaded" {
		t.Errorf("message = %q", resp.Message)
	}

	if w := serve(t, srv, http.MethodPost, "/webhook/gitlab"); w.Code != http.StatusNotFound {
		t.Errorf("POST /webhook/gitlab without handler = %d, want 404", w.Code)
	}
}
