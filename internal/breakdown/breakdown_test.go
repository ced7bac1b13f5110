package breakdown

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// modelResponse wraps a structured-output payload the way the API returns
// it: JSON text inside the first candidate part.
func modelResponse(payload string) string {
	resp := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": payload}},
				},
			},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("test-key", WithBaseURL(srv.URL))
}

func TestBreakdownSuccess(t *testing.T) {
	var gotPath string
	var gotReq generateRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		fmt.Fprint(w, modelResponse(`{"steps": ["pick dates", "book flights", "pack"]}`))
	})

	steps := c.Breakdown(context.Background(), "plan a trip")
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d: %v", len(steps), steps)
	}
	if steps[0] != "pick dates" {
		t.Errorf("unexpected first step %q", steps[0])
	}

	if gotPath != "/v1beta/models/gemini-3-flash-preview:generateContent" {
		t.Errorf("unexpected request path %s", gotPath)
	}
	if gotReq.GenerationConfig == nil || gotReq.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Error("request should demand structured JSON output")
	}
	if gotReq.GenerationConfig.ResponseSchema == nil ||
		gotReq.GenerationConfig.ResponseSchema.Properties["steps"] == nil {
		t.Error("request should carry the steps schema")
	}
}

func TestBreakdownZeroSteps(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, modelResponse(`{"steps": []}`))
	})

	steps := c.Breakdown(context.Background(), "nothing to do")
	if steps == nil {
		t.Fatal("Breakdown must return an empty slice, not nil")
	}
	if len(steps) != 0 {
		t.Errorf("expected 0 steps, got %v", steps)
	}
}

func TestBreakdownServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 500, "message": "internal"}}`, http.StatusInternalServerError)
	})

	if steps := c.Breakdown(context.Background(), "task"); len(steps) != 0 {
		t.Errorf("server error should yield an empty list, got %v", steps)
	}
}

func TestBreakdownMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>oops</html>"},
		{"no candidates", `{"candidates": []}`},
		{"bad steps payload", modelResponse(`not a json object`)},
		{"wrong schema", modelResponse(`{"items": ["a"]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			})
			if steps := c.Breakdown(context.Background(), "task"); len(steps) != 0 {
				t.Errorf("malformed response should yield an empty list, got %v", steps)
			}
		})
	}
}

func TestBreakdownNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New("test-key", WithBaseURL(srv.URL))
	if steps := c.Breakdown(context.Background(), "task"); len(steps) != 0 {
		t.Errorf("network failure should yield an empty list, got %v", steps)
	}
}

func TestBreakdownTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, modelResponse(`{"steps": ["too late"]}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if steps := c.Breakdown(ctx, "task"); len(steps) != 0 {
		t.Errorf("timeout should yield an empty list, got %v", steps)
	}
}

func TestBreakdownMissingAPIKey(t *testing.T) {
	c := New("")
	if steps := c.Breakdown(context.Background(), "task"); len(steps) != 0 {
		t.Errorf("missing key should yield an empty list, got %v", steps)
	}
}
