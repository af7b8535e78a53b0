package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chatterforms/formlens/internal/schema"
)

func testForm() *schema.FormSchema {
	return &schema.FormSchema{
		Title: "Contact",
		Fields: []schema.FormField{
			{ID: "f1", Label: "Name", Type: schema.FieldTypeText},
		},
	}
}

func fastOptions() Options {
	return Options{
		StoreAttempts:  3,
		StoreTimeout:   time.Second,
		StoreRetryBase: 10 * time.Millisecond,
	}
}

func TestStoreFormStructure_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/store-form" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req StoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding store payload: %v", err)
		}
		if req.FormData == nil || req.FormData.Title != "Contact" {
			t.Errorf("formData = %#v", req.FormData)
		}
		json.NewEncoder(w).Encode(StoreResult{Success: true, FormID: "form-42"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, fastOptions(), nil)
	result := c.StoreFormStructure(context.Background(), &StoreRequest{FormData: testForm(), UserID: "u1"})

	if !result.Success || result.FormID != "form-42" {
		t.Fatalf("result = %#v", result)
	}
}

func TestStoreFormStructure_RetriesWithBackoff(t *testing.T) {
	var mu sync.Mutex
	var times []time.Time

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		times = append(times, time.Now())
		n := len(times)
		mu.Unlock()
		if n < 3 {
			http.Error(w, "backend unavailable", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(StoreResult{Success: true, FormID: "form-42"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, fastOptions(), nil)
	result := c.StoreFormStructure(context.Background(), &StoreRequest{FormData: testForm()})

	if !result.Success {
		t.Fatalf("result = %#v", result)
	}
	if len(times) != 3 {
		t.Fatalf("got %d attempts, want 3", len(times))
	}

	// Backoff doubles: the second gap should be roughly twice the first.
	gap1 := times[1].Sub(times[0])
	gap2 := times[2].Sub(times[1])
	if gap1 < 10*time.Millisecond {
		t.Errorf("first retry fired after %v, want >= base delay", gap1)
	}
	if gap2 < gap1 {
		t.Errorf("delays did not increase: %v then %v", gap1, gap2)
	}
}

func TestStoreFormStructure_ExhaustionReturnsFailureResult(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, "backend unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, fastOptions(), nil)
	result := c.StoreFormStructure(context.Background(), &StoreRequest{FormData: testForm()})

	if result.Success {
		t.Fatal("expected failure result")
	}
	if result.Error == "" {
		t.Error("failure result missing error message")
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("got %d attempts, want 3", got)
	}
}

func TestStoreFormStructure_BackendRejectionRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		// HTTP 200 but success false still counts as a failed attempt.
		json.NewEncoder(w).Encode(StoreResult{Success: false, Error: "quota exceeded"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, fastOptions(), nil)
	result := c.StoreFormStructure(context.Background(), &StoreRequest{FormData: testForm()})

	if result.Success {
		t.Fatal("expected failure result")
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("got %d attempts, want 3", got)
	}
}

func TestSubmitForm_SingleAttempt(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		if r.URL.Path != "/submit-form" {
			t.Errorf("path = %q", r.URL.Path)
		}
		http.Error(w, "backend unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, fastOptions(), nil)
	_, err := c.SubmitForm(context.Background(), "form-42", map[string]any{"f1": "Ada"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("got %d attempts, want 1 (no retry on submit)", got)
	}
}

func TestFetchForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/forms/form-42" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(testForm())
	}))
	defer srv.Close()

	c := NewClient(srv.URL, fastOptions(), nil)
	form, err := c.FetchForm(context.Background(), "form-42")
	if err != nil {
		t.Fatalf("FetchForm() error = %v", err)
	}
	if form.Title != "Contact" || len(form.Fields) != 1 {
		t.Errorf("form = %#v", form)
	}
}

func TestFetchAnalytics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/forms/form-42/analytics" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"submissions": 7})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, fastOptions(), nil)
	analytics, err := c.FetchAnalytics(context.Background(), "form-42")
	if err != nil {
		t.Fatalf("FetchAnalytics() error = %v", err)
	}
	if analytics["submissions"] != float64(7) {
		t.Errorf("analytics = %#v", analytics)
	}
}

func TestStoreFormStructure_ContextCancelStopsRetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	opts := fastOptions()
	opts.StoreRetryBase = 200 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient(srv.URL, opts, nil)
	start := time.Now()
	result := c.StoreFormStructure(ctx, &StoreRequest{FormData: testForm()})

	if result.Success {
		t.Fatal("expected failure result")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("retry loop ignored context cancellation, ran %v", elapsed)
	}
}
