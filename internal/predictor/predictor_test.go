package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPredict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if r.URL.Path != "/predict" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload["resume_summary"] == "" || payload["job_summary"] == "" {
			t.Fatalf("expected both summaries, got %v", payload)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fit_level":"Great Fit","confidence_percentage":91.5}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	got, err := client.Predict(context.Background(), "senior gopher", "go backend role")
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got.FitLevel != "Great Fit" {
		t.Fatalf("fit level = %q, want %q", got.FitLevel, "Great Fit")
	}
	if got.ConfidencePercentage != 91.5 {
		t.Fatalf("confidence = %v, want 91.5", got.ConfidencePercentage)
	}
}

func TestPredictErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "http error", status: http.StatusBadGateway, body: `upstream down`},
		{name: "missing fit level", status: http.StatusOK, body: `{"confidence_percentage":50}`},
		{name: "confidence out of range", status: http.StatusOK, body: `{"fit_level":"Great Fit","confidence_percentage":140}`},
		{name: "not json", status: http.StatusOK, body: `<html></html>`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(server.URL)
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			if _, err := client.Predict(context.Background(), "r", "j"); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNewClientRequiresURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatalf("expected error for blank URL")
	}
}
