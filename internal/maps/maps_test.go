package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(nil, "", "", time.Second); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestDrive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("origins"); got != "New York" {
			t.Errorf("origins = %q, want %q", got, "New York")
		}
		if got := r.URL.Query().Get("mode"); got != "driving" {
			t.Errorf("mode = %q, want driving", got)
		}
		w.Write([]byte(`{
			"status": "OK",
			"rows": [{"elements": [{"status": "OK", "distance": {"value": 4023350}}]}]
		}`))
	}))
	defer srv.Close()

	client, err := NewClient(nil, srv.URL, "test-key", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	miles, err := client.Drive(context.Background(), "New York", "Las Vegas")
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	// 4023350m / 1609.34 = 2500.0 miles.
	if miles != 2500.0 {
		t.Fatalf("Drive = %v, want 2500.0", miles)
	}
}

func TestDriveElementError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"status": "OK",
			"rows": [{"elements": [{"status": "NOT_FOUND"}]}]
		}`))
	}))
	defer srv.Close()

	client, err := NewClient(nil, srv.URL, "test-key", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Drive(context.Background(), "Nowhere", "Anywhere"); err == nil {
		t.Fatal("expected error for element status NOT_FOUND")
	}
}

func TestDriveTopLevelError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": "REQUEST_DENIED", "rows": []}`))
	}))
	defer srv.Close()

	client, err := NewClient(nil, srv.URL, "test-key", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Drive(context.Background(), "A", "B"); err == nil {
		t.Fatal("expected error for status REQUEST_DENIED")
	}
}

func TestNoRuralData(t *testing.T) {
	if (NoRuralData{}).IsRural("remote farmstead, montana") {
		t.Fatal("NoRuralData must always report false")
	}
}
