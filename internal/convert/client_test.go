package convert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/upload" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		fh := r.MultipartForm.File["pdf"]
		if len(fh) != 1 || fh[0].Filename != "form.pdf" {
			t.Errorf("pdf file part missing or misnamed: %#v", fh)
		}
		json.NewEncoder(w).Encode(UploadResult{
			Success:    true,
			UUID:       "job-123",
			TotalPages: 2,
			Images: []PageImage{
				{Page: 1, Filename: "page-1.png", URL: "http://x/1.png"},
				{Page: 2, Filename: "page-2.png", URL: "http://x/2.png"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nil)
	result, err := client.Upload(context.Background(), []byte("%PDF-1.4 fake"), "form.pdf")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if result.UUID != "job-123" || result.TotalPages != 2 || len(result.Images) != 2 {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestUpload_ServiceFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "success false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(UploadResult{Success: false, Error: "corrupt PDF"})
			},
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewClient(srv.URL, 5*time.Second, nil)
			if _, err := client.Upload(context.Background(), []byte("x"), "f.pdf"); err == nil {
				t.Fatal("Upload() expected error")
			}
		})
	}
}

func TestCleanup_BestEffort(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		http.Error(w, "gone already", http.StatusNotFound)
	}))
	defer srv.Close()

	// Must not panic or surface the 404.
	client := NewClient(srv.URL, 5*time.Second, nil)
	client.Cleanup(context.Background(), "job-123")

	if gotPath != "DELETE /cleanup/job-123" {
		t.Fatalf("cleanup hit %q", gotPath)
	}
}

func TestFetchImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nil)
	data, err := client.FetchImage(context.Background(), srv.URL+"/page-1.png")
	if err != nil {
		t.Fatalf("FetchImage() error = %v", err)
	}
	if len(data) != 4 || data[1] != 'P' {
		t.Fatalf("unexpected image bytes: %v", data)
	}
}
