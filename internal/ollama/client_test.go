package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type mockEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type mockEmbedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
}

func newMockServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/embed", func(w http.ResponseWriter, r *http.Request) {
		var req mockEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := mockEmbedResponse{Model: req.Model}
		for i := range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float32{float32(i), 0.5})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		model     string
		wantModel string
		wantErr   bool
	}{
		{"custom url and model", "http://localhost:11434", "custom-model", "custom-model", false},
		{"default url", "", "test-model", "test-model", false},
		{"default model", "http://localhost:11434", "", DefaultModel, false},
		{"invalid url", "://bad", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.url, tt.model)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && client.Model() != tt.wantModel {
				t.Errorf("Model() = %s, want %s", client.Model(), tt.wantModel)
			}
		})
	}
}

func TestEmbed(t *testing.T) {
	srv := newMockServer(t)
	client, err := NewClient(srv.URL, "test-model")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	vecs, err := client.Embed(context.Background(), "Cholera", "Typhus")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vecs) != 2 || vecs[1][0] != 1 || vecs[1][1] != 0.5 {
		t.Errorf("unexpected vectors %v", vecs)
	}

	if _, err := client.Embed(context.Background(), "ok", ""); err == nil {
		t.Error("expected error for empty text")
	}
	if vecs, err := client.Embed(context.Background()); err != nil || vecs != nil {
		t.Errorf("expected no vectors for no input, got %v, %v", vecs, err)
	}
}

func TestIsAvailable(t *testing.T) {
	srv := newMockServer(t)
	if !IsAvailable(context.Background(), srv.URL) {
		t.Error("expected mock server to be available")
	}
	if IsAvailable(context.Background(), "http://127.0.0.1:1") {
		t.Error("expected closed port to be unavailable")
	}
}
