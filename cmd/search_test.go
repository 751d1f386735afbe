package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func resetSearchFlags() {
	searchYear = ""
	searchLimit = 0
	searchSemantic = false
	searchJSON = false
	searchToon = false
}

func searchCodes(o searchOutput) []string {
	var codes []string
	for _, r := range o.Results {
		codes = append(codes, r.Code)
	}
	return codes
}

func newOllamaMock(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/embed", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := struct {
			Model      string      `json:"model"`
			Embeddings [][]float32 `json:"embeddings"`
		}{Model: req.Model}
		for i := range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float32{float32(i) + 1, 0.5})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchKeyword(t *testing.T) {
	tests := []struct {
		name    string
		variant string
		year    string
		limit   int
		query   string
		want    []string
	}{
		{"cholera", "", "", 0, "cholera", []string{"A00.0", "A00.1", "A00"}},
		{"limit", "", "", 1, "cholera", []string{"A00.0"}},
		{"older year", "", "2023", 0, "typhus", []string{"A01"}},
		{"folded umlaut", "ops", "", 0, "Erganzung", []string{"1-202.2"}},
		{"no match", "", "", 0, "xylophon", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, buf := setupCatalog(t)
			resetSearchFlags()
			variantFlag = tt.variant
			searchYear = tt.year
			searchLimit = tt.limit
			searchJSON = true

			if err := runSearch(nil, []string{tt.query}); err != nil {
				t.Fatalf("search failed: %v", err)
			}

			var got searchOutput
			decodeJSON(t, buf, &got)
			if got.Mode != "keyword" {
				t.Errorf("mode = %s, want keyword", got.Mode)
			}
			if codes := searchCodes(got); !reflect.DeepEqual(codes, tt.want) {
				t.Errorf("codes = %v, want %v", codes, tt.want)
			}
		})
	}
}

func TestSearchHumanOutput(t *testing.T) {
	_, buf := setupCatalog(t)
	resetSearchFlags()

	if err := runSearch(nil, []string{"cholera"}); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Using keyword search only") {
		t.Errorf("expected keyword mode notice\n%s", output)
	}
	if !strings.Contains(output, "Found 3 matching code(s) in ICD-10-GM 2024") {
		t.Errorf("expected result count\n%s", output)
	}
}

func TestSearchSemanticFallback(t *testing.T) {
	_, buf := setupCatalog(t)
	resetSearchFlags()
	searchSemantic = true
	searchJSON = true
	viper.Set("embeddings.ollama_url", "http://127.0.0.1:1")

	if err := runSearch(nil, []string{"cholera"}); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	var got searchOutput
	decodeJSON(t, buf, &got)
	if got.Mode != "keyword" {
		t.Errorf("mode = %s, want keyword fallback", got.Mode)
	}
	if len(got.Results) != 3 {
		t.Errorf("expected 3 results, got %d", len(got.Results))
	}
}

func TestSearchHybrid(t *testing.T) {
	c, buf := setupCatalog(t)
	srv := newOllamaMock(t)
	resetSearchFlags()
	searchJSON = true
	viper.Set("embeddings.enabled", true)
	viper.Set("embeddings.ollama_url", srv.URL)
	viper.Set("embeddings.model", "test-model")

	if err := runSearch(nil, []string{"cholera"}); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	var got searchOutput
	decodeJSON(t, buf, &got)
	if got.Mode != "hybrid" {
		t.Fatalf("mode = %s, want hybrid", got.Mode)
	}
	if len(got.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got.Results))
	}
	for _, code := range []string{"A00", "A00.0", "A00.1"} {
		if !c.FileExists("embeddings/test-model/icd/2024/" + code + ".bin") {
			t.Errorf("expected cached embedding for %s", code)
		}
	}
}
