package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"animelibrarian/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryAccess_Empty(t *testing.T) {
	if result := CheckDirectoryAccess("test", ""); result.Passed {
		t.Fatal("expected failure for empty path")
	}
}

func TestCheckWorkflow_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/parameters" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := CheckWorkflow(context.Background(), srv.URL+"/v1/workflows/run", "good-key")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckWorkflow_BadKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	result := CheckWorkflow(context.Background(), srv.URL+"/v1/workflows/run", "bad-key")
	if result.Passed {
		t.Fatal("expected failure for bad key")
	}
}

func TestCheckWorkflow_Missing(t *testing.T) {
	if result := CheckWorkflow(context.Background(), "", "key"); result.Passed {
		t.Fatal("expected failure for missing endpoint")
	}
	if result := CheckWorkflow(context.Background(), "http://localhost", ""); result.Passed {
		t.Fatal("expected failure for missing key")
	}
}

func TestCheckWorkflowConfigRejectsPlaceholder(t *testing.T) {
	cfg := config.Default()
	cfg.Workflow.APIKey = config.SampleAPIKey
	if CheckWorkflowConfig(&cfg).Passed {
		t.Fatal("expected placeholder key to fail")
	}
	cfg.Workflow.APIKey = "real"
	if !CheckWorkflowConfig(&cfg).Passed {
		t.Fatal("expected real key to pass")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, false); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_Offline(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.SourceDir = t.TempDir()
	cfg.Paths.TargetDir = t.TempDir()
	cfg.Workflow.APIKey = "test"

	results := RunAll(context.Background(), &cfg, false)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_OnlineProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Paths.SourceDir = t.TempDir()
	cfg.Paths.TargetDir = filepath.Join(t.TempDir(), "missing")
	cfg.Workflow.APIKey = "test"
	cfg.Workflow.Endpoint = srv.URL + "/v1/workflows/run"

	results := RunAll(context.Background(), &cfg, true)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Target directory" {
		t.Fatalf("expected only the target directory to fail, got %+v", failed)
	}
}
