package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"animelibrarian/internal/config"
	"animelibrarian/internal/organizer"
	"animelibrarian/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	calls      *atomic.Int32
}

// setupCLITestEnv writes a config pointing at temp directories and a fake
// workflow server that answers with proposals.
func setupCLITestEnv(t *testing.T, proposals []organizer.Proposal, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		config.EnvSourcePath,
		config.EnvTargetPath,
		config.EnvWorkflowEndpoint,
		config.EnvWorkflowAPIKey,
		config.EnvWorkflowTimeout,
		config.EnvWorkflowUser,
	} {
		t.Setenv(key, "")
	}

	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		text, err := json.Marshal(map[string]any{"result": proposals})
		if err != nil {
			t.Errorf("marshal proposals: %v", err)
		}
		payload := map[string]any{
			"workflow_run_id": "run-1",
			"data": map[string]any{
				"status":  "succeeded",
				"outputs": map[string]any{"text": string(text)},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	opts = append([]testsupport.ConfigOption{testsupport.WithEndpoint(server.URL + "/v1/workflows/run")}, opts...)
	cfg := testsupport.NewConfig(t, opts...)

	configPath := filepath.Join(home, "animelibrarian.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, calls: calls}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nsource_dir = %q\ntarget_dir = %q\nstate_dir = %q\nlog_dir = %q\n\n[workflow]\nendpoint = %q\napi_key = %q\n",
		cfg.Paths.SourceDir,
		cfg.Paths.TargetDir,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Workflow.Endpoint,
		cfg.Workflow.APIKey,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

func requireMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent, stat err=%v", path, err)
	}
}
