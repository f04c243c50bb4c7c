package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"animelibrarian/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Source and target directories are created; state and log directories are
// left for the code under test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SourceDir = filepath.Join(base, "downloads")
	cfgVal.Paths.TargetDir = filepath.Join(base, "library")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Workflow.APIKey = "test"
	cfgVal.Workflow.Endpoint = "http://127.0.0.1:0/v1/workflows/run"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	for _, dir := range []string{builder.cfg.Paths.SourceDir, builder.cfg.Paths.TargetDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return builder.cfg
}

// WithEndpoint points the workflow client at a test server.
func WithEndpoint(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workflow.Endpoint = url
	}
}

// WithAPIKey sets the workflow API key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workflow.APIKey = key
	}
}

// WithSourceFiles creates empty files under the source directory.
func WithSourceFiles(names ...string) ConfigOption {
	return func(b *configBuilder) {
		for _, name := range names {
			WriteFile(b.t, filepath.Join(b.cfg.Paths.SourceDir, name), 1)
		}
	}
}

// WithCategories creates category directories under the target directory.
func WithCategories(names ...string) ConfigOption {
	return func(b *configBuilder) {
		for _, name := range names {
			if err := os.MkdirAll(filepath.Join(b.cfg.Paths.TargetDir, name), 0o755); err != nil {
				b.t.Fatalf("mkdir category %s: %v", name, err)
			}
		}
	}
}
