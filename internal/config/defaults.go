package config

const (
	defaultConfigPath             = "~/.config/animelibrarian/config.toml"
	defaultStateDir               = "~/.local/share/animelibrarian"
	defaultLogDir                 = "~/.local/share/animelibrarian/logs"
	defaultWorkflowEndpoint       = "https://api.dify.ai/v1/workflows/run"
	defaultWorkflowUser           = "Anime Librarian"
	defaultWorkflowTimeoutSeconds = 300
	defaultWorkflowRetryAttempts  = 3
	defaultLogFormat              = "console"
	defaultLogLevel               = "warn"
)

// Environment variables honoured as fallbacks for file values.
const (
	EnvSourcePath       = "ANIMELIBRARIAN_SOURCE_PATH"
	EnvTargetPath       = "ANIMELIBRARIAN_TARGET_PATH"
	EnvWorkflowEndpoint = "ANIMELIBRARIAN_DIFY_WORKFLOW_RUN_ENDPOINT"
	EnvWorkflowAPIKey   = "ANIMELIBRARIAN_DIFY_API_KEY"
	EnvWorkflowTimeout  = "ANIMELIBRARIAN_API_TIMEOUT"
	EnvWorkflowUser     = "ANIMELIBRARIAN_USER_NAME"
)

var (
	defaultVideoExtensions    = []string{".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm"}
	defaultSubtitleExtensions = []string{".srt", ".ass", ".ssa", ".sub", ".vtt"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Workflow: Workflow{
			Endpoint:       defaultWorkflowEndpoint,
			User:           defaultWorkflowUser,
			TimeoutSeconds: defaultWorkflowTimeoutSeconds,
			RetryAttempts:  defaultWorkflowRetryAttempts,
		},
		Media: Media{
			VideoExtensions:    append([]string(nil), defaultVideoExtensions...),
			SubtitleExtensions: append([]string(nil), defaultSubtitleExtensions...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// SampleAPIKey is the placeholder key written by CreateSample.
const SampleAPIKey = "your_dify_api_key_here"
