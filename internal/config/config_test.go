package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"CLIGUE_PROVIDER", "CLIGUE_MODEL", "OLLAMA_HOST",
		"CLIGUE_RETRY_ATTEMPTS", "CLIGUE_RETRY_DELAY", "CLIGUE_SAMPLE_FPS",
		"CLIGUE_MAX_VIDEO_DURATION", "CLIGUE_MAX_FRAMES",
		"CLIGUE_MEMORY_WINDOW", "CLIGUE_API_PORT", "CLIGUE_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Provider != ProviderOllama {
		t.Errorf("provider = %s, want ollama", cfg.Provider)
	}
	if cfg.Model != "llava:7b" {
		t.Errorf("model = %s, want llava:7b", cfg.Model)
	}
	if cfg.OllamaHost != "http://localhost:11434" {
		t.Errorf("ollama host = %s", cfg.OllamaHost)
	}
	if cfg.RetryAttempts != 3 || cfg.RetryDelay != time.Second {
		t.Errorf("retry = %d/%v, want 3/1s", cfg.RetryAttempts, cfg.RetryDelay)
	}
	if cfg.SampleFPS != 1.0 {
		t.Errorf("sample fps = %v, want 1.0", cfg.SampleFPS)
	}
	if cfg.MaxVideoDuration != 2*time.Minute {
		t.Errorf("max duration = %v, want 2m", cfg.MaxVideoDuration)
	}
	if cfg.MaxFrames != 50 {
		t.Errorf("max frames = %d, want 50", cfg.MaxFrames)
	}
	if cfg.MemoryWindow != 10 {
		t.Errorf("memory window = %d, want 10", cfg.MemoryWindow)
	}
	if cfg.APIPort != "8000" {
		t.Errorf("api port = %s, want 8000", cfg.APIPort)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("log level = %v, want info", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CLIGUE_PROVIDER", "openai")
	t.Setenv("CLIGUE_MODEL", "gpt-4o")
	t.Setenv("CLIGUE_RETRY_ATTEMPTS", "5")
	t.Setenv("CLIGUE_RETRY_DELAY", "2s")
	t.Setenv("CLIGUE_SAMPLE_FPS", "0.5")
	t.Setenv("CLIGUE_MAX_FRAMES", "10")

	cfg := Load()

	if cfg.Provider != ProviderOpenAI {
		t.Errorf("provider = %s, want openai", cfg.Provider)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("model = %s", cfg.Model)
	}
	if cfg.RetryAttempts != 5 || cfg.RetryDelay != 2*time.Second {
		t.Errorf("retry = %d/%v, want 5/2s", cfg.RetryAttempts, cfg.RetryDelay)
	}
	if cfg.SampleFPS != 0.5 {
		t.Errorf("sample fps = %v", cfg.SampleFPS)
	}
	if cfg.MaxFrames != 10 {
		t.Errorf("max frames = %d", cfg.MaxFrames)
	}
}

func TestLoadIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("CLIGUE_RETRY_ATTEMPTS", "not a number")
	t.Setenv("CLIGUE_SAMPLE_FPS", "fast")
	t.Setenv("CLIGUE_MAX_VIDEO_DURATION", "soon")

	cfg := Load()

	if cfg.RetryAttempts != 3 {
		t.Errorf("retry attempts = %d, want default 3", cfg.RetryAttempts)
	}
	if cfg.SampleFPS != 1.0 {
		t.Errorf("sample fps = %v, want default 1.0", cfg.SampleFPS)
	}
	if cfg.MaxVideoDuration != 2*time.Minute {
		t.Errorf("max duration = %v, want default 2m", cfg.MaxVideoDuration)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
provider: anthropic
model: claude-sonnet-4-5
max_frames: 20
retry_delay: 5s
max_video_duration: 3m
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	base := Load()
	cfg, err := LoadFile(base, path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Provider != ProviderAnthropic {
		t.Errorf("provider = %s, want anthropic", cfg.Provider)
	}
	if cfg.Model != "claude-sonnet-4-5" {
		t.Errorf("model = %s", cfg.Model)
	}
	if cfg.MaxFrames != 20 {
		t.Errorf("max frames = %d, want 20", cfg.MaxFrames)
	}
	// Durations are written in time.ParseDuration notation.
	if cfg.RetryDelay != 5*time.Second {
		t.Errorf("retry delay = %v, want 5s", cfg.RetryDelay)
	}
	if cfg.MaxVideoDuration != 3*time.Minute {
		t.Errorf("max duration = %v, want 3m", cfg.MaxVideoDuration)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.LogLevel)
	}
	// Keys absent from the file keep their current values.
	if cfg.MemoryWindow != base.MemoryWindow {
		t.Errorf("memory window = %d, want unchanged %d", cfg.MemoryWindow, base.MemoryWindow)
	}
	if cfg.CallTimeout != base.CallTimeout {
		t.Errorf("call timeout = %v, want unchanged %v", cfg.CallTimeout, base.CallTimeout)
	}
}

func TestLoadFileBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("retry_delay: soon\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(Load(), path); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}

func TestLoadFileMissing(t *testing.T) {
	base := Load()
	cfg, err := LoadFile(base, filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if cfg.Provider != base.Provider {
		t.Error("config should be returned unchanged on error")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
