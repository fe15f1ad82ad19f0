package config

import (
	"os"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				DB: DBConfig{Path: "callyfy.db"},
				Paths: PathsConfig{
					DataDir: "data",
				},
				Whisper: WhisperConfig{
					ModelPath:  "models/test.bin",
					BinaryPath: "./whisper",
				},
				Gemini: GeminiConfig{APIKeys: []string{"key-1"}},
			},
			wantErr: false,
		},
		{
			name: "missing db path",
			config: Config{
				Paths: PathsConfig{DataDir: "data"},
				Whisper: WhisperConfig{
					ModelPath:  "models/test.bin",
					BinaryPath: "./whisper",
				},
				Gemini: GeminiConfig{APIKeys: []string{"key-1"}},
			},
			wantErr: true,
		},
		{
			name: "missing data dir",
			config: Config{
				DB: DBConfig{Path: "callyfy.db"},
				Whisper: WhisperConfig{
					ModelPath:  "models/test.bin",
					BinaryPath: "./whisper",
				},
				Gemini: GeminiConfig{APIKeys: []string{"key-1"}},
			},
			wantErr: true,
		},
		{
			name: "missing whisper model",
			config: Config{
				DB:      DBConfig{Path: "callyfy.db"},
				Paths:   PathsConfig{DataDir: "data"},
				Whisper: WhisperConfig{BinaryPath: "./whisper"},
				Gemini:  GeminiConfig{APIKeys: []string{"key-1"}},
			},
			wantErr: true,
		},
		{
			name: "missing gemini api keys",
			config: Config{
				DB:    DBConfig{Path: "callyfy.db"},
				Paths: PathsConfig{DataDir: "data"},
				Whisper: WhisperConfig{
					ModelPath:  "models/test.bin",
					BinaryPath: "./whisper",
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{
		DB:    DBConfig{Path: "callyfy.db"},
		Paths: PathsConfig{DataDir: "data"},
		Whisper: WhisperConfig{
			ModelPath:  "models/test.bin",
			BinaryPath: "./whisper",
		},
		Gemini: GeminiConfig{APIKeys: []string{"key-1"}},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Paths.ScreenDirName != "screens" {
		t.Errorf("ScreenDirName = %q, want %q", cfg.Paths.ScreenDirName, "screens")
	}
	if cfg.Scheduler.AudioChunkSeconds != 15 {
		t.Errorf("AudioChunkSeconds = %d, want 15", cfg.Scheduler.AudioChunkSeconds)
	}
	if cfg.Scheduler.ScreenCaptureSeconds != 30 {
		t.Errorf("ScreenCaptureSeconds = %d, want 30", cfg.Scheduler.ScreenCaptureSeconds)
	}
	if cfg.Scheduler.RollingSummaryMin != 5 {
		t.Errorf("RollingSummaryMin = %d, want 5", cfg.Scheduler.RollingSummaryMin)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Gemini.Model = %q, want default", cfg.Gemini.Model)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
db:
  path: "callyfy.db"

paths:
  data_dir: "data"
  ingest_dir: "data/ingest"

scheduler:
  audio_chunk_seconds: 10
  screen_capture_seconds: 20
  rolling_summary_minutes: 3

whisper:
  model_path: "models/test.bin"
  binary_path: "./whisper"
  language: "en"

gemini:
  api_keys:
    - "key-1"

logging:
  level: "info"
  format: "text"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Test loading
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DB.Path != "callyfy.db" {
		t.Errorf("DB.Path = %v, want %v", cfg.DB.Path, "callyfy.db")
	}
	if cfg.Paths.DataDir != "data" {
		t.Errorf("DataDir = %v, want %v", cfg.Paths.DataDir, "data")
	}
	if cfg.Scheduler.AudioChunkSeconds != 10 {
		t.Errorf("AudioChunkSeconds = %d, want 10", cfg.Scheduler.AudioChunkSeconds)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}
