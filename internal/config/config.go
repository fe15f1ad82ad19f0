package config

import (
	"fmt"
	"path/filepath"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	DB        DBConfig        `yaml:"db"`
	Paths     PathsConfig     `yaml:"paths"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Whisper   WhisperConfig   `yaml:"whisper"`
	FFmpeg    FFmpegConfig    `yaml:"ffmpeg"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type AppConfig struct {
	Name string `yaml:"name"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type PathsConfig struct {
	DataDir       string `yaml:"data_dir"`
	ScreenDirName string `yaml:"screen_dir_name"`
	IngestDir     string `yaml:"ingest_dir"`
}

type SchedulerConfig struct {
	AudioChunkSeconds    int `yaml:"audio_chunk_seconds"`
	ScreenCaptureSeconds int `yaml:"screen_capture_seconds"`
	RollingSummaryMin    int `yaml:"rolling_summary_minutes"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Threads    int    `yaml:"threads"`
}

type FFmpegConfig struct {
	AudioDevice  string `yaml:"audio_device"`
	ScreenDevice string `yaml:"screen_device"`
	SampleRate   int    `yaml:"sample_rate"`
}

type GeminiConfig struct {
	APIKeys        []string `yaml:"api_keys"`
	Model          string   `yaml:"model"`
	EmbeddingModel string   `yaml:"embedding_model"`
}

type IngestConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) Validate() error {
	if c.DB.Path == "" {
		return fmt.Errorf("db.path is required")
	}
	if c.Paths.DataDir == "" {
		return fmt.Errorf("paths.data_dir is required")
	}
	if c.Whisper.ModelPath == "" {
		return fmt.Errorf("whisper.model_path is required")
	}
	if c.Whisper.BinaryPath == "" {
		return fmt.Errorf("whisper.binary_path is required")
	}
	if len(c.Gemini.APIKeys) == 0 {
		return fmt.Errorf("gemini.api_keys requires at least one key")
	}

	if c.App.Name == "" {
		c.App.Name = "callyfy"
	}
	if c.Paths.ScreenDirName == "" {
		c.Paths.ScreenDirName = "screens"
	}
	if c.Paths.IngestDir == "" {
		c.Paths.IngestDir = filepath.Join(c.Paths.DataDir, "ingest")
	}
	if c.Scheduler.AudioChunkSeconds == 0 {
		c.Scheduler.AudioChunkSeconds = 15
	}
	if c.Scheduler.ScreenCaptureSeconds == 0 {
		c.Scheduler.ScreenCaptureSeconds = 30
	}
	if c.Scheduler.RollingSummaryMin == 0 {
		c.Scheduler.RollingSummaryMin = 5
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.FFmpeg.AudioDevice == "" {
		c.FFmpeg.AudioDevice = ":default"
	}
	if c.FFmpeg.ScreenDevice == "" {
		c.FFmpeg.ScreenDevice = "1:none"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.EmbeddingModel == "" {
		c.Gemini.EmbeddingModel = "gemini-embedding-001"
	}
	if c.Ingest.MaxConcurrent == 0 {
		c.Ingest.MaxConcurrent = 2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}
