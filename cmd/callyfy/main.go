package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/romabozhanovgithub/callyfy/internal/audio"
	"github.com/romabozhanovgithub/callyfy/internal/config"
	"github.com/romabozhanovgithub/callyfy/internal/engines"
	"github.com/romabozhanovgithub/callyfy/internal/export"
	"github.com/romabozhanovgithub/callyfy/internal/ingest"
	"github.com/romabozhanovgithub/callyfy/internal/logger"
	"github.com/romabozhanovgithub/callyfy/internal/scheduler"
	"github.com/romabozhanovgithub/callyfy/internal/storage"
	"github.com/romabozhanovgithub/callyfy/internal/store"
	"github.com/romabozhanovgithub/callyfy/internal/summarize"
	"github.com/romabozhanovgithub/callyfy/internal/vision"
	"github.com/romabozhanovgithub/callyfy/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	title := flag.String("title", "Untitled meeting", "title of the meeting to record")
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "%s Meeting Assistant", cfg.App.Name)
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Data directory: %s", cfg.Paths.DataDir)
	log.Info(ctx, "Configuration loaded successfully")

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	// Open the store
	st, err := store.Open(cfg.DB.Path)
	if err != nil {
		log.Error(ctx, "Failed to open store: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	// Initialize engines
	exec := executor.New()
	whisper := engines.NewWhisper(cfg.Whisper.ModelPath, cfg.Whisper.BinaryPath, cfg.Whisper.Language, cfg.Whisper.Threads, exec, log)
	ffmpeg := engines.NewFFmpeg(cfg.FFmpeg.AudioDevice, cfg.FFmpeg.ScreenDevice, cfg.FFmpeg.SampleRate, exec, log)
	gemini := engines.NewGemini(cfg.Gemini.APIKeys, cfg.Gemini.Model, cfg.Gemini.EmbeddingModel, st, log)

	// Initialize services
	stor := storage.New(cfg.Paths.DataDir, cfg.Paths.ScreenDirName, st, log)
	aud := audio.New(ffmpeg, whisper, st, log)
	vis := vision.New(ffmpeg, gemini, st, log)
	summ := summarize.New(gemini, st, log)

	// Create and start the meeting
	meeting, err := stor.CreateMeeting(ctx, *title)
	if err != nil {
		log.Error(ctx, "Failed to create meeting: %v", err)
		os.Exit(1)
	}
	meeting, err = stor.StartMeeting(ctx, meeting.ID)
	if err != nil {
		log.Error(ctx, "Failed to start meeting: %v", err)
		os.Exit(1)
	}
	log.Info(ctx, "Meeting %s started: %q", meeting.ID, meeting.Title)

	screenDir, err := stor.ScreenDir(meeting.ID)
	if err != nil {
		log.Error(ctx, "Failed to create screen directory: %v", err)
		os.Exit(1)
	}

	if err := aud.StartCapture(ctx, meeting.ID); err != nil {
		log.Error(ctx, "Failed to open audio stream: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunkInterval := time.Duration(cfg.Scheduler.AudioChunkSeconds) * time.Second
	sched := scheduler.New(log,
		scheduler.Job{
			Name:     "audio-chunk",
			Interval: chunkInterval,
			Run: func(ctx context.Context) error {
				return transcribeNextChunk(ctx, ffmpeg, aud, meeting.ID, chunkInterval)
			},
		},
		scheduler.Job{
			Name:     "screen-capture",
			Interval: time.Duration(cfg.Scheduler.ScreenCaptureSeconds) * time.Second,
			Run: func(ctx context.Context) error {
				_, err := vis.CaptureScreen(ctx, meeting.ID, screenDir)
				return err
			},
		},
		scheduler.Job{
			Name:     "rolling-summary",
			Interval: time.Duration(cfg.Scheduler.RollingSummaryMin) * time.Minute,
			Run: func(ctx context.Context) error {
				_, err := summ.Generate(ctx, meeting.ID, summarize.KindRolling)
				return err
			},
		},
	)

	// Watch the drop directory for externally recorded audio
	w, err := ingest.New(cfg.Paths.IngestDir, func(ctx context.Context, filePath string) error {
		return ingestRecording(ctx, st, aud, meeting.ID, filePath)
	}, log, cfg.Ingest.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create ingest watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 2)
	go func() {
		if err := sched.Run(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting session is live!")
	log.Info(ctx, "Audio chunks: every %ds", cfg.Scheduler.AudioChunkSeconds)
	log.Info(ctx, "Screen captures: every %ds", cfg.Scheduler.ScreenCaptureSeconds)
	log.Info(ctx, "Rolling summaries: every %dm", cfg.Scheduler.RollingSummaryMin)
	log.Info(ctx, "Drop directory: %s", cfg.Paths.IngestDir)
	log.Info(ctx, "")
	log.Info(ctx, "Press Ctrl+C to end the meeting")
	log.Info(ctx, "========================================")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Session error: %v", err)
	}

	log.Info(ctx, "Ending meeting...")
	cancel()

	// Teardown runs on a fresh context; the session context is gone.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer shutdownCancel()

	if err := aud.StopCapture(shutdownCtx, meeting.ID); err != nil {
		log.Warn(shutdownCtx, "Failed to close audio stream: %v", err)
	}
	if _, err := stor.StopMeeting(shutdownCtx, meeting.ID); err != nil {
		log.Warn(shutdownCtx, "Failed to stop meeting: %v", err)
	}

	// Final summary, exported next to the meeting's artifacts.
	record, err := summ.Generate(shutdownCtx, meeting.ID, summarize.KindFinal)
	if err != nil {
		log.Warn(shutdownCtx, "Failed to generate final summary: %v", err)
	} else {
		docxPath := filepath.Join(stor.MeetingDir(meeting.ID), "summary.docx")
		if err := export.WriteSummaryDocx(meeting.Title, record, docxPath); err != nil {
			log.Warn(shutdownCtx, "Failed to export summary: %v", err)
		} else {
			log.Info(shutdownCtx, "Final summary exported: %s", docxPath)
		}
	}

	log.Info(shutdownCtx, "Meeting %s ended", meeting.ID)
}

// transcribeNextChunk records one chunk-length slice of live audio and
// feeds it through transcription.
func transcribeNextChunk(ctx context.Context, backend audio.CaptureBackend, aud audio.Audio, meetingID string, chunkLen time.Duration) error {
	tmp, err := os.CreateTemp("", "live-chunk-*.wav")
	if err != nil {
		return fmt.Errorf("create chunk file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	// The recorder runs until its context expires, then the chunk is
	// whatever landed on disk.
	recCtx, recCancel := context.WithTimeout(ctx, chunkLen)
	defer recCancel()
	if err := backend.RecordRaw(recCtx, meetingID, tmpPath); err != nil {
		return fmt.Errorf("record chunk: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	chunk, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("read chunk: %w", err)
	}
	if len(chunk) == 0 {
		return nil
	}

	_, err = aud.ProcessLiveChunk(ctx, meetingID, chunk)
	return err
}

// ingestRecording registers a dropped audio file as a raw artifact of
// the meeting and transcribes it in full.
func ingestRecording(ctx context.Context, st *store.Store, aud audio.Audio, meetingID, filePath string) error {
	artifact := &store.RawAudioArtifact{
		MeetingID: meetingID,
		FilePath:  filePath,
	}

	uow, err := st.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.Add(ctx, artifact); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	_, err = aud.PostProcess(ctx, artifact)
	return err
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.DataDir,
		cfg.Paths.IngestDir,
		filepath.Dir(cfg.DB.Path),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
