package engines

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/romabozhanovgithub/callyfy/internal/logger"
	"github.com/romabozhanovgithub/callyfy/pkg/executor"
)

// FFmpeg drives audio and screen capture through the ffmpeg binary. It
// implements the audio.CaptureBackend and vision.ScreenGrabber
// contracts.
type FFmpeg struct {
	audioDevice  string
	screenDevice string
	sampleRate   int
	executor     executor.Executor
	logger       logger.Logger
}

// NewFFmpeg creates an FFmpeg capture engine.
func NewFFmpeg(audioDevice, screenDevice string, sampleRate int, exec executor.Executor, log logger.Logger) *FFmpeg {
	return &FFmpeg{
		audioDevice:  audioDevice,
		screenDevice: screenDevice,
		sampleRate:   sampleRate,
		executor:     exec,
		logger:       log,
	}
}

// StartStream verifies the capture prerequisites. Chunk delivery itself
// is driven by the caller.
func (f *FFmpeg) StartStream(ctx context.Context, meetingID string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found: %w", err)
	}
	f.logger.Info(ctx, "Audio stream opened for meeting %s (device %s)", meetingID, f.audioDevice)
	return nil
}

// StopStream closes the live stream for a meeting.
func (f *FFmpeg) StopStream(ctx context.Context, meetingID string) error {
	f.logger.Info(ctx, "Audio stream closed for meeting %s", meetingID)
	return nil
}

// RecordRaw records from the default input device into destination as
// 16-bit mono PCM. Recording runs until ctx is cancelled.
func (f *FFmpeg) RecordRaw(ctx context.Context, meetingID, destination string) error {
	args := []string{
		"-f", "avfoundation",
		"-i", f.audioDevice,
		"-ac", "1",
		"-ar", strconv.Itoa(f.sampleRate),
		"-c:a", "pcm_s16le",
		"-y",
		destination,
	}

	if _, err := f.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		// ffmpeg exits non-zero when the context kills it; the
		// recording up to that point is still on disk.
		if ctx.Err() != nil {
			f.logger.Info(ctx, "Recording for meeting %s stopped: %s", meetingID, destination)
			return nil
		}
		return fmt.Errorf("ffmpeg record: %w", err)
	}

	return nil
}

// Capture grabs one frame of the configured screen device into
// outputDir and returns the image path.
func (f *FFmpeg) Capture(ctx context.Context, meetingID, outputDir string) (string, error) {
	imagePath := filepath.Join(outputDir, fmt.Sprintf("frame-%d.png", time.Now().UnixMilli()))

	args := []string{
		"-f", "avfoundation",
		"-framerate", "1",
		"-i", f.screenDevice,
		"-frames:v", "1",
		"-y",
		imagePath,
	}

	if _, err := f.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", fmt.Errorf("ffmpeg screen capture: %w", err)
	}

	f.logger.Debug(ctx, "Captured screen for meeting %s: %s", meetingID, imagePath)
	return imagePath, nil
}
