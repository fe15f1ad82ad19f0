package engines

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/romabozhanovgithub/callyfy/internal/logger"
	"github.com/romabozhanovgithub/callyfy/internal/store"
	"github.com/romabozhanovgithub/callyfy/pkg/executor"
)

// Whisper transcribes audio through a whisper.cpp binary. It implements
// the audio.Recognizer contract.
type Whisper struct {
	modelPath  string
	binaryPath string
	language   string
	threads    int
	executor   executor.Executor
	logger     logger.Logger
}

// NewWhisper creates a Whisper recognizer.
func NewWhisper(modelPath, binaryPath, language string, threads int, exec executor.Executor, log logger.Logger) *Whisper {
	return &Whisper{
		modelPath:  modelPath,
		binaryPath: binaryPath,
		language:   language,
		threads:    threads,
		executor:   exec,
		logger:     log,
	}
}

// TranscribeChunk transcribes one raw audio chunk into a single
// transcript segment.
func (w *Whisper) TranscribeChunk(ctx context.Context, chunk []byte) (*store.TranscriptSegment, error) {
	tmp, err := os.CreateTemp("", "chunk-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp chunk: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(chunk); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp chunk: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp chunk: %w", err)
	}

	cues, err := w.run(ctx, tmpPath)
	if err != nil {
		return nil, err
	}

	// One chunk yields one segment: the cue texts joined, the time
	// range anchored at the transcription wall clock.
	var parts []string
	var span time.Duration
	for _, cue := range cues {
		parts = append(parts, cue.Text)
		if cue.End > span {
			span = cue.End
		}
	}

	now := time.Now().UTC()
	return &store.TranscriptSegment{
		StartedAt: now,
		EndedAt:   now.Add(span),
		Text:      strings.Join(parts, " "),
	}, nil
}

// TranscribeFile transcribes a full recording into an ordered sequence
// of segments. Cue offsets are anchored at the file's modification
// time, the closest durable stand-in for the recording clock.
func (w *Whisper) TranscribeFile(ctx context.Context, path string) ([]store.TranscriptSegment, error) {
	base := time.Now().UTC()
	if info, err := os.Stat(path); err == nil {
		base = info.ModTime().UTC()
	}

	cues, err := w.run(ctx, path)
	if err != nil {
		return nil, err
	}

	segments := make([]store.TranscriptSegment, 0, len(cues))
	for _, cue := range cues {
		segments = append(segments, store.TranscriptSegment{
			StartedAt: base.Add(cue.Start),
			EndedAt:   base.Add(cue.End),
			Text:      cue.Text,
		})
	}
	return segments, nil
}

// run invokes whisper.cpp on audioPath and parses the SRT it produces.
func (w *Whisper) run(ctx context.Context, audioPath string) ([]srtCue, error) {
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	args := []string{
		"-m", w.modelPath,
		"-f", audioPath,
		"-osrt",
		"-l", w.language,
		"-t", strconv.Itoa(w.threads),
		"--output-file", outputPrefix,
	}

	if _, err := w.executor.Execute(ctx, w.binaryPath, args...); err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w", err)
	}

	srtPath := outputPrefix + ".srt"
	defer os.Remove(srtPath)

	content, err := os.ReadFile(srtPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	cues := parseSRT(string(content))
	w.logger.Debug(ctx, "Transcribed %s: %d cues", audioPath, len(cues))
	return cues, nil
}
