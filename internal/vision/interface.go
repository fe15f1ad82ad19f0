package vision

import (
	"context"

	"github.com/romabozhanovgithub/callyfy/internal/store"
)

// ScreenGrabber is the screen-capture contract. Capture writes one frame
// into outputDir and returns the image path.
type ScreenGrabber interface {
	Capture(ctx context.Context, meetingID, outputDir string) (string, error)
}

// VisionModel is the vision-language contract. Embed receives the
// description produced by Describe so the embedded text and the
// persisted description never diverge.
type VisionModel interface {
	Describe(ctx context.Context, imagePath string) (string, error)
	Embed(ctx context.Context, imagePath, description string) ([]byte, error)
}

// Vision drives the capture -> describe -> embed -> persist flow.
type Vision interface {
	CaptureScreen(ctx context.Context, meetingID, outputDir string) (*store.ScreenCapture, error)
}
