package engines

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/romabozhanovgithub/callyfy/internal/logger"
	"github.com/romabozhanovgithub/callyfy/internal/store"
	"github.com/romabozhanovgithub/callyfy/internal/summarize"
)

const (
	rollingPrompt = `You are a meeting assistant. Summarize the progress of the meeting so far
from the transcript below. Keep it short: what was discussed, decisions made,
and open threads. Use markdown bullet points.

Transcript:
---
%s
---`

	relevantPrompt = `You are a meeting assistant. From the transcript below, extract only the
points relevant to follow-up work: decisions, action items, owners, and
deadlines. Use markdown bullet points.

Transcript:
---
%s
---`

	finalPrompt = `You are a meeting assistant. Write the final summary of this meeting from
the transcript below: a one-paragraph overview, then sections for decisions,
action items, and open questions. Use markdown headings and bullet points.

Transcript:
---
%s
---`

	describePrompt = `Describe what is visible on this screen capture from a meeting in two or
three sentences. Mention application windows, documents, and any readable
headings.`
)

// Gemini implements the summarization and vision-language contracts
// through the Gemini API. API keys rotate on quota errors. One instance
// is shared by concurrently running jobs, so the key index is guarded.
type Gemini struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
	embedModel string
	store      *store.Store
	logger     logger.Logger
}

// NewGemini creates a Gemini backend rotating through the supplied API
// keys.
func NewGemini(apiKeys []string, model, embedModel string, st *store.Store, log logger.Logger) *Gemini {
	return &Gemini{
		apiKeys:    apiKeys,
		model:      model,
		embedModel: embedModel,
		store:      st,
		logger:     log,
	}
}

// ModelName identifies the generation model for persisted records.
func (g *Gemini) ModelName() string {
	return g.model
}

// Summarize produces summary content of the requested kind from the
// meeting's transcript.
func (g *Gemini) Summarize(ctx context.Context, meetingID string, kind summarize.Kind) (string, error) {
	segments, err := g.store.TranscriptsForMeeting(ctx, meetingID)
	if err != nil {
		return "", fmt.Errorf("load transcript: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteString(seg.Text)
		sb.WriteString("\n")
	}
	transcript := sb.String()
	if strings.TrimSpace(transcript) == "" {
		transcript = "(no transcript yet)"
	}

	var prompt string
	switch kind {
	case summarize.KindRelevant:
		prompt = fmt.Sprintf(relevantPrompt, transcript)
	case summarize.KindFinal:
		prompt = fmt.Sprintf(finalPrompt, transcript)
	default:
		prompt = fmt.Sprintf(rollingPrompt, transcript)
	}

	return g.generate(ctx, genai.Text(prompt))
}

// Describe produces a textual description of a screen capture.
func (g *Gemini) Describe(ctx context.Context, imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(data, "image/png"),
		genai.NewPartFromText(describePrompt),
	}, genai.RoleUser)

	return g.generate(ctx, []*genai.Content{content})
}

// Embed produces an embedding for a screen capture as an opaque byte
// payload (little-endian float32 values over the caller-supplied image
// description).
func (g *Gemini) Embed(ctx context.Context, imagePath, description string) ([]byte, error) {
	if len(g.apiKeys) == 0 {
		return nil, fmt.Errorf("no Gemini API keys configured")
	}

	attempts := len(g.apiKeys)
	var lastErr error

	for range attempts {
		apiKey, keyIdx := g.key()
		client, err := g.client(ctx, apiKey)
		if err != nil {
			lastErr = err
			g.rotateKey()
			continue
		}

		result, err := client.Models.EmbedContent(ctx, g.embedModel, genai.Text(description), nil)
		if err != nil {
			if isQuotaErr(err) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", keyIdx+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("embed content: %w", err)
		}

		if result == nil || len(result.Embeddings) == 0 {
			return nil, fmt.Errorf("empty embedding from Gemini")
		}
		return encodeFloats(result.Embeddings[0].Values), nil
	}

	return nil, fmt.Errorf("all API keys exhausted: %w", lastErr)
}

// generate sends contents to Gemini and returns the response text.
// Rotates API keys on 429 / quota errors.
func (g *Gemini) generate(ctx context.Context, contents []*genai.Content) (string, error) {
	if len(g.apiKeys) == 0 {
		return "", fmt.Errorf("no Gemini API keys configured")
	}

	attempts := len(g.apiKeys)
	var lastErr error

	for range attempts {
		apiKey, keyIdx := g.key()
		client, err := g.client(ctx, apiKey)
		if err != nil {
			lastErr = err
			g.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
		if err != nil {
			if isQuotaErr(err) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", keyIdx+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *Gemini) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func (g *Gemini) key() (string, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.apiKeys[g.currentKey], g.currentKey
}

func (g *Gemini) rotateKey() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}

func isQuotaErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func encodeFloats(values []float32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
