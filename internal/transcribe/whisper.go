package transcribe

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sashabaranov/go-openai"
)

// Whisper is the general-purpose hosted speech-to-text backend. No
// size ceiling, no internal retry: one synchronous call.
type Whisper struct {
	client *openai.Client
}

func NewWhisper(apiKey string) *Whisper {
	return &Whisper{client: openai.NewClient(apiKey)}
}

func (w *Whisper) Transcribe(ctx context.Context, p Payload, language string) (string, error) {
	// The upload filename carries the media type, sniffed from the
	// leading bytes of the clip.
	mt := mimetype.Detect(p.Data)
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(p.Data),
		FilePath: "audio" + mt.Extension(),
		Format:   openai.AudioResponseFormatText,
		Language: language,
	}
	resp, err := w.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}
	return resp.Text, nil
}
