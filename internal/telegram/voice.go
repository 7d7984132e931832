package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"voice-chatter/internal/dialogue"
	"voice-chatter/internal/transcribe"
)

// handleVoice downloads the clip, routes it to a transcription backend
// and replies with the transcript. Any failure along the way turns
// into a user-visible notice rather than a silent drop.
func (b *Bot) handleVoice(ctx context.Context, msg *tgbotapi.Message) {
	transcript, err := b.transcribeMessage(ctx, msg)
	if err != nil {
		log.Printf("transcription failed for message %d: %v", msg.MessageID, err)
		b.replyError(msg, err)
		return
	}
	for _, chunk := range dialogue.SplitMessage(transcript, b.maxLen) {
		if _, err := b.reply(msg, chunk, ""); err != nil {
			log.Printf("failed to send transcript chunk: %v", err)
			return
		}
	}
}

func (b *Bot) transcribeMessage(ctx context.Context, msg *tgbotapi.Message) (string, error) {
	var fileID, fileUniqueID string
	var duration int
	switch {
	case msg.Voice != nil:
		fileID, fileUniqueID, duration = msg.Voice.FileID, msg.Voice.FileUniqueID, msg.Voice.Duration
	case msg.Audio != nil:
		fileID, fileUniqueID, duration = msg.Audio.FileID, msg.Audio.FileUniqueID, msg.Audio.Duration
	default:
		return "", fmt.Errorf("can handle only voice and audio messages")
	}

	if text, ok := b.cache.Get(ctx, fileUniqueID); ok {
		log.Printf("transcript cache hit for %s", fileUniqueID)
		return text, nil
	}

	data, err := b.downloadFile(fileID)
	if err != nil {
		return "", err
	}

	payload := transcribe.Payload{Data: data, Duration: duration}
	log.Printf("Audio size: %.2f MB; duration: %d sec.", payload.SizeMB(), duration)

	text, err := b.router.Pick(payload).Transcribe(ctx, payload, "")
	if err != nil {
		return "", err
	}
	b.cache.Set(ctx, fileUniqueID, text)
	return text, nil
}

func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.s.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	resp, err := http.Get(file.Link(b.api.Token))
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	return data, nil
}
