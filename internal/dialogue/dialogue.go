package dialogue

import (
	"context"
	"fmt"
	"log"

	"voice-chatter/internal/llm"
	"voice-chatter/internal/store"
)

// Engine turns a resolved conversation chain plus a fresh utterance
// into one model call and breaks the reply into deliverable chunks.
type Engine struct {
	llmClient    llm.Client
	store        store.Store
	systemPrompt string
	maxLen       int
}

func New(llmClient llm.Client, s store.Store, systemPrompt string, maxLen int) *Engine {
	return &Engine{
		llmClient:    llmClient,
		store:        s,
		systemPrompt: systemPrompt,
		maxLen:       maxLen,
	}
}

// Respond builds the model request as system prompt, then the chain in
// order, then the new user utterance, and issues exactly one model
// call. Failures propagate; there is no retry here. The response text
// comes back split into chunks no longer than the delivery limit.
func (e *Engine) Respond(ctx context.Context, chainRecs []store.Record, utterance string) ([]string, llm.Response, error) {
	msgs := make([]llm.Message, 0, len(chainRecs)+2)
	if e.systemPrompt != "" {
		msgs = append(msgs, llm.Message{Role: store.RoleSystem, Content: e.systemPrompt})
	}
	for _, rec := range chainRecs {
		msgs = append(msgs, llm.Message{Role: rec.Role, Content: rec.Text})
	}
	msgs = append(msgs, llm.Message{Role: store.RoleUser, Content: utterance})

	resp, err := e.llmClient.Generate(ctx, msgs)
	if err != nil {
		return nil, llm.Response{}, fmt.Errorf("llm generate: %w", err)
	}
	log.Printf("LLM use stats: prompt=%d completion=%d total=%d",
		resp.PromptTokens, resp.CompletionTokens, resp.TotalTokens)

	return SplitMessage(resp.Content, e.maxLen), resp, nil
}

// PersistAssistant records one delivered assistant chunk. Every chunk
// points at the triggering user message, not at the previous chunk, so
// a later reply to any of them resolves the same upstream context. The
// stored text is the whole response, not the chunk slice.
func (e *Engine) PersistAssistant(ctx context.Context, id, triggerID int, fullText string) error {
	trigger := triggerID
	return e.store.Put(ctx, store.Record{
		ID:            id,
		Text:          fullText,
		ReplyTo:       &trigger,
		Role:          store.RoleAssistant,
		IsChainMember: true,
	})
}

// TrackUser logs a plain inbound text message so a future reply to it
// can classify itself. Chain membership is inherited from the record
// the message replied to, and is false for fresh messages or when the
// replied-to record is unknown.
func (e *Engine) TrackUser(ctx context.Context, id int, replyTo *int, text string) error {
	isChain := false
	if replyTo != nil {
		target, err := e.store.Get(ctx, *replyTo)
		if err != nil {
			return fmt.Errorf("resolve reply target %d: %w", *replyTo, err)
		}
		if target != nil {
			isChain = target.IsChainMember
		}
	}
	return e.store.Put(ctx, store.Record{
		ID:            id,
		Text:          text,
		ReplyTo:       replyTo,
		Role:          store.RoleUser,
		IsChainMember: isChain,
	})
}

// SplitMessage cuts text into pieces of at most maxLen runes without
// splitting a character. Concatenating the pieces restores the exact
// original text.
func SplitMessage(text string, maxLen int) []string {
	if text == "" {
		return nil
	}
	if maxLen <= 0 {
		return []string{text}
	}
	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+maxLen-1)/maxLen)
	for start := 0; start < len(runes); start += maxLen {
		end := start + maxLen
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
