package telegram

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"voice-chatter/internal/auth"
	"voice-chatter/internal/chain"
	"voice-chatter/internal/dialogue"
	"voice-chatter/internal/report"
	"voice-chatter/internal/store"
	"voice-chatter/internal/transcribe"
)

const chatCmd = "chat"

// RecordLister is the slice of the store the daily report needs.
type RecordLister interface {
	ListSince(ctx context.Context, since time.Time) ([]store.Record, error)
}

// Bot is the per-update entry point: it authorizes the user, then
// routes the update to transcription or dialogue handling.
type Bot struct {
	api       *tgbotapi.BotAPI
	s         sender
	authSvc   *auth.Service
	resolver  *chain.Resolver
	engine    *dialogue.Engine
	router    *transcribe.Router
	cache     *transcribe.Cache
	lister    RecordLister
	maxLen    int
	parseMode string
	adminID   int64
}

func New(
	botToken string,
	authSvc *auth.Service,
	resolver *chain.Resolver,
	engine *dialogue.Engine,
	router *transcribe.Router,
	cache *transcribe.Cache,
	lister RecordLister,
	maxLen int,
	parseMode string,
	adminID int64,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:       api,
		s:         botAPISender{api: api},
		authSvc:   authSvc,
		resolver:  resolver,
		engine:    engine,
		router:    router,
		cache:     cache,
		lister:    lister,
		maxLen:    maxLen,
		parseMode: parseMode,
		adminID:   adminID,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		msg := update.Message
		// Updates are independent events: each one gets its own
		// goroutine so a slow backend call never blocks the rest.
		go b.handleIncomingMessage(ctx, msg)
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	if msg.IsCommand() && msg.Command() == "start" {
		b.sendMessage(msg.Chat.ID, "I'm alive, yeah! Do I know you?")
		return
	}

	allowed, err := b.authSvc.Authorize(ctx, msg.From.ID, "")
	if err != nil {
		log.Printf("authorization check failed for %d: %v", msg.From.ID, err)
		return
	}
	if !allowed {
		log.Printf("Unauthorized access by user_id: %d", msg.From.ID)
		b.sendMessage(msg.Chat.ID,
			fmt.Sprintf("У вас нет доступа к этому боту. Обратитесь к администратору (user id: %d).", msg.From.ID))
		return
	}

	switch {
	case msg.Voice != nil || msg.Audio != nil:
		if msg.Chat.IsPrivate() {
			b.handleVoice(ctx, msg)
		}
	case msg.IsCommand():
		if msg.Command() == chatCmd {
			b.handleChat(ctx, msg)
		}
	case msg.Text != "":
		b.handleText(ctx, msg)
	}
}

// handleText logs every plain text message and, when it replies to an
// active conversation, continues that conversation with full context.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	var replyTo *int
	if msg.ReplyToMessage != nil {
		id := msg.ReplyToMessage.MessageID
		replyTo = &id
	}
	if err := b.engine.TrackUser(ctx, msg.MessageID, replyTo, msg.Text); err != nil {
		log.Printf("failed to track message %d: %v", msg.MessageID, err)
	}

	if replyTo == nil {
		return
	}
	chainRecs := b.resolver.Resolve(ctx, *replyTo)
	if len(chainRecs) == 0 {
		return
	}
	log.Printf("%d messages were added into the context", len(chainRecs))
	b.respond(ctx, msg, chainRecs, msg.Text)
}

// handleChat starts a fresh conversation: /chat ignores prior history.
func (b *Bot) handleChat(ctx context.Context, msg *tgbotapi.Message) {
	b.respond(ctx, msg, nil, removeCommand(msg.Text))
}

func (b *Bot) respond(ctx context.Context, msg *tgbotapi.Message, chainRecs []store.Record, utterance string) {
	chunks, resp, err := b.engine.Respond(ctx, chainRecs, utterance)
	if err != nil {
		log.Printf("failed to generate response: %v", err)
		b.replyError(msg, err)
		return
	}
	for _, chunk := range chunks {
		sent, err := b.reply(msg, markdownToHTML(chunk), b.parseMode)
		if err != nil {
			log.Printf("failed to send response chunk: %v", err)
			return
		}
		if err := b.engine.PersistAssistant(ctx, sent.MessageID, msg.MessageID, resp.Content); err != nil {
			log.Printf("failed to persist response chunk %d: %v", sent.MessageID, err)
		}
	}
}

func (b *Bot) reply(msg *tgbotapi.Message, text, parseMode string) (tgbotapi.Message, error) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	if parseMode != "" {
		out.ParseMode = parseMode
	}
	return b.s.Send(out)
}

func (b *Bot) replyError(msg *tgbotapi.Message, err error) {
	if _, sendErr := b.reply(msg, "Ошибочка: "+err.Error(), ""); sendErr != nil {
		log.Printf("failed to send error notice: %v", sendErr)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

// ReportDaily sends yesterday-to-now usage stats to the admin chat.
// Wired into the cron scheduler from main.
func (b *Bot) ReportDaily(ctx context.Context) error {
	if b.lister == nil || b.adminID == 0 {
		return nil
	}
	now := time.Now().UTC()
	recs, err := b.lister.ListSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return err
	}
	stats := report.Build(recs, now)
	b.sendMessage(b.adminID, stats.Summary())
	return nil
}
