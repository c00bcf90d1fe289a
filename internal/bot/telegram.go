package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	commandStart              = "start"
	commandOnboardingComplete = "onboarding_complete"
)

// sender is the part of *tgbotapi.BotAPI replies need.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram feeds long-polled updates into a Handler, one goroutine per event.
type Telegram struct {
	api     *tgbotapi.BotAPI
	handler *Handler
	logger  *slog.Logger
}

func NewTelegram(token string, h *Handler, logger *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}

	logger.Info("[bot] authorized", slog.String("username", api.Self.UserName))

	return &Telegram{api: api, handler: h, logger: logger}, nil
}

// Run polls until ctx is cancelled, then waits for in-flight events. Handlers
// run detached from ctx so a shutdown does not cut a forwarding call short.
func (t *Telegram) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.api.GetUpdatesChan(u)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			t.logger.Info("[bot] polling stopped")
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}

			ev, ok := Classify(update.Message)
			if !ok {
				continue
			}

			r := newTelegramReplier(t.api, update.Message)

			wg.Add(1)
			go func() {
				defer wg.Done()
				t.dispatch(context.WithoutCancel(ctx), ev, r)
			}()
		}
	}
}

func (t *Telegram) dispatch(ctx context.Context, ev Event, r Replier) {
	if err := t.handler.Handle(ctx, ev, r); err != nil {
		t.logger.ErrorContext(ctx, "[bot] reply failed",
			slog.String("trigger", ev.Trigger.String()),
			slog.Int64("chat_id", ev.ChatID),
			slog.Any("error", err),
		)
	}
}

// Classify maps a Telegram message onto a trigger. /start and
// /onboarding_complete work in any chat; plain text only counts in groups.
func Classify(msg *tgbotapi.Message) (Event, bool) {
	if msg == nil || msg.Chat == nil {
		return Event{}, false
	}

	ev := Event{
		Text:     msg.Text,
		UserName: userName(msg.From),
		ChatID:   msg.Chat.ID,
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case commandStart:
			ev.Trigger = TriggerStart
		case commandOnboardingComplete:
			ev.Trigger = TriggerOnboardingComplete
		default:
			return Event{}, false
		}
		return ev, true
	}

	if msg.Text == "" || !(msg.Chat.IsGroup() || msg.Chat.IsSuperGroup()) {
		return Event{}, false
	}

	ev.Trigger = TriggerGroupMessage
	return ev, true
}

func userName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}

type telegramReplier struct {
	api     sender
	chatID  int64
	replyTo int
}

// newTelegramReplier quotes the triggering message in group chats only.
func newTelegramReplier(api sender, msg *tgbotapi.Message) *telegramReplier {
	r := &telegramReplier{api: api, chatID: msg.Chat.ID}
	if msg.Chat.IsGroup() || msg.Chat.IsSuperGroup() {
		r.replyTo = msg.MessageID
	}
	return r
}

func (r *telegramReplier) Reply(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(r.chatID, text)
	msg.ReplyToMessageID = r.replyTo

	_, err := r.api.Send(msg)
	return err
}
