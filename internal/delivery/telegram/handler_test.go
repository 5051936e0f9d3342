package telegram

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
	"github.com/aliskhannn/revision-tracker-bot/internal/service"
	"github.com/aliskhannn/revision-tracker-bot/internal/storage"
	"github.com/aliskhannn/revision-tracker-bot/internal/storage/memory"
)

const (
	testUser int64 = 42
	testChat int64 = 4200
)

type fakeBot struct {
	mu        sync.Mutex
	nextID    int
	sent      []tgbotapi.Chattable
	requested []tgbotapi.Chattable
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.sent = append(b.sent, c)
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requested = append(b.requested, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

// lastText returns the text of the most recent message or edit.
func (b *fakeBot) lastText(t *testing.T) string {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.sent) == 0 {
		t.Fatalf("nothing was sent")
	}
	switch c := b.sent[len(b.sent)-1].(type) {
	case tgbotapi.MessageConfig:
		return c.Text
	case tgbotapi.EditMessageTextConfig:
		return c.Text
	default:
		t.Fatalf("unexpected chattable %T", c)
		return ""
	}
}

func (b *fakeBot) lastToast(t *testing.T) string {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requested) - 1; i >= 0; i-- {
		if cb, ok := b.requested[i].(tgbotapi.CallbackConfig); ok {
			return cb.Text
		}
	}
	t.Fatalf("no callback answered")
	return ""
}

type handlerFixture struct {
	bot       *fakeBot
	handler   *Handler
	revisions *service.RevisionService
	topics    *service.TopicService
}

func newHandlerFixture(t *testing.T, now time.Time) *handlerFixture {
	t.Helper()

	store := memory.New()
	repos := store.Repositories()
	opt := service.WithClock(func() time.Time { return now })

	topics := service.NewTopicService(repos, store, opt)
	revisions := service.NewRevisionService(repos, store, opt)
	bot := &fakeBot{}

	h := NewHandler(bot, zap.NewNop(), Services{
		Users:     service.NewUserService(repos, store, opt),
		Topics:    topics,
		Revisions: revisions,
		Reset:     service.NewResetService(repos, store, opt),
		Settings:  service.NewSettingsService(repos, store, opt),
		Agenda:    service.NewAgendaService(repos, opt),
		Reminders: service.NewReminderService(repos, store, "", zap.NewNop(), opt),
	}, storage.NewListingStorage())

	return &handlerFixture{bot: bot, handler: h, revisions: revisions, topics: topics}
}

func (f *handlerFixture) command(text string) {
	cmdLen := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		cmdLen = i
	}
	f.handler.handleUpdate(context.Background(), tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: testUser, UserName: "student"},
			Chat:      &tgbotapi.Chat{ID: testChat},
			Text:      text,
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
		},
	})
}

func (f *handlerFixture) callback(data string) {
	f.handler.handleUpdate(context.Background(), tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb",
			From:    &tgbotapi.User{ID: testUser},
			Message: &tgbotapi.Message{MessageID: 99, Chat: &tgbotapi.Chat{ID: testChat}},
			Data:    data,
		},
	})
}

// addSubTopic runs the chat flow that creates one easy subtopic studied on 2024-01-01.
func (f *handlerFixture) addSubTopic(t *testing.T) *entities.SubTopic {
	t.Helper()

	f.command("/addtopic Maths | calculus")
	f.command("/topics")
	f.command("/addsub 1 | Integrals | easy | 2024-01-01")

	subs, err := f.topics.ListSubTopics(context.Background(), testUser)
	if err != nil || len(subs) != 1 {
		t.Fatalf("ListSubTopics = %v, %v", subs, err)
	}
	return subs[0]
}

func TestAddSubTopicFlow(t *testing.T) {
	f := newHandlerFixture(t, time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC))
	sub := f.addSubTopic(t)

	if sub.Title != "Integrals" || sub.Difficulty != entities.DifficultyEasy {
		t.Fatalf("unexpected subtopic %+v", sub)
	}
	text := f.bot.lastText(t)
	if !strings.Contains(text, "Integrals") || !strings.Contains(text, "overdue") {
		t.Fatalf("schedule message = %q", text)
	}
}

func TestAddSubTopicUnknownNumber(t *testing.T) {
	f := newHandlerFixture(t, time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC))

	f.command("/addsub 3 | Integrals | easy")
	if got := f.bot.lastText(t); got != msgUnknownTopic {
		t.Fatalf("reply = %q", got)
	}
}

func TestReviewCallbackMarksNextSlot(t *testing.T) {
	f := newHandlerFixture(t, time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC))
	sub := f.addSubTopic(t)

	f.callback(buildReviewCallback(sub.ID))
	if got := f.bot.lastToast(t); got != "✅ Revision #1 done" {
		t.Fatalf("toast = %q", got)
	}

	tracked, err := f.revisions.Tracked(context.Background(), testUser, sub.ID)
	if err != nil {
		t.Fatalf("Tracked: %v", err)
	}
	if tracked.Schedule.ReviewCount != 1 || !tracked.Schedule.ReviewStatuses[0] {
		t.Fatalf("schedule after review = %+v", tracked.Schedule)
	}
}

func TestToggleAndRescheduleCallbacks(t *testing.T) {
	f := newHandlerFixture(t, time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC))
	sub := f.addSubTopic(t)
	ctx := context.Background()

	f.callback(buildToggleCallback(sub.ID, 3, true))
	tracked, _ := f.revisions.Tracked(ctx, testUser, sub.ID)
	if !tracked.Schedule.ReviewStatuses[2] {
		t.Fatalf("slot 3 not completed: %v", tracked.Schedule.ReviewStatuses)
	}

	f.callback(buildRescheduleCallback(sub.ID))
	if got := f.bot.lastToast(t); got != msgShifted {
		t.Fatalf("toast = %q", got)
	}

	tracked, _ = f.revisions.Tracked(ctx, testUser, sub.ID)
	first := entities.KeyOf(tracked.PlannedDates()[0], time.UTC).String()
	if first != "2024-01-11" {
		t.Fatalf("first revision after reschedule = %s, want 2024-01-11", first)
	}

	f.callback(buildRescheduleCallback(sub.ID))
	if got := f.bot.lastToast(t); got != msgNothingToShift {
		t.Fatalf("second reschedule toast = %q", got)
	}
}

func TestCallbackErrors(t *testing.T) {
	f := newHandlerFixture(t, time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC))
	sub := f.addSubTopic(t)

	f.callback(buildToggleCallback(sub.ID, 9, true))
	if got := f.bot.lastToast(t); !strings.Contains(got, "revision number 9") {
		t.Fatalf("out of range toast = %q", got)
	}

	f.callback("rv:garbage")
	if got := f.bot.lastToast(t); got != msgInternalError {
		t.Fatalf("malformed toast = %q", got)
	}
}

func TestResetFlow(t *testing.T) {
	f := newHandlerFixture(t, time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC))
	sub := f.addSubTopic(t)
	ctx := context.Background()

	if _, err := f.revisions.MarkNextReviewed(ctx, testUser, sub.ID); err != nil {
		t.Fatalf("MarkNextReviewed: %v", err)
	}

	f.command("/reset")
	if got := f.bot.lastText(t); got != msgResetPrompt {
		t.Fatalf("prompt = %q", got)
	}

	f.callback(buildResetConfirmCallback())
	tracked, _ := f.revisions.Tracked(ctx, testUser, sub.ID)
	if tracked.Schedule.ReviewCount != 0 {
		t.Fatalf("review count after reset = %d", tracked.Schedule.ReviewCount)
	}
}

func TestRemindersCommand(t *testing.T) {
	f := newHandlerFixture(t, time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC))

	f.command("/reminders 19")
	if got := f.bot.lastText(t); got != "🔔 Daily digest: 19:00" {
		t.Fatalf("reply = %q", got)
	}

	f.command("/reminders off")
	if got := f.bot.lastText(t); got != "🔕 Daily digest: off" {
		t.Fatalf("reply = %q", got)
	}

	f.command("/reminders 25")
	if got := f.bot.lastText(t); !strings.Contains(got, "hour must be within 0..23") {
		t.Fatalf("reply = %q", got)
	}
}

func TestUnknownCommand(t *testing.T) {
	f := newHandlerFixture(t, time.Now())

	f.command("/dance")
	if got := f.bot.lastText(t); got != msgUnknownCommand {
		t.Fatalf("reply = %q", got)
	}
}

func TestNotifierReplacesPreviousDigest(t *testing.T) {
	bot := &fakeBot{}
	now := time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC)
	n := NewNotifier(bot, zap.NewNop(), storage.NewDigestStorage(), func() time.Time { return now })

	payload := entities.DigestPayload{Summary: entities.TodaySummary{Date: entities.KeyOf(now, time.UTC)}}
	for range 2 {
		if err := n.SendDigest(context.Background(), testChat, payload, time.UTC); err != nil {
			t.Fatalf("SendDigest: %v", err)
		}
	}

	if len(bot.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(bot.sent))
	}
	if len(bot.requested) != 1 {
		t.Fatalf("requests = %d, want one delete", len(bot.requested))
	}
	del, ok := bot.requested[0].(tgbotapi.DeleteMessageConfig)
	if !ok || del.MessageID != 1 || del.ChatID != testChat {
		t.Fatalf("delete request = %#v", bot.requested[0])
	}
}
