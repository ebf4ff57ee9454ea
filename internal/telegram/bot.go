package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"offline-traffic-bot/internal/constant"
	"offline-traffic-bot/internal/dto"
	"offline-traffic-bot/internal/pkg/logger"
	"offline-traffic-bot/internal/service"
	"offline-traffic-bot/pkg/extract"
	"offline-traffic-bot/pkg/stt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const transcriptEchoLimit = 800

const msgGreeting = `Привет! Я записываю визиты клиентов в таблицу.

Отправьте голосовую заметку о визите, и я задам уточняющие вопросы.

Команды:
/skip — пропустить заметку в конце
/cancel — отменить текущий визит
/problem — сообщить о проблеме`

// Bot is the Telegram transport. All conversation logic lives in the visit
// service; the bot only moves messages and files.
type Bot struct {
	api          *tgbotapi.BotAPI
	visitService service.IVisitService
	sttClient    *stt.Client
	extractor    *extract.GeminiExtractor
	logger       logger.ILogger
	httpClient   *http.Client
	chatLocks    sync.Map // sessionID -> *sync.Mutex
}

func New(
	token string,
	debug bool,
	visitService service.IVisitService,
	sttClient *stt.Client,
	extractor *extract.GeminiExtractor,
	sysLogger logger.ILogger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth failed: %w", err)
	}
	api.Debug = debug

	sysLogger.Info("telegram", "authorized", map[string]interface{}{
		"username": api.Self.UserName,
	})

	return &Bot{
		api:          api,
		visitService: visitService,
		sttClient:    sttClient,
		extractor:    extractor,
		logger:       sysLogger,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Start runs the long-poll loop until the context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	sessionID := strconv.FormatInt(chatID, 10)

	// Updates from different chats run in parallel, but the conversation is
	// single-writer: two quick messages from the same chat must not mutate
	// the same session concurrently.
	mu := b.chatLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, sessionID, msg.Command())
		return
	}

	if msg.Voice != nil {
		b.handleVoice(ctx, chatID, sessionID, msg.Voice)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	// Text without an open session starts a visit the same way a voice note
	// would, just without the transcription step.
	if !b.visitService.HasSession(sessionID) {
		b.startVisit(ctx, chatID, sessionID, text)
		return
	}

	b.sendReply(chatID, b.visitService.SubmitAnswer(ctx, sessionID, text))
}

func (b *Bot) chatLock(sessionID string) *sync.Mutex {
	mu, _ := b.chatLocks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, sessionID, command string) {
	switch command {
	case "start", "help":
		b.sendText(chatID, msgGreeting, nil)
	case "skip":
		b.sendReply(chatID, b.visitService.SkipNote(ctx, sessionID))
	case "cancel":
		if b.visitService.Cancel(sessionID) {
			b.sendText(chatID, "Визит отменён, ничего не записано.", nil)
		} else {
			b.sendText(chatID, "Отменять нечего, активного визита нет.", nil)
		}
	case "problem":
		b.sendReply(chatID, b.visitService.ReportProblem(ctx, sessionID))
	default:
		b.sendText(chatID, "Не знаю такую команду. /help — список команд.", nil)
	}
}

func (b *Bot) handleVoice(ctx context.Context, chatID int64, sessionID string, voice *tgbotapi.Voice) {
	b.sendText(chatID, "🎙 Расшифровываю...", nil)

	// A failed or empty transcription degrades the visit instead of dropping
	// it: the session starts with an empty transcript and every question is
	// asked from the top.
	transcription, err := b.transcribeVoice(ctx, voice)
	if err != nil {
		b.logger.Error("telegram", "voice transcription failed", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
		b.sendText(chatID, "Не получилось расшифровать голосовое. Я все равно сохраню визит, но без текста.", nil)
		b.startVisit(ctx, chatID, sessionID, "")
		return
	}

	if strings.TrimSpace(transcription) == "" {
		b.sendText(chatID, "В записи не слышно слов. Я все равно сохраню визит, но без текста.", nil)
		b.startVisit(ctx, chatID, sessionID, "")
		return
	}

	b.sendText(chatID, "📝 "+truncateRunes(transcription, transcriptEchoLimit), nil)
	b.startVisit(ctx, chatID, sessionID, transcription)
}

func (b *Bot) startVisit(ctx context.Context, chatID int64, sessionID, transcription string) {
	fields := dto.ExtractedFields{}
	if b.extractor != nil {
		extracted, err := b.extractor.Extract(ctx, transcription)
		if err != nil {
			// Extraction is best-effort: the conversation just asks
			// everything from the top.
			b.logger.Warn("telegram", "field extraction failed", map[string]interface{}{
				"chat_id": chatID,
				"error":   err.Error(),
			})
		} else {
			fields = extracted
		}
	}

	b.sendReply(chatID, b.visitService.StartSession(ctx, sessionID, transcription, fields, time.Now()))
}

func (b *Bot) transcribeVoice(ctx context.Context, voice *tgbotapi.Voice) (string, error) {
	fileURL, err := b.api.GetFileDirectURL(voice.FileID)
	if err != nil {
		return "", fmt.Errorf("resolve voice file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", fileURL, nil)
	if err != nil {
		return "", err
	}
	res, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download voice file: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download voice file: status %d", res.StatusCode)
	}

	return b.sttClient.Transcribe(ctx, voice.FileID+".ogg", res.Body)
}

func (b *Bot) sendReply(chatID int64, reply dto.StepReply) {
	if reply.ErrorHint != "" {
		b.sendText(chatID, reply.ErrorHint, nil)
	}
	if reply.Question != nil {
		b.sendText(chatID, reply.Question.Prompt, reply.Question.Choices)
	}
	if reply.Outcome != nil {
		b.sendText(chatID, outcomeText(reply.Outcome), nil)
	}
}

func (b *Bot) sendText(chatID int64, text string, choices []string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(choices) > 0 {
		rows := make([][]tgbotapi.KeyboardButton, 0, len(choices))
		for _, c := range choices {
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(c)))
		}
		keyboard := tgbotapi.NewReplyKeyboard(rows...)
		keyboard.OneTimeKeyboard = true
		keyboard.ResizeKeyboard = true
		msg.ReplyMarkup = keyboard
	} else {
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("telegram", "send failed", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
	}
}

func outcomeText(outcome *dto.Outcome) string {
	switch outcome.Status {
	case constant.OutcomeSaved:
		return "✅ Визит записан в таблицу."
	case constant.OutcomeSavedWithWarnings:
		return "✅ Визит записан, но есть замечания:\n" + bulletList(outcome.Messages)
	case constant.OutcomeSavedLocally:
		return "⚠️ Таблица недоступна, визит сохранён локально и попадёт в таблицу позже."
	case constant.OutcomeRejected:
		return "❌ Запись не прошла проверку:\n" + bulletList(outcome.Messages)
	default:
		return outcome.Status
	}
}

func bulletList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("— ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
