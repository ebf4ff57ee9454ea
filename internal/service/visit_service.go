package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"offline-traffic-bot/internal/constant"
	"offline-traffic-bot/internal/dto"
	"offline-traffic-bot/internal/entity"
	"offline-traffic-bot/internal/flow"
	"offline-traffic-bot/internal/pkg/logger"
	"offline-traffic-bot/internal/repository/contract"
	"offline-traffic-bot/internal/repository/memory"
	"offline-traffic-bot/pkg/fieldparse"

	"github.com/cenkalti/backoff/v5"
)

const msgUnknownSession = "Активного визита нет. Отправьте голосовое сообщение или /start, чтобы начать."

type IVisitService interface {
	StartSession(ctx context.Context, sessionID, transcription string, fields dto.ExtractedFields, ts time.Time) dto.StepReply
	SubmitAnswer(ctx context.Context, sessionID, answer string) dto.StepReply
	SkipNote(ctx context.Context, sessionID string) dto.StepReply
	ReportProblem(ctx context.Context, sessionID string) dto.StepReply
	Cancel(sessionID string) bool
	HasSession(sessionID string) bool
}

type visitService struct {
	sessionRepo  *memory.SessionRepository
	rowStore     contract.RowStoreRepository
	fallback     contract.FallbackRepository
	publisher    IPublisherService
	logger       logger.ILogger
	saveAttempts int
}

func NewVisitService(
	sessionRepo *memory.SessionRepository,
	rowStore contract.RowStoreRepository,
	fallback contract.FallbackRepository,
	publisher IPublisherService,
	sysLogger logger.ILogger,
	saveAttempts int,
) IVisitService {
	if saveAttempts < 1 {
		saveAttempts = 3
	}
	return &visitService{
		sessionRepo:  sessionRepo,
		rowStore:     rowStore,
		fallback:     fallback,
		publisher:    publisher,
		logger:       sysLogger,
		saveAttempts: saveAttempts,
	}
}

// StartSession opens a conversation for one visit. A session already open for
// the same id is discarded: the newest voice note wins.
func (s *visitService) StartSession(ctx context.Context, sessionID, transcription string, fields dto.ExtractedFields, ts time.Time) dto.StepReply {
	conv := flow.NewConversation(transcription, ts)
	conv.ApplyExtraction(fields)
	conv.SeedQuantityGuess()
	s.sessionRepo.Save(sessionID, conv)

	s.logger.Info("visit", "session started", map[string]interface{}{
		"session_id": sessionID,
		"extracted":  len(fields),
		"cursor":     string(conv.Cursor()),
	})

	return s.askCurrent(conv)
}

// SubmitAnswer feeds one typed answer into the session's conversation. The
// reply is the next question, a correction hint with the same question, or
// the terminal outcome once the record is complete.
func (s *visitService) SubmitAnswer(ctx context.Context, sessionID, answer string) dto.StepReply {
	conv, ok := s.sessionRepo.Get(sessionID)
	if !ok {
		return dto.StepReply{ErrorHint: msgUnknownSession}
	}

	if conv.InFeedback() {
		s.publishEvent(ctx, constant.EventFeedback, fieldparse.Sanitize(answer, 1000))
		if conv.FeedbackOnly() {
			s.sessionRepo.Delete(sessionID)
			return dto.StepReply{ErrorHint: "Спасибо! Сообщение передано команде."}
		}
		conv.LeaveFeedback()
		s.sessionRepo.Save(sessionID, conv)
		return s.askCurrent(conv)
	}

	if hint := conv.ProcessAnswer(answer); hint != "" {
		s.publishEvent(ctx, constant.EventValidationError,
			fmt.Sprintf("%s: %s", conv.Cursor(), fieldparse.Sanitize(answer, 100)))
		reply := s.askCurrent(conv)
		reply.ErrorHint = hint
		return reply
	}

	if conv.Complete() {
		outcome := s.finalizeAndSave(ctx, conv)
		s.sessionRepo.Delete(sessionID)
		return dto.StepReply{Outcome: &outcome}
	}

	s.sessionRepo.Save(sessionID, conv)
	return s.askCurrent(conv)
}

// SkipNote completes the conversation with an empty note. Only valid while
// the note question is the open one.
func (s *visitService) SkipNote(ctx context.Context, sessionID string) dto.StepReply {
	conv, ok := s.sessionRepo.Get(sessionID)
	if !ok {
		return dto.StepReply{ErrorHint: msgUnknownSession}
	}
	if !conv.SkipNote() {
		reply := s.askCurrent(conv)
		reply.ErrorHint = "Пропустить можно только вопрос про заметку."
		return reply
	}
	outcome := s.finalizeAndSave(ctx, conv)
	s.sessionRepo.Delete(sessionID)
	return dto.StepReply{Outcome: &outcome}
}

// ReportProblem parks the current question and opens the feedback prompt. The
// next answer is captured as feedback and the interrupted question re-asked.
func (s *visitService) ReportProblem(ctx context.Context, sessionID string) dto.StepReply {
	conv, ok := s.sessionRepo.Get(sessionID)
	if !ok {
		// Feedback outside a session is still worth keeping.
		conv = flow.NewFeedbackConversation(time.Now())
	}
	conv.EnterFeedback()
	s.sessionRepo.Save(sessionID, conv)
	return s.askCurrent(conv)
}

func (s *visitService) Cancel(sessionID string) bool {
	if _, ok := s.sessionRepo.Get(sessionID); !ok {
		return false
	}
	s.sessionRepo.Delete(sessionID)
	return true
}

func (s *visitService) HasSession(sessionID string) bool {
	_, ok := s.sessionRepo.Get(sessionID)
	return ok
}

func (s *visitService) askCurrent(conv *flow.Conversation) dto.StepReply {
	prompt, choices := conv.Question()
	return dto.StepReply{Question: &dto.Question{Prompt: prompt, Choices: choices}}
}

// finalizeAndSave runs the one-shot validation gate and persists the row.
// A row that fails the primary store after all retries goes to the local
// fallback file so the visit is never silently lost.
func (s *visitService) finalizeAndSave(ctx context.Context, conv *flow.Conversation) dto.Outcome {
	res := flow.Finalize(conv.Record)
	if !res.Valid {
		s.publishEvent(ctx, constant.EventValidationError, strings.Join(res.Errors, "; "))
		s.logger.Warn("visit", "record rejected", map[string]interface{}{
			"errors": res.Errors,
		})
		return dto.Outcome{Status: constant.OutcomeRejected, Messages: res.Messages()}
	}

	if err := s.appendWithRetry(ctx, res.Record); err != nil {
		s.logger.Error("visit", "primary save failed", map[string]interface{}{
			"error": err.Error(),
		})
		s.publishEvent(ctx, constant.EventSaveFailure, err.Error())

		if ferr := s.fallback.PersistFailed(res.Record.FieldMap(), err.Error(), time.Now()); ferr != nil {
			s.logger.Error("visit", "fallback save failed", map[string]interface{}{
				"error": ferr.Error(),
			})
		}
		return dto.Outcome{Status: constant.OutcomeSavedLocally, Messages: res.Warnings}
	}

	s.publishEvent(ctx, constant.EventSaveSuccess, "")
	if len(res.Warnings) > 0 {
		return dto.Outcome{Status: constant.OutcomeSavedWithWarnings, Messages: res.Warnings}
	}
	return dto.Outcome{Status: constant.OutcomeSaved}
}

// appendWithRetry maps the record onto the live header row and appends it.
// Headers are trimmed and matched case-insensitively: the sheet is authored
// by non-engineers. An unreadable header row falls back to the canonical
// column order.
func (s *visitService) appendWithRetry(ctx context.Context, rec entity.VisitRecord) error {
	headers, err := s.rowStore.Headers(ctx)
	if err != nil || len(headers) == 0 {
		if err != nil {
			s.logger.Warn("visit", "header row unavailable, using canonical order", map[string]interface{}{
				"error": err.Error(),
			})
		}
		headers = entity.SheetColumns
	}

	fields := rec.FieldMap()
	lookup := make(map[string]string, len(fields))
	for name, value := range fields {
		lookup[strings.ToLower(name)] = value
	}
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = lookup[strings.ToLower(strings.TrimSpace(h))]
	}

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, s.rowStore.Append(ctx, row)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(s.saveAttempts)),
	)
	return err
}

// publishEvent is fire-and-forget: analytics must never block or fail a save.
func (s *visitService) publishEvent(ctx context.Context, event, detail string) {
	payload, err := json.Marshal(dto.AnalyticsEvent{Event: event, Detail: detail, At: time.Now()})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Warn("visit", "event publish failed", map[string]interface{}{
			"event": event,
			"error": err.Error(),
		})
	}
}
