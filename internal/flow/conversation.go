package flow

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"offline-traffic-bot/internal/dto"
	"offline-traffic-bot/internal/entity"
	"offline-traffic-bot/pkg/fieldparse"
)

// maxAutoSkips bounds the auto-advance sweep so inconsistent pre-filled data
// can never loop the cursor.
const maxAutoSkips = 12

var firstNumber = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// Conversation owns one in-progress record and the cursor over the question
// flow. It is single-writer: only the session's own answer-processing step
// mutates it.
type Conversation struct {
	Record entity.VisitRecord

	cursor         State
	feedbackReturn State
	feedbackOnly   bool
}

func NewConversation(transcription string, ts time.Time) *Conversation {
	return &Conversation{
		Record: entity.NewVisitRecord(transcription, ts),
		cursor: StateTypeClient,
	}
}

// NewFeedbackConversation opens a conversation that exists solely to capture
// one problem report. There is no visit behind it and nothing to resume.
func NewFeedbackConversation(ts time.Time) *Conversation {
	c := NewConversation("", ts)
	c.feedbackOnly = true
	c.EnterFeedback()
	return c
}

func (c *Conversation) FeedbackOnly() bool { return c.feedbackOnly }

func (c *Conversation) Cursor() State { return c.cursor }

func (c *Conversation) Complete() bool { return c.cursor == StateComplete }

func (c *Conversation) InFeedback() bool { return c.cursor == StateFeedback }

// Question returns the prompt and optional choice menu for the current
// cursor position.
func (c *Conversation) Question() (string, []string) {
	return Question(c.cursor)
}

// ProcessAnswer validates and stores one typed answer. A non-empty return is
// the correction hint shown to the operator; the cursor has not moved. On
// success the cursor advances and the auto-advance sweep skips any questions
// whose fields are already filled.
func (c *Conversation) ProcessAnswer(raw string) string {
	answer := strings.TrimSpace(raw)

	switch c.cursor {
	case StateFeedback:
		// Feedback text is captured by the caller; the record stays untouched.
		return ""
	case StateTypeClient:
		c.Record.TypeOfClient = matchOrFree(answer, entity.ClientTypes, 50)
	case StateBehavior:
		c.Record.Behavior = matchOrFree(answer, entity.Behaviors, 50)
	case StatePurchaseStatus:
		c.Record.PurchaseStatus = matchOrFree(answer, entity.Statuses, 50)
	case StateTicketAmount:
		num, ok := fieldparse.Number(answer)
		if !ok {
			return hintTicketAmount
		}
		if num < 0 {
			return hintTicketNegative
		}
		c.Record.TicketAmount = &num
	case StateCostPrice:
		num, ok := fieldparse.Number(answer)
		if !ok {
			return hintCostPrice
		}
		if num < 0 {
			return hintCostNegative
		}
		c.Record.CostPrice = &num
	case StateProductInfo:
		name, qty := splitProductInfo(answer)
		c.Record.ProductName = fieldparse.Sanitize(name, 200)
		if qty != nil {
			c.Record.Quantity = qty
		}
	case StateReasonNotBuying:
		c.Record.ReasonNotBuying = matchOrFree(answer, entity.Reasons, 100)
	case StateContactLeft:
		c.storeContact(answer)
	case StateSource:
		c.Record.Source = matchOrFree(answer, entity.Sources, 50)
	case StateShortNote:
		c.Record.ShortNote = fieldparse.Sanitize(answer, 1000)
	default:
		return ""
	}

	c.cursor = next(c.cursor, &c.Record)
	c.autoAdvance()
	return ""
}

// SkipNote completes the conversation with an empty note. Valid only while
// the note question is open.
func (c *Conversation) SkipNote() bool {
	if c.cursor != StateShortNote {
		return false
	}
	c.Record.ShortNote = ""
	c.cursor = StateComplete
	return true
}

// EnterFeedback parks the committed cursor position and switches to the
// feedback question. The record is not written while feedback is open.
func (c *Conversation) EnterFeedback() {
	if c.cursor == StateFeedback {
		return
	}
	c.feedbackReturn = c.cursor
	c.cursor = StateFeedback
}

// LeaveFeedback restores the interrupted question so it can be re-asked.
func (c *Conversation) LeaveFeedback() {
	if c.cursor != StateFeedback {
		return
	}
	c.cursor = c.feedbackReturn
	if c.cursor == "" {
		c.cursor = StateTypeClient
	}
}

// ApplyExtraction merges an untrusted field map (AI-derived) into the record.
// Candidates pass the same validators a typed answer would; the ones that
// fail are dropped silently and the question is asked normally. Populated
// fields then bypass their questions via the auto-advance sweep.
func (c *Conversation) ApplyExtraction(fields dto.ExtractedFields) {
	defer c.autoAdvance()
	if len(fields) == 0 {
		return
	}

	if v, ok := asText(fields[entity.ColTypeOfClient]); ok && c.Record.TypeOfClient == "" {
		if m := fieldparse.MatchEnum(v, entity.ClientTypes); m != "" {
			c.Record.TypeOfClient = m
		}
	}
	if v, ok := asText(fields[entity.ColBehavior]); ok && c.Record.Behavior == "" {
		if m := fieldparse.MatchEnum(v, entity.Behaviors); m != "" {
			c.Record.Behavior = m
		}
	}
	if v, ok := asText(fields[entity.ColPurchaseStatus]); ok && c.Record.PurchaseStatus == "" {
		if m := fieldparse.MatchEnum(v, entity.Statuses); m != "" {
			c.Record.PurchaseStatus = m
		}
	}
	if n, ok := asNumber(fields[entity.ColTicketAmount]); ok && n >= 0 && c.Record.TicketAmount == nil {
		c.Record.TicketAmount = &n
	}
	if n, ok := asNumber(fields[entity.ColCostPrice]); ok && n >= 0 && c.Record.CostPrice == nil {
		c.Record.CostPrice = &n
	}
	if n, ok := asNumber(fields[entity.ColQuantity]); ok && n >= 0 && c.Record.Quantity == nil {
		c.Record.Quantity = &n
	}
	if v, ok := asText(fields[entity.ColProductName]); ok && c.Record.ProductName == "" {
		if s := fieldparse.Sanitize(v, 200); s != "" {
			c.Record.ProductName = s
		}
	}
	if v, ok := asText(fields[entity.ColReasonNotBuying]); ok && c.Record.ReasonNotBuying == "" {
		if m := fieldparse.MatchEnum(v, entity.Reasons); m != "" {
			c.Record.ReasonNotBuying = m
		}
	}
	if v, ok := asText(fields[entity.ColSource]); ok && c.Record.Source == "" {
		if m := fieldparse.MatchEnum(v, entity.Sources); m != "" {
			c.Record.Source = m
		}
	}
	// Contact_left and Short_note are never merged: those questions are
	// always asked.
}

// SeedQuantityGuess pre-fills Quantity with the first number found in the
// transcript. The product question is still asked; the guess only survives
// when the typed answer carries no number of its own.
func (c *Conversation) SeedQuantityGuess() {
	if c.Record.Quantity != nil {
		return
	}
	if loc := firstNumber.FindString(c.Record.TranscriptionRaw); loc != "" {
		if q, err := strconv.ParseFloat(strings.ReplaceAll(loc, ",", "."), 64); err == nil {
			c.Record.Quantity = &q
		}
	}
}

func (c *Conversation) autoAdvance() {
	for i := 0; i < maxAutoSkips; i++ {
		if c.cursor == StateComplete || c.cursor == StateFeedback {
			return
		}
		if !populated(c.cursor, &c.Record) {
			return
		}
		c.cursor = next(c.cursor, &c.Record)
	}
}

func (c *Conversation) storeContact(answer string) {
	if m := fieldparse.MatchEnum(answer, entity.YesNo); m != "" {
		c.Record.ContactLeft = m
		return
	}
	// A pasted phone number counts as a left contact.
	if digits := fieldparse.PhoneDigits(answer); len(digits) >= 9 {
		c.Record.ContactLeft = entity.YesNo[0]
		c.Record.ContactPhone = digits
		return
	}
	c.Record.ContactLeft = fieldparse.Sanitize(answer, 50)
}

func matchOrFree(answer string, allowed []string, maxLen int) string {
	if m := fieldparse.MatchEnum(answer, allowed); m != "" {
		return m
	}
	return fieldparse.Sanitize(answer, maxLen)
}

// splitProductInfo pulls the first number out of a "product, quantity"
// answer: "флизелиновые обои, 3 рулона" -> ("флизелиновые обои рулона", 3).
func splitProductInfo(answer string) (string, *float64) {
	loc := firstNumber.FindStringIndex(answer)
	if loc == nil {
		return answer, nil
	}
	qty, err := strconv.ParseFloat(strings.ReplaceAll(answer[loc[0]:loc[1]], ",", "."), 64)
	name := strings.Trim(answer[:loc[0]]+answer[loc[1]:], " ,.-")
	if err != nil || math.IsInf(qty, 0) {
		return name, nil
	}
	return name, &qty
}

func asText(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case int:
		return float64(t), true
	case string:
		return fieldparse.Number(t)
	}
	return 0, false
}
