package entity

import (
	"math"
	"strconv"
	"time"
)

// Purchase status values. StatusBought drives the branch between the
// purchase block and the lost-sale block of the conversation.
const (
	StatusBought      = "купили"
	StatusNotBought   = "не купили"
	StatusConsidering = "думают"
	StatusExchange    = "обмен"
)

// Allowed enum sets, matching the destination sheet's dropdown lists.
var (
	ClientTypes = []string{"новый", "повторный", "контрактник/мастер", "оптовик"}
	Behaviors   = []string{"мимо прошли", "поспрашивали", "посмотрели", "замеряли/считали"}
	Statuses    = []string{StatusBought, StatusNotBought, StatusConsidering, StatusExchange}
	Reasons     = []string{
		"дорого", "нет дизайна/цвета", "нет в наличии", "сравнивают",
		"зайдут позже", "не целевой", "не успел обработать", "другое",
	}
	Sources = []string{"Instagram", "2ГИС", "рекомендация", "вывеска", "TikTok", "другое"}
	YesNo   = []string{"да", "нет"}
)

// Canonical column names of the destination sheet. Extraction payloads use
// the same keys.
const (
	ColDate             = "Date"
	ColTime             = "Time"
	ColClientID         = "Client_ID"
	ColTypeOfClient     = "Type_of_client"
	ColBehavior         = "Behavior"
	ColPurchaseStatus   = "Purchase_status"
	ColTicketAmount     = "Ticket_amount"
	ColCostPrice        = "Cost_Price"
	ColSource           = "Source"
	ColReasonNotBuying  = "Reason_not_buying"
	ColProductName      = "Product_name"
	ColQuantity         = "Quantity"
	ColTranscriptionRaw = "Transcription_raw"
	ColRepeatVisit      = "Repeat_visit"
	ColContactLeft      = "Contact_left"
	ColContactPhone     = "Contact_phone_normalized"
	ColShortNote        = "Short_note"
	ColValidationNote   = "Validation_note"
)

// SheetColumns is the fallback column order used when the destination sheet
// reports no header row.
var SheetColumns = []string{
	ColDate, ColTime, ColClientID, ColTypeOfClient, ColBehavior,
	ColPurchaseStatus, ColTicketAmount, ColCostPrice, ColSource,
	ColReasonNotBuying, ColProductName, ColQuantity, ColTranscriptionRaw,
	ColRepeatVisit, ColContactLeft, ColShortNote,
}

// VisitRecord is one sales-visit observation built up over a conversation.
// Numeric fields are pointers: nil means "never answered", which keeps a
// stored zero distinguishable from an unanswered question.
type VisitRecord struct {
	Date             string `validate:"required"`
	Time             string `validate:"required"`
	TranscriptionRaw string
	ClientID         string
	TypeOfClient     string `validate:"max=50"`
	Behavior         string `validate:"max=50"`
	PurchaseStatus   string `validate:"max=50"`
	TicketAmount     *float64
	CostPrice        *float64
	ProductName      string `validate:"max=200"`
	Quantity         *float64
	ReasonNotBuying  string `validate:"max=100"`
	ContactLeft      string
	ContactPhone     string
	Source           string `validate:"max=50"`
	ShortNote        string `validate:"max=1000"`
	RepeatVisit      string
	ValidationNote   string
}

// NewVisitRecord seeds the immutable fields captured at conversation start.
func NewVisitRecord(transcription string, ts time.Time) VisitRecord {
	return VisitRecord{
		Date:             ts.Format("2006-01-02"),
		Time:             ts.Format("15:04"),
		TranscriptionRaw: transcription,
	}
}

func (v *VisitRecord) Bought() bool {
	return v.PurchaseStatus == StatusBought
}

// FieldMap renders the record as column name -> cell value, the shape both
// the sheet store and the local fallback sink consume.
func (v *VisitRecord) FieldMap() map[string]string {
	return map[string]string{
		ColDate:             v.Date,
		ColTime:             v.Time,
		ColClientID:         v.ClientID,
		ColTypeOfClient:     v.TypeOfClient,
		ColBehavior:         v.Behavior,
		ColPurchaseStatus:   v.PurchaseStatus,
		ColTicketAmount:     FormatAmount(v.TicketAmount),
		ColCostPrice:        FormatAmount(v.CostPrice),
		ColSource:           v.Source,
		ColReasonNotBuying:  v.ReasonNotBuying,
		ColProductName:      v.ProductName,
		ColQuantity:         FormatQuantity(v.Quantity),
		ColTranscriptionRaw: v.TranscriptionRaw,
		ColRepeatVisit:      v.RepeatVisit,
		ColContactLeft:      v.ContactLeft,
		ColContactPhone:     v.ContactPhone,
		ColShortNote:        v.ShortNote,
		ColValidationNote:   v.ValidationNote,
	}
}

// FormatAmount renders a money value, empty when unanswered.
func FormatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FormatQuantity renders a quantity: bare integer when integral, otherwise
// rounded to three decimals.
func FormatQuantity(v *float64) string {
	if v == nil {
		return ""
	}
	if math.Abs(*v-math.Round(*v)) < 1e-9 {
		return strconv.FormatInt(int64(math.Round(*v)), 10)
	}
	return strconv.FormatFloat(math.Round(*v*1000)/1000, 'f', -1, 64)
}

// Float is a shorthand for taking the address of a literal.
func Float(v float64) *float64 {
	return &v
}
