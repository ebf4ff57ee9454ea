package flow

import (
	"fmt"
	"math"
	"strings"

	"offline-traffic-bot/internal/entity"
	"offline-traffic-bot/pkg/fieldparse"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Result is the outcome of the finalization gate. The normalized record is
// safe to persist whether or not it is valid: the local fallback sink stores
// it as-is when the primary store is down.
type Result struct {
	Valid    bool
	Record   entity.VisitRecord
	Errors   []string
	Warnings []string
}

// Messages returns the human-readable report, blocking errors first.
func (r Result) Messages() []string {
	out := make([]string, 0, len(r.Errors)+len(r.Warnings))
	out = append(out, r.Errors...)
	out = append(out, r.Warnings...)
	return out
}

// Finalize runs the whole-record validation that can only happen once the
// conversation is over: branch-dependent requiredness hinges on the final
// purchase status. It re-normalizes every field, forces the irrelevant
// branch empty and reports blocking errors and advisory warnings.
// Finalizing its own output is a no-op.
func Finalize(rec entity.VisitRecord) Result {
	out := rec
	var errs, warns []string

	out.TranscriptionRaw = fieldparse.Sanitize(rec.TranscriptionRaw, 1000)

	// Client id keeps its trailing digits; non-numeric ids pass through
	// sanitized.
	if cid := fieldparse.Sanitize(rec.ClientID, 50); cid != "" {
		if digits := fieldparse.LastDigits(cid, 6); digits != "" {
			out.ClientID = digits
		} else {
			out.ClientID = cid
		}
	} else {
		out.ClientID = ""
	}

	out.TypeOfClient = normalizeEnum(rec.TypeOfClient, entity.ClientTypes, entity.ColTypeOfClient, 50, &errs, &warns)
	out.Behavior = normalizeEnum(rec.Behavior, entity.Behaviors, entity.ColBehavior, 50, &errs, &warns)
	out.PurchaseStatus = normalizeEnum(rec.PurchaseStatus, entity.Statuses, entity.ColPurchaseStatus, 50, &errs, &warns)

	out.ProductName = fieldparse.Sanitize(rec.ProductName, 200)
	out.ShortNote = fieldparse.Sanitize(rec.ShortNote, 1000)
	out.ReasonNotBuying = fieldparse.MatchEnum(rec.ReasonNotBuying, entity.Reasons)
	out.Source = fieldparse.MatchEnum(rec.Source, entity.Sources)
	if out.Source == "" {
		if raw := fieldparse.Sanitize(rec.Source, 50); raw != "" {
			out.Source = raw
		}
	}
	out.ContactLeft = fieldparse.MatchEnum(rec.ContactLeft, entity.YesNo)
	out.ContactPhone = fieldparse.PhoneDigits(rec.ContactPhone)
	out.RepeatVisit = fieldparse.MatchEnum(rec.RepeatVisit, entity.YesNo)

	if out.Quantity != nil {
		q := math.Round(*out.Quantity*1000) / 1000
		out.Quantity = &q
	}

	// Branch cleanup: exactly one of the two blocks is relevant, the other
	// is forced empty regardless of stray input.
	if out.Bought() {
		out.ReasonNotBuying = ""
		if out.TicketAmount == nil || !(*out.TicketAmount > 0) {
			errs = append(errs, "Ticket_amount: при статусе 'купили' нужна сумма больше 0")
		}
		if out.CostPrice != nil && *out.CostPrice < 0 {
			errs = append(errs, "Cost_Price: не может быть отрицательной")
		}
		if out.ProductName == "" {
			warns = append(warns, "Product_name: не заполнено, что продали")
		}
		if out.Quantity == nil {
			warns = append(warns, "Quantity: не заполнено количество")
		}
	} else {
		out.TicketAmount = nil
		out.CostPrice = nil
		out.Quantity = nil
		out.ProductName = ""
	}

	if err := validate.Struct(out); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("%s: нарушено ограничение '%s'", fe.Field(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	out.ValidationNote = strings.Join(warns, "; ")

	return Result{
		Valid:    len(errs) == 0,
		Record:   out,
		Errors:   errs,
		Warnings: warns,
	}
}

// normalizeEnum maps a stored value back onto its allowed set. Free text that
// matches nothing stays (sanitized and capped) with a warning; only an empty
// result is a blocking error, since these three fields are required.
func normalizeEnum(value string, allowed []string, field string, maxLen int, errs, warns *[]string) string {
	m := fieldparse.MatchEnum(value, allowed)
	if m == "" {
		m = fieldparse.Sanitize(value, maxLen)
		if m != "" {
			*warns = append(*warns, fmt.Sprintf("%s: значение '%s' не из списка", field, m))
		}
	}
	if m == "" {
		*errs = append(*errs, fmt.Sprintf("%s: обязательное поле не заполнено", field))
	}
	return m
}
