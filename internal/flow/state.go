// Package flow implements the conversation state machine that collects one
// sales-visit record question by question, plus the finalization gate that
// validates the whole record before it may be persisted.
package flow

import "offline-traffic-bot/internal/entity"

// State is the cursor naming the field the machine is currently collecting.
type State string

const (
	StateTypeClient      State = "type_client"
	StateBehavior        State = "behavior"
	StatePurchaseStatus  State = "purchase_status"
	StateTicketAmount    State = "ticket_amount"
	StateCostPrice       State = "cost_price"
	StateProductInfo     State = "product_info"
	StateReasonNotBuying State = "reason_not_buying"
	StateContactLeft     State = "contact_left"
	StateSource          State = "source"
	StateShortNote       State = "short_note"
	StateComplete        State = "complete"
	StateFeedback        State = "feedback"
)

// next returns the successor state. Two branch points depend on already
// stored values: purchase status splits the flow into the purchase block and
// the lost-sale block, and source routes buyers into product details.
func next(s State, rec *entity.VisitRecord) State {
	switch s {
	case StateTypeClient:
		return StateBehavior
	case StateBehavior:
		return StatePurchaseStatus
	case StatePurchaseStatus:
		if rec.Bought() {
			return StateTicketAmount
		}
		return StateReasonNotBuying
	case StateTicketAmount:
		return StateCostPrice
	case StateCostPrice:
		return StateSource
	case StateReasonNotBuying:
		return StateContactLeft
	case StateContactLeft:
		return StateSource
	case StateSource:
		if rec.Bought() {
			return StateProductInfo
		}
		return StateShortNote
	case StateProductInfo:
		return StateShortNote
	case StateShortNote:
		return StateComplete
	}
	return StateComplete
}

// populated reports whether the field bound to a state already holds a value,
// which is what lets pre-filled data bypass its question. ContactLeft and
// ShortNote always report false: they are never auto-skipped.
func populated(s State, rec *entity.VisitRecord) bool {
	switch s {
	case StateTypeClient:
		return rec.TypeOfClient != ""
	case StateBehavior:
		return rec.Behavior != ""
	case StatePurchaseStatus:
		return rec.PurchaseStatus != ""
	case StateTicketAmount:
		return rec.TicketAmount != nil
	case StateCostPrice:
		return rec.CostPrice != nil
	case StateProductInfo:
		return rec.ProductName != ""
	case StateReasonNotBuying:
		return rec.ReasonNotBuying != ""
	case StateSource:
		return rec.Source != ""
	}
	return false
}
