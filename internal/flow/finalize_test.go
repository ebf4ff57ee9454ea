package flow

import (
	"testing"
	"time"

	"offline-traffic-bot/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRecord() entity.VisitRecord {
	rec := entity.NewVisitRecord("тестовая запись", time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC))
	rec.TypeOfClient = "новый"
	rec.Behavior = "посмотрели"
	return rec
}

func TestFinalizeBoughtRequiresPositiveTicket(t *testing.T) {
	rec := baseRecord()
	rec.PurchaseStatus = entity.StatusBought

	for _, amount := range []*float64{nil, entity.Float(0), entity.Float(-0.0)} {
		rec.TicketAmount = amount
		res := Finalize(rec)
		assert.False(t, res.Valid)
		require.NotEmpty(t, res.Errors)
		assert.Contains(t, res.Errors[0], "Ticket_amount")
	}

	rec.TicketAmount = entity.Float(15000)
	res := Finalize(rec)
	assert.True(t, res.Valid)
}

func TestFinalizeNotBoughtForcesPurchaseBranchEmpty(t *testing.T) {
	rec := baseRecord()
	rec.PurchaseStatus = entity.StatusNotBought
	rec.ReasonNotBuying = "дорого"
	// Stray purchase data must never leak into a lost-sale row.
	rec.TicketAmount = entity.Float(9999)
	rec.CostPrice = entity.Float(5000)
	rec.Quantity = entity.Float(2)
	rec.ProductName = "обои"

	res := Finalize(rec)
	require.True(t, res.Valid, "errors: %v", res.Errors)
	assert.Nil(t, res.Record.TicketAmount)
	assert.Nil(t, res.Record.CostPrice)
	assert.Nil(t, res.Record.Quantity)
	assert.Equal(t, "", res.Record.ProductName)
	assert.Equal(t, "дорого", res.Record.ReasonNotBuying)
}

func TestFinalizeBoughtClearsReason(t *testing.T) {
	rec := baseRecord()
	rec.PurchaseStatus = entity.StatusBought
	rec.TicketAmount = entity.Float(1000)
	rec.ProductName = "обои"
	rec.Quantity = entity.Float(1)
	rec.ReasonNotBuying = "дорого"

	res := Finalize(rec)
	require.True(t, res.Valid)
	assert.Equal(t, "", res.Record.ReasonNotBuying)
}

func TestFinalizeMissingRequiredFieldsBlock(t *testing.T) {
	rec := entity.NewVisitRecord("", time.Now())
	res := Finalize(rec)

	assert.False(t, res.Valid)
	// Type_of_client, Behavior and Purchase_status are all absent.
	assert.Len(t, res.Errors, 3)
}

func TestFinalizeWarningsDoNotBlock(t *testing.T) {
	rec := baseRecord()
	rec.PurchaseStatus = entity.StatusBought
	rec.TicketAmount = entity.Float(500)

	res := Finalize(rec)
	assert.True(t, res.Valid)
	assert.Len(t, res.Warnings, 2) // missing product name and quantity
	assert.NotEmpty(t, res.Record.ValidationNote)

	// Messages reports errors before warnings.
	msgs := res.Messages()
	assert.Equal(t, res.Warnings, msgs)
}

func TestFinalizeIdempotent(t *testing.T) {
	rec := baseRecord()
	rec.PurchaseStatus = entity.StatusBought
	rec.TicketAmount = entity.Float(15000.5)
	rec.ProductName = "  обои   виниловые "
	rec.Quantity = entity.Float(2.12345)
	rec.ClientID = "клиент 1234567890"
	rec.Source = "instagram"

	first := Finalize(rec)
	require.True(t, first.Valid, "errors: %v", first.Errors)
	second := Finalize(first.Record)

	assert.Equal(t, first.Record, second.Record)
	assert.True(t, second.Valid)
	assert.Empty(t, second.Errors)
	assert.Equal(t, first.Warnings, second.Warnings)
}

func TestFinalizeNormalization(t *testing.T) {
	rec := baseRecord()
	rec.PurchaseStatus = entity.StatusBought
	rec.TicketAmount = entity.Float(100)
	rec.ProductName = "обои"
	rec.Quantity = entity.Float(2.12345)
	rec.ClientID = "id 1234567890"
	rec.Source = "instagram"
	rec.ContactLeft = "ДА"
	rec.RepeatVisit = "нет"

	res := Finalize(rec)
	require.True(t, res.Valid)
	assert.Equal(t, "567890", res.Record.ClientID)
	assert.Equal(t, "Instagram", res.Record.Source)
	assert.Equal(t, "да", res.Record.ContactLeft)
	assert.Equal(t, "нет", res.Record.RepeatVisit)
	require.NotNil(t, res.Record.Quantity)
	assert.Equal(t, 2.123, *res.Record.Quantity)
}

func TestFinalizeFreeTextEnumKeptWithWarning(t *testing.T) {
	rec := baseRecord()
	rec.TypeOfClient = "заходил дизайнер с объектом"
	rec.PurchaseStatus = entity.StatusNotBought
	rec.ReasonNotBuying = "сравнивают"

	res := Finalize(rec)
	// Free text in a required enum is kept sanitized, not discarded, and
	// surfaces as a warning rather than a blocking error.
	assert.True(t, res.Valid, "errors: %v", res.Errors)
	assert.Equal(t, "заходил дизайнер с объектом", res.Record.TypeOfClient)
	assert.NotEmpty(t, res.Warnings)
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "", entity.FormatQuantity(nil))
	assert.Equal(t, "3", entity.FormatQuantity(entity.Float(3.0)))
	assert.Equal(t, "2.5", entity.FormatQuantity(entity.Float(2.5)))
	assert.Equal(t, "2.123", entity.FormatQuantity(entity.Float(2.1234)))
}
