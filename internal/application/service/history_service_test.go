package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/google/uuid"
)

func eventTypes(events []HistoryEvent) []string {
	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	return types
}

func findEvent(t *testing.T, events []HistoryEvent, typ string) HistoryEvent {
	t.Helper()
	for _, ev := range events {
		if ev.Type == typ {
			return ev
		}
	}
	t.Fatalf("no %s event in %v", typ, eventTypes(events))
	return HistoryEvent{}
}

func hasEvent(events []HistoryEvent, typ string) bool {
	for _, ev := range events {
		if ev.Type == typ {
			return true
		}
	}
	return false
}

func TestProjectQuoteHistoryCreatedOnly(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	quote := &entity.Quote{
		Number:    "DEV-000001",
		Status:    enum.QuoteStatusBrouillon,
		CreatedAt: created,
		UpdatedAt: created,
	}

	events := ProjectQuoteHistory(quote)
	if len(events) != 1 {
		t.Fatalf("expected only the created event, got %v", eventTypes(events))
	}
	if events[0].Type != EventQuoteCreated || !events[0].Timestamp.Equal(created) {
		t.Fatalf("unexpected event %+v", events[0])
	}
}

func TestProjectQuoteHistoryModificationThreshold(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Sub-second gap between created_at and updated_at is the insert itself.
	quote := &entity.Quote{
		Number:    "DEV-000001",
		CreatedAt: created,
		UpdatedAt: created.Add(500 * time.Millisecond),
	}
	if events := ProjectQuoteHistory(quote); hasEvent(events, EventQuoteModified) {
		t.Fatalf("sub-second update gap must not produce a modified event: %v", eventTypes(events))
	}

	quote.UpdatedAt = created.Add(2 * time.Minute)
	events := ProjectQuoteHistory(quote)
	mod := findEvent(t, events, EventQuoteModified)
	if !mod.Timestamp.Equal(quote.UpdatedAt) {
		t.Fatalf("modified timestamp = %v, want %v", mod.Timestamp, quote.UpdatedAt)
	}
}

func TestProjectQuoteHistoryFullLifecycle(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	sent := created.Add(1 * time.Hour)
	accepted := created.Add(24 * time.Hour)
	paid := created.Add(72 * time.Hour)
	ttc := 3000.0

	quote := &entity.Quote{
		Number:     "DEV-000007",
		Status:     enum.QuoteStatusPaye,
		MontantTTC: 10000,
		CreatedAt:  created,
		UpdatedAt:  paid,
		SentAt:     &sent,
		AcceptedAt: &accepted,
		Invoices: []entity.Invoice{
			{
				ID:              uuid.New(),
				Number:          "FAC-000001-A",
				InstallmentRole: enum.InstallmentRoleAcompte,
				MontantTTC:      ttc,
				CreatedAt:       created.Add(25 * time.Hour),
			},
		},
	}

	events := ProjectQuoteHistory(quote)

	// UpdatedAt trails the payment by more than a second behind CreatedAt, so
	// a modified event appears alongside the paid event at the same instant.
	want := []string{EventQuoteCreated, EventQuoteSent, EventQuoteAccepted, EventInvoiceCreated, EventQuoteModified, EventQuotePaid}
	got := eventTypes(events)
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}

	inv := findEvent(t, events, EventInvoiceCreated)
	if inv.InvoiceID == nil || *inv.InvoiceID != quote.Invoices[0].ID {
		t.Fatalf("invoice event should carry the invoice id, got %+v", inv)
	}
	if inv.Role == nil || *inv.Role != enum.InstallmentRoleAcompte {
		t.Fatalf("invoice event role = %v, want acompte", inv.Role)
	}
	if inv.MontantTTC == nil || *inv.MontantTTC != ttc {
		t.Fatalf("invoice event TTC = %v, want %v", inv.MontantTTC, ttc)
	}

	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.Before(events[i-1].Timestamp) {
			t.Fatalf("events out of order at %d: %v", i, got)
		}
	}
}

func TestProjectQuoteHistoryRefused(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	sent := created.Add(time.Hour)
	refused := created.Add(48 * time.Hour)

	quote := &entity.Quote{
		Number:    "DEV-000003",
		Status:    enum.QuoteStatusRefuse,
		CreatedAt: created,
		UpdatedAt: refused,
		SentAt:    &sent,
	}

	events := ProjectQuoteHistory(quote)
	ev := findEvent(t, events, EventQuoteRefused)
	if !ev.Timestamp.Equal(refused) {
		t.Fatalf("refused timestamp = %v, want %v", ev.Timestamp, refused)
	}
	if hasEvent(events, EventQuoteAccepted) || hasEvent(events, EventQuotePaid) {
		t.Fatalf("refused quote must not carry accepted or paid events: %v", eventTypes(events))
	}
}

func TestQuoteHistoryFromStore(t *testing.T) {
	f := newFixtures(t)
	quote := f.createQuote(t, enum.QuoteStatusAccepte, nil, 3000)
	f.createInvoice(t, quote, enum.InstallmentRoleAcompte, enum.InvoiceStatusEnvoyee, 900)

	svc := f.historyService()
	events, err := svc.QuoteHistory(context.Background(), f.tenant.ID, quote.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !hasEvent(events, EventQuoteCreated) {
		t.Fatalf("missing created event: %v", eventTypes(events))
	}
	if !hasEvent(events, EventInvoiceCreated) {
		t.Fatalf("missing invoice event: %v", eventTypes(events))
	}

	_, err = svc.QuoteHistory(context.Background(), f.tenant.ID, uuid.New())
	if !errors.Is(err, apperror.ErrDevisNotFound) {
		t.Fatalf("expected ErrDevisNotFound, got %v", err)
	}
}
