package service

import (
	"context"
	"sort"
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/google/uuid"
)

// Timeline event types for the quote history projection
const (
	EventQuoteCreated   = "quote_created"
	EventQuoteModified  = "quote_modified"
	EventQuoteSent      = "quote_sent"
	EventQuoteAccepted  = "quote_accepted"
	EventQuoteRefused   = "quote_refused"
	EventQuotePaid      = "quote_paid"
	EventInvoiceCreated = "invoice_created"
)

// HistoryEvent is one entry in a quote's projected timeline
type HistoryEvent struct {
	Type       string                `json:"type"`
	Timestamp  time.Time             `json:"timestamp"`
	InvoiceID  *uuid.UUID            `json:"invoice_id,omitempty"`
	Number     string                `json:"number,omitempty"`
	Role       *enum.InstallmentRole `json:"installment_role,omitempty"`
	MontantTTC *float64              `json:"montant_ttc,omitempty"`
}

// modificationThreshold filters out the write that created the row: GORM
// stamps created_at and updated_at in the same call, so only a gap above
// one second indicates a real later edit.
const modificationThreshold = time.Second

// HistoryService projects a quote's audit timeline from its persisted state.
// Nothing is stored; the timeline is rebuilt on every read from the quote's
// timestamps, status and invoices.
type HistoryService struct {
	quoteRepo repository.QuoteRepository
}

// NewHistoryService creates a new history service
func NewHistoryService(quoteRepo repository.QuoteRepository) *HistoryService {
	return &HistoryService{quoteRepo: quoteRepo}
}

// QuoteHistory builds the event timeline for a quote, oldest first
func (s *HistoryService) QuoteHistory(ctx context.Context, tenantID, quoteID uuid.UUID) ([]HistoryEvent, error) {
	quote, err := s.quoteRepo.GetWithRelations(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, apperror.ErrDevisNotFound
	}
	return ProjectQuoteHistory(quote), nil
}

// ProjectQuoteHistory derives the timeline from a loaded quote
func ProjectQuoteHistory(quote *entity.Quote) []HistoryEvent {
	events := []HistoryEvent{
		{Type: EventQuoteCreated, Timestamp: quote.CreatedAt, Number: quote.Number},
	}

	if quote.UpdatedAt.Sub(quote.CreatedAt) > modificationThreshold {
		events = append(events, HistoryEvent{
			Type:      EventQuoteModified,
			Timestamp: quote.UpdatedAt,
			Number:    quote.Number,
		})
	}

	if quote.SentAt != nil {
		events = append(events, HistoryEvent{
			Type:      EventQuoteSent,
			Timestamp: *quote.SentAt,
			Number:    quote.Number,
		})
	}

	if quote.AcceptedAt != nil {
		events = append(events, HistoryEvent{
			Type:      EventQuoteAccepted,
			Timestamp: *quote.AcceptedAt,
			Number:    quote.Number,
		})
	}

	if quote.Status == enum.QuoteStatusRefuse {
		ts := quote.UpdatedAt
		if ts.IsZero() && quote.SentAt != nil {
			ts = *quote.SentAt
		}
		events = append(events, HistoryEvent{
			Type:      EventQuoteRefused,
			Timestamp: ts,
			Number:    quote.Number,
		})
	}

	if quote.Status == enum.QuoteStatusPaye {
		events = append(events, HistoryEvent{
			Type:      EventQuotePaid,
			Timestamp: quote.UpdatedAt,
			Number:    quote.Number,
		})
	}

	for i := range quote.Invoices {
		inv := &quote.Invoices[i]
		role := inv.InstallmentRole
		ttc := inv.MontantTTC
		id := inv.ID
		events = append(events, HistoryEvent{
			Type:       EventInvoiceCreated,
			Timestamp:  inv.CreatedAt,
			InvoiceID:  &id,
			Number:     inv.Number,
			Role:       &role,
			MontantTTC: &ttc,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	return events
}
