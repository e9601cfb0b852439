package service

import (
	"context"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/google/uuid"
)

// PaymentTermsService handles installment template operations
type PaymentTermsService struct {
	termsRepo repository.PaymentTermsRepository
}

// NewPaymentTermsService creates a new payment-terms service
func NewPaymentTermsService(termsRepo repository.PaymentTermsRepository) *PaymentTermsService {
	return &PaymentTermsService{termsRepo: termsRepo}
}

// PaymentTermsInput represents the input for creating or updating a template
type PaymentTermsInput struct {
	TenantID                 uuid.UUID
	Name                     string
	PourcentageAcompte       float64
	PourcentageIntermediaire float64
	PourcentageSolde         float64
	DelaiAcompteJours        int
	DelaiIntermediaireJours  int
	DelaiSoldeJours          int
	MontantMin               float64
	MontantMax               float64
}

// CreateTemplate creates a new installment template. Percentages are stored
// as given, including sums other than 100.
func (s *PaymentTermsService) CreateTemplate(ctx context.Context, input *PaymentTermsInput) (*entity.PaymentTerms, error) {
	if err := validateTermsInput(input); err != nil {
		return nil, err
	}

	terms := &entity.PaymentTerms{
		TenantID:                 input.TenantID,
		Name:                     input.Name,
		PourcentageAcompte:       input.PourcentageAcompte,
		PourcentageIntermediaire: input.PourcentageIntermediaire,
		PourcentageSolde:         input.PourcentageSolde,
		DelaiAcompteJours:        input.DelaiAcompteJours,
		DelaiIntermediaireJours:  input.DelaiIntermediaireJours,
		DelaiSoldeJours:          input.DelaiSoldeJours,
		MontantMin:               input.MontantMin,
		MontantMax:               input.MontantMax,
	}
	if err := s.termsRepo.Create(ctx, terms); err != nil {
		return nil, err
	}
	return terms, nil
}

// GetTemplate retrieves a template by ID
func (s *PaymentTermsService) GetTemplate(ctx context.Context, tenantID, id uuid.UUID) (*entity.PaymentTerms, error) {
	terms, err := s.termsRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if terms == nil {
		return nil, apperror.ErrPaymentTermsNotFound
	}
	return terms, nil
}

// ListTemplates retrieves all templates of a tenant
func (s *PaymentTermsService) ListTemplates(ctx context.Context, tenantID uuid.UUID) ([]entity.PaymentTerms, error) {
	return s.termsRepo.List(ctx, tenantID)
}

// SuggestTemplate returns the first template whose amount range covers the
// given TTC amount, or nil when none matches
func (s *PaymentTermsService) SuggestTemplate(ctx context.Context, tenantID uuid.UUID, montantTTC float64) (*entity.PaymentTerms, error) {
	templates, err := s.termsRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for i := range templates {
		if templates[i].AppliesTo(montantTTC) {
			return &templates[i], nil
		}
	}
	return nil, nil
}

// UpdateTemplate updates an existing template
func (s *PaymentTermsService) UpdateTemplate(ctx context.Context, id uuid.UUID, input *PaymentTermsInput) (*entity.PaymentTerms, error) {
	if err := validateTermsInput(input); err != nil {
		return nil, err
	}

	terms, err := s.termsRepo.GetByID(ctx, input.TenantID, id)
	if err != nil {
		return nil, err
	}
	if terms == nil {
		return nil, apperror.ErrPaymentTermsNotFound
	}

	terms.Name = input.Name
	terms.PourcentageAcompte = input.PourcentageAcompte
	terms.PourcentageIntermediaire = input.PourcentageIntermediaire
	terms.PourcentageSolde = input.PourcentageSolde
	terms.DelaiAcompteJours = input.DelaiAcompteJours
	terms.DelaiIntermediaireJours = input.DelaiIntermediaireJours
	terms.DelaiSoldeJours = input.DelaiSoldeJours
	terms.MontantMin = input.MontantMin
	terms.MontantMax = input.MontantMax

	if err := s.termsRepo.Update(ctx, terms); err != nil {
		return nil, err
	}
	return terms, nil
}

// DeleteTemplate soft-deletes a template. Quotes already referencing it keep
// their pointer; plan resolution simply finds no template afterwards.
func (s *PaymentTermsService) DeleteTemplate(ctx context.Context, tenantID, id uuid.UUID) error {
	terms, err := s.termsRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if terms == nil {
		return apperror.ErrPaymentTermsNotFound
	}
	return s.termsRepo.Delete(ctx, tenantID, id)
}

func validateTermsInput(input *PaymentTermsInput) error {
	var fieldErrors []apperror.FieldError
	pcts := map[string]float64{
		"pourcentage_acompte":       input.PourcentageAcompte,
		"pourcentage_intermediaire": input.PourcentageIntermediaire,
		"pourcentage_solde":         input.PourcentageSolde,
	}
	for field, p := range pcts {
		if p < 0 || p > 100 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field, Message: "must be between 0 and 100"})
		}
	}
	if input.MontantMax > 0 && input.MontantMax < input.MontantMin {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "montant_max", Message: "must be greater than montant_min"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}
