package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type SellerUseCase struct {
	Leads   entity.LeadRepositoryInterface
	Sellers entity.SellerRepositoryInterface

	// SyncSummaries reescreve a cópia embutida no lead a cada update.
	// Desligado, a cópia fica com o snapshot da criação.
	SyncSummaries bool
	*Notifier
}

func NewSellerUseCase(
	leads entity.LeadRepositoryInterface,
	sellers entity.SellerRepositoryInterface,
	syncSummaries bool,
	notifier *Notifier,
) *SellerUseCase {
	if notifier == nil {
		notifier = NewNotifier(nil, nil, nil)
	}
	return &SellerUseCase{Leads: leads, Sellers: sellers, SyncSummaries: syncSummaries, Notifier: notifier}
}

// Create exige um lead existente e embute o resumo do seller no lead.
func (uc *SellerUseCase) Create(ctx context.Context, input CreateSellerInput) (*entity.Seller, error) {
	if errs := ValidateCreateSellerInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	if err := checkID(input.LeadID, "Invalid leadId"); err != nil {
		return nil, err
	}
	if err := checkID(input.AssignedAgent, "Invalid assignedAgent ID"); err != nil {
		return nil, err
	}

	if _, err := uc.Leads.FindByID(ctx, input.LeadID); err != nil {
		return nil, lookupError(err, "Lead not found")
	}

	seller := entity.NewSeller(input.LeadID)
	seller.PropertyLocation = input.PropertyLocation
	seller.PropertySquareFeet = input.PropertySquareFeet
	seller.PropertyValue = input.PropertyValue
	seller.PropertyType = input.PropertyType
	seller.Bedrooms = input.Bedrooms
	seller.Bathrooms = input.Bathrooms
	if input.ListingStatus != "" {
		seller.ListingStatus = input.ListingStatus
	}
	if input.AssignedAgent != "" {
		agent := input.AssignedAgent
		seller.AssignedAgent = &agent
	}

	tx := NewTransaction(uc.Log)
	tx.AddStep("seller.create",
		func(ctx context.Context) error { return uc.Sellers.Create(ctx, seller) },
		func(ctx context.Context) error { return uc.Sellers.Delete(ctx, seller.ID) },
	)
	tx.AddStep("lead.add_seller", func(ctx context.Context) error {
		err := uc.Leads.AddSeller(ctx, input.LeadID, seller.Summary())
		if errors.Is(err, entity.ErrNotFound) {
			return notFound("Lead not found")
		}
		return err
	}, nil)

	if err := tx.Execute(ctx); err != nil {
		if IsDomainError(err) {
			return nil, err
		}
		return nil, storeError("falha ao criar seller", err)
	}

	uc.Log.Info("seller criado", "seller_id", seller.ID, "lead_id", seller.LeadID)
	return seller, nil
}

func (uc *SellerUseCase) List(ctx context.Context) ([]*entity.Seller, error) {
	sellers, err := uc.Sellers.List(ctx)
	if err != nil {
		return nil, storeError("falha ao listar sellers", err)
	}
	return sellers, nil
}

// Update mexe só no seller; leadId e createdAt não estão no patch.
func (uc *SellerUseCase) Update(ctx context.Context, sellerID string, input UpdateSellerInput) (*entity.Seller, error) {
	if !isValidID(sellerID) {
		return nil, invalidReference("Invalid seller ID")
	}
	if input.AssignedAgent.Set {
		if err := checkID(input.AssignedAgent.Value, "Invalid assignedAgent ID"); err != nil {
			return nil, err
		}
	}

	updated, err := uc.Sellers.Update(ctx, sellerID, input.patch())
	if err != nil {
		return nil, lookupError(err, "Seller not found")
	}

	if uc.SyncSummaries {
		if err := uc.Leads.ReplaceSeller(ctx, updated.LeadID, updated.Summary()); err != nil {
			uc.Log.Warn("falha ao sincronizar resumo do seller", "seller_id", sellerID, "lead_id", updated.LeadID, "error", err)
		}
	}
	return updated, nil
}

func (uc *SellerUseCase) Delete(ctx context.Context, sellerID string) error {
	if !isValidID(sellerID) {
		return invalidReference("Invalid seller ID")
	}
	seller, err := uc.Sellers.FindByID(ctx, sellerID)
	if err != nil {
		return lookupError(err, "Seller not found")
	}

	if err := uc.Leads.RemoveSeller(ctx, seller.LeadID, sellerID); err != nil && !errors.Is(err, entity.ErrNotFound) {
		return storeError("falha ao remover seller do lead", err)
	}
	if err := uc.Sellers.Delete(ctx, sellerID); err != nil {
		return lookupError(err, "Seller not found")
	}

	uc.Log.Info("seller apagado", "seller_id", sellerID, "lead_id", seller.LeadID)
	return nil
}
