package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type BuyerUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Buyers entity.BuyerRepositoryInterface
	*Notifier
}

func NewBuyerUseCase(leads entity.LeadRepositoryInterface, buyers entity.BuyerRepositoryInterface, notifier *Notifier) *BuyerUseCase {
	if notifier == nil {
		notifier = NewNotifier(nil, nil, nil)
	}
	return &BuyerUseCase{Leads: leads, Buyers: buyers, Notifier: notifier}
}

// Create exige um lead existente e registra o buyer na lista do lead.
func (uc *BuyerUseCase) Create(ctx context.Context, input CreateBuyerInput) (*entity.Buyer, error) {
	if errs := ValidateCreateBuyerInput(input); len(errs) > 0 {
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

	buyer := entity.NewBuyer(input.LeadID)
	buyer.InterestedLocation = input.InterestedLocation
	buyer.InterestedSquareFeet = input.InterestedSquareFeet
	if input.AssignedAgent != "" {
		agent := input.AssignedAgent
		buyer.AssignedAgent = &agent
	}

	tx := NewTransaction(uc.Log)
	tx.AddStep("buyer.create",
		func(ctx context.Context) error { return uc.Buyers.Create(ctx, buyer) },
		func(ctx context.Context) error { return uc.Buyers.Delete(ctx, buyer.ID) },
	)
	tx.AddStep("lead.add_buyer", func(ctx context.Context) error {
		err := uc.Leads.AddBuyer(ctx, input.LeadID, buyer.ID)
		if errors.Is(err, entity.ErrNotFound) {
			// lead apagado entre a checagem e o push
			return notFound("Lead not found")
		}
		return err
	}, nil)

	if err := tx.Execute(ctx); err != nil {
		if IsDomainError(err) {
			return nil, err
		}
		return nil, storeError("falha ao criar buyer", err)
	}

	uc.Log.Info("buyer criado", "buyer_id", buyer.ID, "lead_id", buyer.LeadID)
	return buyer, nil
}

func (uc *BuyerUseCase) List(ctx context.Context) ([]*entity.Buyer, error) {
	buyers, err := uc.Buyers.List(ctx)
	if err != nil {
		return nil, storeError("falha ao listar buyers", err)
	}
	return buyers, nil
}

func (uc *BuyerUseCase) Delete(ctx context.Context, buyerID string) error {
	if !isValidID(buyerID) {
		return invalidReference("Invalid buyer ID")
	}
	buyer, err := uc.Buyers.FindByID(ctx, buyerID)
	if err != nil {
		return lookupError(err, "Buyer not found")
	}

	if err := uc.Leads.RemoveBuyer(ctx, buyer.LeadID, buyerID); err != nil && !errors.Is(err, entity.ErrNotFound) {
		return storeError("falha ao remover buyer do lead", err)
	}
	if err := uc.Buyers.Delete(ctx, buyerID); err != nil {
		return lookupError(err, "Buyer not found")
	}

	uc.Log.Info("buyer apagado", "buyer_id", buyerID, "lead_id", buyer.LeadID)
	return nil
}
