package usecase

import (
	"bytes"
	"encoding/json"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Optional distingue chave ausente, null e valor no corpo de um update.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// ptr devolve nil para chave ausente; null vira o valor zero.
func (o Optional[T]) ptr() *T {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

// ref é como ptr, mas null também vira nil; usado em campos objeto.
func (o Optional[T]) ref() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// Some monta um Optional presente; usado por quem chama o use case em código.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null monta um Optional presente e nulo.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

type CreateAgentInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
}

type AssignLeadInput struct {
	LeadID string `json:"leadId"`
}

type AssignLeadOutput struct {
	Msg   string        `json:"msg"`
	Lead  *entity.Lead  `json:"lead"`
	Agent *entity.Agent `json:"agent"`
}

type DeleteAgentOutput struct {
	Msg             string `json:"msg"`
	LeadsUnassigned int64  `json:"leadsUnassigned"`
}

type CreateLeadInput struct {
	Name                string                      `json:"name"`
	Email               string                      `json:"email"`
	Phone               string                      `json:"phone"`
	Source              string                      `json:"source"`
	Status              string                      `json:"status"`
	LeadType            string                      `json:"leadType"`
	Priority            string                      `json:"priority"`
	BudgetRange         *entity.BudgetRange         `json:"budgetRange"`
	PropertyPreferences *entity.PropertyPreferences `json:"propertyPreferences"`
	Timeline            string                      `json:"timeline"`
	AssignedAgent       string                      `json:"assignedAgent"`
}

type UpdateLeadInput struct {
	Name                Optional[string]                     `json:"name"`
	Email               Optional[string]                     `json:"email"`
	Phone               Optional[string]                     `json:"phone"`
	Source              Optional[string]                     `json:"source"`
	Status              Optional[string]                     `json:"status"`
	LeadType            Optional[string]                     `json:"leadType"`
	Priority            Optional[string]                     `json:"priority"`
	BudgetRange         Optional[entity.BudgetRange]         `json:"budgetRange"`
	PropertyPreferences Optional[entity.PropertyPreferences] `json:"propertyPreferences"`
	Timeline            Optional[string]                     `json:"timeline"`

	// null ou "" desatribui
	AssignedAgent Optional[string] `json:"assignedAgent"`
}

// scalarPatch monta o patch sem o assignedAgent, que tem regra própria.
func (in UpdateLeadInput) scalarPatch() entity.LeadPatch {
	return entity.LeadPatch{
		Name:                in.Name.ptr(),
		Email:               in.Email.ptr(),
		Phone:               in.Phone.ptr(),
		Source:              in.Source.ptr(),
		Status:              in.Status.ptr(),
		LeadType:            in.LeadType.ptr(),
		Priority:            in.Priority.ptr(),
		BudgetRange:         in.BudgetRange.ref(),
		PropertyPreferences: in.PropertyPreferences.ref(),
		Timeline:            in.Timeline.ptr(),

		ClearBudgetRange:         in.BudgetRange.Null,
		ClearPropertyPreferences: in.PropertyPreferences.Null,
	}
}

type DeleteLeadOutput struct {
	Msg            string `json:"msg"`
	BuyersDeleted  int64  `json:"buyersDeleted"`
	SellersDeleted int64  `json:"sellersDeleted"`
}

type AddNoteInput struct {
	Text string `json:"text"`
}

type CreateBuyerInput struct {
	LeadID               string         `json:"leadId"`
	InterestedLocation   string         `json:"interestedLocation"`
	InterestedSquareFeet entity.Numeric `json:"interestedSquareFeet"`
	AssignedAgent        string         `json:"assignedAgent"`
}

type CreateSellerInput struct {
	LeadID             string         `json:"leadId"`
	PropertyLocation   string         `json:"propertyLocation"`
	PropertySquareFeet entity.Numeric `json:"propertySquareFeet"`
	PropertyValue      entity.Numeric `json:"propertyValue"`
	PropertyType       string         `json:"propertyType"`
	Bedrooms           entity.Numeric `json:"bedrooms"`
	Bathrooms          entity.Numeric `json:"bathrooms"`
	ListingStatus      string         `json:"listingStatus"`
	AssignedAgent      string         `json:"assignedAgent"`
}

type UpdateSellerInput struct {
	PropertyLocation   Optional[string]         `json:"propertyLocation"`
	PropertySquareFeet Optional[entity.Numeric] `json:"propertySquareFeet"`
	PropertyValue      Optional[entity.Numeric] `json:"propertyValue"`
	PropertyType       Optional[string]         `json:"propertyType"`
	Bedrooms           Optional[entity.Numeric] `json:"bedrooms"`
	Bathrooms          Optional[entity.Numeric] `json:"bathrooms"`
	ListingStatus      Optional[string]         `json:"listingStatus"`
	AssignedAgent      Optional[string]         `json:"assignedAgent"`
}

func (in UpdateSellerInput) patch() entity.SellerPatch {
	return entity.SellerPatch{
		PropertyLocation:   in.PropertyLocation.ptr(),
		PropertySquareFeet: in.PropertySquareFeet.ptr(),
		PropertyValue:      in.PropertyValue.ptr(),
		PropertyType:       in.PropertyType.ptr(),
		Bedrooms:           in.Bedrooms.ptr(),
		Bathrooms:          in.Bathrooms.ptr(),
		ListingStatus:      in.ListingStatus.ptr(),
		AssignedAgent:      in.AssignedAgent.ptr(),
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	AccessToken string `json:"access_token"`
}
