package entity

import "time"

// Field expõe os campos por nome (camelCase do JSON) para o avaliador de
// agregação. Texto vazio vira nil; Numeric sai como texto cru.

func (a *Agent) Field(name string) any {
	switch name {
	case "_id":
		return a.ID
	case "name":
		return text(a.Name)
	case "email":
		return text(a.Email)
	case "role":
		return text(a.Role)
	case "createdAt":
		return timestamp(a.CreatedAt)
	case "updatedAt":
		return timestamp(a.UpdatedAt)
	}
	return nil
}

func (l *Lead) Field(name string) any {
	switch name {
	case "_id":
		return l.ID
	case "name":
		return text(l.Name)
	case "email":
		return text(l.Email)
	case "phone":
		return text(l.Phone)
	case "source":
		return text(l.Source)
	case "status":
		return text(l.Status)
	case "leadType":
		return text(l.LeadType)
	case "priority":
		return text(l.Priority)
	case "timeline":
		return text(l.Timeline)
	case "assignedAgent":
		return optional(l.AssignedAgent)
	case "createdAt":
		return timestamp(l.CreatedAt)
	case "updatedAt":
		return timestamp(l.UpdatedAt)
	}
	return nil
}

func (b *Buyer) Field(name string) any {
	switch name {
	case "_id":
		return b.ID
	case "leadId":
		return text(b.LeadID)
	case "interestedLocation":
		return text(b.InterestedLocation)
	case "interestedSquareFeet":
		return text(string(b.InterestedSquareFeet))
	case "assignedAgent":
		return optional(b.AssignedAgent)
	case "createdAt":
		return timestamp(b.CreatedAt)
	case "updatedAt":
		return timestamp(b.UpdatedAt)
	}
	return nil
}

func (s *Seller) Field(name string) any {
	switch name {
	case "_id":
		return s.ID
	case "leadId":
		return text(s.LeadID)
	case "propertyLocation":
		return text(s.PropertyLocation)
	case "propertySquareFeet":
		return text(string(s.PropertySquareFeet))
	case "propertyValue":
		return text(string(s.PropertyValue))
	case "propertyType":
		return text(s.PropertyType)
	case "bedrooms":
		return text(string(s.Bedrooms))
	case "bathrooms":
		return text(string(s.Bathrooms))
	case "listingStatus":
		return text(s.ListingStatus)
	case "assignedAgent":
		return optional(s.AssignedAgent)
	case "createdAt":
		return timestamp(s.CreatedAt)
	case "updatedAt":
		return timestamp(s.UpdatedAt)
	}
	return nil
}

func text(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optional(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func timestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
