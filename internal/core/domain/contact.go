package domain

// ContactType classifies a business partner.
type ContactType string

const (
	ContactCustomer ContactType = "CUSTOMER"
	ContactVendor   ContactType = "VENDOR"
	ContactBoth     ContactType = "BOTH"
)

// IsValid reports whether t is a known contact type.
func (t ContactType) IsValid() bool {
	switch t {
	case ContactCustomer, ContactVendor, ContactBoth:
		return true
	}
	return false
}

// Contact is a customer or vendor.
type Contact struct {
	ContactID   string      `json:"contactID"`
	WorkplaceID string      `json:"workplaceID"`
	Name        string      `json:"name"`
	ContactType ContactType `json:"contactType"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	AuditFields
}

// CanTradeAs reports whether the contact may appear on orders of the given type.
func (c Contact) CanTradeAs(orderType OrderType) bool {
	switch orderType {
	case OrderTypeSales:
		return c.ContactType == ContactCustomer || c.ContactType == ContactBoth
	case OrderTypePurchase:
		return c.ContactType == ContactVendor || c.ContactType == ContactBoth
	}
	return false
}
