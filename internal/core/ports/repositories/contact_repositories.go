package repositories

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

// ContactReader defines read operations for contacts
type ContactReader interface {
	// FindContactByID returns apperrors.ErrNotFound when the contact does not exist in the workplace.
	FindContactByID(ctx context.Context, workplaceID, contactID string) (*domain.Contact, error)
	ListContacts(ctx context.Context, workplaceID string, contactType *domain.ContactType, limit, offset int) ([]domain.Contact, error)
}

// ContactWriter defines write operations for contacts
type ContactWriter interface {
	SaveContact(ctx context.Context, contact domain.Contact) error
}

// ContactRepositoryFacade combines contact reads and writes
type ContactRepositoryFacade interface {
	ContactReader
	ContactWriter
}
