package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
)

func (r *repos) FindContactByID(ctx context.Context, workplaceID, contactID string) (*domain.Contact, error) {
	st, done := r.acquire()
	defer done()
	c, ok := st.contacts[contactID]
	if !ok || c.WorkplaceID != workplaceID {
		return nil, apperrors.NewNotFoundError("contact " + contactID)
	}
	return &c, nil
}

func (r *repos) ListContacts(ctx context.Context, workplaceID string, contactType *domain.ContactType, limit, offset int) ([]domain.Contact, error) {
	st, done := r.acquire()
	defer done()
	out := []domain.Contact{}
	for _, c := range st.contacts {
		if c.WorkplaceID != workplaceID {
			continue
		}
		if contactType != nil && c.ContactType != *contactType {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ContactID < out[j].ContactID
	})
	from, to := page(len(out), limit, offset)
	return out[from:to], nil
}

func (r *repos) SaveContact(ctx context.Context, contact domain.Contact) error {
	st, done := r.acquire()
	defer done()
	st.contacts[contact.ContactID] = contact
	return nil
}

func (r *repos) FindProductByID(ctx context.Context, workplaceID, productID string) (*domain.Product, error) {
	st, done := r.acquire()
	defer done()
	p, ok := st.products[productID]
	if !ok || p.WorkplaceID != workplaceID {
		return nil, apperrors.NewNotFoundError("product " + productID)
	}
	return &p, nil
}

func (r *repos) ListProducts(ctx context.Context, workplaceID string, limit, offset int) ([]domain.Product, error) {
	st, done := r.acquire()
	defer done()
	out := []domain.Product{}
	for _, p := range st.products {
		if p.WorkplaceID == workplaceID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	from, to := page(len(out), limit, offset)
	return out[from:to], nil
}

func (r *repos) SaveProduct(ctx context.Context, product domain.Product) error {
	st, done := r.acquire()
	defer done()
	for _, p := range st.products {
		if p.WorkplaceID == product.WorkplaceID && p.SKU == product.SKU && p.ProductID != product.ProductID {
			return apperrors.ErrDuplicate
		}
	}
	st.products[product.ProductID] = product
	return nil
}
