package pgsql

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type contactRepository struct {
	db querier
}

var _ portsrepo.ContactRepositoryFacade = (*contactRepository)(nil)

const contactColumns = `contact_id, workplace_id, name, contact_type, email, phone, created_at, created_by, last_updated_at, last_updated_by`

func scanContact(row pgx.Row) (domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(&c.ContactID, &c.WorkplaceID, &c.Name, &c.ContactType, &c.Email, &c.Phone,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy)
	return c, err
}

func (r *contactRepository) FindContactByID(ctx context.Context, workplaceID, contactID string) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE workplace_id = $1 AND contact_id = $2`
	c, err := scanContact(r.db.QueryRow(ctx, query, workplaceID, contactID))
	if err != nil {
		return nil, notFoundOr(err, "contact", "find contact")
	}
	return &c, nil
}

func (r *contactRepository) ListContacts(ctx context.Context, workplaceID string, contactType *domain.ContactType, limit, offset int) ([]domain.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE workplace_id = $1 AND ($2::text IS NULL OR contact_type = $2)
		ORDER BY name, contact_id
		LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, query, workplaceID, contactType, limitArg(limit), offset)
	if err != nil {
		return nil, translateError(err, "list contacts")
	}
	contacts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Contact, error) {
		return scanContact(row)
	})
	if err != nil {
		return nil, translateError(err, "scan contacts")
	}
	return contacts, nil
}

func (r *contactRepository) SaveContact(ctx context.Context, c domain.Contact) error {
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query, c.ContactID, c.WorkplaceID, c.Name, c.ContactType, c.Email, c.Phone,
		c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy)
	return translateError(err, "save contact")
}

type productRepository struct {
	db querier
}

var _ portsrepo.ProductRepositoryFacade = (*productRepository)(nil)

const productColumns = `product_id, workplace_id, sku, name, category, unit_price, min_stock_level, created_at, created_by, last_updated_at, last_updated_by`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	var minStock decimal.NullDecimal
	err := row.Scan(&p.ProductID, &p.WorkplaceID, &p.SKU, &p.Name, &p.Category, &p.UnitPrice, &minStock,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy)
	if minStock.Valid {
		p.MinStockLevel = &minStock.Decimal
	}
	return p, err
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func (r *productRepository) FindProductByID(ctx context.Context, workplaceID, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE workplace_id = $1 AND product_id = $2`
	p, err := scanProduct(r.db.QueryRow(ctx, query, workplaceID, productID))
	if err != nil {
		return nil, notFoundOr(err, "product", "find product")
	}
	return &p, nil
}

func (r *productRepository) ListProducts(ctx context.Context, workplaceID string, limit, offset int) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE workplace_id = $1
		ORDER BY sku
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, workplaceID, limitArg(limit), offset)
	if err != nil {
		return nil, translateError(err, "list products")
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Product, error) {
		return scanProduct(row)
	})
	if err != nil {
		return nil, translateError(err, "scan products")
	}
	return products, nil
}

func (r *productRepository) SaveProduct(ctx context.Context, p domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query, p.ProductID, p.WorkplaceID, p.SKU, p.Name, p.Category, p.UnitPrice,
		nullDecimal(p.MinStockLevel), p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy)
	return translateError(err, "save product")
}
