package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	store       *memory.Store
	ctx         context.Context
	workplaceID string
	now         time.Time
}

func (suite *StoreTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	suite.ctx = context.Background()
	suite.workplaceID = uuid.NewString()
	suite.now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
}

func (suite *StoreTestSuite) invoice(number string, orderID *string, date time.Time) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     uuid.NewString(),
		WorkplaceID:   suite.workplaceID,
		InvoiceType:   domain.InvoiceTypeSales,
		InvoiceNumber: number,
		ContactID:     "c1",
		OrderID:       orderID,
		InvoiceDate:   date,
		Status:        domain.InvoiceStatusUnpaid,
		TotalAmount:   decimal.NewFromInt(100),
		BalanceAmount: decimal.NewFromInt(100),
		AuditFields:   domain.NewAuditFields("u1", suite.now),
	}
}

func (suite *StoreTestSuite) TestWithinTx_RollsBackOnError() {
	boom := errors.New("boom")
	contact := domain.Contact{ContactID: "c1", WorkplaceID: suite.workplaceID, Name: "Acme", ContactType: domain.ContactCustomer}

	err := suite.store.WithinTx(suite.ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		suite.Require().NoError(repos.Contacts().SaveContact(ctx, contact))
		_, err := repos.Contacts().FindContactByID(ctx, suite.workplaceID, "c1")
		suite.Require().NoError(err)
		return boom
	})
	suite.ErrorIs(err, boom)

	_, err = suite.store.Contacts().FindContactByID(suite.ctx, suite.workplaceID, "c1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *StoreTestSuite) TestWithinTx_CommitsOnSuccess() {
	key := domain.SequenceKeyFor(suite.workplaceID, domain.DocPayment, suite.now)
	err := suite.store.WithinTx(suite.ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		suite.Require().NoError(repos.Sequences().SeedSequence(ctx, key, 41))
		_, err := repos.Sequences().NextSequenceValue(ctx, key)
		return err
	})
	suite.Require().NoError(err)

	next, err := suite.store.Sequences().NextSequenceValue(suite.ctx, key)
	suite.Require().NoError(err)
	suite.Equal(int64(43), next)
}

func (suite *StoreTestSuite) TestSeedSequence_KeepsExistingCounter() {
	key := domain.SequenceKeyFor(suite.workplaceID, domain.DocSalesInvoice, suite.now)
	suite.Require().NoError(suite.store.SeedSequence(suite.ctx, key, 5))
	suite.Require().NoError(suite.store.SeedSequence(suite.ctx, key, 1))

	next, err := suite.store.NextSequenceValue(suite.ctx, key)
	suite.Require().NoError(err)
	suite.Equal(int64(6), next)
}

func (suite *StoreTestSuite) TestSaveInvoice_TakenNumberIsConcurrentUpdate() {
	suite.Require().NoError(suite.store.SaveInvoice(suite.ctx, suite.invoice("INV-2024-06-01", nil, suite.now)))

	err := suite.store.SaveInvoice(suite.ctx, suite.invoice("INV-2024-06-01", nil, suite.now))
	suite.ErrorIs(err, apperrors.ErrConcurrentUpdate)
}

func (suite *StoreTestSuite) TestSaveInvoice_SecondActiveConversionConflicts() {
	orderID := "o1"
	first := suite.invoice("INV-2024-06-01", &orderID, suite.now)
	suite.Require().NoError(suite.store.SaveInvoice(suite.ctx, first))

	err := suite.store.SaveInvoice(suite.ctx, suite.invoice("INV-2024-06-02", &orderID, suite.now))
	suite.ErrorIs(err, apperrors.ErrConflict)

	// once the first is cancelled the order may be converted again
	suite.Require().NoError(suite.store.UpdateInvoiceStatus(suite.ctx, suite.workplaceID, first.InvoiceID, domain.InvoiceStatusCancelled, "u1", suite.now))
	suite.NoError(suite.store.SaveInvoice(suite.ctx, suite.invoice("INV-2024-06-03", &orderID, suite.now)))
}

func (suite *StoreTestSuite) TestLatestInvoiceNumber_MatchesPeriodOnly() {
	may := suite.invoice("INV-2024-05-09", nil, suite.now.AddDate(0, -1, 0))
	june := suite.invoice("INV-2024-06-03", nil, suite.now)
	june.CreatedAt = suite.now.Add(time.Minute)
	suite.Require().NoError(suite.store.SaveInvoice(suite.ctx, may))
	suite.Require().NoError(suite.store.SaveInvoice(suite.ctx, june))

	latest, found, err := suite.store.LatestInvoiceNumber(suite.ctx, suite.workplaceID, domain.InvoiceTypeSales, "INV-2024-06-%")
	suite.Require().NoError(err)
	suite.True(found)
	suite.Equal("INV-2024-06-03", latest)

	_, found, err = suite.store.LatestInvoiceNumber(suite.ctx, suite.workplaceID, domain.InvoiceTypeSales, "INV-2024-07-%")
	suite.Require().NoError(err)
	suite.False(found)
}

func (suite *StoreTestSuite) TestListInvoices_PagesNewestFirst() {
	for i := 1; i <= 5; i++ {
		inv := suite.invoice(uuid.NewString(), nil, suite.now.AddDate(0, 0, i))
		suite.Require().NoError(suite.store.SaveInvoice(suite.ctx, inv))
	}

	first, next, err := suite.store.ListInvoices(suite.ctx, suite.workplaceID, domain.InvoiceFilter{}, 3, nil)
	suite.Require().NoError(err)
	suite.Require().Len(first, 3)
	suite.Require().NotNil(next)
	suite.True(first[0].InvoiceDate.After(first[1].InvoiceDate))

	second, next, err := suite.store.ListInvoices(suite.ctx, suite.workplaceID, domain.InvoiceFilter{}, 3, next)
	suite.Require().NoError(err)
	suite.Len(second, 2)
	suite.Nil(next)
	suite.True(first[2].InvoiceDate.After(second[0].InvoiceDate))
}

func (suite *StoreTestSuite) TestListInvoices_BadTokenIsValidation() {
	bad := "%%%"
	_, _, err := suite.store.ListInvoices(suite.ctx, suite.workplaceID, domain.InvoiceFilter{}, 3, &bad)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *StoreTestSuite) TestDeleteItem_WrongParentIsNotFound() {
	item := domain.OrderItem{
		ItemID:      "i1",
		WorkplaceID: suite.workplaceID,
		Parent:      domain.OrderRef("o1", domain.OrderTypeSales),
		ProductID:   "p1",
		Quantity:    decimal.NewFromInt(1),
		AuditFields: domain.NewAuditFields("u1", suite.now),
	}
	suite.Require().NoError(suite.store.SaveItems(suite.ctx, []domain.OrderItem{item}))

	err := suite.store.DeleteItem(suite.ctx, suite.workplaceID, domain.OrderRef("o1", domain.OrderTypePurchase), "i1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.NoError(suite.store.DeleteItem(suite.ctx, suite.workplaceID, item.Parent, "i1"))
}

func (suite *StoreTestSuite) TestSaveProduct_DuplicateSKU() {
	p := domain.Product{ProductID: "p1", WorkplaceID: suite.workplaceID, SKU: "SKU-1", Name: "Bolt"}
	suite.Require().NoError(suite.store.SaveProduct(suite.ctx, p))
	p.ProductID = "p2"
	suite.ErrorIs(suite.store.SaveProduct(suite.ctx, p), apperrors.ErrDuplicate)
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
