package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/core/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// EngineTestSuite drives the services end to end against the in-memory store.
type EngineTestSuite struct {
	suite.Suite
	ctx         context.Context
	store       *memory.Store
	workplaceID string
	actor       domain.Actor
	now         time.Time

	contacts   portssvc.ContactSvcFacade
	products   portssvc.ProductSvcFacade
	orders     portssvc.OrderSvcFacade
	conversion portssvc.ConversionSvc
	invoices   portssvc.InvoiceSvcFacade
	payments   portssvc.PaymentSvcFacade
	reporting  portssvc.ReportingService

	customer *domain.Contact
	product  *domain.Product
}

func (suite *EngineTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.workplaceID = uuid.NewString()
	suite.actor = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleAdmin}
	suite.now = time.Date(2024, 6, 20, 9, 0, 0, 0, time.UTC)

	clock := services.WithClock(func() time.Time { return suite.now })
	numbering := services.NewNumberingService(services.DefaultDocumentPrefixes, clock)
	suite.reporting = services.NewReportingService(suite.store)
	suite.contacts = services.NewContactService(suite.store, clock)
	suite.products = services.NewProductService(suite.store, clock)
	suite.orders = services.NewOrderService(suite.store, numbering, clock)
	suite.conversion = services.NewConversionService(suite.store, numbering, services.WithConversionBase(clock))
	suite.invoices = services.NewInvoiceService(suite.store, numbering, clock)
	suite.payments = services.NewPaymentService(suite.store, numbering, clock)

	var err error
	suite.customer, err = suite.contacts.CreateContact(suite.ctx, suite.workplaceID,
		dto.CreateContactRequest{Name: "Acme Retail", ContactType: domain.ContactCustomer}, suite.actor)
	suite.Require().NoError(err)
	suite.product, err = suite.products.CreateProduct(suite.ctx, suite.workplaceID,
		dto.CreateProductRequest{SKU: "WID-1", Name: "Widget", Category: "hardware", UnitPrice: decimal.NewFromInt(500)}, suite.actor)
	suite.Require().NoError(err)
}

func (suite *EngineTestSuite) date(month time.Month, day int) time.Time {
	return time.Date(2024, month, day, 0, 0, 0, 0, time.UTC)
}

func (suite *EngineTestSuite) item(qty, price, tax int64) dto.OrderItemRequest {
	return dto.OrderItemRequest{
		ProductID: suite.product.ProductID,
		Quantity:  decimal.NewFromInt(qty),
		UnitPrice: decimal.NewFromInt(price),
		TaxAmount: decimal.NewFromInt(tax),
	}
}

func (suite *EngineTestSuite) salesInvoice(date time.Time, items ...dto.OrderItemRequest) *domain.Invoice {
	inv, err := suite.invoices.CreateInvoice(suite.ctx, suite.workplaceID, dto.CreateInvoiceRequest{
		InvoiceType: domain.InvoiceTypeSales,
		ContactID:   suite.customer.ContactID,
		InvoiceDate: date,
		Items:       items,
	}, suite.actor)
	suite.Require().NoError(err)
	return inv
}

func (suite *EngineTestSuite) pay(invoiceID string, amount int64, date time.Time) (*domain.Payment, *domain.Invoice, error) {
	return suite.payments.ApplyPayment(suite.ctx, suite.workplaceID, invoiceID, dto.ApplyPaymentRequest{
		Amount:      decimal.NewFromInt(amount),
		PaymentDate: date,
		Method:      domain.PaymentBankTransfer,
	}, suite.actor)
}

func (suite *EngineTestSuite) approvedSalesOrder() *domain.Order {
	order, err := suite.orders.CreateOrder(suite.ctx, suite.workplaceID, domain.OrderTypeSales, dto.CreateOrderRequest{
		ContactID: suite.customer.ContactID,
		Items:     []dto.OrderItemRequest{suite.item(2, 500, 180)},
	}, suite.actor)
	suite.Require().NoError(err)
	order, err = suite.orders.ApproveOrder(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypeSales, suite.actor)
	suite.Require().NoError(err)
	return order
}

func (suite *EngineTestSuite) TestConvertOrder_CreatesInvoiceAndDeliversOrder() {
	order := suite.approvedSalesOrder()
	suite.True(decimal.NewFromInt(1180).Equal(order.TotalAmount))

	inv, err := suite.conversion.ConvertOrderToInvoice(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypeSales,
		dto.ConvertOrderRequest{InvoiceDate: suite.date(time.June, 15)}, suite.actor)
	suite.Require().NoError(err)

	suite.Equal(domain.InvoiceTypeSales, inv.InvoiceType)
	suite.Equal(domain.InvoiceStatusUnpaid, inv.Status)
	suite.Regexp(`^INV-2024-06-\d+$`, inv.InvoiceNumber)
	suite.Equal("INV-2024-06-01", inv.InvoiceNumber)
	suite.True(decimal.NewFromInt(1180).Equal(inv.TotalAmount))
	suite.True(inv.TotalAmount.Equal(inv.BalanceAmount))
	suite.Require().NotNil(inv.DueDate)
	suite.Equal(suite.date(time.July, 15), *inv.DueDate)
	suite.Len(inv.Items, 1)

	reloaded, err := suite.orders.GetOrder(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypeSales, domain.Scope{})
	suite.Require().NoError(err)
	suite.Equal(domain.OrderStatusDelivered, reloaded.Status)
}

func (suite *EngineTestSuite) TestConvertOrder_SecondConversionConflicts() {
	order := suite.approvedSalesOrder()
	req := dto.ConvertOrderRequest{InvoiceDate: suite.date(time.June, 15)}

	_, err := suite.conversion.ConvertOrderToInvoice(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypeSales, req, suite.actor)
	suite.Require().NoError(err)

	_, err = suite.conversion.ConvertOrderToInvoice(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypeSales, req, suite.actor)
	suite.ErrorIs(err, apperrors.ErrConflict)

	invoices, _, err := suite.invoices.ListInvoices(suite.ctx, suite.workplaceID, dto.ListInvoicesParams{OrderID: &order.OrderID, Limit: 10}, domain.Scope{})
	suite.Require().NoError(err)
	suite.Len(invoices, 1)
}

func (suite *EngineTestSuite) TestConvertOrder_DraftIsInvalidState() {
	order, err := suite.orders.CreateOrder(suite.ctx, suite.workplaceID, domain.OrderTypeSales, dto.CreateOrderRequest{
		ContactID: suite.customer.ContactID,
		Items:     []dto.OrderItemRequest{suite.item(1, 500, 0)},
	}, suite.actor)
	suite.Require().NoError(err)

	_, err = suite.conversion.ConvertOrderToInvoice(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypeSales,
		dto.ConvertOrderRequest{InvoiceDate: suite.date(time.June, 15)}, suite.actor)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *EngineTestSuite) TestOrderItems_AddThenRemoveRestoresTotal() {
	order, err := suite.orders.CreateOrder(suite.ctx, suite.workplaceID, domain.OrderTypeSales, dto.CreateOrderRequest{
		ContactID: suite.customer.ContactID,
		Items:     []dto.OrderItemRequest{suite.item(2, 500, 180)},
	}, suite.actor)
	suite.Require().NoError(err)
	before := order.TotalAmount

	added, err := suite.orders.AddOrderItem(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypeSales, suite.item(1, 20, 0), suite.actor)
	suite.Require().NoError(err)
	suite.True(before.Add(decimal.NewFromInt(20)).Equal(added.TotalAmount))
	suite.Require().Len(added.Items, 2)

	var newItemID string
	for _, it := range added.Items {
		if it.TotalAmount.Equal(decimal.NewFromInt(20)) {
			newItemID = it.ItemID
		}
	}
	suite.Require().NotEmpty(newItemID)

	removed, err := suite.orders.RemoveOrderItem(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypeSales, newItemID, suite.actor)
	suite.Require().NoError(err)
	suite.True(before.Equal(removed.TotalAmount))
	suite.Len(removed.Items, 1)
}

func (suite *EngineTestSuite) TestOrderItems_RejectedOnceApproved() {
	order := suite.approvedSalesOrder()
	_, err := suite.orders.AddOrderItem(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypeSales, suite.item(1, 20, 0), suite.actor)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *EngineTestSuite) TestCreateOrder_VendorOnSalesOrderIsValidation() {
	vendor := suite.vendor()

	_, err := suite.orders.CreateOrder(suite.ctx, suite.workplaceID, domain.OrderTypeSales, dto.CreateOrderRequest{
		ContactID: vendor.ContactID,
		Items:     []dto.OrderItemRequest{suite.item(1, 500, 0)},
	}, suite.actor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *EngineTestSuite) TestApplyPayment_PartialPaidThenOverpaid() {
	inv := suite.salesInvoice(suite.date(time.June, 1), suite.item(1, 1000, 0))

	_, updated, err := suite.pay(inv.InvoiceID, 700, suite.date(time.June, 2))
	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceStatusPartial, updated.Status)
	suite.True(decimal.NewFromInt(300).Equal(updated.BalanceAmount))

	_, updated, err = suite.pay(inv.InvoiceID, 300, suite.date(time.June, 3))
	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceStatusPaid, updated.Status)
	suite.True(updated.BalanceAmount.IsZero())

	_, updated, err = suite.pay(inv.InvoiceID, 50, suite.date(time.June, 4))
	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceStatusPaid, updated.Status)
	suite.True(updated.BalanceAmount.IsZero())
	suite.True(decimal.NewFromInt(1050).Equal(updated.PaidAmount))
}

func (suite *EngineTestSuite) TestApplyPayment_DraftInvoiceIsInvalidState() {
	inv, err := suite.invoices.CreateInvoice(suite.ctx, suite.workplaceID, dto.CreateInvoiceRequest{
		InvoiceType: domain.InvoiceTypeSales,
		ContactID:   suite.customer.ContactID,
		InvoiceDate: suite.date(time.June, 1),
		Draft:       true,
		Items:       []dto.OrderItemRequest{suite.item(1, 100, 0)},
	}, suite.actor)
	suite.Require().NoError(err)

	_, _, err = suite.pay(inv.InvoiceID, 10, suite.date(time.June, 2))
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *EngineTestSuite) TestApplyPayment_ConcurrentPaymentsGetDistinctNumbers() {
	inv := suite.salesInvoice(suite.date(time.June, 1), suite.item(1, 1000, 0))

	const n = 20
	var wg sync.WaitGroup
	numbers := make(chan string, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, _, err := suite.pay(inv.InvoiceID, 1, suite.date(time.June, 5))
			if err != nil {
				errs <- err
				return
			}
			numbers <- p.PaymentNumber
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		suite.NoError(err)
	}
	seen := map[string]bool{}
	for number := range numbers {
		suite.False(seen[number], "duplicate payment number %s", number)
		seen[number] = true
	}
	suite.Len(seen, n)
	for i := 1; i <= n; i++ {
		suite.True(seen[fmt.Sprintf("2024-%04d", i)])
	}
}

func (suite *EngineTestSuite) TestNumbering_ContinuesFromExistingDocuments() {
	legacy := domain.Invoice{
		InvoiceID:     uuid.NewString(),
		WorkplaceID:   suite.workplaceID,
		InvoiceType:   domain.InvoiceTypeSales,
		InvoiceNumber: "INV-2024-06-07",
		ContactID:     suite.customer.ContactID,
		InvoiceDate:   suite.date(time.June, 1),
		Status:        domain.InvoiceStatusUnpaid,
		AuditFields:   domain.NewAuditFields(suite.actor.UserID, suite.now.Add(-time.Hour)),
	}
	suite.Require().NoError(suite.store.SaveInvoice(suite.ctx, legacy))

	inv := suite.salesInvoice(suite.date(time.June, 2), suite.item(1, 100, 0))
	suite.Equal("INV-2024-06-08", inv.InvoiceNumber)

	// a new month starts its own sequence
	july := suite.salesInvoice(suite.date(time.July, 1), suite.item(1, 100, 0))
	suite.Equal("INV-2024-07-01", july.InvoiceNumber)
}

func (suite *EngineTestSuite) TestNumbering_UnparseableLatestNumberIsInternal() {
	legacy := domain.Invoice{
		InvoiceID:     uuid.NewString(),
		WorkplaceID:   suite.workplaceID,
		InvoiceType:   domain.InvoiceTypeSales,
		InvoiceNumber: "INV-2024-06-XX",
		ContactID:     suite.customer.ContactID,
		InvoiceDate:   suite.date(time.June, 1),
		Status:        domain.InvoiceStatusUnpaid,
		AuditFields:   domain.NewAuditFields(suite.actor.UserID, suite.now),
	}
	suite.Require().NoError(suite.store.SaveInvoice(suite.ctx, legacy))

	_, err := suite.invoices.CreateInvoice(suite.ctx, suite.workplaceID, dto.CreateInvoiceRequest{
		InvoiceType: domain.InvoiceTypeSales,
		ContactID:   suite.customer.ContactID,
		InvoiceDate: suite.date(time.June, 2),
		Items:       []dto.OrderItemRequest{suite.item(1, 100, 0)},
	}, suite.actor)
	suite.ErrorIs(err, apperrors.ErrInternal)
}

func (suite *EngineTestSuite) TestCancelInvoice_WithPaymentsIsInvalidState() {
	inv := suite.salesInvoice(suite.date(time.June, 1), suite.item(1, 1000, 0))
	_, _, err := suite.pay(inv.InvoiceID, 100, suite.date(time.June, 2))
	suite.Require().NoError(err)

	_, err = suite.invoices.CancelInvoice(suite.ctx, suite.workplaceID, inv.InvoiceID, suite.actor)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *EngineTestSuite) TestMarkOverdueInvoices() {
	due := suite.date(time.June, 10)
	inv, err := suite.invoices.CreateInvoice(suite.ctx, suite.workplaceID, dto.CreateInvoiceRequest{
		InvoiceType: domain.InvoiceTypeSales,
		ContactID:   suite.customer.ContactID,
		InvoiceDate: suite.date(time.June, 1),
		DueDate:     &due,
		Items:       []dto.OrderItemRequest{suite.item(1, 1000, 0)},
	}, suite.actor)
	suite.Require().NoError(err)

	updated, err := suite.invoices.MarkOverdueInvoices(suite.ctx, suite.workplaceID, suite.date(time.June, 11), suite.actor)
	suite.Require().NoError(err)
	suite.Equal(1, updated)

	reloaded, err := suite.invoices.GetInvoice(suite.ctx, suite.workplaceID, inv.InvoiceID, domain.Scope{})
	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceStatusOverdue, reloaded.Status)
}

func (suite *EngineTestSuite) TestContactScope_HidesOtherContactsDocuments() {
	inv := suite.salesInvoice(suite.date(time.June, 1), suite.item(1, 1000, 0))
	other := "someone-else"
	scope := domain.Scope{RestrictToContactID: &other}

	_, err := suite.invoices.GetInvoice(suite.ctx, suite.workplaceID, inv.InvoiceID, scope)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.payments.ListPaymentsForInvoice(suite.ctx, suite.workplaceID, inv.InvoiceID, scope)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.reporting.GetPartnerLedger(suite.ctx, suite.workplaceID, suite.customer.ContactID, dto.PartnerLedgerParams{}, scope)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *EngineTestSuite) TestReadOnlyActorCannotWrite() {
	readOnly := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleReadOnly}
	_, err := suite.contacts.CreateContact(suite.ctx, suite.workplaceID,
		dto.CreateContactRequest{Name: "Nope", ContactType: domain.ContactCustomer}, readOnly)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *EngineTestSuite) TestPartnerLedger_RunningBalance() {
	inv := suite.salesInvoice(suite.date(time.June, 1), suite.item(1, 1000, 0))
	_, _, err := suite.pay(inv.InvoiceID, 400, suite.date(time.June, 10))
	suite.Require().NoError(err)

	ledger, err := suite.reporting.GetPartnerLedger(suite.ctx, suite.workplaceID, suite.customer.ContactID, dto.PartnerLedgerParams{}, domain.Scope{})
	suite.Require().NoError(err)

	suite.Require().Len(ledger.Entries, 2)
	suite.True(decimal.NewFromInt(1000).Equal(ledger.Entries[0].RunningBalance))
	suite.True(decimal.NewFromInt(600).Equal(ledger.Entries[1].RunningBalance))
	suite.True(decimal.NewFromInt(600).Equal(ledger.ClosingBalance))
}

func (suite *EngineTestSuite) TestStockReport_OversoldProductIsOutOfStock() {
	suite.salesInvoice(suite.date(time.June, 1), suite.item(3, 500, 0))

	report, err := suite.reporting.GetStockReport(suite.ctx, suite.workplaceID, domain.StockQuery{})
	suite.Require().NoError(err)

	suite.Require().Len(report.Items, 1)
	row := report.Items[0]
	suite.True(decimal.NewFromInt(-3).Equal(row.CurrentStock))
	suite.True(row.DisplayStock.IsZero())
	suite.Equal(domain.StockOutOfStock, row.Status)
	suite.Equal(1, report.Summary.OutOfStockCount)
	suite.Len(report.Alerts, 1)
}

func (suite *EngineTestSuite) TestFinancialSummary_ComparesWindows() {
	suite.salesInvoice(suite.date(time.June, 15), suite.item(1, 1500, 0))
	suite.salesInvoice(suite.date(time.May, 10), suite.item(1, 1000, 0))

	summary, err := suite.reporting.GetFinancialSummary(suite.ctx, suite.workplaceID, domain.Period30Days, suite.now)
	suite.Require().NoError(err)

	suite.True(decimal.NewFromInt(1500).Equal(summary.Revenue.Current))
	suite.True(decimal.NewFromInt(1000).Equal(summary.Revenue.Previous))
	suite.True(decimal.NewFromInt(50).Equal(summary.Revenue.ChangePercent))
	suite.Equal(1, summary.SalesInvoiceCount)
	suite.True(decimal.NewFromInt(2500).Equal(summary.OutstandingReceivable))
}

func (suite *EngineTestSuite) vendor() *domain.Contact {
	vendor, err := suite.contacts.CreateContact(suite.ctx, suite.workplaceID,
		dto.CreateContactRequest{Name: "Parts Co", ContactType: domain.ContactVendor}, suite.actor)
	suite.Require().NoError(err)
	return vendor
}

func (suite *EngineTestSuite) TestConvertOrder_PurchaseOrderBecomesBillOnce() {
	vendor := suite.vendor()
	order, err := suite.orders.CreateOrder(suite.ctx, suite.workplaceID, domain.OrderTypePurchase, dto.CreateOrderRequest{
		ContactID: vendor.ContactID,
		Items:     []dto.OrderItemRequest{suite.item(4, 250, 0)},
	}, suite.actor)
	suite.Require().NoError(err)
	_, err = suite.orders.ApproveOrder(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypePurchase, suite.actor)
	suite.Require().NoError(err)

	req := dto.ConvertOrderRequest{InvoiceDate: suite.date(time.June, 18)}
	bill, err := suite.conversion.ConvertOrderToInvoice(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypePurchase, req, suite.actor)
	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceTypePurchase, bill.InvoiceType)
	suite.Equal("BILL-2024-06-01", bill.InvoiceNumber)
	suite.True(decimal.NewFromInt(1000).Equal(bill.TotalAmount))

	reloaded, err := suite.orders.GetOrder(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypePurchase, domain.Scope{})
	suite.Require().NoError(err)
	suite.Equal(domain.OrderStatusReceived, reloaded.Status)

	_, err = suite.conversion.ConvertOrderToInvoice(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypePurchase, req, suite.actor)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *EngineTestSuite) TestConvertOrder_EmptyOrderIsInvalidState() {
	order, err := suite.orders.CreateOrder(suite.ctx, suite.workplaceID, domain.OrderTypeSales, dto.CreateOrderRequest{
		ContactID: suite.customer.ContactID,
	}, suite.actor)
	suite.Require().NoError(err)
	_, err = suite.orders.ApproveOrder(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypeSales, suite.actor)
	suite.Require().NoError(err)

	_, err = suite.conversion.ConvertOrderToInvoice(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypeSales,
		dto.ConvertOrderRequest{InvoiceDate: suite.date(time.June, 15)}, suite.actor)
	suite.ErrorIs(err, apperrors.ErrInvalidState)

	reloaded, err := suite.orders.GetOrder(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypeSales, domain.Scope{})
	suite.Require().NoError(err)
	suite.Equal(domain.OrderStatusApproved, reloaded.Status)
}

func (suite *EngineTestSuite) TestConvertOrder_MissingOrderIsNotFound() {
	_, err := suite.conversion.ConvertOrderToInvoice(suite.ctx, suite.workplaceID, uuid.NewString(), domain.OrderTypeSales,
		dto.ConvertOrderRequest{InvoiceDate: suite.date(time.June, 15)}, suite.actor)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *EngineTestSuite) TestApplyPayment_MissingInvoiceIsNotFound() {
	_, _, err := suite.pay(uuid.NewString(), 100, suite.date(time.June, 2))
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *EngineTestSuite) TestApplyPayment_AutoNumberingSkipsSuppliedNumbers() {
	inv := suite.salesInvoice(suite.date(time.June, 1), suite.item(1, 1000, 0))

	first, _, err := suite.pay(inv.InvoiceID, 100, suite.date(time.June, 2))
	suite.Require().NoError(err)
	suite.Equal("2024-0001", first.PaymentNumber)

	supplied := "2024-0002"
	manual, _, err := suite.payments.ApplyPayment(suite.ctx, suite.workplaceID, inv.InvoiceID, dto.ApplyPaymentRequest{
		Amount:        decimal.NewFromInt(100),
		PaymentDate:   suite.date(time.June, 3),
		Method:        domain.PaymentBankTransfer,
		PaymentNumber: &supplied,
	}, suite.actor)
	suite.Require().NoError(err)
	suite.Equal(supplied, manual.PaymentNumber)

	next, _, err := suite.pay(inv.InvoiceID, 100, suite.date(time.June, 4))
	suite.Require().NoError(err)
	suite.Equal("2024-0003", next.PaymentNumber)

	after, _, err := suite.pay(inv.InvoiceID, 100, suite.date(time.June, 5))
	suite.Require().NoError(err)
	suite.Equal("2024-0004", after.PaymentNumber)
}

func (suite *EngineTestSuite) TestCreateInvoice_DiscountAboveLineAmountIsValidation() {
	over := suite.item(1, 100, 0)
	over.DiscountAmount = decimal.NewFromInt(250)

	_, err := suite.invoices.CreateInvoice(suite.ctx, suite.workplaceID, dto.CreateInvoiceRequest{
		InvoiceType: domain.InvoiceTypeSales,
		ContactID:   suite.customer.ContactID,
		InvoiceDate: suite.date(time.June, 1),
		Items:       []dto.OrderItemRequest{over},
	}, suite.actor)
	suite.ErrorIs(err, apperrors.ErrValidation)

	invoices, _, err := suite.invoices.ListInvoices(suite.ctx, suite.workplaceID, dto.ListInvoicesParams{Limit: 10}, domain.Scope{})
	suite.Require().NoError(err)
	suite.Empty(invoices)
}

func (suite *EngineTestSuite) TestAddOrderItem_DiscountAboveLineAmountIsValidation() {
	order, err := suite.orders.CreateOrder(suite.ctx, suite.workplaceID, domain.OrderTypeSales, dto.CreateOrderRequest{
		ContactID: suite.customer.ContactID,
	}, suite.actor)
	suite.Require().NoError(err)

	over := suite.item(1, 100, 18)
	over.DiscountAmount = decimal.NewFromInt(119)
	_, err = suite.orders.AddOrderItem(suite.ctx, suite.workplaceID, order.OrderID, domain.OrderTypeSales, over, suite.actor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *EngineTestSuite) TestCreateInvoice_DueDateBeforeInvoiceDateIsValidation() {
	due := suite.date(time.May, 31)
	_, err := suite.invoices.CreateInvoice(suite.ctx, suite.workplaceID, dto.CreateInvoiceRequest{
		InvoiceType: domain.InvoiceTypeSales,
		ContactID:   suite.customer.ContactID,
		InvoiceDate: suite.date(time.June, 1),
		DueDate:     &due,
		Items:       []dto.OrderItemRequest{suite.item(1, 100, 0)},
	}, suite.actor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *EngineTestSuite) TestCreateInvoice_DueDateStoredInUTC() {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	due := time.Date(2024, time.July, 1, 2, 0, 0, 0, ist)
	inv, err := suite.invoices.CreateInvoice(suite.ctx, suite.workplaceID, dto.CreateInvoiceRequest{
		InvoiceType: domain.InvoiceTypeSales,
		ContactID:   suite.customer.ContactID,
		InvoiceDate: suite.date(time.June, 1),
		DueDate:     &due,
		Items:       []dto.OrderItemRequest{suite.item(1, 100, 0)},
	}, suite.actor)
	suite.Require().NoError(err)
	suite.Require().NotNil(inv.DueDate)
	suite.Equal(time.UTC, inv.DueDate.Location())
	suite.Equal(time.Date(2024, time.June, 30, 20, 30, 0, 0, time.UTC), *inv.DueDate)
}

func TestEngine(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

// flakyStore loses the first failures units of work to a concurrent writer.
type flakyStore struct {
	*memory.Store
	mu       sync.Mutex
	failures int
	calls    int
}

func (f *flakyStore) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()
	if fail {
		return apperrors.ErrConcurrentUpdate
	}
	return f.Store.WithinTx(ctx, fn)
}

func TestRunInTx_RetriesLostRaces(t *testing.T) {
	store := &flakyStore{Store: memory.NewStore(), failures: 2}
	actor := domain.Actor{UserID: "u1", Role: domain.RoleMember}
	svc := services.NewAccountService(store, services.WithMaxRetries(3))

	account, err := svc.CreateAccount(context.Background(), "w1",
		dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}, actor)
	require.NoError(t, err)
	assert.Equal(t, 3, store.calls)
	assert.Equal(t, 1, account.Level)
}

func TestRunInTx_GivesUpAfterMaxRetries(t *testing.T) {
	store := &flakyStore{Store: memory.NewStore(), failures: 10}
	actor := domain.Actor{UserID: "u1", Role: domain.RoleMember}
	svc := services.NewAccountService(store, services.WithMaxRetries(3))

	_, err := svc.CreateAccount(context.Background(), "w1",
		dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}, actor)
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.NotErrorIs(t, err, apperrors.ErrConcurrentUpdate)
	assert.Equal(t, 3, store.calls)
}
