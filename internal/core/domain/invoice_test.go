package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeItemTotal(t *testing.T) {
	tests := []struct {
		name                      string
		qty, price, tax, discount string
		want                      string
	}{
		{name: "plain line", qty: "2", price: "500", tax: "180", discount: "0", want: "1180"},
		{name: "discount subtracted", qty: "3", price: "10", tax: "0", discount: "5", want: "25"},
		{name: "rounded to two places", qty: "3", price: "0.333", tax: "0", discount: "0", want: "1"},
		{name: "half away from zero", qty: "1", price: "0.125", tax: "0", discount: "0", want: "0.13"},
		{name: "zero quantity", qty: "0", price: "99.99", tax: "1.5", discount: "0", want: "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ComputeItemTotal(dec(tt.qty), dec(tt.price), dec(tt.tax), dec(tt.discount))
			assert.True(t, dec(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestOrderItem_Validate(t *testing.T) {
	valid := domain.OrderItem{ProductID: "p1", Quantity: dec("1"), UnitPrice: dec("1")}
	assert.NoError(t, valid.Validate())

	negQty := valid
	negQty.Quantity = dec("-1")
	assert.Error(t, negQty.Validate())

	noProduct := valid
	noProduct.ProductID = ""
	assert.Error(t, noProduct.Validate())

	negDiscount := valid
	negDiscount.DiscountAmount = dec("-0.01")
	assert.Error(t, negDiscount.Validate())

	fullDiscount := domain.OrderItem{ProductID: "p1", Quantity: dec("1"), UnitPrice: dec("100"), TaxAmount: dec("18"), DiscountAmount: dec("118")}
	fullDiscount.Recompute()
	assert.NoError(t, fullDiscount.Validate())

	overDiscount := domain.OrderItem{ProductID: "p1", Quantity: dec("1"), UnitPrice: dec("100"), DiscountAmount: dec("250")}
	overDiscount.Recompute()
	assert.True(t, overDiscount.TotalAmount.IsNegative())
	assert.Error(t, overDiscount.Validate())
}

func TestInvoice_SetTotalsFromItems(t *testing.T) {
	items := []domain.OrderItem{
		{Quantity: dec("2"), UnitPrice: dec("500"), TaxAmount: dec("180"), TotalAmount: dec("1180")},
		{Quantity: dec("1"), UnitPrice: dec("100"), DiscountAmount: dec("10"), TotalAmount: dec("90")},
	}
	var inv domain.Invoice
	inv.SetTotalsFromItems(items)

	assert.True(t, dec("1100").Equal(inv.SubTotal))
	assert.True(t, dec("180").Equal(inv.TaxAmount))
	assert.True(t, dec("10").Equal(inv.DiscountAmount))
	assert.True(t, dec("1270").Equal(inv.TotalAmount))
	assert.True(t, inv.PaidAmount.IsZero())
	assert.True(t, inv.BalanceAmount.Equal(inv.TotalAmount))
}

func TestInvoice_ApplyPayment(t *testing.T) {
	inv := domain.Invoice{
		TotalAmount:   dec("1000"),
		PaidAmount:    decimal.Zero,
		BalanceAmount: dec("1000"),
		Status:        domain.InvoiceStatusUnpaid,
	}

	steps := []struct {
		amount  string
		balance string
		status  domain.InvoiceStatus
	}{
		{amount: "700", balance: "300", status: domain.InvoiceStatusPartial},
		{amount: "300", balance: "0", status: domain.InvoiceStatusPaid},
		{amount: "50", balance: "0", status: domain.InvoiceStatusPaid},
	}
	for _, s := range steps {
		inv.ApplyPayment(dec(s.amount))
		assert.True(t, dec(s.balance).Equal(inv.BalanceAmount), "balance after %s", s.amount)
		assert.Equal(t, s.status, inv.Status)
		want := domain.MaxDecimal(decimal.Zero, inv.TotalAmount.Sub(inv.PaidAmount))
		assert.True(t, want.Equal(inv.BalanceAmount))
	}
	assert.True(t, dec("1050").Equal(inv.PaidAmount))
}

func TestInvoice_ApplyPaymentOnZeroTotal(t *testing.T) {
	inv := domain.Invoice{Status: domain.InvoiceStatusUnpaid}
	inv.ApplyPayment(dec("5"))
	assert.Equal(t, domain.InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.BalanceAmount.IsZero())
}

func TestInvoice_IsOverdueAt(t *testing.T) {
	due := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	inv := domain.Invoice{DueDate: &due, Status: domain.InvoiceStatusUnpaid, BalanceAmount: dec("10")}

	assert.False(t, inv.IsOverdueAt(due))
	assert.True(t, inv.IsOverdueAt(due.AddDate(0, 0, 1)))

	inv.Status = domain.InvoiceStatusPaid
	assert.False(t, inv.IsOverdueAt(due.AddDate(0, 0, 1)))

	inv.Status = domain.InvoiceStatusPartial
	inv.DueDate = nil
	assert.False(t, inv.IsOverdueAt(due.AddDate(1, 0, 0)))
}

func TestOrder_IsConvertible(t *testing.T) {
	tests := []struct {
		orderType domain.OrderType
		status    domain.OrderStatus
		want      bool
	}{
		{domain.OrderTypeSales, domain.OrderStatusDraft, false},
		{domain.OrderTypeSales, domain.OrderStatusApproved, true},
		{domain.OrderTypeSales, domain.OrderStatusDelivered, true},
		{domain.OrderTypeSales, domain.OrderStatusReceived, false},
		{domain.OrderTypePurchase, domain.OrderStatusReceived, true},
		{domain.OrderTypePurchase, domain.OrderStatusDelivered, false},
		{domain.OrderTypePurchase, domain.OrderStatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.orderType)+"/"+string(tt.status), func(t *testing.T) {
			o := domain.Order{OrderType: tt.orderType, Status: tt.status}
			assert.Equal(t, tt.want, o.IsConvertible())
		})
	}
}

func TestScope_Allows(t *testing.T) {
	assert.True(t, domain.Scope{}.Allows("anyone"))

	scope := domain.ScopeFor(domain.Actor{UserID: "u1", Role: domain.RoleContact, ContactID: "c1"})
	assert.True(t, scope.Allows("c1"))
	assert.False(t, scope.Allows("c2"))

	assert.Nil(t, domain.ScopeFor(domain.Actor{UserID: "u1", Role: domain.RoleAdmin}).RestrictToContactID)
}

func TestActor_MemberOf(t *testing.T) {
	actor := domain.Actor{UserID: "u1", Role: domain.RoleAdmin, WorkplaceIDs: []string{"w1", "w2"}}
	assert.True(t, actor.MemberOf("w2"))
	assert.False(t, actor.MemberOf("w3"))
	assert.False(t, actor.MemberOf(""))
	assert.False(t, domain.Actor{UserID: "u1", Role: domain.RoleAdmin}.MemberOf("w1"))
}
