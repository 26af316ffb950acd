package repositories

// Repositories groups every repository facade. The same set is exposed outside and
// inside a transaction.
type Repositories interface {
	Contacts() ContactRepositoryFacade
	Products() ProductRepositoryFacade
	Orders() OrderRepositoryFacade
	OrderItems() OrderItemRepositoryFacade
	Invoices() InvoiceRepositoryFacade
	Payments() PaymentRepositoryFacade
	Sequences() SequenceRepository
	Accounts() AccountRepositoryFacade
	LedgerTransactions() LedgerTransactionRepositoryFacade
	Reporting() ReportingRepository
}
