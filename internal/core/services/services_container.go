package services

import (
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/platform/config"
)

// Infrastructure carries the optional shared backends of the services.
type Infrastructure struct {
	Cache  portsrepo.ReportCache // nil disables report caching
	Locker portsrepo.Locker      // nil disables the conversion lock
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, store portsrepo.Store, infra Infrastructure) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Reporting first: every mutating service invalidates its cache
	reportingOpts := []ReportingServiceOption{}
	if infra.Cache != nil {
		reportingOpts = append(reportingOpts, WithReportCache(infra.Cache, cfg.ReportCacheTTL))
	}
	container.Reporting = NewReportingService(store, reportingOpts...)

	common := []ServiceOption{
		WithMaxRetries(cfg.NumberingMaxRetries),
		WithReportInvalidation(container.Reporting),
	}

	container.Numbering = NewNumberingService(DocumentPrefixes{
		Invoice:       cfg.InvoicePrefix,
		Bill:          cfg.BillPrefix,
		SalesOrder:    cfg.SalesOrderPrefix,
		PurchaseOrder: cfg.PurchaseOrderPrefix,
	})
	container.Contact = NewContactService(store, common...)
	container.Product = NewProductService(store, common...)
	container.Order = NewOrderService(store, container.Numbering, common...)
	container.Invoice = NewInvoiceService(store, container.Numbering, common...)
	container.Payment = NewPaymentService(store, container.Numbering, common...)
	container.Account = NewAccountService(store, common...)
	container.Ledger = NewLedgerService(store, common...)

	conversionOpts := []ConversionServiceOption{
		WithConversionBase(common...),
		WithPaymentTermsDays(cfg.DefaultPaymentTermsDays),
	}
	if infra.Locker != nil {
		conversionOpts = append(conversionOpts, WithConversionLocker(infra.Locker, cfg.ConversionLockTTL))
	}
	container.Conversion = NewConversionService(store, container.Numbering, conversionOpts...)

	return container
}
