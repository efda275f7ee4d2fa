package services

import (
	portsrepo "github.com/SscSPs/invoice_flow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/platform/config"
)

// Adapters bundles the outbound integrations the services depend on.
// A nil member disables that integration.
type Adapters struct {
	Notifier portssvc.Notifier
	Gateway  portssvc.PaymentGateway
	Cache    portssvc.ReportCache
	Renderer portssvc.DocumentRenderer
	Google   portssvc.GoogleIdentityVerifier
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, adapters Adapters) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)
	container.Client = NewClientService(repos.ClientRepo)

	container.Invoice = NewInvoiceService(
		repos.InvoiceRepo,
		repos.ClientRepo,
		repos.UserRepo,
		WithInvoiceNotifier(adapters.Notifier),
		WithInvoiceReportCache(adapters.Cache),
		WithInvoiceNumberPrefix(cfg.InvoiceNumberPrefix),
		WithInvoiceSweepConcurrency(cfg.SweepConcurrency),
	)

	container.Recurring = NewRecurringService(
		repos.InvoiceRepo,
		WithRecurringReportCache(adapters.Cache),
		WithRecurringNumberPrefix(cfg.InvoiceNumberPrefix),
		WithRecurringConcurrency(cfg.SweepConcurrency),
	)

	container.Reporting = NewReportingService(repos.InvoiceRepo, WithReportCache(adapters.Cache))
	container.Payment = NewPaymentService(container.Invoice, repos.InvoiceRepo, adapters.Gateway, cfg.GatewayTimeout)
	container.Renderer = adapters.Renderer
	container.GoogleAuth = adapters.Google

	return container
}
