package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Invoice   InvoiceSvcFacade
	Client    ClientSvcFacade
	Recurring RecurringSvcFacade
	Reporting ReportingService
	Payment   PaymentSvcFacade
	User      UserSvcFacade
	Token     TokenSvcFacade
	Renderer  DocumentRenderer

	// GoogleAuth is nil when Google sign-in is not configured.
	GoogleAuth GoogleIdentityVerifier
}
