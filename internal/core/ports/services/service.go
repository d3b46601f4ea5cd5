package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Bank        BankSvcFacade
	Schema      SchemaSvc
	Account     AccountSvcFacade
	Category    CategorySvcFacade
	Transaction TransactionSvcFacade
	Balance     BalanceSvc
	Backup      BackupSvc
	Reporting   ReportingService
	Currency    CurrencySvc
	Auth        AuthSvc
	System      SystemSvc
}
