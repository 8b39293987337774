package services

// ServiceContainer holds instances of all the application services.
// Handlers and background jobs reach the core through it.
type ServiceContainer struct {
	Student       StudentSvcFacade
	CreditRequest CreditRequestSvcFacade
	Approval      ApprovalSvcFacade
	Ledger        AcademicLedgerSvcFacade
	Verification  VerificationSvcFacade
}
