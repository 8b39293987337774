package services

import (
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/ledger"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/locking"
	portsrepo "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/repositories"
	portssvc "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/services"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, ledgerClient ledger.Client, locker locking.RequestLocker, escalate EscalationFunc) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Student = NewStudentService(repos.StudentRepo)

	// the approval service is built first since reads reconcile through it
	container.Approval = NewApprovalService(
		repos.CreditRequestRepo,
		ledgerClient,
		locker,
		WithCommitAttempts(cfg.ApprovalCommitAttempts),
		WithEscalation(escalate),
	)

	container.CreditRequest = NewCreditRequestService(
		repos.CreditRequestRepo,
		repos.StudentRepo,
		WithCreditReconciler(container.Approval),
	)

	container.Ledger = NewAcademicLedgerService(repos.LedgerEntryRepo, repos.StudentRepo)
	container.Verification = NewVerificationService(repos.CreditRequestRepo, repos.LedgerEntryRepo, ledgerClient)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.StudentSvcFacade        = (*studentService)(nil)
	_ portssvc.CreditRequestSvcFacade  = (*creditRequestService)(nil)
	_ portssvc.ApprovalSvcFacade       = (*approvalService)(nil)
	_ portssvc.AcademicLedgerSvcFacade = (*academicLedgerService)(nil)
	_ portssvc.VerificationSvcFacade   = (*verificationService)(nil)
)
