package leasing

import (
	"context"

	"github.com/hirepurchase/backend/internal/domain/identity"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/hirepurchase/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PaymentService records payments the owner receives directly
type PaymentService struct {
	txScope TransactionScope
	events  shared.EventPublisher
	clock   Clock
	logger  *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(txScope TransactionScope, clock Clock, logger *zap.Logger) *PaymentService {
	return &PaymentService{txScope: txScope, clock: clock, logger: nopIfNil(logger)}
}

// SetEventPublisher sets the event publisher for domain events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// RecordPayment applies a payment to one installment and issues a receipt.
// The installment row is locked for the whole transaction so concurrent
// payments on the same installment serialize; a payment on an installment
// that is already paid fails with INVALID_STATE and changes nothing.
func (s *PaymentService) RecordPayment(ctx context.Context, actor identity.Actor, req RecordPaymentRequest) (resp *PaymentResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "record")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrContractID, req.ContractID.String(),
		telemetry.SpanAttrInstallmentID, req.InstallmentID,
		telemetry.SpanAttrAmount, req.Amount.String(),
		telemetry.SpanAttrActorRole, string(actor.Role),
	)

	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("record_payment", string(actor.Role)), func(ctx context.Context) {
		resp, err = s.recordPayment(ctx, actor, req)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrReceiptNumber, resp.Receipt.ReceiptNumber)
	return resp, nil
}

func (s *PaymentService) recordPayment(ctx context.Context, actor identity.Actor, req RecordPaymentRequest) (*PaymentResponse, error) {
	switch actor.Role {
	case identity.RoleOwner:
	case identity.RoleAdmin, identity.RoleCustomer:
		return nil, forbidden("Only the contract owner can record payments")
	default:
		return nil, forbidden("Unknown role")
	}
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !leasing.IsWholeCents(req.Amount) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot have more than 2 decimal places")
	}
	method := leasing.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = leasing.PaymentMethodCash
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	var (
		contract    *leasing.Contract
		installment *leasing.Installment
		receipt     *leasing.Receipt
		completed   bool
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		contract, err = repos.Contracts().FindByIDForUpdate(ctx, req.ContractID)
		if err != nil {
			return err
		}
		if !contract.IsOwnedBy(actor.UserID) {
			return forbidden("You do not own this contract")
		}
		if !contract.IsActive() {
			return shared.NewDomainError("INVALID_STATE", "Payments can only be recorded on active contracts")
		}

		installment, err = repos.Installments().FindByIDForUpdate(ctx, req.InstallmentID)
		if err != nil {
			return err
		}
		if installment.ContractID != contract.ID {
			return notFound("Installment")
		}

		now := s.clock.now().UTC()
		if err := installment.ApplyPayment(req.Amount, now); err != nil {
			return err
		}
		if err := repos.Installments().Save(ctx, installment); err != nil {
			return err
		}

		receipt, err = issueReceipt(ctx, repos, s.clock, leasing.IssueReceiptParams{
			OwnerID:       contract.OwnerID,
			ContractID:    contract.ID,
			InstallmentID: installment.ID,
			Amount:        req.Amount,
			PaymentMethod: method,
			IssuedBy:      actor.UserID,
			PaidAt:        now,
		})
		if err != nil {
			return err
		}

		completed, err = completeIfPaid(ctx, repos, contract)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("contract_id", contract.ID.String()),
		zap.Int64("installment_id", installment.ID),
		zap.String("receipt_number", receipt.ReceiptNumber),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("installment_status", installment.Status.String()),
		zap.Bool("contract_completed", completed),
	)
	publishEvents(ctx, s.events, s.logger, receipt, contract)

	return &PaymentResponse{
		Receipt:           ToReceiptResponse(receipt),
		Installment:       ToInstallmentResponse(installment, s.clock.Today()),
		ContractStatus:    contract.Status.String(),
		ContractCompleted: completed,
	}, nil
}

// issueReceipt numbers and stores a receipt. Receipts already issued for the
// installment (earlier partial payments) add a sequence suffix to the number.
func issueReceipt(ctx context.Context, repos TransactionalRepositories, clock Clock, params leasing.IssueReceiptParams) (*leasing.Receipt, error) {
	existing, err := repos.Receipts().CountByInstallment(ctx, params.InstallmentID)
	if err != nil {
		return nil, err
	}
	issuedAt := params.PaidAt
	if clock.Location != nil {
		issuedAt = issuedAt.In(clock.Location)
	}
	params.ReceiptNumber = leasing.ReceiptNumber(issuedAt, params.InstallmentID, int(existing))

	receipt, err := leasing.IssueReceipt(params)
	if err != nil {
		return nil, err
	}
	if err := repos.Receipts().Create(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// completeIfPaid runs the completion check against the installments as
// stored in the current transaction and persists the contract when it
// completes
func completeIfPaid(ctx context.Context, repos TransactionalRepositories, contract *leasing.Contract) (bool, error) {
	installments, err := repos.Installments().FindByContract(ctx, contract.ID)
	if err != nil {
		return false, err
	}
	if !contract.CheckCompletion(installments) {
		return false, nil
	}
	if err := repos.Contracts().Save(ctx, contract); err != nil {
		return false, err
	}
	return true, nil
}
