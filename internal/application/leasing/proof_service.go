package leasing

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/identity"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/hirepurchase/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ProofService runs the payment proof workflow: customers submit transfer
// slips, owners approve or reject them
type ProofService struct {
	repos        Repositories
	txScope      TransactionScope
	storage      ObjectStorage
	events       shared.EventPublisher
	clock        Clock
	maxImageSize int64
	logger       *zap.Logger
}

// NewProofService creates a new ProofService
func NewProofService(repos Repositories, txScope TransactionScope, storage ObjectStorage, clock Clock, logger *zap.Logger) *ProofService {
	return &ProofService{
		repos:        repos,
		txScope:      txScope,
		storage:      storage,
		clock:        clock,
		maxImageSize: DefaultMaxImageSize,
		logger:       nopIfNil(logger),
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ProofService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// SetMaxImageSize overrides the upload size limit
func (s *ProofService) SetMaxImageSize(n int64) {
	if n > 0 {
		s.maxImageSize = n
	}
}

// Submit stores the proof image and creates a pending proof. The installment
// moves to pending_verification. The stored image is removed again when the
// database transaction fails.
func (s *ProofService) Submit(ctx context.Context, actor identity.Actor, req SubmitProofRequest) (*PaymentProofResponse, error) {
	if err := actor.RequireCustomer(); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(req.Note) > leasing.MaxProofNoteLength {
		return nil, shared.NewDomainError("INVALID_NOTE",
			fmt.Sprintf("Note cannot exceed %d characters", leasing.MaxProofNoteLength))
	}
	ext, err := validateImage(req.Image, s.maxImageSize)
	if err != nil {
		return nil, err
	}

	// Fail fast before uploading anything
	installment, err := s.repos.Installments.FindByID(ctx, req.InstallmentID)
	if err != nil {
		return nil, err
	}
	contract, err := s.repos.Contracts.FindByID(ctx, installment.ContractID)
	if err != nil {
		return nil, err
	}
	if !actor.IsCustomerProfile(contract.CustomerID) {
		return nil, forbidden("Contract does not belong to this customer")
	}
	if !contract.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Contract is not active")
	}
	if installment.IsPaid() {
		return nil, shared.NewDomainError("INVALID_STATE", "Installment already paid")
	}

	key := fmt.Sprintf("payment-proofs/%s/%d/%s%s", contract.ID, installment.ID, uuid.New(), ext)
	if err := s.storage.Put(ctx, key, req.Image.ContentType, req.Image.Body, req.Image.Size); err != nil {
		return nil, fmt.Errorf("store proof image: %w", err)
	}

	var proof *leasing.PaymentProof
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		locked, err := repos.Installments().FindByIDForUpdate(ctx, installment.ID)
		if err != nil {
			return err
		}
		proof, err = leasing.NewPaymentProof(contract, locked, *actor.CustomerID, key, req.Note)
		if err != nil {
			return err
		}
		if err := locked.MarkPendingVerification(); err != nil {
			return err
		}
		if err := repos.Installments().Save(ctx, locked); err != nil {
			return err
		}
		return repos.Proofs().Save(ctx, proof)
	})
	if err != nil {
		if delErr := s.storage.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			s.logger.Warn("failed to remove orphaned proof image", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("payment proof submitted",
		zap.String("proof_id", proof.ID.String()),
		zap.String("contract_id", contract.ID.String()),
		zap.Int64("installment_id", installment.ID),
	)
	publishEvents(ctx, s.events, s.logger, proof)

	resp := ToPaymentProofResponse(proof, s.presign(ctx, proof.ImageKey))
	return &resp, nil
}

// Approve accepts a pending proof: the installment is settled in full, a
// transfer receipt referencing the proof is issued and the contract
// completes when nothing is left unpaid
func (s *ProofService) Approve(ctx context.Context, actor identity.Actor, proofID uuid.UUID) (resp *ProofReviewResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_proof", "approve")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrProofID, proofID.String(),
		telemetry.SpanAttrActorRole, string(actor.Role),
	)

	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("approve_proof", string(actor.Role)), func(ctx context.Context) {
		resp, err = s.approve(ctx, actor, proofID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return resp, nil
}

func (s *ProofService) approve(ctx context.Context, actor identity.Actor, proofID uuid.UUID) (*ProofReviewResponse, error) {
	if err := actor.RequireOwner(); err != nil {
		return nil, err
	}

	var (
		proof       *leasing.PaymentProof
		installment *leasing.Installment
		contract    *leasing.Contract
		receipt     *leasing.Receipt
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		proof, err = repos.Proofs().FindByIDForUpdate(ctx, proofID)
		if err != nil {
			return err
		}
		contract, err = repos.Contracts().FindByIDForUpdate(ctx, proof.ContractID)
		if err != nil {
			return err
		}
		if !contract.IsOwnedBy(actor.UserID) {
			return forbidden("You do not own this contract")
		}
		if err := proof.Approve(actor.UserID); err != nil {
			return err
		}
		if !contract.IsActive() {
			return shared.NewDomainError("INVALID_STATE", "Proofs can only be approved on active contracts")
		}

		installment, err = repos.Installments().FindByIDForUpdate(ctx, proof.InstallmentID)
		if err != nil {
			return err
		}
		amount := installment.Outstanding()
		now := s.clock.now().UTC()
		if err := installment.SettleInFull(now); err != nil {
			return err
		}
		if err := repos.Installments().Save(ctx, installment); err != nil {
			return err
		}
		if err := repos.Proofs().Save(ctx, proof); err != nil {
			return err
		}

		receipt, err = issueReceipt(ctx, repos, s.clock, leasing.IssueReceiptParams{
			OwnerID:        contract.OwnerID,
			ContractID:     contract.ID,
			InstallmentID:  installment.ID,
			PaymentProofID: &proof.ID,
			Amount:         amount,
			PaymentMethod:  leasing.PaymentMethodTransfer,
			IssuedBy:       actor.UserID,
			PaidAt:         now,
		})
		if err != nil {
			return err
		}

		_, err = completeIfPaid(ctx, repos, contract)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment proof approved",
		zap.String("proof_id", proof.ID.String()),
		zap.String("contract_id", contract.ID.String()),
		zap.Int64("installment_id", installment.ID),
		zap.String("receipt_number", receipt.ReceiptNumber),
	)
	publishEvents(ctx, s.events, s.logger, proof, receipt, contract)

	rr := ToReceiptResponse(receipt)
	return &ProofReviewResponse{
		Proof:          ToPaymentProofResponse(proof, s.presign(ctx, proof.ImageKey)),
		Installment:    ToInstallmentResponse(installment, s.clock.Today()),
		Receipt:        &rr,
		ContractStatus: contract.Status.String(),
	}, nil
}

// Reject declines a pending proof. The installment keeps its current status.
func (s *ProofService) Reject(ctx context.Context, actor identity.Actor, proofID uuid.UUID, note string) (*ProofReviewResponse, error) {
	if err := actor.RequireOwner(); err != nil {
		return nil, err
	}

	var (
		proof    *leasing.PaymentProof
		contract *leasing.Contract
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		proof, err = repos.Proofs().FindByIDForUpdate(ctx, proofID)
		if err != nil {
			return err
		}
		contract, err = repos.Contracts().FindByID(ctx, proof.ContractID)
		if err != nil {
			return err
		}
		if !contract.IsOwnedBy(actor.UserID) {
			return forbidden("You do not own this contract")
		}
		if err := proof.Reject(actor.UserID, note); err != nil {
			return err
		}
		return repos.Proofs().Save(ctx, proof)
	})
	if err != nil {
		return nil, err
	}

	installment, err := s.repos.Installments.FindByID(ctx, proof.InstallmentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment proof rejected",
		zap.String("proof_id", proof.ID.String()),
		zap.Int64("installment_id", proof.InstallmentID),
	)
	publishEvents(ctx, s.events, s.logger, proof)

	return &ProofReviewResponse{
		Proof:          ToPaymentProofResponse(proof, s.presign(ctx, proof.ImageKey)),
		Installment:    ToInstallmentResponse(installment, s.clock.Today()),
		ContractStatus: contract.Status.String(),
	}, nil
}

// ListForOwner lists the proofs submitted on the owner's contracts
func (s *ProofService) ListForOwner(ctx context.Context, actor identity.Actor, filter ProofListFilter) ([]PaymentProofResponse, error) {
	if err := actor.RequireOwner(); err != nil {
		return nil, err
	}
	ownerID := actor.UserID
	return s.list(ctx, leasing.PaymentProofFilter{OwnerID: &ownerID}, filter)
}

// ListForCustomer lists the proofs the customer submitted
func (s *ProofService) ListForCustomer(ctx context.Context, actor identity.Actor, filter ProofListFilter) ([]PaymentProofResponse, error) {
	if err := actor.RequireCustomer(); err != nil {
		return nil, err
	}
	return s.list(ctx, leasing.PaymentProofFilter{CustomerID: actor.CustomerID}, filter)
}

func (s *ProofService) list(ctx context.Context, domainFilter leasing.PaymentProofFilter, filter ProofListFilter) ([]PaymentProofResponse, error) {
	domainFilter.Filter = toFilter(filter.Page, filter.PageSize, "submitted_at", "desc", "")
	if filter.Status != "" {
		status := leasing.ProofStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown proof status")
		}
		domainFilter.Status = &status
	}

	proofs, err := s.repos.Proofs.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]PaymentProofResponse, len(proofs))
	for i := range proofs {
		items[i] = ToPaymentProofResponse(&proofs[i], s.presign(ctx, proofs[i].ImageKey))
	}
	return items, nil
}

// presign returns a download URL for key, or "" when signing fails
func (s *ProofService) presign(ctx context.Context, key string) string {
	if key == "" || s.storage == nil {
		return ""
	}
	url, err := s.storage.PresignGet(ctx, key)
	if err != nil {
		s.logger.Warn("failed to presign proof image", zap.String("key", key), zap.Error(err))
		return ""
	}
	return url
}
