package leasing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/identity"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"go.uber.org/zap"
)

// ReceiptService serves issued receipts
type ReceiptService struct {
	repos    Repositories
	renderer ReceiptRenderer
	logger   *zap.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(repos Repositories, logger *zap.Logger) *ReceiptService {
	return &ReceiptService{repos: repos, logger: nopIfNil(logger)}
}

// SetRenderer sets the PDF renderer used by RenderPDF
func (s *ReceiptService) SetRenderer(renderer ReceiptRenderer) {
	s.renderer = renderer
}

// receiptView is a receipt together with the records it references
type receiptView struct {
	receipt     *leasing.Receipt
	contract    *leasing.Contract
	installment *leasing.Installment
	customer    *leasing.Customer
	asset       *leasing.Asset
}

// Get returns a receipt with its contract, customer and asset. Visible to the
// contract owner, the contract's customer and admins.
func (s *ReceiptService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ReceiptDetailResponse, error) {
	v, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	resp := &ReceiptDetailResponse{
		ReceiptResponse: ToReceiptResponse(v.receipt),
		ContractNumber:  v.contract.ContractNumber,
	}
	if v.installment != nil {
		resp.InstallmentNumber = v.installment.Sequence
	}
	parties := ContractResponse{}.WithParties(v.customer, v.asset)
	resp.Customer = parties.Customer
	resp.Asset = parties.Asset
	return resp, nil
}

// RenderPDF renders the printable receipt. It returns the PDF and a
// suggested file name.
func (s *ReceiptService) RenderPDF(ctx context.Context, actor identity.Actor, id uuid.UUID) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", errors.New("receipt printing is not configured")
	}
	v, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}

	doc := ReceiptDocument{
		ReceiptNumber:     v.receipt.ReceiptNumber,
		PaidAt:            v.receipt.PaidAt,
		PaymentMethod:     v.receipt.PaymentMethod.String(),
		Amount:            v.receipt.Amount,
		ContractNumber:    v.contract.ContractNumber,
		InstallmentsCount: v.contract.InstallmentsCount,
	}
	if v.installment != nil {
		doc.InstallmentNumber = v.installment.Sequence
		doc.DueDate = v.installment.DueDate
	}
	if v.customer != nil {
		doc.CustomerName = v.customer.Name
		doc.CustomerAddress = v.customer.Address
	}
	if v.asset != nil {
		doc.AssetName = v.asset.Name
	}

	pdf, err := s.renderer.RenderReceipt(ctx, doc)
	if err != nil {
		s.logger.Error("failed to render receipt",
			zap.String("receipt_id", id.String()),
			zap.Error(err),
		)
		return nil, "", fmt.Errorf("render receipt: %w", err)
	}
	return pdf, v.receipt.ReceiptNumber + ".pdf", nil
}

func (s *ReceiptService) load(ctx context.Context, actor identity.Actor, id uuid.UUID) (*receiptView, error) {
	receipt, err := s.repos.Receipts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	contract, err := s.repos.Contracts.FindByID(ctx, receipt.ContractID)
	if err != nil {
		return nil, err
	}
	if !actor.CanView(contract.OwnerID, contract.CustomerID) {
		return nil, forbidden("You do not have access to this receipt")
	}

	v := &receiptView{receipt: receipt, contract: contract}
	v.installment, err = s.repos.Installments.FindByID(ctx, receipt.InstallmentID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	v.customer, err = s.repos.Customers.FindByID(ctx, contract.CustomerID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	v.asset, err = s.repos.Assets.FindByID(ctx, contract.AssetID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	return v, nil
}
