package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	leasingapp "github.com/hirepurchase/backend/internal/application/leasing"
	"github.com/hirepurchase/backend/internal/domain/identity"
)

// ProofHandler handles payment proof submission and review
type ProofHandler struct {
	BaseHandler
	proofs *leasingapp.ProofService
}

// NewProofHandler creates a new ProofHandler
func NewProofHandler(proofs *leasingapp.ProofService) *ProofHandler {
	return &ProofHandler{proofs: proofs}
}

// Submit godoc
// @ID           submitPaymentProof
// @Summary      Submit a payment proof
// @Description  Uploads a transfer slip for an installment. The installment waits for owner verification.
// @Tags         payment-proofs
// @Accept       multipart/form-data
// @Produce      json
// @Param        installment_id formData int true "Installment ID"
// @Param        note formData string false "Note for the owner"
// @Param        image formData file true "JPEG or PNG transfer slip"
// @Success      201 {object} APIResponse[leasing.PaymentProofResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customer/payments [post]
func (h *ProofHandler) Submit(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	installmentID, err := strconv.ParseInt(c.PostForm("installment_id"), 10, 64)
	if err != nil || installmentID <= 0 {
		h.BadRequest(c, "installment_id must be a positive integer")
		return
	}
	img, closeImg, err := openUpload(c, "image")
	if err != nil {
		h.BadRequest(c, "image file is required")
		return
	}
	defer closeImg()

	proof, err := h.proofs.Submit(c.Request.Context(), actor, leasingapp.SubmitProofRequest{
		InstallmentID: installmentID,
		Note:          c.PostForm("note"),
		Image:         img,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, proof)
}

// ListMine godoc
// @ID           listCustomerPaymentProofs
// @Summary      List my payment proofs
// @Tags         payment-proofs
// @Produce      json
// @Param        status query string false "pending, approved or rejected"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]leasing.PaymentProofResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customer/payments [get]
func (h *ProofHandler) ListMine(c *gin.Context) {
	h.list(c, h.proofs.ListForCustomer)
}

// ListForOwner godoc
// @ID           listOwnerPaymentProofs
// @Summary      List payment proofs to review
// @Description  Proofs submitted against the owner's contracts, newest first
// @Tags         payment-proofs
// @Produce      json
// @Param        status query string false "pending, approved or rejected"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]leasing.PaymentProofResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /owner/payments [get]
func (h *ProofHandler) ListForOwner(c *gin.Context) {
	h.list(c, h.proofs.ListForOwner)
}

type proofLister func(ctx context.Context, actor identity.Actor, filter leasingapp.ProofListFilter) ([]leasingapp.PaymentProofResponse, error)

func (h *ProofHandler) list(c *gin.Context, fetch proofLister) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter leasingapp.ProofListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	proofs, err := fetch(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, proofs)
}

// Approve godoc
// @ID           approvePaymentProof
// @Summary      Approve a payment proof
// @Description  Settles the installment in full and issues a transfer receipt
// @Tags         payment-proofs
// @Produce      json
// @Param        id path string true "Proof ID" format(uuid)
// @Success      200 {object} APIResponse[leasing.ProofReviewResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /owner/payments/{id}/approve [put]
func (h *ProofHandler) Approve(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.proofs.Approve(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reject godoc
// @ID           rejectPaymentProof
// @Summary      Reject a payment proof
// @Description  Marks the proof rejected; the customer may submit a new one
// @Tags         payment-proofs
// @Accept       json
// @Produce      json
// @Param        id path string true "Proof ID" format(uuid)
// @Param        request body leasing.RejectProofRequest false "Rejection note"
// @Success      200 {object} APIResponse[leasing.ProofReviewResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /owner/payments/{id}/reject [put]
func (h *ProofHandler) Reject(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req leasingapp.RejectProofRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	resp, err := h.proofs.Reject(c.Request.Context(), actor, id, req.Note)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
