package leasing

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// ScheduleTermsRequest carries the commercial terms of a contract
type ScheduleTermsRequest struct {
	TotalPrice        decimal.Decimal `json:"total_price"`
	DownPayment       decimal.Decimal `json:"down_payment"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	InstallmentsCount int             `json:"installments_count" binding:"required,min=1,max=360"`
	StartDate         string          `json:"start_date" binding:"required,datetime=2006-01-02"`
	ContractType      string          `json:"contract_type" binding:"omitempty,oneof=installment hire_purchase"`
	BalloonPercent    decimal.Decimal `json:"balloon_percent"`
}

// PreviewRequest asks for a schedule without persisting anything
type PreviewRequest struct {
	ScheduleTermsRequest
}

// CreateContractRequest originates a contract
type CreateContractRequest struct {
	ScheduleTermsRequest
	CustomerID       uuid.UUID  `json:"customer_id" binding:"required"`
	AssetID          uuid.UUID  `json:"asset_id" binding:"required"`
	ContractNumber   string     `json:"contract_number" binding:"required,max=50"`
	Kind             string     `json:"type" binding:"omitempty,oneof=hire_purchase loan"`
	ParentContractID *uuid.UUID `json:"parent_contract_id"`
}

// ScheduleEntryResponse is one row of a computed schedule
type ScheduleEntryResponse struct {
	Number    int             `json:"number"`
	DueDate   string          `json:"due_date"`
	AmountDue decimal.Decimal `json:"amount"`
}

// ScheduleResponse is the computed installment plan
type ScheduleResponse struct {
	ContractType      string                  `json:"contract_type"`
	Principal         decimal.Decimal         `json:"principal"`
	FinancedPrincipal decimal.Decimal         `json:"financed_principal"`
	InterestTotal     decimal.Decimal         `json:"interest_total"`
	TotalPayable      decimal.Decimal         `json:"total_payable"`
	InstallmentAmount decimal.Decimal         `json:"installment_amount"`
	BalloonPayment    decimal.Decimal         `json:"balloon_payment"`
	InstallmentsCount int                     `json:"installments_count"`
	StartDate         string                  `json:"start_date"`
	EndDate           string                  `json:"end_date"`
	Schedule          []ScheduleEntryResponse `json:"schedule"`
}

// ToScheduleResponse converts a domain schedule
func ToScheduleResponse(s *leasing.Schedule) ScheduleResponse {
	entries := make([]ScheduleEntryResponse, len(s.Entries))
	for i, e := range s.Entries {
		entries[i] = ScheduleEntryResponse{Number: e.Number, DueDate: formatDate(e.DueDate), AmountDue: e.AmountDue}
	}
	return ScheduleResponse{
		ContractType:      string(s.Terms.ContractType),
		Principal:         s.Principal,
		FinancedPrincipal: s.FinancedPrincipal,
		InterestTotal:     s.InterestTotal,
		TotalPayable:      s.TotalPayable,
		InstallmentAmount: s.InstallmentAmount,
		BalloonPayment:    s.BalloonPayment,
		InstallmentsCount: len(s.Entries),
		StartDate:         formatDate(s.Terms.StartDate),
		EndDate:           formatDate(s.EndDate),
		Schedule:          entries,
	}
}

// CustomerSummary is the customer part of contract and receipt responses
type CustomerSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	IDCardNumber string    `json:"id_card_number,omitempty"`
	Phone        string    `json:"phone,omitempty"`
}

// AssetSummary is the asset part of contract and receipt responses
type AssetSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Status string    `json:"status"`
}

// InstallmentResponse represents an installment in API responses
type InstallmentResponse struct {
	ID            int64           `json:"id"`
	ContractID    uuid.UUID       `json:"contract_id"`
	Number        int             `json:"installment_number"`
	DueDate       string          `json:"due_date"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	Status        string          `json:"status"`
	DisplayStatus string          `json:"display_status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}

// ToInstallmentResponse converts a domain installment; today decides the
// derived overdue display status
func ToInstallmentResponse(i *leasing.Installment, today time.Time) InstallmentResponse {
	return InstallmentResponse{
		ID:            i.ID,
		ContractID:    i.ContractID,
		Number:        i.Sequence,
		DueDate:       formatDate(i.DueDate),
		AmountDue:     i.AmountDue,
		AmountPaid:    i.AmountPaid,
		Outstanding:   i.Outstanding(),
		Status:        i.Status.String(),
		DisplayStatus: i.DisplayStatus(today),
		PaidAt:        i.PaidAt,
	}
}

// ContractResponse represents a contract in API responses
type ContractResponse struct {
	ID                uuid.UUID             `json:"id"`
	OwnerID           uuid.UUID             `json:"owner_id"`
	ContractNumber    string                `json:"contract_number"`
	Kind              string                `json:"type"`
	ContractType      string                `json:"contract_type"`
	CustomerID        uuid.UUID             `json:"customer_id"`
	Customer          *CustomerSummary      `json:"customer,omitempty"`
	AssetID           uuid.UUID             `json:"asset_id"`
	Asset             *AssetSummary         `json:"asset,omitempty"`
	TotalPrice        decimal.Decimal       `json:"total_price"`
	DownPayment       decimal.Decimal       `json:"down_payment"`
	PrincipalAmount   decimal.Decimal       `json:"principal_amount"`
	InterestRate      decimal.Decimal       `json:"interest_rate"`
	InstallmentsCount int                   `json:"installments_count"`
	InstallmentAmount decimal.Decimal       `json:"installment_amount"`
	BalloonPayment    decimal.Decimal       `json:"balloon_payment"`
	StartDate         string                `json:"start_date"`
	EndDate           string                `json:"end_date"`
	OriginalEndDate   string                `json:"original_end_date"`
	Status            string                `json:"status"`
	ParentContractID  *uuid.UUID            `json:"parent_contract_id,omitempty"`
	PaidInstallments  *int                  `json:"paid_installments,omitempty"`
	NextDue           *InstallmentResponse  `json:"next_due,omitempty"`
	CompletedAt       *time.Time            `json:"completed_at,omitempty"`
	CancelledAt       *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
	Installments      []InstallmentResponse `json:"installments,omitempty"`
}

// ToContractResponse converts a domain contract. Installments, when loaded,
// are included together with the paid count and the next unpaid installment.
func ToContractResponse(c *leasing.Contract, today time.Time) ContractResponse {
	resp := ContractResponse{
		ID:                c.ID,
		OwnerID:           c.OwnerID,
		ContractNumber:    c.ContractNumber,
		Kind:              string(c.Kind),
		ContractType:      string(c.ContractType),
		CustomerID:        c.CustomerID,
		AssetID:           c.AssetID,
		TotalPrice:        c.TotalPrice,
		DownPayment:       c.DownPayment,
		PrincipalAmount:   c.PrincipalAmount,
		InterestRate:      c.InterestRate,
		InstallmentsCount: c.InstallmentsCount,
		InstallmentAmount: c.InstallmentAmount,
		BalloonPayment:    c.BalloonPayment,
		StartDate:         formatDate(c.StartDate),
		EndDate:           formatDate(c.EndDate),
		OriginalEndDate:   formatDate(c.OriginalEndDate),
		Status:            c.Status.String(),
		ParentContractID:  c.ParentContractID,
		CompletedAt:       c.CompletedAt,
		CancelledAt:       c.CancelledAt,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	if len(c.Installments) > 0 {
		resp.Installments = make([]InstallmentResponse, len(c.Installments))
		for i := range c.Installments {
			resp.Installments[i] = ToInstallmentResponse(&c.Installments[i], today)
		}
		paid := c.PaidCount()
		resp.PaidInstallments = &paid
		if next := c.NextUnpaid(); next != nil {
			n := ToInstallmentResponse(next, today)
			resp.NextDue = &n
		}
	}
	return resp
}

// WithParties attaches customer and asset summaries
func (r ContractResponse) WithParties(customer *leasing.Customer, asset *leasing.Asset) ContractResponse {
	if customer != nil {
		r.Customer = &CustomerSummary{ID: customer.ID, Name: customer.Name, IDCardNumber: customer.IDCardNumber, Phone: customer.Phone}
	}
	if asset != nil {
		r.Asset = &AssetSummary{ID: asset.ID, Name: asset.Name, Status: asset.Status.String()}
	}
	return r
}

// ContractListFilter represents filter options for the contract list
type ContractListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active completed cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// RecordPaymentRequest records a payment against one installment
type RecordPaymentRequest struct {
	ContractID    uuid.UUID       `json:"contract_id" binding:"required"`
	InstallmentID int64           `json:"installment_id" binding:"required,min=1"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,oneof=cash bank_transfer transfer"`
}

// ReceiptResponse represents a receipt in API responses
type ReceiptResponse struct {
	ID             uuid.UUID       `json:"id"`
	ReceiptNumber  string          `json:"receipt_number"`
	ContractID     uuid.UUID       `json:"contract_id"`
	InstallmentID  int64           `json:"installment_id"`
	PaymentProofID *uuid.UUID      `json:"payment_proof_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMethod  string          `json:"payment_method"`
	IssuedBy       uuid.UUID       `json:"issued_by"`
	PaidAt         time.Time       `json:"paid_at"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToReceiptResponse converts a domain receipt
func ToReceiptResponse(r *leasing.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:             r.ID,
		ReceiptNumber:  r.ReceiptNumber,
		ContractID:     r.ContractID,
		InstallmentID:  r.InstallmentID,
		PaymentProofID: r.PaymentProofID,
		Amount:         r.Amount,
		PaymentMethod:  r.PaymentMethod.String(),
		IssuedBy:       r.IssuedBy,
		PaidAt:         r.PaidAt,
		CreatedAt:      r.CreatedAt,
	}
}

// ReceiptDetailResponse is a receipt with its contract, customer and asset
type ReceiptDetailResponse struct {
	ReceiptResponse
	ContractNumber    string           `json:"contract_number"`
	InstallmentNumber int              `json:"installment_number"`
	Customer          *CustomerSummary `json:"customer,omitempty"`
	Asset             *AssetSummary    `json:"asset,omitempty"`
}

// PaymentResponse is the result of recording a payment
type PaymentResponse struct {
	Receipt           ReceiptResponse     `json:"receipt"`
	Installment       InstallmentResponse `json:"installment"`
	ContractStatus    string              `json:"contract_status"`
	ContractCompleted bool                `json:"contract_completed"`
}

// UploadImage is an image received from a client
type UploadImage struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// SubmitProofRequest submits a payment proof for an installment
type SubmitProofRequest struct {
	InstallmentID int64
	Note          string
	Image         UploadImage
}

// RejectProofRequest carries the optional rejection note
type RejectProofRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// ProofListFilter represents filter options for proof lists
type ProofListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// PaymentProofResponse represents a payment proof in API responses
type PaymentProofResponse struct {
	ID            uuid.UUID  `json:"id"`
	InstallmentID int64      `json:"installment_id"`
	ContractID    uuid.UUID  `json:"contract_id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	ImageURL      string     `json:"image_url,omitempty"`
	Note          string     `json:"note,omitempty"`
	Status        string     `json:"status"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy    *uuid.UUID `json:"reviewed_by,omitempty"`
}

// ToPaymentProofResponse converts a domain payment proof; imageURL is the
// presigned download link, if any
func ToPaymentProofResponse(p *leasing.PaymentProof, imageURL string) PaymentProofResponse {
	return PaymentProofResponse{
		ID:            p.ID,
		InstallmentID: p.InstallmentID,
		ContractID:    p.ContractID,
		CustomerID:    p.CustomerID,
		ImageURL:      imageURL,
		Note:          p.Note,
		Status:        p.Status.String(),
		SubmittedAt:   p.SubmittedAt,
		ReviewedAt:    p.ReviewedAt,
		ReviewedBy:    p.ReviewedBy,
	}
}

// ProofReviewResponse is the result of approving or rejecting a proof
type ProofReviewResponse struct {
	Proof          PaymentProofResponse `json:"proof"`
	Installment    InstallmentResponse  `json:"installment"`
	Receipt        *ReceiptResponse     `json:"receipt,omitempty"`
	ContractStatus string               `json:"contract_status"`
}

// CreateAssetRequest creates an asset
type CreateAssetRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Price       decimal.Decimal `json:"price"`
}

// AssetResponse represents an asset in API responses
type AssetResponse struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToAssetResponse converts a domain asset
func ToAssetResponse(a *leasing.Asset) AssetResponse {
	return AssetResponse{
		ID:          a.ID,
		OwnerID:     a.OwnerID,
		Name:        a.Name,
		Description: a.Description,
		Price:       a.Price,
		Status:      a.Status.String(),
		CreatedAt:   a.CreatedAt,
	}
}

// AssetListFilter represents filter options for the asset list
type AssetListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=available leased rented sold"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateCustomerRequest creates a customer record
type CreateCustomerRequest struct {
	Name         string     `json:"name" binding:"required,max=200"`
	IDCardNumber string     `json:"id_card_number" binding:"max=20"`
	Phone        string     `json:"phone" binding:"max=50"`
	Email        string     `json:"email" binding:"omitempty,email,max=200"`
	Address      string     `json:"address" binding:"max=1000"`
	UserID       *uuid.UUID `json:"user_id"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	Name         string     `json:"name"`
	IDCardNumber string     `json:"id_card_number,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Email        string     `json:"email,omitempty"`
	Address      string     `json:"address,omitempty"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToCustomerResponse converts a domain customer
func ToCustomerResponse(c *leasing.Customer) CustomerResponse {
	return CustomerResponse{
		ID:           c.ID,
		OwnerID:      c.OwnerID,
		Name:         c.Name,
		IDCardNumber: c.IDCardNumber,
		Phone:        c.Phone,
		Email:        c.Email,
		Address:      c.Address,
		UserID:       c.UserID,
		CreatedAt:    c.CreatedAt,
	}
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UpdatePaymentChannelRequest sets an owner's bank details
type UpdatePaymentChannelRequest struct {
	BankName          string `json:"bank_name" binding:"required,max=100"`
	BankAccountNumber string `json:"bank_account_number" binding:"required,max=50"`
	BankAccountName   string `json:"bank_account_name" binding:"required,max=200"`
}

// PaymentChannelResponse is where a customer transfers installments to
type PaymentChannelResponse struct {
	BankName          string `json:"bank_name,omitempty"`
	BankAccountNumber string `json:"bank_account_number,omitempty"`
	BankAccountName   string `json:"bank_account_name,omitempty"`
	QRCodeURL         string `json:"qr_code_url,omitempty"`
}

// MonthlyRevenueResponse is the receipt total of one month
type MonthlyRevenueResponse struct {
	Month   string          `json:"month"` // YYYY-MM
	Revenue decimal.Decimal `json:"revenue"`
}

// InstallmentStatsResponse counts installments by payment state
type InstallmentStatsResponse struct {
	Paid    int64 `json:"paid"`
	Pending int64 `json:"pending"`
	Overdue int64 `json:"overdue"`
}

// OwnerDashboardResponse is the owner dashboard
type OwnerDashboardResponse struct {
	TotalAssets            int64                    `json:"total_assets"`
	VacantAssets           int64                    `json:"vacant_assets"`
	ActiveContracts        int64                    `json:"active_contracts"`
	CompletedContracts     int64                    `json:"completed_contracts"`
	ExpiringSoon           int64                    `json:"expiring_soon"`
	ExpectedMonthlyRevenue decimal.Decimal          `json:"expected_monthly_revenue"`
	RevenueByMonth         []MonthlyRevenueResponse `json:"revenue_by_month"`
	Installments           InstallmentStatsResponse `json:"installments"`
	RecentContracts        []ContractResponse       `json:"recent_contracts"`
}

// ScheduleRow is one installment line of an exported schedule
type ScheduleRow struct {
	Number     int
	DueDate    time.Time
	AmountDue  decimal.Decimal
	AmountPaid decimal.Decimal
	Status     string
	PaidAt     *time.Time
}

// ScheduleDocument is the input of a ScheduleExporter
type ScheduleDocument struct {
	ContractNumber    string
	CustomerName      string
	AssetName         string
	ContractType      string
	TotalPrice        decimal.Decimal
	DownPayment       decimal.Decimal
	PrincipalAmount   decimal.Decimal
	InterestRate      decimal.Decimal
	InstallmentAmount decimal.Decimal
	BalloonPayment    decimal.Decimal
	StartDate         time.Time
	EndDate           time.Time
	Rows              []ScheduleRow
}

// ReceiptDocument is the input of a ReceiptRenderer
type ReceiptDocument struct {
	ReceiptNumber     string
	PaidAt            time.Time
	PaymentMethod     string
	Amount            decimal.Decimal
	ContractNumber    string
	InstallmentNumber int
	InstallmentsCount int
	DueDate           time.Time
	CustomerName      string
	CustomerAddress   string
	AssetName         string
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
