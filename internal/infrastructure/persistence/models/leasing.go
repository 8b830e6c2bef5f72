package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/shopspring/decimal"
)

// ContractModel is the persistence model for the Contract aggregate
type ContractModel struct {
	OwnedModel
	CustomerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	AssetID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ContractNumber    string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Kind              string          `gorm:"type:varchar(20);not null;default:'hire_purchase'"`
	ContractType      string          `gorm:"type:varchar(20);not null;default:'installment'"`
	TotalPrice        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DownPayment       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	PrincipalAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	InterestRate      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	InstallmentsCount int             `gorm:"not null"`
	InstallmentAmount decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	BalloonPayment    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	StartDate         time.Time       `gorm:"type:date;not null"`
	EndDate           time.Time       `gorm:"type:date;not null;index"`
	OriginalEndDate   time.Time       `gorm:"type:date;not null"`
	Status            string          `gorm:"type:varchar(20);not null;default:'active';index"`
	ParentContractID  *uuid.UUID      `gorm:"type:uuid"`
	CompletedAt       *time.Time
	CancelledAt       *time.Time
	CancelledBy       *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the model to a domain Contract without installments
func (m *ContractModel) ToDomain() *leasing.Contract {
	c := &leasing.Contract{
		CustomerID:        m.CustomerID,
		AssetID:           m.AssetID,
		ContractNumber:    m.ContractNumber,
		Kind:              leasing.ContractKind(m.Kind),
		ContractType:      leasing.ContractType(m.ContractType),
		TotalPrice:        m.TotalPrice,
		DownPayment:       m.DownPayment,
		PrincipalAmount:   m.PrincipalAmount,
		InterestRate:      m.InterestRate,
		InstallmentsCount: m.InstallmentsCount,
		InstallmentAmount: m.InstallmentAmount,
		BalloonPayment:    m.BalloonPayment,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		OriginalEndDate:   m.OriginalEndDate,
		Status:            leasing.ContractStatus(m.Status),
		ParentContractID:  m.ParentContractID,
		CompletedAt:       m.CompletedAt,
		CancelledAt:       m.CancelledAt,
		CancelledBy:       m.CancelledBy,
	}
	m.PopulateOwned(&c.OwnedAggregateRoot)
	return c
}

// FromDomain populates the model from a domain Contract
func (m *ContractModel) FromDomain(c *leasing.Contract) {
	m.FromDomainOwned(c.OwnedAggregateRoot)
	m.CustomerID = c.CustomerID
	m.AssetID = c.AssetID
	m.ContractNumber = c.ContractNumber
	m.Kind = string(c.Kind)
	m.ContractType = string(c.ContractType)
	m.TotalPrice = c.TotalPrice
	m.DownPayment = c.DownPayment
	m.PrincipalAmount = c.PrincipalAmount
	m.InterestRate = c.InterestRate
	m.InstallmentsCount = c.InstallmentsCount
	m.InstallmentAmount = c.InstallmentAmount
	m.BalloonPayment = c.BalloonPayment
	m.StartDate = c.StartDate
	m.EndDate = c.EndDate
	m.OriginalEndDate = c.OriginalEndDate
	m.Status = string(c.Status)
	m.ParentContractID = c.ParentContractID
	m.CompletedAt = c.CompletedAt
	m.CancelledAt = c.CancelledAt
	m.CancelledBy = c.CancelledBy
}

// ContractModelFromDomain creates a ContractModel from a domain Contract
func ContractModelFromDomain(c *leasing.Contract) *ContractModel {
	m := &ContractModel{}
	m.FromDomain(c)
	return m
}

// InstallmentModel is the persistence model for installments. The numeric
// primary key is part of receipt numbers.
type InstallmentModel struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	ContractID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_installment_contract_seq,priority:1"`
	Sequence   int             `gorm:"column:installment_number;not null;uniqueIndex:idx_installment_contract_seq,priority:2"`
	DueDate    time.Time       `gorm:"type:date;not null;index"`
	AmountDue  decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	AmountPaid decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Status     string          `gorm:"type:varchar(30);not null;default:'pending';index"`
	PaidAt     *time.Time
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InstallmentModel) TableName() string {
	return "installments"
}

// ToDomain converts the model to a domain Installment
func (m *InstallmentModel) ToDomain() leasing.Installment {
	return leasing.Installment{
		ID:         m.ID,
		ContractID: m.ContractID,
		Sequence:   m.Sequence,
		DueDate:    m.DueDate,
		AmountDue:  m.AmountDue,
		AmountPaid: m.AmountPaid,
		Status:     leasing.InstallmentStatus(m.Status),
		PaidAt:     m.PaidAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// InstallmentModelFromDomain creates an InstallmentModel from a domain Installment
func InstallmentModelFromDomain(i *leasing.Installment) *InstallmentModel {
	return &InstallmentModel{
		ID:         i.ID,
		ContractID: i.ContractID,
		Sequence:   i.Sequence,
		DueDate:    i.DueDate,
		AmountDue:  i.AmountDue,
		AmountPaid: i.AmountPaid,
		Status:     string(i.Status),
		PaidAt:     i.PaidAt,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

// PaymentProofModel is the persistence model for payment proofs
type PaymentProofModel struct {
	OwnedModel
	InstallmentID int64     `gorm:"not null;index"`
	ContractID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ImageKey      string    `gorm:"type:varchar(500);not null"`
	Note          string    `gorm:"type:varchar(500)"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	SubmittedAt   time.Time `gorm:"not null"`
	ReviewedAt    *time.Time
	ReviewedBy    *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PaymentProofModel) TableName() string {
	return "payment_proofs"
}

// ToDomain converts the model to a domain PaymentProof
func (m *PaymentProofModel) ToDomain() *leasing.PaymentProof {
	p := &leasing.PaymentProof{
		InstallmentID: m.InstallmentID,
		ContractID:    m.ContractID,
		CustomerID:    m.CustomerID,
		ImageKey:      m.ImageKey,
		Note:          m.Note,
		Status:        leasing.ProofStatus(m.Status),
		SubmittedAt:   m.SubmittedAt,
		ReviewedAt:    m.ReviewedAt,
		ReviewedBy:    m.ReviewedBy,
	}
	m.PopulateOwned(&p.OwnedAggregateRoot)
	return p
}

// PaymentProofModelFromDomain creates a PaymentProofModel from a domain PaymentProof
func PaymentProofModelFromDomain(p *leasing.PaymentProof) *PaymentProofModel {
	m := &PaymentProofModel{
		InstallmentID: p.InstallmentID,
		ContractID:    p.ContractID,
		CustomerID:    p.CustomerID,
		ImageKey:      p.ImageKey,
		Note:          p.Note,
		Status:        string(p.Status),
		SubmittedAt:   p.SubmittedAt,
		ReviewedAt:    p.ReviewedAt,
		ReviewedBy:    p.ReviewedBy,
	}
	m.FromDomainOwned(p.OwnedAggregateRoot)
	return m
}

// ReceiptModel is the persistence model for receipts
type ReceiptModel struct {
	OwnedModel
	ReceiptNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ContractID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	InstallmentID  int64           `gorm:"not null;index"`
	PaymentProofID *uuid.UUID      `gorm:"type:uuid"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaymentMethod  string          `gorm:"type:varchar(20);not null"`
	IssuedBy       uuid.UUID       `gorm:"type:uuid;not null"`
	PaidAt         time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ToDomain converts the model to a domain Receipt
func (m *ReceiptModel) ToDomain() *leasing.Receipt {
	r := &leasing.Receipt{
		ReceiptNumber:  m.ReceiptNumber,
		ContractID:     m.ContractID,
		InstallmentID:  m.InstallmentID,
		PaymentProofID: m.PaymentProofID,
		Amount:         m.Amount,
		PaymentMethod:  leasing.PaymentMethod(m.PaymentMethod),
		IssuedBy:       m.IssuedBy,
		PaidAt:         m.PaidAt,
	}
	m.PopulateOwned(&r.OwnedAggregateRoot)
	return r
}

// ReceiptModelFromDomain creates a ReceiptModel from a domain Receipt
func ReceiptModelFromDomain(r *leasing.Receipt) *ReceiptModel {
	m := &ReceiptModel{
		ReceiptNumber:  r.ReceiptNumber,
		ContractID:     r.ContractID,
		InstallmentID:  r.InstallmentID,
		PaymentProofID: r.PaymentProofID,
		Amount:         r.Amount,
		PaymentMethod:  string(r.PaymentMethod),
		IssuedBy:       r.IssuedBy,
		PaidAt:         r.PaidAt,
	}
	m.FromDomainOwned(r.OwnedAggregateRoot)
	return m
}

// AssetModel is the persistence model for assets
type AssetModel struct {
	OwnedModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Status      string          `gorm:"type:varchar(20);not null;default:'available';index"`
}

// TableName returns the table name for GORM
func (AssetModel) TableName() string {
	return "assets"
}

// ToDomain converts the model to a domain Asset
func (m *AssetModel) ToDomain() *leasing.Asset {
	a := &leasing.Asset{
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Status:      leasing.AssetStatus(m.Status),
	}
	m.PopulateOwned(&a.OwnedAggregateRoot)
	return a
}

// AssetModelFromDomain creates an AssetModel from a domain Asset
func AssetModelFromDomain(a *leasing.Asset) *AssetModel {
	m := &AssetModel{
		Name:        a.Name,
		Description: a.Description,
		Price:       a.Price,
		Status:      string(a.Status),
	}
	m.FromDomainOwned(a.OwnedAggregateRoot)
	return m
}

// CustomerModel is the persistence model for customers
type CustomerModel struct {
	OwnedModel
	Name         string     `gorm:"type:varchar(200);not null"`
	IDCardNumber string     `gorm:"type:varchar(20);index"`
	Phone        string     `gorm:"type:varchar(50)"`
	Email        string     `gorm:"type:varchar(200)"`
	Address      string     `gorm:"type:text"`
	UserID       *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain Customer
func (m *CustomerModel) ToDomain() *leasing.Customer {
	c := &leasing.Customer{
		Name:         m.Name,
		IDCardNumber: m.IDCardNumber,
		Phone:        m.Phone,
		Email:        m.Email,
		Address:      m.Address,
		UserID:       m.UserID,
	}
	m.PopulateOwned(&c.OwnedAggregateRoot)
	return c
}

// CustomerModelFromDomain creates a CustomerModel from a domain Customer
func CustomerModelFromDomain(c *leasing.Customer) *CustomerModel {
	m := &CustomerModel{
		Name:         c.Name,
		IDCardNumber: c.IDCardNumber,
		Phone:        c.Phone,
		Email:        c.Email,
		Address:      c.Address,
		UserID:       c.UserID,
	}
	m.FromDomainOwned(c.OwnedAggregateRoot)
	return m
}

// PaymentChannelModel stores one payment channel per owner
type PaymentChannelModel struct {
	OwnerID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	BankName          string    `gorm:"type:varchar(100)"`
	BankAccountNumber string    `gorm:"type:varchar(50)"`
	BankAccountName   string    `gorm:"type:varchar(200)"`
	QRCodeKey         string    `gorm:"column:qr_code_key;type:varchar(500)"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentChannelModel) TableName() string {
	return "payment_channels"
}

// ToDomain converts the model to a domain PaymentChannel
func (m *PaymentChannelModel) ToDomain() *leasing.PaymentChannel {
	return &leasing.PaymentChannel{
		OwnerID:           m.OwnerID,
		BankName:          m.BankName,
		BankAccountNumber: m.BankAccountNumber,
		BankAccountName:   m.BankAccountName,
		QRCodeKey:         m.QRCodeKey,
		UpdatedAt:         m.UpdatedAt,
	}
}

// PaymentChannelModelFromDomain creates a PaymentChannelModel from a domain PaymentChannel
func PaymentChannelModelFromDomain(c *leasing.PaymentChannel) *PaymentChannelModel {
	return &PaymentChannelModel{
		OwnerID:           c.OwnerID,
		BankName:          c.BankName,
		BankAccountNumber: c.BankAccountNumber,
		BankAccountName:   c.BankAccountName,
		QRCodeKey:         c.QRCodeKey,
		UpdatedAt:         c.UpdatedAt,
	}
}

// All returns every model, in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&CustomerModel{},
		&AssetModel{},
		&ContractModel{},
		&InstallmentModel{},
		&PaymentProofModel{},
		&ReceiptModel{},
		&PaymentChannelModel{},
	}
}
