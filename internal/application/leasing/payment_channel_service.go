package leasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/identity"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"go.uber.org/zap"
)

// PaymentChannelService manages the bank details and QR code an owner shows
// to customers
type PaymentChannelService struct {
	repos        Repositories
	storage      ObjectStorage
	maxImageSize int64
	logger       *zap.Logger
}

// NewPaymentChannelService creates a new PaymentChannelService
func NewPaymentChannelService(repos Repositories, storage ObjectStorage, logger *zap.Logger) *PaymentChannelService {
	return &PaymentChannelService{
		repos:        repos,
		storage:      storage,
		maxImageSize: DefaultMaxImageSize,
		logger:       nopIfNil(logger),
	}
}

// SetMaxImageSize overrides the upload size limit
func (s *PaymentChannelService) SetMaxImageSize(n int64) {
	if n > 0 {
		s.maxImageSize = n
	}
}

// Get returns the owner's own payment channel
func (s *PaymentChannelService) Get(ctx context.Context, actor identity.Actor) (*PaymentChannelResponse, error) {
	if err := actor.RequireOwner(); err != nil {
		return nil, err
	}
	return s.forOwner(ctx, actor.UserID)
}

// Update sets the owner's bank details, keeping any uploaded QR code
func (s *PaymentChannelService) Update(ctx context.Context, actor identity.Actor, req UpdatePaymentChannelRequest) (*PaymentChannelResponse, error) {
	if err := actor.RequireOwner(); err != nil {
		return nil, err
	}
	channel, err := leasing.NewPaymentChannel(actor.UserID, req.BankName, req.BankAccountNumber, req.BankAccountName)
	if err != nil {
		return nil, err
	}
	existing, err := s.repos.PaymentChannels.FindByOwner(ctx, actor.UserID)
	switch {
	case err == nil:
		channel.QRCodeKey = existing.QRCodeKey
	case !isNotFound(err):
		return nil, err
	}
	if err := s.repos.PaymentChannels.Save(ctx, channel); err != nil {
		return nil, err
	}

	s.logger.Info("payment channel updated", zap.String("owner_id", actor.UserID.String()))
	return s.toResponse(ctx, channel), nil
}

// UploadQRCode stores a payment QR image and replaces the previous one
func (s *PaymentChannelService) UploadQRCode(ctx context.Context, actor identity.Actor, img UploadImage) (*PaymentChannelResponse, error) {
	if err := actor.RequireOwner(); err != nil {
		return nil, err
	}
	ext, err := validateImage(img, s.maxImageSize)
	if err != nil {
		return nil, err
	}

	channel, err := s.repos.PaymentChannels.FindByOwner(ctx, actor.UserID)
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		channel = &leasing.PaymentChannel{OwnerID: actor.UserID}
	}
	previous := channel.QRCodeKey

	key := fmt.Sprintf("payment-qr/%s/%s%s", actor.UserID, uuid.New(), ext)
	if err := s.storage.Put(ctx, key, img.ContentType, img.Body, img.Size); err != nil {
		return nil, fmt.Errorf("store payment qr code: %w", err)
	}
	channel.QRCodeKey = key
	channel.UpdatedAt = time.Now().UTC()
	if err := s.repos.PaymentChannels.Save(ctx, channel); err != nil {
		if delErr := s.storage.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			s.logger.Warn("failed to remove orphaned qr code", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	if previous != "" {
		if err := s.storage.Delete(ctx, previous); err != nil {
			s.logger.Warn("failed to remove previous qr code", zap.String("key", previous), zap.Error(err))
		}
	}

	s.logger.Info("payment qr code uploaded", zap.String("owner_id", actor.UserID.String()))
	return s.toResponse(ctx, channel), nil
}

func (s *PaymentChannelService) forOwner(ctx context.Context, ownerID uuid.UUID) (*PaymentChannelResponse, error) {
	channel, err := s.repos.PaymentChannels.FindByOwner(ctx, ownerID)
	if err != nil {
		if isNotFound(err) {
			return &PaymentChannelResponse{}, nil
		}
		return nil, err
	}
	return s.toResponse(ctx, channel), nil
}

func (s *PaymentChannelService) toResponse(ctx context.Context, c *leasing.PaymentChannel) *PaymentChannelResponse {
	resp := &PaymentChannelResponse{
		BankName:          c.BankName,
		BankAccountNumber: c.BankAccountNumber,
		BankAccountName:   c.BankAccountName,
	}
	if c.QRCodeKey != "" && s.storage != nil {
		url, err := s.storage.PresignGet(ctx, c.QRCodeKey)
		if err != nil {
			s.logger.Warn("failed to presign qr code", zap.String("key", c.QRCodeKey), zap.Error(err))
		} else {
			resp.QRCodeURL = url
		}
	}
	return resp
}
