package leasing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultMaxImageSize is the largest accepted upload (5 MiB)
const DefaultMaxImageSize int64 = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// validateImage checks type and size of an upload and returns the file
// extension to store it under
func validateImage(img UploadImage, maxSize int64) (string, error) {
	if img.Body == nil || img.Size <= 0 {
		return "", shared.NewDomainError("INVALID_IMAGE", "Image is required")
	}
	if maxSize > 0 && img.Size > maxSize {
		return "", shared.NewDomainError("INVALID_IMAGE",
			fmt.Sprintf("Image cannot exceed %d bytes", maxSize))
	}
	ext, ok := imageExtensions[strings.ToLower(img.ContentType)]
	if !ok {
		return "", shared.NewDomainError("INVALID_IMAGE", "Image must be a JPEG or PNG file")
	}
	return ext, nil
}

// parseTerms converts request terms to domain terms and validates them
func parseTerms(req ScheduleTermsRequest) (leasing.ScheduleTerms, error) {
	start, err := time.Parse(DateLayout, req.StartDate)
	if err != nil {
		return leasing.ScheduleTerms{}, shared.NewDomainError("INVALID_START_DATE", "Start date must be formatted as YYYY-MM-DD")
	}
	contractType := leasing.ContractType(req.ContractType)
	if contractType == "" {
		contractType = leasing.ContractTypeInstallment
	}
	terms := leasing.ScheduleTerms{
		TotalPrice:     req.TotalPrice,
		DownPayment:    req.DownPayment,
		InterestRate:   req.InterestRate,
		Months:         req.InstallmentsCount,
		StartDate:      start,
		ContractType:   contractType,
		BalloonPercent: req.BalloonPercent,
	}
	if err := terms.Validate(); err != nil {
		return leasing.ScheduleTerms{}, err
	}
	return terms, nil
}

// toFilter builds a normalized shared.Filter from list parameters
func toFilter(page, pageSize int, orderBy, orderDir, search string) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	if orderBy != "" {
		f.OrderBy = orderBy
	}
	if orderDir != "" {
		f.OrderDir = strings.ToLower(orderDir)
	}
	f.Search = strings.TrimSpace(search)
	return f.Normalize()
}

func forbidden(msg string) error {
	return shared.NewDomainError("FORBIDDEN", msg)
}

// eventSource is an aggregate that collects domain events
type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// publishEvents publishes the collected events of committed aggregates.
// Publishing failures are logged, never returned: the state change already
// committed.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, log *zap.Logger, sources ...eventSource) {
	var events []shared.DomainEvent
	for _, src := range sources {
		if src == nil {
			continue
		}
		events = append(events, src.GetDomainEvents()...)
		src.ClearDomainEvents()
	}
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		log.Warn("failed to publish domain events", zap.Int("count", len(events)), zap.Error(err))
	}
}

// isNotFound reports whether err is a NOT_FOUND domain error
func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

func notFound(what string) error {
	return shared.NewDomainError("NOT_FOUND", what+" not found")
}

func nopIfNil(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
