package printing

import (
	"context"
	"time"

	appleasing "github.com/hirepurchase/backend/internal/application/leasing"
	"github.com/hirepurchase/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ReceiptPrinter renders receipts to PDF
type ReceiptPrinter struct {
	engine   *TemplateEngine
	renderer PDFRenderer
	paper    PaperSize
	logger   *zap.Logger
}

// NewReceiptPrinter builds a printer from the printing settings. Timestamps
// are printed in loc.
func NewReceiptPrinter(renderer PDFRenderer, cfg config.PrintingConfig, loc *time.Location, logger *zap.Logger) (*ReceiptPrinter, error) {
	formatter, err := NewFormatter(cfg.Locale, cfg.CurrencySymbol)
	if err != nil {
		return nil, err
	}
	engine, err := NewTemplateEngine(formatter, loc, map[string]string{
		receiptTemplateName: receiptTemplate,
	})
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptPrinter{engine: engine, renderer: renderer, paper: PaperSizeA5, logger: logger}, nil
}

// RenderHTML returns the receipt as an HTML document
func (p *ReceiptPrinter) RenderHTML(doc appleasing.ReceiptDocument) (string, error) {
	return p.engine.Render(receiptTemplateName, doc)
}

// RenderReceipt renders the receipt to PDF
func (p *ReceiptPrinter) RenderReceipt(ctx context.Context, doc appleasing.ReceiptDocument) ([]byte, error) {
	html, err := p.RenderHTML(doc)
	if err != nil {
		return nil, err
	}
	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:      html,
		PaperSize: p.paper,
		Margins:   DefaultMargins(),
		Title:     doc.ReceiptNumber,
	})
	if err != nil {
		return nil, err
	}
	p.logger.Info("receipt rendered",
		zap.String("receipt_number", doc.ReceiptNumber),
		zap.Int("bytes", len(result.PDFData)),
		zap.Duration("duration", result.RenderDuration),
	)
	return result.PDFData, nil
}

var _ appleasing.ReceiptRenderer = (*ReceiptPrinter)(nil)
