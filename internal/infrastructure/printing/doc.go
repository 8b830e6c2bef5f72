// Package printing renders printable receipts. Receipt data is bound to an
// HTML template with locale-aware amount formatting and converted to PDF by
// a headless Chrome instance driven through chromedp.
package printing
