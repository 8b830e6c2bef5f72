package leasing

import (
	"context"
	"io"
	"time"
)

// ObjectStorage stores uploaded images (payment proofs, payment QR codes)
type ObjectStorage interface {
	// Put uploads an object under key
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	// Delete removes an object; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL for key
	PresignGet(ctx context.Context, key string) (string, error)
}

// ReceiptRenderer turns a receipt document into a printable PDF
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, doc ReceiptDocument) ([]byte, error)
}

// ScheduleExporter writes a contract's installment schedule as a spreadsheet
type ScheduleExporter interface {
	ExportSchedule(doc ScheduleDocument) ([]byte, error)
}

// Clock supplies the current time and the business time zone. "Today" for
// due dates and overdue checks is the calendar date in that zone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock returns a Clock using time.Now in loc (UTC when nil)
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Today returns the current business date at midnight UTC, matching how due
// dates are stored
func (c Clock) Today() time.Time {
	t := c.now()
	if c.Location != nil {
		t = t.In(c.Location)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
