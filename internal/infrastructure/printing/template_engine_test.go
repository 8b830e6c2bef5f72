package printing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter(t *testing.T) {
	_, err := NewFormatter("not a locale!", "")
	assert.Error(t, err)

	f, err := NewFormatter("", "$")
	require.NoError(t, err)
	assert.Equal(t, "$1,234.50", f.Money(decimal.RequireFromString("1234.5")))
}

func TestFormatter(t *testing.T) {
	f, err := NewFormatter("en-US", "฿")
	require.NoError(t, err)

	t.Run("numbers are grouped and rounded to two decimals", func(t *testing.T) {
		assert.Equal(t, "2,750.00", f.Number(decimal.NewFromInt(2750)))
		assert.Equal(t, "1,000,000.13", f.Number(decimal.RequireFromString("1000000.125")))
		assert.Equal(t, "0.00", f.Number(decimal.Zero))
		assert.Equal(t, "฿36,000.00", f.Money(decimal.NewFromInt(36000)))
	})

	t.Run("labels", func(t *testing.T) {
		assert.Equal(t, "Bank Transfer", f.Label("bank_transfer"))
		assert.Equal(t, "Cash", f.Label("cash"))
	})

	t.Run("dates", func(t *testing.T) {
		assert.Equal(t, "15 Mar 2024", f.Date(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, "", f.Date(time.Time{}))

		bangkok := time.FixedZone("ICT", 7*3600)
		paidAt := time.Date(2024, 3, 15, 20, 30, 0, 0, time.UTC)
		assert.Equal(t, "16 Mar 2024 03:30", f.DateTime(paidAt, bangkok))
		assert.Equal(t, "15 Mar 2024 20:30", f.DateTime(paidAt, nil))
	})
}

func TestTemplateEngine(t *testing.T) {
	f, err := NewFormatter("en", "$")
	require.NoError(t, err)

	_, err = NewTemplateEngine(f, time.UTC, map[string]string{"bad": "{{.Name"})
	assert.Error(t, err)

	engine, err := NewTemplateEngine(f, time.UTC, map[string]string{
		"line": `<p>{{upper .Name}}: {{money .Amount}}</p>`,
	})
	require.NoError(t, err)

	out, err := engine.Render("line", map[string]any{
		"Name":   "<b>somchai</b>",
		"Amount": decimal.NewFromInt(1500),
	})
	require.NoError(t, err)
	assert.Equal(t, "<p>&lt;B&gt;SOMCHAI&lt;/B&gt;: $1,500.00</p>", out)

	_, err = engine.Render("missing", nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeTemplateFailed, renderErr.Code)
}
