package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const printDateLayout = "02 Jan 2006"

// Formatter formats amounts and labels for a locale
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	caser   cases.Caser
	symbol  string
}

// NewFormatter creates a formatter for a BCP 47 locale. An empty locale
// falls back to English.
func NewFormatter(locale, currencySymbol string) (*Formatter, error) {
	tag := language.English
	if locale != "" {
		parsed, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("invalid printing locale %q: %w", locale, err)
		}
		tag = parsed
	}
	return &Formatter{
		tag:     tag,
		printer: message.NewPrinter(tag),
		caser:   cases.Title(tag),
		symbol:  currencySymbol,
	}, nil
}

// Number formats d with grouping and two decimals
func (f *Formatter) Number(d decimal.Decimal) string {
	v, _ := d.Round(2).Float64()
	return f.printer.Sprint(number.Decimal(v, number.Scale(2)))
}

// Money formats d prefixed with the currency symbol
func (f *Formatter) Money(d decimal.Decimal) string {
	return f.symbol + f.Number(d)
}

// Label turns an enum value such as "bank_transfer" into "Bank Transfer"
func (f *Formatter) Label(s string) string {
	return f.caser.String(strings.ReplaceAll(s, "_", " "))
}

// Date formats a calendar date; zero dates print empty
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(printDateLayout)
}

// DateTime formats a timestamp in loc
func (f *Formatter) DateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(printDateLayout + " 15:04")
}

// TemplateEngine executes named HTML templates with the formatting helpers
type TemplateEngine struct {
	root *template.Template
}

// NewTemplateEngine parses templates (name to source) with f's helpers.
// loc is used for timestamps.
func NewTemplateEngine(f *Formatter, loc *time.Location, templates map[string]string) (*TemplateEngine, error) {
	funcs := template.FuncMap{
		"money":    f.Money,
		"number":   f.Number,
		"label":    f.Label,
		"date":     f.Date,
		"datetime": func(t time.Time) string { return f.DateTime(t, loc) },
		"upper":    strings.ToUpper,
	}
	root := template.New("").Funcs(funcs)
	for name, src := range templates {
		if _, err := root.New(name).Parse(src); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
	}
	return &TemplateEngine{root: root}, nil
}

// Render executes the named template
func (e *TemplateEngine) Render(name string, data any) (string, error) {
	tmpl := e.root.Lookup(name)
	if tmpl == nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "unknown template "+name, nil)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "execute template "+name, err)
	}
	return buf.String(), nil
}
