// Package http serves the FinSafe pages and HTMX fragments.
//
// This file implements utilities for parsing and validating request data:
// form and JSON bodies, paging and year controls, and the add-transaction
// form.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"finsafe/internal/api"
	"finsafe/internal/core"
)

// maxBodyBytes caps request bodies; every form in the app is tiny.
const maxBodyBytes = 64 << 10

var errInvalidNumber = errors.New("invalid number")

// RequestBodyParser reads a JSON or form-encoded body once and serves its
// fields as trimmed, sanitized strings.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if strings.HasPrefix(p.contentType, "application/json") || p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// GetRaw returns a value without trimming; passwords keep their spaces.
func (p *RequestBodyParser) GetRaw(key string) string {
	if p.jsonData != nil {
		return stringValue(p.jsonData[key])
	}
	if p.formData != nil {
		return p.formData.Get(key)
	}
	return ""
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput drops control characters other than tab and newlines and
// trims surrounding whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

// ParseCredentials reads the login form.
func ParseCredentials(p *RequestBodyParser) api.Credentials {
	return api.Credentials{
		Email:    strings.ToLower(p.Get("email")),
		Password: p.GetRaw("password"),
	}
}

// ParseRegistration reads the registration form. A blank minimum balance
// means zero.
func ParseRegistration(p *RequestBodyParser) (api.RegisterRequest, error) {
	req := api.RegisterRequest{
		Name:     p.Get("name"),
		Email:    strings.ToLower(p.Get("email")),
		Password: p.GetRaw("password"),
	}
	if raw := p.Get("minBalance"); raw != "" {
		v, err := ParseMinBalance(raw)
		if err != nil {
			return req, err
		}
		req.MinBalance = v
	}
	return req, nil
}

// ParseMinBalance parses a threshold typed by the user. The sign is kept so
// the caller can report negative values with a specific message.
func ParseMinBalance(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, errInvalidNumber
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errInvalidNumber
	}
	v := d.Round(2).InexactFloat64()
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errInvalidNumber
	}
	return v, nil
}

// TransactionForm holds the raw add-transaction fields so a failed
// submission can be shown again as typed.
type TransactionForm struct {
	Type     string
	Amount   string
	Category string
	Date     string
	Note     string
}

func ParseTransactionForm(p *RequestBodyParser) TransactionForm {
	return TransactionForm{
		Type:     strings.ToLower(p.Get("type")),
		Amount:   p.Get("amount"),
		Category: p.Get("category"),
		Date:     p.Get("date"),
		Note:     p.Get("note"),
	}
}

// TransactionFormFromQuery reads the same fields from a query string; the
// type selector re-renders the form through GET.
func TransactionFormFromQuery(q url.Values) TransactionForm {
	return TransactionForm{
		Type:     strings.ToLower(sanitizeInput(q.Get("type"))),
		Amount:   sanitizeInput(q.Get("amount")),
		Category: sanitizeInput(q.Get("category")),
		Date:     sanitizeInput(q.Get("date")),
		Note:     sanitizeInput(q.Get("note")),
	}
}

// NewTransaction converts the form for validation. Unparseable amounts
// become zero, which validation rejects.
func (f TransactionForm) NewTransaction() core.NewTransaction {
	amount, err := core.ParseAmount(f.Amount)
	if err != nil {
		amount = decimal.Zero
	}
	return core.NewTransaction{
		Type:     core.TransactionType(f.Type),
		Amount:   amount,
		Category: f.Category,
		Date:     f.Date,
		Note:     f.Note,
	}
}

// ParseNote reads the note editor fields.
func ParseNote(p *RequestBodyParser) core.Note {
	return core.Note{
		Title:   p.Get("title"),
		Content: p.Get("content"),
	}
}

// ParsePage reads a positive page number.
func ParsePage(q url.Values) (int, bool) {
	return positiveInt(q.Get("page"))
}

// ParseYear reads a positive year.
func ParseYear(q url.Values) (int, bool) {
	return positiveInt(q.Get("year"))
}

func positiveInt(raw string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}
