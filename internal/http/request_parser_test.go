package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsafe/internal/core"
)

func newParser(t *testing.T, contentType, body string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	p := NewRequestBodyParser(req)
	require.NoError(t, p.Parse())
	return p
}

func TestRequestBodyParser(t *testing.T) {
	t.Run("form", func(t *testing.T) {
		p := newParser(t, "application/x-www-form-urlencoded", "email=+A%40B.com+&password=+secret+")
		assert.False(t, p.IsJSON())
		assert.Equal(t, "A@B.com", p.Get("email"))
		assert.Equal(t, " secret ", p.GetRaw("password"))
	})

	t.Run("json", func(t *testing.T) {
		p := newParser(t, "application/json", `{"email":"a@b.com","minBalance":250.5}`)
		assert.True(t, p.IsJSON())
		assert.Equal(t, "a@b.com", p.Get("email"))
		assert.Equal(t, "250.5", p.Get("minBalance"))
		assert.Empty(t, p.Get("missing"))
	})

	t.Run("empty body", func(t *testing.T) {
		p := newParser(t, "application/x-www-form-urlencoded", "")
		assert.Empty(t, p.Get("email"))
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
		req.Header.Set("Content-Type", "application/json")
		p := NewRequestBodyParser(req)
		assert.Error(t, p.Parse())
		assert.Error(t, p.Parse(), "the error sticks")
	})

	t.Run("control characters dropped", func(t *testing.T) {
		p := newParser(t, "application/x-www-form-urlencoded", "note=a%00b%0Ac")
		assert.Equal(t, "ab\nc", p.Get("note"))
	})
}

func TestParseRegistration(t *testing.T) {
	p := newParser(t, "application/x-www-form-urlencoded", "name=Asha+Rao&email=Asha%40X.in&password=pw&minBalance=1%2C5")
	req, err := ParseRegistration(p)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", req.Name)
	assert.Equal(t, "asha@x.in", req.Email)
	assert.Equal(t, 1.5, req.MinBalance)

	p = newParser(t, "application/x-www-form-urlencoded", "name=a&minBalance=abc")
	_, err = ParseRegistration(p)
	assert.ErrorIs(t, err, errInvalidNumber)

	p = newParser(t, "application/x-www-form-urlencoded", "name=a")
	req, err = ParseRegistration(p)
	require.NoError(t, err)
	assert.Zero(t, req.MinBalance)
}

func TestParseMinBalance(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"500", 500, false},
		{" 12,345 ", 12.35, false},
		{"0", 0, false},
		{"-5", -5, false},
		{"", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMinBalance(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTransactionForm(t *testing.T) {
	p := newParser(t, "application/x-www-form-urlencoded",
		"type=Expense&amount=12.345&category=Food&date=2026-10-19&note=lunch")
	f := ParseTransactionForm(p)
	assert.Equal(t, "expense", f.Type)

	tx := f.NewTransaction()
	assert.Equal(t, core.Expense, tx.Type)
	assert.Equal(t, "12.35", tx.Amount.StringFixed(2))
	assert.NoError(t, tx.Validate())

	f.Amount = "abc"
	assert.ErrorIs(t, f.NewTransaction().Validate(), core.ErrInvalidAmount)

	q := url.Values{"type": {"INCOME"}, "amount": {"5"}}
	f = TransactionFormFromQuery(q)
	assert.Equal(t, "income", f.Type)
	assert.Equal(t, "5", f.Amount)
}

func TestParsePageAndYear(t *testing.T) {
	page, ok := ParsePage(url.Values{"page": {"3"}})
	assert.True(t, ok)
	assert.Equal(t, 3, page)

	for _, raw := range []string{"", "0", "-1", "x"} {
		_, ok := ParsePage(url.Values{"page": {raw}})
		assert.False(t, ok, raw)
	}

	year, ok := ParseYear(url.Values{"year": {"2025"}})
	assert.True(t, ok)
	assert.Equal(t, 2025, year)
}
