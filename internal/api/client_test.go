package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsafe/internal/core"
)

// newTestClient points a client at srv, mounted under /api/ like the hosted API.
func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	return New(Config{BaseURL: srv.URL + "/api/", Timeout: 2 * time.Second})
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// ── Auth ────────────────────────────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, Credentials{Email: "asha@example.com", Password: "s3cret"}, creds)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"_id": "u1", "name": "Asha Rao", "email": "asha@example.com", "minBalance": 500, "token": "tok",
		})
	}))
	defer srv.Close()

	user, err := newTestClient(t, srv).Login(context.Background(), Credentials{Email: "asha@example.com", Password: "s3cret"})

	require.NoError(t, err)
	assert.Equal(t, core.User{ID: "u1", Name: "Asha Rao", Email: "asha@example.com", MinBalance: 500, Token: "tok"}, user)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Login(context.Background(), Credentials{Email: "a@b.c", Password: "x"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid email or password", MessageOf(err, "fallback"))
	assert.Equal(t, "Invalid email or password", Describe(err))

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestRegister_ConflictWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(250), body["minBalance"])
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("duplicate"))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Register(context.Background(), RegisterRequest{
		Name: "Asha", Email: "a@b.c", Password: "pw", MinBalance: 250,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "fallback", MessageOf(err, "fallback"))
	assert.Equal(t, "Request failed with status code 409", Describe(err))
}

func TestUpdateSettings_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/auth/settings", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]any{"_id": "u1", "name": "Asha", "minBalance": 1000})
	}))
	defer srv.Close()

	user, err := newTestClient(t, srv).UpdateSettings(context.Background(), "tok", 1000)

	require.NoError(t, err)
	assert.Equal(t, 1000.0, user.MinBalance)
}

func TestConfirmNameChange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "abc", body["token"])
		writeJSON(t, w, http.StatusOK, map[string]any{
			"user":    map[string]any{"_id": "u1", "name": "Asha R", "token": "new"},
			"message": "Username updated successfully!",
		})
	}))
	defer srv.Close()

	out, err := newTestClient(t, srv).ConfirmNameChange(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, "Username updated successfully!", out.Message)
	assert.Equal(t, "Asha R", out.User.Name)
	assert.Equal(t, "new", out.User.Token)
}

// ── Transactions ────────────────────────────────────────────────────────────

func TestListTransactions_QueryModes(t *testing.T) {
	tests := []struct {
		name      string
		query     ListQuery
		wantQuery string
	}{
		{name: "page", query: ListQuery{Page: 3}, wantQuery: "page=3"},
		{name: "page defaults to 1", query: ListQuery{}, wantQuery: "page=1"},
		{name: "date", query: ListQuery{Page: 4, Date: "2026-10-01"}, wantQuery: "date=2026-10-01"},
		{name: "month", query: ListQuery{Year: 2026, Month: 9}, wantQuery: "month=9&year=2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/transactions", r.URL.Path)
				assert.Equal(t, tt.wantQuery, r.URL.Query().Encode())
				writeJSON(t, w, http.StatusOK, map[string]any{})
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv).ListTransactions(context.Background(), "tok", tt.query)
			require.NoError(t, err)
		})
	}
}

func TestListTransactions_DefaultsMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{})
	}))
	defer srv.Close()

	page, err := newTestClient(t, srv).ListTransactions(context.Background(), "tok", ListQuery{Page: 2})

	require.NoError(t, err)
	assert.NotNil(t, page.Transactions)
	assert.Empty(t, page.Transactions)
	assert.Equal(t, core.Balance{}, page.Balance)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 1, page.Pages)
}

func TestListTransactions_DecodesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"transactions": [{"_id":"t1","type":"expense","amount":120.5,"category":"Food","note":"lunch","date":"2026-10-02T00:00:00.000Z"}],
			"balance": {"totalIncome": 5000, "totalExpense": 120.5, "netBalance": 4879.5},
			"page": 1,
			"pages": 7
		}`))
	}))
	defer srv.Close()

	page, err := newTestClient(t, srv).ListTransactions(context.Background(), "tok", ListQuery{Date: "2026-10-02"})

	require.NoError(t, err)
	require.Len(t, page.Transactions, 1)
	tx := page.Transactions[0]
	assert.Equal(t, core.Expense, tx.Type)
	assert.Equal(t, 120.5, tx.Amount)
	assert.Equal(t, time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC), tx.Date.UTC())
	assert.Equal(t, 4879.5, page.Balance.NetBalance)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 7, page.Pages)
}

func TestAddTransaction_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "expense", r.FormValue("type"))
		assert.Equal(t, "12.50", r.FormValue("amount"))
		assert.Equal(t, "Food", r.FormValue("category"))
		assert.Equal(t, "2026-10-19", r.FormValue("date"))
		assert.Equal(t, "chai", r.FormValue("note"))
		writeJSON(t, w, http.StatusCreated, map[string]any{"_id": "t9", "type": "expense", "amount": 12.5, "category": "Food", "date": "2026-10-19T00:00:00Z"})
	}))
	defer srv.Close()

	tx, err := newTestClient(t, srv).AddTransaction(context.Background(), "tok", core.NewTransaction{
		Type: core.Expense, Amount: decimal.RequireFromString("12.5"), Category: "Food", Date: "2026-10-19", Note: "chai",
	})

	require.NoError(t, err)
	assert.Equal(t, "t9", tx.ID)
}

func TestAnalytics_YearAndMonth(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/transactions/analytics", r.URL.Path)
		if r.URL.Query().Get("month") != "" {
			assert.Equal(t, "3", r.URL.Query().Get("month"))
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"categoryData": []map[string]any{{"_id": "Food", "total": 300}},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	a, err := c.Analytics(context.Background(), "tok", 2026, 0)
	require.NoError(t, err)
	assert.Equal(t, []core.CategoryTotal{{Category: "Food", Total: 300}}, a.CategoryData)
	assert.NotNil(t, a.MonthlyData)

	_, err = c.Analytics(context.Background(), "tok", 2026, 3)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestMonthlyReport_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transactions/monthly-report", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("month"))
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).MonthlyReport(context.Background(), "tok", core.Month{Year: 2026, Month: 10})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServer)
}

func TestRetriesGatewayErrorsOnGet(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(t, w, http.StatusOK, []map[string]any{{"_id": "n1", "title": "Budget"}})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second, Retries: 2})
	notes, err := c.ListNotes(context.Background(), "tok")

	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, int32(2), calls.Load())
}

// ── Notes ───────────────────────────────────────────────────────────────────

func TestNotesCRUD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/notes":
			_, _ = w.Write([]byte(`null`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/notes":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Len(t, body, 2, "only title and content are sent")
			writeJSON(t, w, http.StatusCreated, map[string]any{"_id": "n1", "title": body["title"], "content": body["content"]})
		case r.Method == http.MethodPut && r.URL.Path == "/api/notes/n1":
			writeJSON(t, w, http.StatusOK, map[string]any{"_id": "n1", "title": "Renamed"})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/notes/n1":
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete:
			writeJSON(t, w, http.StatusNotFound, map[string]string{"message": "Note not found"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	ctx := context.Background()

	notes, err := c.ListNotes(ctx, "tok")
	require.NoError(t, err)
	assert.NotNil(t, notes)

	created, err := c.CreateNote(ctx, "tok", core.Note{Title: "Budget", Content: "Plan"})
	require.NoError(t, err)
	assert.Equal(t, "n1", created.ID)

	updated, err := c.UpdateNote(ctx, "tok", "n1", core.Note{Title: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	require.NoError(t, c.DeleteNote(ctx, "tok", "n1"))
	err = c.DeleteNote(ctx, "tok", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newTestClient(t, srv)
	srv.Close()

	_, err := c.ListNotes(context.Background(), "tok")

	require.Error(t, err)
	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, "Failed to fetch notes.", MessageOf(err, "Failed to fetch notes."))
	assert.Equal(t, "Unable to reach the FinSafe server. Please try again.", Describe(err))
	assert.Error(t, c.Ping(context.Background()))
}
