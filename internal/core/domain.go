package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// MaxNoteLength is the longest note accepted on a transaction, in characters.
const MaxNoteLength = 100

// DateLayout is the wire and form format for calendar dates.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	User struct {
		ID         string  `json:"_id,omitempty"`
		Name       string  `json:"name"`
		Email      string  `json:"email"`
		MinBalance float64 `json:"minBalance"`
		Token      string  `json:"token,omitempty"`
	}

	Transaction struct {
		ID       string          `json:"_id"`
		Type     TransactionType `json:"type"`
		Amount   float64         `json:"amount"`
		Category string          `json:"category"`
		Note     string          `json:"note,omitempty"`
		Date     time.Time       `json:"date"`
	}

	// NewTransaction is a transaction as entered in the add form, before the
	// API assigns it an ID.
	NewTransaction struct {
		Type     TransactionType
		Amount   decimal.Decimal
		Category string
		Date     string // YYYY-MM-DD
		Note     string
	}

	Note struct {
		ID        string    `json:"_id,omitempty"`
		Title     string    `json:"title"`
		Content   string    `json:"content"`
		CreatedAt time.Time `json:"createdAt,omitempty"`
		UpdatedAt time.Time `json:"updatedAt,omitempty"`
	}

	// BalanceAlert is raised when a user's net balance drops below the
	// threshold they configured.
	BalanceAlert struct {
		UserID     string    `json:"user_id"`
		UserName   string    `json:"user_name"`
		Email      string    `json:"email"`
		NetBalance float64   `json:"net_balance"`
		MinBalance float64   `json:"min_balance"`
		ObservedAt time.Time `json:"observed_at"`
	}
)

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyCategory   = errors.New("empty category")
	ErrUnknownCategory = errors.New("unknown category")
	ErrNoteTooLong     = errors.New("note too long (max 100 characters)")
	ErrEmptyTitle      = errors.New("note title is required")
	ErrNegativeMin     = errors.New("minimum balance cannot be negative")
)

var categories = map[TransactionType][]string{
	Income:  {"Salary", "Freelance", "Investment", "Other Income"},
	Expense: {"Food", "Housing", "Transport", "Utilities", "Entertainment", "Other Expense"},
}

// ParseTransactionType accepts "income" or "expense", case-insensitively.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	}
	return "", ErrInvalidType
}

// CategoriesFor returns the selectable categories for a transaction type.
func CategoriesFor(t TransactionType) []string {
	src := categories[t]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// DefaultCategory is the category preselected in the add form.
func DefaultCategory(t TransactionType) string {
	if cats := categories[t]; len(cats) > 0 {
		return cats[0]
	}
	return ""
}

func ValidCategory(t TransactionType, category string) bool {
	for _, c := range categories[t] {
		if c == category {
			return true
		}
	}
	return false
}

// FirstName returns the first word of the user's name.
func (u User) FirstName() string {
	fields := strings.Fields(u.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func (t Transaction) IsIncome() bool {
	return t.Type == Income
}

// SignedLabel is "+" for income and "-" for expenses.
func (t Transaction) SignedLabel() string {
	if t.IsIncome() {
		return "+"
	}
	return "-"
}

func (t Transaction) NoteOrDash() string {
	if strings.TrimSpace(t.Note) == "" {
		return "-"
	}
	return t.Note
}

func (n NewTransaction) Validate() error {
	t, err := ParseTransactionType(string(n.Type))
	if err != nil {
		return err
	}
	if !n.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(n.Category) == "" {
		return ErrEmptyCategory
	}
	if !ValidCategory(t, n.Category) {
		return ErrUnknownCategory
	}
	if _, err := time.Parse(DateLayout, n.Date); err != nil {
		return ErrInvalidDate
	}
	if utf8.RuneCountInString(n.Note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

func (n Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// ValidateMinBalance checks a low-balance threshold entered by the user.
func ValidateMinBalance(v float64) error {
	if v < 0 {
		return ErrNegativeMin
	}
	return nil
}
