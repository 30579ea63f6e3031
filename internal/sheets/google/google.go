package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"finsafe/internal/core"
	"finsafe/internal/log"
	ports "finsafe/internal/sheets"
)

// Client appends balance alerts to one tab of a spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	alertsSheet   string
	logger        *log.Logger

	headerMu    sync.Mutex
	headerReady bool
}

var _ ports.AlertSink = (*Client)(nil)

// Config selects the spreadsheet and the account used to reach it.
//
// With OAuthTokenFile set the sink acts as the user who ran
// finsafe-sheets-auth, using OAuthClientJSON or OAuthClientFile. Otherwise a
// service account is used: CredentialsJSON wins over CredentialsFile, and
// with neither set the file named by GOOGLE_APPLICATION_CREDENTIALS is read.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string

	OAuthClientJSON string
	OAuthClientFile string
	OAuthTokenFile  string
}

func New(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	auth, err := clientOption(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx, auth)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName, logger), nil
}

func clientOption(ctx context.Context, cfg Config) (goption.ClientOption, error) {
	if strings.TrimSpace(cfg.OAuthTokenFile) == "" {
		credentials, err := loadCredentials(cfg)
		if err != nil {
			return nil, err
		}
		return goption.WithCredentialsJSON(credentials), nil
	}

	oauthCfg, err := OAuthConfig(cfg.OAuthClientJSON, cfg.OAuthClientFile)
	if err != nil {
		return nil, err
	}
	tok, err := LoadToken(cfg.OAuthTokenFile)
	if err != nil {
		return nil, err
	}
	return goption.WithTokenSource(oauthCfg.TokenSource(ctx, tok)), nil
}

// OAuthConfig reads an OAuth client definition, inline JSON first, and
// scopes it to spreadsheets.
func OAuthConfig(clientJSON, clientFile string) (*oauth2.Config, error) {
	data := []byte(strings.TrimSpace(clientJSON))
	if len(data) == 0 {
		if strings.TrimSpace(clientFile) == "" {
			return nil, errors.New("missing OAuth client (set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE)")
		}
		var err error
		if data, err = os.ReadFile(clientFile); err != nil {
			return nil, fmt.Errorf("read OAuth client file: %w", err)
		}
	}
	oauthCfg, err := goauth.ConfigFromJSON(data, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse OAuth client: %w", err)
	}
	return oauthCfg, nil
}

func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read OAuth token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode OAuth token: %w", err)
	}
	if tok.RefreshToken == "" && tok.AccessToken == "" {
		return nil, errors.New("OAuth token file holds no token")
	}
	return &tok, nil
}

// SaveToken writes tok to path, readable only by the owner.
func SaveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		f.Close()
		return fmt.Errorf("write token: %w", err)
	}
	return f.Close()
}

// NewWithService wraps an already configured Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheetName string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Discard()
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Alerts"
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		alertsSheet:   sheetName,
		logger:        logger.WithComponent(log.ComponentSheets),
	}
}

func loadCredentials(cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.CredentialsJSON)
	file := strings.TrimSpace(cfg.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// AppendAlert appends one row to the alerts sheet. The Sheets API places
// the row after the table, so concurrent appends never share a row. An empty
// sheet gets the header row first.
func (c *Client) AppendAlert(ctx context.Context, a core.BalanceAlert) (string, error) {
	if a.UserID == "" {
		return "", errors.New("alert without user id")
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if err := c.ensureHeader(ctx); err != nil {
		return "", err
	}

	tableRange := fmt.Sprintf("%s!A:%s", c.alertsSheet, lastColumn)
	vr := &gsheet.ValueRange{Values: [][]any{alertRow(a)}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, tableRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to append to %s: %w", c.alertsSheet, err)
	}

	ref := tableRange
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	c.logger.InfoContext(ctx, "Appended balance alert",
		log.FieldUserID, a.UserID, "row_ref", ref)
	return ref, nil
}

// ensureHeader writes headerRow into row 1 when it is empty. It checks the
// sheet once per client.
func (c *Client) ensureHeader(ctx context.Context) error {
	c.headerMu.Lock()
	defer c.headerMu.Unlock()
	if c.headerReady {
		return nil
	}

	headerRange := rowRange(c.alertsSheet, 1, 1)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", c.alertsSheet, err)
	}
	if len(resp.Values) == 0 {
		vr := &gsheet.ValueRange{Values: [][]any{headerRow}}
		_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, headerRange, vr).
			ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to write header of %s: %w", c.alertsSheet, err)
		}
	}
	c.headerReady = true
	return nil
}
