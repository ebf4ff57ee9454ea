package implementation

import (
	"context"
	"fmt"
	"os"

	"offline-traffic-bot/internal/repository/contract"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type sheetsRowStore struct {
	srv           *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsRowStore builds the Google Sheets row store from a service
// account credentials file.
func NewSheetsRowStore(ctx context.Context, credentialsPath, spreadsheetID, sheetName string) (contract.RowStoreRepository, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read service account credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("init sheets client: %w", err)
	}
	return &sheetsRowStore{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func (s *sheetsRowStore) Headers(ctx context.Context) ([]string, error) {
	rng := fmt.Sprintf("%s!1:1", s.sheetName)
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	headers := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		headers = append(headers, fmt.Sprintf("%v", cell))
	}
	return headers, nil
}

func (s *sheetsRowStore) Append(ctx context.Context, values []interface{}) error {
	rng := fmt.Sprintf("%s!A1", s.sheetName)
	vr := &sheets.ValueRange{Values: [][]interface{}{values}}
	_, err := s.srv.Spreadsheets.Values.Append(s.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}
