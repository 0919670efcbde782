package audit

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const valueInputRaw = "RAW"

// SheetsSink appends rows to a Google spreadsheet through the Sheets v4 API.
type SheetsSink struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsSink builds a sink authenticated with a service-account key file.
// Extra options are appended, which lets tests point it at a local server.
func NewSheetsSink(ctx context.Context, spreadsheetID, credentialsFile string, opts ...option.ClientOption) (*SheetsSink, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id is required")
	}
	base := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		base = append(base, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheets.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}
	return &SheetsSink{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (s *SheetsSink) AppendRow(ctx context.Context, sheet string, columns []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toCells(columns)}}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, columnRange(sheet, len(columns)), vr).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append to %s: %w", sheet, err)
	}
	return nil
}

// EnsureSheet adds a tab named title unless the spreadsheet already has one.
func (s *SheetsSink) EnsureSheet(ctx context.Context, title string) error {
	doc, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: get spreadsheet: %w", err)
	}
	for _, sh := range doc.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return nil
		}
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets: add sheet %s: %w", title, err)
	}
	return nil
}

// WriteHeaders overwrites row 1 of title with headers.
func (s *SheetsSink) WriteHeaders(ctx context.Context, title string, headers []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toCells(headers)}}
	rng := fmt.Sprintf("%s!A1:%s1", quoteSheet(title), columnLetter(len(headers)))
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rng, vr).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: write headers for %s: %w", title, err)
	}
	return nil
}

func toCells(columns []string) []interface{} {
	cells := make([]interface{}, len(columns))
	for i, c := range columns {
		cells[i] = c
	}
	return cells
}

// columnRange returns "Sheet!A:F" style ranges covering n columns.
func columnRange(sheet string, n int) string {
	return fmt.Sprintf("%s!A:%s", quoteSheet(sheet), columnLetter(n))
}

func quoteSheet(title string) string {
	if strings.ContainsAny(title, " '!") {
		return "'" + strings.ReplaceAll(title, "'", "''") + "'"
	}
	return title
}

// columnLetter converts a 1-based column count to A1 notation (1->A, 27->AA).
func columnLetter(n int) string {
	if n < 1 {
		n = 1
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
