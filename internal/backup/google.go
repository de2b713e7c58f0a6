package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"rege/internal/core"
	"rege/internal/log"
)

// Sheet columns: id | user | date | title | kind | category | amount.
const appendRange = "A:G"

type GoogleConfig struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

// GoogleMirror writes transactions to a Google Sheet using a service
// account.
type GoogleMirror struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

func NewGoogleMirror(ctx context.Context, cfg GoogleConfig, logger *log.Logger) (*GoogleMirror, error) {
	credentials, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &GoogleMirror{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		logger:        logger.WithComponent(log.ComponentBackup),
	}, nil
}

func loadCredentials(cfg GoogleConfig) ([]byte, error) {
	switch {
	case cfg.CredentialsJSON != "":
		return []byte(cfg.CredentialsJSON), nil
	case cfg.CredentialsFile != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials")
	}
}

func (g *GoogleMirror) AppendTransaction(ctx context.Context, userID string, tx core.Transaction) (string, error) {
	row := []any{
		strconv.FormatInt(tx.ID, 10),
		userID,
		tx.Date.String(),
		tx.Title,
		string(tx.Kind),
		tx.Category,
		tx.Amount.Decimal(),
	}
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	resp, err := g.svc.Spreadsheets.Values.
		Append(g.spreadsheetID, g.sheetName+"!"+appendRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append row: %w", err)
	}

	ref := ""
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	g.logger.InfoContext(ctx, "transaction mirrored",
		log.FieldOperation, log.OpSync,
		log.FieldTxID, tx.ID,
		log.FieldSheetsRef, ref)
	return ref, nil
}

// RemoveTransaction finds the row whose first column matches id and blanks
// it. The sheet keeps its row numbering stable for other references.
func (g *GoogleMirror) RemoveTransaction(ctx context.Context, id int64) error {
	rng := g.sheetName + "!A:A"
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read id column: %w", err)
	}

	want := strconv.FormatInt(id, 10)
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if cell, ok := row[0].(string); ok && cell == want {
			clearRange := fmt.Sprintf("%s!A%d:G%d", g.sheetName, i+1, i+1)
			_, err := g.svc.Spreadsheets.Values.
				Clear(g.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
				Context(ctx).Do()
			if err != nil {
				return fmt.Errorf("clear row: %w", err)
			}
			g.logger.InfoContext(ctx, "mirrored transaction removed",
				log.FieldOperation, log.OpDelete,
				log.FieldTxID, id)
			return nil
		}
	}

	g.logger.WarnContext(ctx, "transaction not found in sheet, nothing to remove", log.FieldTxID, id)
	return nil
}
