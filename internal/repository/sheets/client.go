package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/herdbook/internal/config"
)

var errEmptyRange = errors.New("sheet range must not be empty")

// Sheet is the subset of the Sheets values API used for summary export.
type Sheet interface {
	AppendRow(ctx context.Context, a1Range string, values []interface{}) error
	ReadRange(ctx context.Context, a1Range string) ([][]interface{}, error)
}

// Client talks to one spreadsheet through a service account.
type Client struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	logger        *zap.Logger
}

// NewClient authenticates with the credentials file named in cfg.
func NewClient(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &Client{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendRow inserts values as a new row after the last filled row of a1Range.
func (c *Client) AppendRow(ctx context.Context, a1Range string, values []interface{}) error {
	if a1Range == "" {
		return errEmptyRange
	}

	body := &sheetsapi.ValueRange{Values: [][]interface{}{values}}
	_, err := c.values.Append(c.spreadsheetID, a1Range, body).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row into range %s: %w", a1Range, err)
	}

	c.logger.Debug("row appended to sheet", zap.String("range", a1Range))
	return nil
}

// ReadRange returns the filled cells of a1Range.
func (c *Client) ReadRange(ctx context.Context, a1Range string) ([][]interface{}, error) {
	if a1Range == "" {
		return nil, errEmptyRange
	}

	resp, err := c.values.Get(c.spreadsheetID, a1Range).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", a1Range, err)
	}
	return resp.Values, nil
}
