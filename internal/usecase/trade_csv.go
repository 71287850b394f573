package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"futfolio/internal/domain"
)

// csvHeader is the column layout of the tabular trade round-trip. Derived
// columns are exported for readability but ignored on import, where they
// are recomputed exactly like a single-record create.
var csvHeader = []string{
	"subject_name", "subject_rating", "platform",
	"buy_price", "sell_price", "quantity",
	"trade_date", "tag", "notes",
	"profit", "tax", "roi", "status",
}

const csvDateLayout = time.RFC3339

// ExportTrades writes the owner's full ledger as CSV.
func (s *TradeService) ExportTrades(ctx context.Context, ownerID uuid.UUID, w io.Writer) error {
	trades, err := s.ListTrades(ctx, ownerID, domain.TradeFilter{}, domain.SortByDateAsc, domain.Pagination{})
	if err != nil {
		return fmt.Errorf("failed to list trades for export: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range trades {
		record := []string{
			t.SubjectName,
			optIntField(t.SubjectRating),
			t.Platform,
			strconv.FormatFloat(t.BuyPrice, 'f', 2, 64),
			optFloatField(t.SellPrice),
			strconv.Itoa(t.Quantity),
			t.TradeDate.Format(csvDateLayout),
			optStringField(t.Tag),
			optStringField(t.Notes),
			optFloatField(t.Profit),
			optFloatField(t.Tax),
			optFloatField(t.ROI),
			t.Status,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ImportTrades reads CSV records and creates a trade per row, recomputing
// derived fields instead of trusting any profit/tax/roi columns in the
// input. Returns the number of trades imported; a bad row aborts the import
// with its line number.
func (s *TradeService) ImportTrades(ctx context.Context, ownerID uuid.UUID, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("%w: empty or unreadable CSV", domain.ErrValidation)
	}
	if len(header) < 6 {
		return 0, fmt.Errorf("%w: CSV header must carry at least subject, rating, platform, prices and quantity", domain.ErrValidation)
	}

	imported := 0
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("%w: malformed CSV at line %d", domain.ErrValidation, line)
		}

		input, err := parseTradeRecord(record)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}

		if _, err := s.CreateTrade(ctx, ownerID, input); err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		imported++
	}

	s.log.Info("trades imported",
		zap.String("owner_id", ownerID.String()),
		zap.Int("count", imported))
	return imported, nil
}

func parseTradeRecord(record []string) (CreateTradeInput, error) {
	var input CreateTradeInput
	if len(record) < 6 {
		return input, fmt.Errorf("%w: row has fewer than 6 columns", domain.ErrValidation)
	}

	input.SubjectName = record[0]
	input.Platform = record[2]

	if record[1] != "" {
		rating, err := strconv.Atoi(record[1])
		if err != nil {
			return input, fmt.Errorf("%w: invalid subject rating %q", domain.ErrValidation, record[1])
		}
		input.SubjectRating = &rating
	}

	buyPrice, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return input, fmt.Errorf("%w: invalid buy price %q", domain.ErrValidation, record[3])
	}
	input.BuyPrice = buyPrice

	if record[4] != "" {
		sellPrice, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return input, fmt.Errorf("%w: invalid sell price %q", domain.ErrValidation, record[4])
		}
		input.SellPrice = &sellPrice
	}

	quantity, err := strconv.Atoi(record[5])
	if err != nil {
		return input, fmt.Errorf("%w: invalid quantity %q", domain.ErrValidation, record[5])
	}
	input.Quantity = quantity

	if len(record) > 6 && record[6] != "" {
		tradeDate, err := time.Parse(csvDateLayout, record[6])
		if err != nil {
			return input, fmt.Errorf("%w: invalid trade date %q", domain.ErrValidation, record[6])
		}
		input.TradeDate = &tradeDate
	}
	if len(record) > 7 && record[7] != "" {
		tag := record[7]
		input.Tag = &tag
	}
	if len(record) > 8 && record[8] != "" {
		notes := record[8]
		input.Notes = &notes
	}

	return input, nil
}

func optStringField(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optIntField(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optFloatField(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
