// Package codec serializes pricing-rule collections to and from the
// row-oriented CSV exchange format.
package codec

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/staynest/pricingservice/internal/pricing"
	"github.com/staynest/pricingservice/internal/pricing/domain"
)

// Column order is fixed. Format A ("template") carries the override price
// only; format B ("snapshot") adds the base and resolved current price.
var (
	headerTemplate = []string{"Date", "RoomTypeId", "RoomTypeName", "Price", "Reason"}
	headerSnapshot = []string{"Date", "RoomTypeId", "RoomTypeName", "BasePrice", "CurrentPrice", "Reason"}
)

// requiredColumns must all be present in an import header.
var requiredColumns = []string{"Date", "RoomTypeId", "Price"}

// DefaultReason fills in for imported rows that carry no reason text.
const DefaultReason = "Imported"

// SnapshotRow is one row of a full-state (format B) export.
type SnapshotRow struct {
	Date         time.Time
	RoomType     domain.RoomType
	CurrentPrice int64
	Reason       string
}

// ImportResult carries the rules parsed from an import plus the per-row
// errors for the rows that were skipped.
type ImportResult struct {
	Rules   []domain.PricingRule
	Skipped []*domain.DomainError
}

// Codec reads and writes pricing rules in the CSV exchange format.
type Codec struct {
	now func() time.Time
}

// New creates a codec. A nil clock uses time.Now.
func New(clock func() time.Time) *Codec {
	if clock == nil {
		clock = time.Now
	}
	return &Codec{now: clock}
}

// Export writes rules in format A. roomTypeNames maps room type IDs to
// display names; unknown IDs export with an empty name column.
func (c *Codec) Export(w io.Writer, rules []domain.PricingRule, roomTypeNames map[string]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headerTemplate); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rule := range rules {
		record := []string{
			domain.DateKey(rule.Date),
			rule.RoomTypeID,
			roomTypeNames[rule.RoomTypeID],
			strconv.FormatInt(rule.Price, 10),
			rule.Reason,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write rule %s: %w", rule.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportSnapshot writes a full-state export in format B, one row per
// (room type, date) with both the base and the resolved current price.
func (c *Codec) ExportSnapshot(w io.Writer, rows []SnapshotRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headerSnapshot); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			domain.DateKey(row.Date),
			row.RoomType.ID,
			row.RoomType.Name,
			strconv.FormatInt(row.RoomType.BasePrice, 10),
			strconv.FormatInt(row.CurrentPrice, 10),
			row.Reason,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write snapshot row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Import parses rules from r. A header missing required columns aborts the
// whole import with an ImportFormatError. After that, every data row parses
// independently: a malformed row is skipped and recorded with its line
// number, never failing the file and never coercing a bad number to zero.
func (c *Codec) Import(r io.Reader) (ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return ImportResult{}, domain.NewImportFormatError("file is empty or has no header row")
	}

	cols, err := indexColumns(header)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	createdAt := c.now()
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped = append(result.Skipped, domain.NewImportRowError(line, err.Error()))
			continue
		}

		rule, rowErr := c.parseRow(record, cols, line, createdAt)
		if rowErr != nil {
			result.Skipped = append(result.Skipped, rowErr)
			continue
		}
		result.Rules = append(result.Rules, rule)
	}
	return result, nil
}

// columnIndex maps logical columns to their position in the header.
type columnIndex struct {
	date, roomTypeID, price, reason int
}

func indexColumns(header []string) (columnIndex, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, required := range requiredColumns {
		if _, ok := byName[strings.ToLower(required)]; ok {
			continue
		}
		// A snapshot (format B) header carries CurrentPrice in place of Price.
		if required == "Price" {
			if _, ok := byName["currentprice"]; ok {
				continue
			}
		}
		missing = append(missing, required)
	}
	if len(missing) > 0 {
		return columnIndex{}, domain.NewImportFormatError(
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}

	cols := columnIndex{
		date:       byName["date"],
		roomTypeID: byName["roomtypeid"],
		price:      byName["price"],
		reason:     -1,
	}
	if i, ok := byName["reason"]; ok {
		cols.reason = i
	}
	// A snapshot export carries CurrentPrice instead of Price being the
	// override; prefer CurrentPrice when both are present.
	if i, ok := byName["currentprice"]; ok {
		cols.price = i
	}
	return cols, nil
}

func (c *Codec) parseRow(record []string, cols columnIndex, line int, createdAt time.Time) (domain.PricingRule, *domain.DomainError) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := domain.ParseDate(field(cols.date))
	if err != nil {
		return domain.PricingRule{}, domain.NewImportRowError(line, err.Error())
	}

	roomTypeID := field(cols.roomTypeID)
	if roomTypeID == "" {
		return domain.PricingRule{}, domain.NewImportRowError(line, "missing room type ID")
	}

	priceField := field(cols.price)
	price, err := strconv.ParseInt(priceField, 10, 64)
	if err != nil {
		return domain.PricingRule{}, domain.NewImportRowError(line,
			fmt.Sprintf("non-numeric price %q", priceField))
	}
	if price < 0 {
		return domain.PricingRule{}, domain.NewImportRowError(line,
			fmt.Sprintf("negative price %d", price))
	}

	reason := field(cols.reason)
	if reason == "" {
		reason = DefaultReason
	}

	return domain.PricingRule{
		ID:         pricing.DeterministicRuleID(roomTypeID, date),
		RoomTypeID: roomTypeID,
		Date:       date,
		Price:      price,
		Reason:     reason,
		Active:     true,
		CreatedAt:  createdAt,
	}, nil
}
