// Package spreadsheet reads and writes the xlsx workbooks used for table
// export and bulk import.
package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yigit/schoolportal/internal/pkg/apperrors"
	"github.com/yigit/schoolportal/internal/pkg/logger"
)

// ContentType of the workbooks written by Export
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxSheetName is the Excel limit on sheet name length
const maxSheetName = 31

// Export writes a single sheet workbook with a bold header row
func Export(w io.Writer, sheet string, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close workbook")
		}
	}()

	sheet = sheetName(sheet)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if len(headers) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
		if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return fmt.Errorf("failed to freeze header: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		return "Sheet1"
	}
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	return name
}

// Table is the content of the first sheet of a workbook. Header keys are
// normalized: lower case, spaces and dashes turned into underscores.
type Table struct {
	Header []string
	Rows   [][]string
	// Lines holds the 1-based sheet row number of each entry in Rows
	Lines []int
}

// ReadRows reads the first sheet of the workbook in r. The first non empty
// row is the header; fully blank rows are skipped.
func ReadRows(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidSheet, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close workbook")
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", apperrors.ErrInvalidSheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %s: %v", apperrors.ErrInvalidSheet, sheet, err)
	}

	t := &Table{}
	for i, row := range rows {
		if blank(row) {
			continue
		}
		if t.Header == nil {
			t.Header = make([]string, len(row))
			for j, h := range row {
				t.Header[j] = NormalizeHeader(h)
			}
			continue
		}
		t.Rows = append(t.Rows, row)
		t.Lines = append(t.Lines, i+1)
	}
	if t.Header == nil {
		return nil, fmt.Errorf("%w: sheet %s is empty", apperrors.ErrInvalidSheet, sheet)
	}
	return t, nil
}

// Records returns each row as header -> trimmed cell value
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Header))
		for i, key := range t.Header {
			if key == "" {
				continue
			}
			if i < len(row) {
				rec[key] = strings.TrimSpace(row[i])
			} else {
				rec[key] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

// Missing lists the required headers the table lacks
func (t *Table) Missing(required ...string) []string {
	have := make(map[string]bool, len(t.Header))
	for _, h := range t.Header {
		have[h] = true
	}
	var missing []string
	for _, r := range required {
		if !have[r] {
			missing = append(missing, r)
		}
	}
	return missing
}

// NormalizeHeader maps "First Name" and "first-name" to "first_name"
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.FieldsFunc(h, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
