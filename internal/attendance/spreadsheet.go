package attendance

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	rdoerrors "github.com/a3tai/mcp-rdo-report/internal/rdo/errors"
	"github.com/a3tai/mcp-rdo-report/internal/report"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const maxSpreadsheetRows = 100000

// ParseFile reads an attendance file, choosing the reader from the extension:
// .xlsx/.xlsm through excelize, .xls through the legacy BIFF reader and anything
// else as delimited text.
func ParseFile(path string) (*Import, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open attendance file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ParseSpreadsheet(f, path)
	default:
		return ParseCSV(f)
	}
}

// ParseSpreadsheet reads the first worksheet of an .xls or .xlsx workbook. The
// first row is the header; date cells stored as Excel serials are converted to
// DD/MM/YYYY.
func ParseSpreadsheet(r io.Reader, filename string) (*Import, error) {
	rows, source, err := readRowsFromSpreadsheet(r, filename)
	if err != nil {
		return nil, err
	}
	return importRows(rows, source)
}

func readRowsFromSpreadsheet(reader io.Reader, filename string) ([][]string, string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, "", rdoerrors.Wrap(rdoerrors.KindMalformedInput, "failed to open xls workbook", err)
		}
		if workbook.NumSheets() == 0 {
			return nil, "", rdoerrors.New(rdoerrors.KindMissingHeader, "no worksheet found")
		}
		return workbook.ReadAllCells(maxSpreadsheetRows), "xls", nil
	default:
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, "", rdoerrors.Wrap(rdoerrors.KindMalformedInput, "failed to open xlsx workbook", err)
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, "", rdoerrors.New(rdoerrors.KindMissingHeader, "no worksheet found")
		}
		rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, "", rdoerrors.Wrap(rdoerrors.KindMalformedInput, "failed to read worksheet", err)
		}
		return rows, "xlsx", nil
	}
}

func importRows(rows [][]string, source string) (*Import, error) {
	if len(rows) == 0 {
		return nil, rdoerrors.New(rdoerrors.KindMissingHeader, "worksheet is empty")
	}

	dateCol, labelCol, ok := headerColumns(rows[0])
	if !ok {
		return nil, rdoerrors.New(rdoerrors.KindMissingHeader,
			"headers 'Data' and 'Função'/'Cargo' are required").WithContext(strings.Join(rows[0], " | "))
	}
	required := max(dateCol, labelCol) + 1

	imp := &Import{Source: source}
	for i, row := range rows[1:] {
		line := i + 2
		if blankRow(row) {
			continue
		}
		if len(row) < required {
			imp.skip(line, "expected at least %d columns, got %d", required, len(row))
			continue
		}

		rec := Record{
			RawDate:  spreadsheetDate(cellValue(row, dateCol)),
			RawLabel: cellValue(row, labelCol),
			Line:     line,
		}
		if rec.RawDate == "" || rec.RawLabel == "" {
			imp.skip(line, "row is missing the date or the job title")
			continue
		}
		imp.Records = append(imp.Records, rec)
	}
	return imp, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// spreadsheetDate turns the cell encodings a workbook may use for a date into
// DD/MM/YYYY. Anything unrecognised is returned unchanged so the reconciler can
// report it.
func spreadsheetDate(value string) string {
	if value == "" {
		return ""
	}
	if _, ok := report.ParseDMY(value); ok {
		return value
	}

	// Excel serial, restricted to a plausible range so that plain numbers stay invalid
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial >= 20000 && serial <= 80000 {
			if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return report.FormatDMY(parsed)
			}
		}
		return value
	}

	if t, ok := report.ParseISO(value); ok {
		return report.FormatDMY(t)
	}
	return value
}
