// Package export writes spreadsheet summaries of a report document
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-rdo-report/internal/report"
)

// SheetName is the worksheet holding the roster summary
const SheetName = "Efetivo"

var (
	ErrEmptyDocument = errors.New("document has no days to export")
	ErrGenerate      = errors.New("failed to generate roster workbook")
)

var categoryTitles = map[report.Category]string{
	report.CategoryDirect:    "Mão de Obra Direta",
	report.CategoryIndirect:  "Mão de Obra Indireta",
	report.CategoryEquipment: "Equipamentos",
}

// Exporter builds the roster workbook: one row per roster line, one column per day
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates an exporter
func NewExporter(logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{logger: logger}
}

// ExportRoster returns the workbook and a suggested filename
func (e *Exporter) ExportRoster(ctx context.Context, doc report.Document) (*bytes.Buffer, string, error) {
	if len(doc.Days) == 0 {
		return nil, "", ErrEmptyDocument
	}
	doc = report.RecomputeDerivedFields(doc)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrGenerate, err)
	}

	lastCol := 3 + len(doc.Days)
	f.SetColWidth(SheetName, "A", "A", 22)
	f.SetColWidth(SheetName, "B", "B", 36)
	f.SetColWidth(SheetName, colName(3), colName(lastCol), 8)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	totalStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})

	f.SetCellValue(SheetName, cell(1, 1), "Categoria")
	f.SetCellValue(SheetName, cell(2, 1), "Função")
	for i, day := range doc.Days {
		f.SetCellValue(SheetName, cell(3+i, 1), dayHeader(day))
	}
	f.SetCellValue(SheetName, cell(lastCol, 1), "Total")
	f.SetCellStyle(SheetName, cell(1, 1), cell(lastCol, 1), headerStyle)

	row := 2
	for _, category := range report.Categories {
		if err := ctx.Err(); err != nil {
			return nil, "", fmt.Errorf("export cancelled: %w", err)
		}
		lines := doc.Days[0].RosterByCategory(category)
		for li, line := range lines {
			f.SetCellValue(SheetName, cell(1, row), categoryTitles[category])
			f.SetCellValue(SheetName, cell(2, row), line.Label)
			sum := 0
			for di, day := range doc.Days {
				items := day.RosterByCategory(category)
				if li >= len(items) || items[li].IsEmpty() {
					continue
				}
				f.SetCellValue(SheetName, cell(3+di, row), items[li].Value())
				sum += items[li].Value()
			}
			f.SetCellValue(SheetName, cell(lastCol, row), sum)
			row++
		}

		f.SetCellValue(SheetName, cell(1, row), categoryTitles[category])
		f.SetCellValue(SheetName, cell(2, row), "Total")
		sum := 0
		for di, day := range doc.Days {
			total := day.Totals.Of(category)
			f.SetCellValue(SheetName, cell(3+di, row), total)
			sum += total
		}
		f.SetCellValue(SheetName, cell(lastCol, row), sum)
		f.SetCellStyle(SheetName, cell(1, row), cell(lastCol, row), totalStyle)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		e.logger.Error("failed to write roster workbook", zap.Error(err))
		return nil, "", fmt.Errorf("%w: %v", ErrGenerate, err)
	}

	e.logger.Debug("roster workbook exported",
		zap.Int("days", len(doc.Days)),
		zap.Int("rows", row-1))
	return buf, Filename(doc), nil
}

// Filename names the workbook after the first day's date
func Filename(doc report.Document) string {
	if len(doc.Days) == 0 || doc.Days[0].Date == "" {
		return "Efetivo.xlsx"
	}
	return fmt.Sprintf("Efetivo_%s.xlsx", doc.Days[0].Date)
}

// dayHeader is DD/MM of the day, or the RDO number when the date is unset
func dayHeader(day report.DayRecord) string {
	dmy := report.ISOToDMY(day.Date)
	if len(dmy) >= 5 {
		return dmy[:5]
	}
	return day.Number
}

func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
