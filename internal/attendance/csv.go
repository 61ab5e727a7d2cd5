package attendance

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	rdoerrors "github.com/a3tai/mcp-rdo-report/internal/rdo/errors"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads a two-column attendance table. The delimiter is ',' or ';',
// whichever makes the header row expose both the "Data" and "Função"/"Cargo"
// columns. Files that are not valid UTF-8 are decoded as Windows-1252. A missing
// header fails the whole import; bad rows are skipped and reported.
func ParseCSV(r io.Reader) (*Import, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read attendance file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, rdoerrors.Wrap(rdoerrors.KindMalformedInput, "failed to decode attendance file", err)
		}
		data = decoded
	}

	headerLine, _, _ := strings.Cut(string(data), "\n")
	headerLine = strings.TrimSpace(strings.TrimSuffix(headerLine, "\r"))
	if headerLine == "" {
		return nil, rdoerrors.New(rdoerrors.KindMissingHeader, "attendance file is empty or has no header row")
	}

	delimiter, ok := detectDelimiter(headerLine)
	if !ok {
		return nil, rdoerrors.New(rdoerrors.KindMissingHeader,
			"headers 'Data' and 'Função'/'Cargo' are required (delimiter ',' or ';')").WithContext(headerLine)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, rdoerrors.Wrap(rdoerrors.KindMissingHeader, "failed to read header row", err)
	}
	dateCol, labelCol, ok := headerColumns(header)
	if !ok {
		return nil, rdoerrors.New(rdoerrors.KindMissingHeader,
			"headers 'Data' and 'Função'/'Cargo' are required (delimiter ',' or ';')").WithContext(headerLine)
	}
	required := max(dateCol, labelCol) + 1

	imp := &Import{Source: "csv", Delimiter: string(delimiter)}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to read attendance rows: %w", err)
			}
			imp.skip(parseErr.Line, "unreadable row: %v", parseErr.Err)
			continue
		}
		line, _ := reader.FieldPos(0)
		if blankRow(row) {
			continue
		}
		if len(row) < required {
			imp.skip(line, "expected at least %d columns, got %d", required, len(row))
			continue
		}

		rec := Record{
			RawDate:  strings.TrimSpace(row[dateCol]),
			RawLabel: strings.TrimSpace(row[labelCol]),
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

func detectDelimiter(headerLine string) (rune, bool) {
	for _, d := range []rune{',', ';'} {
		if _, _, ok := headerColumns(strings.Split(headerLine, string(d))); ok {
			return d, true
		}
	}
	return 0, false
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
