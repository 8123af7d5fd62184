package branchlist

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/cctvdash/internal/branch"
	enc "github.com/MrJamesThe3rd/cctvdash/internal/encoding"
)

var ErrNoProfile = errors.New("no matching branch list format found: expected code and name columns")

// Parser reads branch list CSV exports. The delimiter (comma or semicolon)
// and the header layout are detected from the file.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]branch.ImportParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return parse(rows)
}

// WorkbookParser reads the first sheet of an XLSX branch list.
type WorkbookParser struct{}

func NewWorkbookParser() *WorkbookParser {
	return &WorkbookParser{}
}

func (p *WorkbookParser) Parse(r io.Reader) ([]branch.ImportParams, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if len(f.GetSheetList()) == 0 {
		return nil, fmt.Errorf("xlsx contains 0 sheets")
	}

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	return parse(rows)
}

func parse(rows [][]string) ([]branch.ImportParams, error) {
	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, ErrNoProfile
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// detectDelimiter counts separators on the first non-empty line.
func detectDelimiter(data []byte) rune {
	for line := range bytes.Lines(data) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
			return ';'
		}

		return ','
	}

	return ','
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if _, dup := cols[name]; name != "" && !dup {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts branches from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]branch.ImportParams, error) {
	codeIdx := cols[p.CodeCol]
	nameIdx := cols[p.NameCol]

	var params []branch.ImportParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1 // 1-based

		code := cellValue(row, codeIdx)
		if code == "" {
			continue
		}

		name := cellValue(row, nameIdx)
		if name == "" {
			return nil, fmt.Errorf("row %d: missing name for branch %s", rowNum, code)
		}

		params = append(params, branch.ImportParams{Code: code, Name: name})
	}

	return params, nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
