package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fraud-risk-scorer/internal/domain/transaction"
)

var (
	// ErrEmptySource is returned when the input has no header row
	ErrEmptySource = errors.New("input source is empty")
	// ErrMissingColumn is returned when a required header column is absent
	ErrMissingColumn = errors.New("required column missing from header")
)

// RequiredColumns are the header names every input must carry
var RequiredColumns = []string{
	transaction.FieldTransactionID,
	transaction.FieldCardID,
	"amount",
	"transaction_time",
	"city",
}

// CSVSource reads raw transaction records from a CSV file with a header row
type CSVSource struct {
	path   string
	logger *slog.Logger
}

func NewCSVSource(path string, logger *slog.Logger) *CSVSource {
	return &CSVSource{
		path:   path,
		logger: logger,
	}
}

// Path returns the file the source reads
func (s *CSVSource) Path() string {
	return s.path
}

// Load reads the whole file into memory
func (s *CSVSource) Load() ([]transaction.RawRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input %s: %w", s.path, err)
	}
	defer f.Close()

	records, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read input %s: %w", s.path, err)
	}

	s.logger.Info("Loaded input records", "path", s.path, "records", len(records))
	return records, nil
}

// ReadRecords parses CSV data. Header names are matched case-insensitively
// after trimming; extra columns are ignored and short rows read as empty cells.
func ReadRecords(r io.Reader) ([]transaction.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptySource
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns, err := columnPositions(header)
	if err != nil {
		return nil, err
	}

	records := make([]transaction.RawRecord, 0)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(records)+1, err)
		}
		cell := func(name string) string {
			pos := columns[name]
			if pos >= len(row) {
				return ""
			}
			return row[pos]
		}

		records = append(records, transaction.RawRecord{
			Index:           len(records),
			TransactionID:   cell(transaction.FieldTransactionID),
			CardID:          cell(transaction.FieldCardID),
			Amount:          cell("amount"),
			TransactionTime: cell("transaction_time"),
			City:            cell("city"),
		})
	}

	return records, nil
}

func columnPositions(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := positions[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return positions, nil
}
