package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fraud-risk-scorer/internal/domain/transaction"
)

const (
	FlaggedFileName = "fraud_transactions.csv"
	SummaryFileName = "fraud_summary.csv"
)

var (
	flaggedHeader = []string{"transaction_id", "card_id", "amount", "city", "fraud_score", "fraud_flag"}
	summaryHeader = []string{"fraud_flag", "total_transactions"}
)

// CSVExporter writes the flagged transactions and the summary as CSV files
type CSVExporter struct {
	dir    string
	logger *slog.Logger
}

func NewCSVExporter(dir string, logger *slog.Logger) *CSVExporter {
	return &CSVExporter{
		dir:    dir,
		logger: logger,
	}
}

// Export writes both files into the exporter directory, creating it if needed,
// and returns the paths written
func (e *CSVExporter) Export(scored []transaction.ScoredTransaction, summary []transaction.SummaryRow) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory %s: %w", e.dir, err)
	}

	flaggedPath := filepath.Join(e.dir, FlaggedFileName)
	if err := writeFile(flaggedPath, func(w io.Writer) error { return WriteFlagged(w, scored) }); err != nil {
		return nil, err
	}

	summaryPath := filepath.Join(e.dir, SummaryFileName)
	if err := writeFile(summaryPath, func(w io.Writer) error { return WriteSummary(w, summary) }); err != nil {
		return nil, err
	}

	e.logger.Info("Exported fraud reports", "flagged_path", flaggedPath, "summary_path", summaryPath)
	return []string{flaggedPath, summaryPath}, nil
}

// WriteFlagged writes the flagged transactions in the given order
func WriteFlagged(w io.Writer, scored []transaction.ScoredTransaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(flaggedHeader); err != nil {
		return err
	}
	for _, s := range scored {
		if !s.FraudFlag {
			continue
		}
		if err := cw.Write(flaggedRow(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary writes one row per fraud flag value
func WriteSummary(w io.Writer, summary []transaction.SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return err
	}
	for _, row := range summary {
		if err := cw.Write([]string{strconv.Itoa(row.FraudFlag), strconv.FormatInt(row.TotalTransactions, 10)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func flaggedRow(s transaction.ScoredTransaction) []string {
	amount := ""
	if s.HasAmount() {
		amount = s.Amount.Decimal.String()
	}
	city := ""
	if s.HasCity() {
		city = *s.City
	}
	return []string{
		s.TransactionID,
		s.CardID,
		amount,
		city,
		strconv.Itoa(s.FraudScore),
		strconv.Itoa(s.FlagValue()),
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
