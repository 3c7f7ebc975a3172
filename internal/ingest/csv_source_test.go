package ingest

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fraud-risk-scorer/internal/domain/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRecords(t *testing.T) {
	t.Run("reads rows in input order", func(t *testing.T) {
		data := "transaction_id,card_id,amount,transaction_time,city\n" +
			"T1,A1,60000,2023-01-01 00:10:00,NYC\n" +
			"T2,A1,100,2023-01-01 00:12:00,LA\n"

		records, err := ReadRecords(strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, []transaction.RawRecord{
			{Index: 0, TransactionID: "T1", CardID: "A1", Amount: "60000", TransactionTime: "2023-01-01 00:10:00", City: "NYC"},
			{Index: 1, TransactionID: "T2", CardID: "A1", Amount: "100", TransactionTime: "2023-01-01 00:12:00", City: "LA"},
		}, records)
	})

	t.Run("header is case insensitive and reordered with extra columns", func(t *testing.T) {
		data := " City ,merchant,Amount,CARD_ID,transaction_time,Transaction_ID\n" +
			"Boston,Shop,,B7,2023-01-01 14:00:00,T9\n"

		records, err := ReadRecords(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "T9", records[0].TransactionID)
		assert.Equal(t, "B7", records[0].CardID)
		assert.Equal(t, "", records[0].Amount)
		assert.Equal(t, "Boston", records[0].City)
	})

	t.Run("short rows read as empty cells", func(t *testing.T) {
		data := "transaction_id,card_id,amount,transaction_time,city\n" +
			"T1,A1,10\n"

		records, err := ReadRecords(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "10", records[0].Amount)
		assert.Equal(t, "", records[0].TransactionTime)
		assert.Equal(t, "", records[0].City)
	})

	t.Run("byte order mark on header", func(t *testing.T) {
		data := "\ufefftransaction_id,card_id,amount,transaction_time,city\nT1,A1,1,,X\n"
		records, err := ReadRecords(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "T1", records[0].TransactionID)
	})

	t.Run("header only is an empty batch", func(t *testing.T) {
		records, err := ReadRecords(strings.NewReader("transaction_id,card_id,amount,transaction_time,city\n"))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadRecords(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptySource)
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := ReadRecords(strings.NewReader("transaction_id,amount,transaction_time\nT1,5,\n"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingColumn))
		assert.Contains(t, err.Error(), "card_id, city")
	})

	t.Run("malformed quoting", func(t *testing.T) {
		data := "transaction_id,card_id,amount,transaction_time,city\n\"T1,A1,1,,X\n"
		_, err := ReadRecords(strings.NewReader(data))
		assert.Error(t, err)
	})
}

func TestCSVSource_Load(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(dir, "transactions.csv")
		content := "transaction_id,card_id,amount,transaction_time,city\nT1,A1,5,2023-01-01 10:00:00,NYC\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		source := NewCSVSource(path, slog.Default())
		records, err := source.Load()
		require.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, path, source.Path())
	})

	t.Run("zero byte file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.csv")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		_, err := NewCSVSource(path, slog.Default()).Load()
		assert.ErrorIs(t, err, ErrEmptySource)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewCSVSource(filepath.Join(dir, "nope.csv"), slog.Default()).Load()
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
