package statement

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV_StandardColumns(t *testing.T) {
	t.Parallel()
	data := "Date,Description,Amount\n" +
		"01/15/2026,NETFLIX.COM,-15.99\n" +
		"01/16/2026,PAYROLL DEPOSIT,2500.00\n"

	txs, err := Parse("statement.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	require.Equal(t, "NETFLIX.COM", txs[0].Description)
	require.Equal(t, 15.99, txs[0].Amount)
	require.Equal(t, Debit, txs[0].Type)
	require.Equal(t, time.January, txs[0].Date.Month())
	require.Equal(t, 15, txs[0].Date.Day())
	require.Equal(t, 2026, txs[0].Date.Year())

	require.Equal(t, Credit, txs[1].Type)
	require.Equal(t, 2500.00, txs[1].Amount)
	require.NotEqual(t, txs[0].ID, txs[1].ID)
}

func TestParseCSV_ParenthesizedNegative(t *testing.T) {
	t.Parallel()
	data := "Date,Description,Amount\n" +
		"2026-01-15,COFFEE SHOP,($4.50)\n"

	txs, err := Parse("s.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, Debit, txs[0].Type)
	require.Equal(t, 4.50, txs[0].Amount)
}

func TestParseCSV_DebitCreditColumns(t *testing.T) {
	t.Parallel()
	data := "Date,Description,Debit,Credit\n" +
		"2026-01-10,GROCERY STORE,52.10,\n" +
		"2026-01-11,REFUND,,20.00\n" +
		"2026-01-12,NO AMOUNT,,\n"

	txs, err := Parse("s.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, txs, 2) // the empty-amount row is rejected

	require.Equal(t, Debit, txs[0].Type)
	require.Equal(t, 52.10, txs[0].Amount)
	require.Equal(t, Credit, txs[1].Type)
	require.Equal(t, 20.00, txs[1].Amount)
}

func TestParseCSV_AggregateRowsRejected(t *testing.T) {
	t.Parallel()
	data := "Date,Description,Amount\n" +
		"2026-01-15,STORE PURCHASE,-10.00\n" +
		"2026-01-31,Total for period,-500.00\n" +
		"2026-01-31,Balance forward,100.00\n" +
		"2026-01-16,Totally Normal Shop,-5.00\n"

	txs, err := Parse("s.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, "STORE PURCHASE", txs[0].Description)
	// "Totally" only prefix-matches "total" as a whole word
	require.Equal(t, "Totally Normal Shop", txs[1].Description)
}

func TestParseCSV_SemicolonDelimiter(t *testing.T) {
	t.Parallel()
	data := "Date;Description;Amount\n" +
		"2026-01-15;STORE A;-10.00\n" +
		"2026-01-16;STORE B;-20.00\n"

	txs, err := Parse("s.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, "STORE A", txs[0].Description)
}

func TestParseCSV_TabDelimiter(t *testing.T) {
	t.Parallel()
	data := "Date\tDescription\tAmount\n" +
		"2026-01-15\tSTORE A\t-10.00\n"

	txs, err := Parse("s.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, txs, 1)
}

func TestParseCSV_YearFirstDates(t *testing.T) {
	t.Parallel()
	data := "Date,Description,Amount\n" +
		"2026/03/05,STORE A,-1.00\n"

	txs, err := Parse("s.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, time.March, txs[0].Date.Month())
	require.Equal(t, 5, txs[0].Date.Day())
}

func TestParseCSV_BadDateDoesNotRejectRow(t *testing.T) {
	t.Parallel()
	data := "Date,Description,Amount\n" +
		"not a date,STORE A,-9.99\n"

	txs, err := Parse("s.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	// falls back to now rather than dropping the transaction
	require.WithinDuration(t, time.Now(), txs[0].Date, time.Minute)
}

func TestParseCSV_NonstandardHeaderNames(t *testing.T) {
	t.Parallel()
	data := "Posted Date,Transaction Details,Withdrawal,Deposit\n" +
		"2026-01-15,ELECTRIC BILL,120.00,\n" +
		"2026-01-16,SALARY,,3000.00\n"

	txs, err := Parse("s.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, Debit, txs[0].Type)
	require.Equal(t, Credit, txs[1].Type)
}

func TestParse_UnsupportedExtension(t *testing.T) {
	t.Parallel()
	_, err := Parse("statement.pdf", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParse_EmptyStatement(t *testing.T) {
	t.Parallel()
	_, err := Parse("s.csv", strings.NewReader("Date,Description,Amount\n"))
	require.ErrorIs(t, err, ErrEmptyStatement)
}

func TestParse_NoValidRows(t *testing.T) {
	t.Parallel()
	data := "Date,Description,Amount\n" +
		"2026-01-31,Total,-500.00\n" +
		"2026-01-31,,10.00\n"
	_, err := Parse("s.csv", strings.NewReader(data))
	require.ErrorIs(t, err, ErrNoValidRows)
}

func TestParseWorkbook(t *testing.T) {
	t.Parallel()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Bank of Testing"}, // preamble before the header
		{"Date", "Description", "Amount"},
		{"2026-01-15", "NETFLIX.COM", -15.99},
		{"2026-01-16", "PAYROLL", 2500.00},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	txs, err := Parse("statement.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, "NETFLIX.COM", txs[0].Description)
	require.Equal(t, Debit, txs[0].Type)
	require.Equal(t, Credit, txs[1].Type)
}

func TestRoundCents(t *testing.T) {
	t.Parallel()
	require.Equal(t, 10.56, roundCents(10.556))
	require.Equal(t, -2.34, roundCents(-2.344))
	require.Equal(t, 0.1, roundCents(0.1))
}
