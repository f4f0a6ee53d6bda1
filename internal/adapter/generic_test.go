package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperledger/bankstat/internal/model"
)

func TestGenericParseKnownHeaders(t *testing.T) {
	content := []byte("Date,Description,Amount\n2024-03-15,SHELL GAS,-45.50\n2024-03-16,REFUND,20.00\n")

	result, err := Generic{}.Parse(context.Background(), content)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)

	assert.Equal(t, "SHELL GAS", result.Rows[0].RawDescription)
	assert.Equal(t, model.DirectionExpense, result.Rows[0].Direction)
	assert.Equal(t, "45.5", result.Rows[0].Amount.String())

	// Positive amounts without a type column stay expenses; exports that
	// sign only one direction are the common case.
	assert.Equal(t, model.DirectionExpense, result.Rows[1].Direction)
}

func TestGenericParseFuzzyHeaders(t *testing.T) {
	// "Transaction Dates" and "Amounts" are close enough to known synonyms.
	content := []byte("Transaction Dates,Descriptions,Amounts\n2024-03-15,COFFEE,-3.50\n")

	result, err := Generic{}.Parse(context.Background(), content)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "COFFEE", result.Rows[0].RawDescription)
}

func TestGenericParseSniffedColumns(t *testing.T) {
	// Headers give nothing away; column types must be sniffed from data.
	content := []byte("c1,c2,c3\n2024-03-15,SHELL GAS STATION,-45.50\n2024-03-16,COFFEE POINT,-3.50\n2024-03-17,METRO FARE,-1.20\n")

	result, err := Generic{}.Parse(context.Background(), content)
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)
	assert.Equal(t, "SHELL GAS STATION", result.Rows[0].RawDescription)
	assert.Equal(t, "45.5", result.Rows[0].Amount.String())
}

func TestGenericParseTypeColumn(t *testing.T) {
	content := []byte("Date,Description,Amount,Type\n2024-03-15,SALARY,1000.00,income\n2024-03-16,RENT,500.00,payment\n")

	result, err := Generic{}.Parse(context.Background(), content)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, model.DirectionIncome, result.Rows[0].Direction)
	assert.Equal(t, model.DirectionExpense, result.Rows[1].Direction)
}

func TestGenericParseUnusableFile(t *testing.T) {
	_, err := Generic{}.Parse(context.Background(), []byte("a,b\nx,y\n"))
	assert.Error(t, err)
}

func TestGenericDetectStaysLow(t *testing.T) {
	// Generic must never outscore a format-specific adapter.
	score := Generic{}.Detect([]byte("Date,Amount\n2024-01-01,5\n"))
	assert.Greater(t, score, 0.0)
	assert.Less(t, score, MinDetectScore)
}
