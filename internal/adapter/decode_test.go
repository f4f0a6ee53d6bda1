package adapter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func TestDecodeTableCSV(t *testing.T) {
	content := []byte("Date,Amount,Description\n2024-03-15,-45.50,SHELL GAS\n")

	table, err := DecodeTable(content)

	require.NoError(t, err)
	assert.Equal(t, []string{"date", "amount", "description"}, table.Header)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "SHELL GAS", Field(table.Records[0], 2))
	assert.Equal(t, 2, table.FirstLine)
}

func TestDecodeTableSemicolon(t *testing.T) {
	content := []byte("Дата;Сумма;Описание\n15.03.2024;-45,50;ПЯТЕРОЧКА\n")

	table, err := DecodeTable(content)

	require.NoError(t, err)
	assert.Equal(t, []string{"дата", "сумма", "описание"}, table.Header)
	require.Len(t, table.Records, 1)
}

func TestDecodeTableCP1251(t *testing.T) {
	// Sber exports arrive cp1251-encoded without a BOM.
	utf8Content := "Дата;Сумма;Описание\n15.03.2024;-500,00;ПЯТЕРОЧКА 7412\n"
	encoded, err := charmap.Windows1251.NewEncoder().Bytes([]byte(utf8Content))
	require.NoError(t, err)

	table, err := DecodeTable(encoded)

	require.NoError(t, err)
	assert.Equal(t, []string{"дата", "сумма", "описание"}, table.Header)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "ПЯТЕРОЧКА 7412", Field(table.Records[0], 2))
}

func TestDecodeTableBOM(t *testing.T) {
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Date,Amount\n2024-03-15,10\n")...)

	table, err := DecodeTable(content)

	require.NoError(t, err)
	assert.Equal(t, "date", table.Header[0])
}

func TestDecodeTableXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Дата операции", "Сумма операции", "Описание"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"15.03.2024", "-45,50", "SHELL 4521"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	table, err := DecodeTable(buf.Bytes())

	require.NoError(t, err)
	assert.Equal(t, []string{"дата операции", "сумма операции", "описание"}, table.Header)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "SHELL 4521", Field(table.Records[0], 2))
}

func TestDecodeTableSkipsTitleLines(t *testing.T) {
	content := []byte("\n\nDate,Amount,Description\n2024-03-15,-45.50,SHELL\n")

	table, err := DecodeTable(content)

	require.NoError(t, err)
	assert.Equal(t, "date", table.Header[0])
	require.Len(t, table.Records, 1)
}

func TestDecodeTableEmpty(t *testing.T) {
	_, err := DecodeTable(nil)
	assert.Error(t, err)
}

func TestDecodeTableSingleColumn(t *testing.T) {
	_, err := DecodeTable([]byte("just a line of prose\nanother line\n"))
	assert.Error(t, err)
}
