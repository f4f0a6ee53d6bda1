package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/paperledger/bankstat/internal/model"
)

// Sber parses SberBank exports: cp1251-encoded CSVs with a plain date
// column and +/- signed amounts, sometimes a separate operation-type column.
type Sber struct{}

var sberRequired = []string{"дата", "сумма", "описание"}

// Name implements Adapter.
func (Sber) Name() string { return "sber" }

// Detect implements Adapter. The Tinkoff dialect also carries a date column,
// so the presence of "дата операции" disqualifies Sber.
func (Sber) Detect(content []byte) float64 {
	table, err := DecodeTable(content)
	if err != nil {
		return 0
	}
	if table.Column("дата операции") >= 0 {
		return 0
	}
	return headerScore(table, sberRequired)
}

// Parse implements Adapter.
func (a Sber) Parse(ctx context.Context, content []byte) (*ParseResult, error) {
	table, err := DecodeTable(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}
	if !table.HasColumns(sberRequired...) {
		return nil, fmt.Errorf("%s: required columns missing", a.Name())
	}

	dateCol := table.Column("дата")
	amountCol := table.Column("сумма")
	descCol := table.Column("описание")
	typeCol := table.Column("тип")

	result := &ParseResult{}
	for i, rec := range table.Records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := table.FirstLine + i
		if isBlankRecord(rec) {
			continue
		}

		amountStr := Field(rec, amountCol)
		amount, err := ParseAmount(amountStr)
		if err != nil {
			result.Warnings = append(result.Warnings, ParseWarning{Line: line, Reason: "unparseable amount"})
			continue
		}

		var direction model.Direction
		switch {
		case strings.HasPrefix(amountStr, "-"):
			direction = model.DirectionExpense
		case strings.HasPrefix(amountStr, "+"):
			direction = model.DirectionIncome
		default:
			direction = sberDirection(Field(rec, typeCol))
		}
		amount = amount.Abs()

		occurredAt, err := ParseDate(Field(rec, dateCol))
		if err != nil {
			result.Warnings = append(result.Warnings, ParseWarning{Line: line, Reason: "unparseable date"})
			continue
		}

		result.Rows = append(result.Rows, model.RawRow{
			Line:           line,
			OccurredAt:     occurredAt,
			Amount:         amount,
			Direction:      direction,
			RawDescription: Field(rec, descCol),
		})
	}

	return result, nil
}

// sberDirection maps the optional operation-type column; unsigned rows with
// no recognizable type default to expense.
func sberDirection(opType string) model.Direction {
	opType = strings.ToLower(opType)
	for _, kw := range []string{"доход", "приход", "зачисление", "income"} {
		if strings.Contains(opType, kw) {
			return model.DirectionIncome
		}
	}
	return model.DirectionExpense
}
