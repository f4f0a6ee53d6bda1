package adapter

import (
	"context"
	"fmt"

	"github.com/paperledger/bankstat/internal/model"
)

// Alfa parses Alfa-Bank exports, which split money movement into separate
// income and expense columns instead of signing a single amount.
type Alfa struct{}

var alfaRequired = []string{"приход", "расход"}

// Name implements Adapter.
func (Alfa) Name() string { return "alfa" }

// Detect implements Adapter.
func (Alfa) Detect(content []byte) float64 {
	table, err := DecodeTable(content)
	if err != nil {
		return 0
	}
	return headerScore(table, alfaRequired)
}

// Parse implements Adapter.
func (a Alfa) Parse(ctx context.Context, content []byte) (*ParseResult, error) {
	table, err := DecodeTable(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}
	if !table.HasColumns(alfaRequired...) {
		return nil, fmt.Errorf("%s: required columns missing", a.Name())
	}

	incomeCol := table.Column("приход")
	expenseCol := table.Column("расход")
	dateCol := table.Column("дата")
	descCol := table.Column("назначение платежа")
	if descCol < 0 {
		descCol = table.Column("описание")
	}

	result := &ParseResult{}
	for i, rec := range table.Records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := table.FirstLine + i
		if isBlankRecord(rec) {
			continue
		}

		income, incErr := ParseAmount(Field(rec, incomeCol))
		expense, expErr := ParseAmount(Field(rec, expenseCol))

		var direction model.Direction
		var amount = income
		switch {
		case incErr == nil && income.IsPositive():
			direction = model.DirectionIncome
		case expErr == nil && expense.IsPositive():
			direction = model.DirectionExpense
			amount = expense
		default:
			result.Warnings = append(result.Warnings, ParseWarning{Line: line, Reason: "no income or expense amount"})
			continue
		}

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
