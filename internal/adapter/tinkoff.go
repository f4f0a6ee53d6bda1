package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/paperledger/bankstat/internal/model"
)

// Tinkoff parses Tinkoff Bank exports. The dialect carries per-operation
// timestamps, a status column, an MCC column, and signed operation amounts.
type Tinkoff struct{}

var tinkoffDateFormats = []string{"02.01.2006 15:04:05", "02.01.2006"}

var tinkoffRequired = []string{"дата операции", "описание", "сумма операции"}

// Name implements Adapter.
func (Tinkoff) Name() string { return "tinkoff" }

// Detect implements Adapter. The score is the fraction of Tinkoff signature
// columns present in the header.
func (Tinkoff) Detect(content []byte) float64 {
	table, err := DecodeTable(content)
	if err != nil {
		return 0
	}
	return headerScore(table, tinkoffRequired)
}

// Parse implements Adapter.
func (a Tinkoff) Parse(ctx context.Context, content []byte) (*ParseResult, error) {
	table, err := DecodeTable(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}
	if !table.HasColumns(tinkoffRequired...) {
		return nil, fmt.Errorf("%s: required columns missing", a.Name())
	}

	dateCol := table.Column("дата операции")
	descCol := table.Column("описание")
	amountCol := table.Column("сумма операции")
	payAmountCol := table.Column("сумма платежа")
	statusCol := table.Column("статус")
	mccCol := table.Column("mcc")

	result := &ParseResult{}
	for i, rec := range table.Records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := table.FirstLine + i
		if isBlankRecord(rec) {
			continue
		}

		// Non-settled operations never reach the ledger.
		status := strings.ToLower(Field(rec, statusCol))
		switch status {
		case "failed", "отменен", "declined":
			result.Warnings = append(result.Warnings, ParseWarning{Line: line, Reason: "skipped " + status + " operation"})
			continue
		}

		amount, err := ParseAmount(Field(rec, amountCol))
		if err != nil || amount.IsZero() {
			// The operation amount can be blank for foreign-currency rows;
			// the payment amount is the settled value.
			amount, err = ParseAmount(Field(rec, payAmountCol))
		}
		if err != nil {
			result.Warnings = append(result.Warnings, ParseWarning{Line: line, Reason: "unparseable amount"})
			continue
		}

		direction := model.DirectionIncome
		if amount.IsNegative() {
			direction = model.DirectionExpense
			amount = amount.Abs()
		}

		occurredAt, err := ParseDate(Field(rec, dateCol), tinkoffDateFormats...)
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
			MerchantCode:   CleanMCC(Field(rec, mccCol)),
		})
	}

	return result, nil
}

// headerScore returns the fraction of wanted columns present in the header.
func headerScore(table *Table, wanted []string) float64 {
	if len(wanted) == 0 {
		return 0
	}
	found := 0
	for _, w := range wanted {
		if table.Column(w) >= 0 {
			found++
		}
	}
	return float64(found) / float64(len(wanted))
}
