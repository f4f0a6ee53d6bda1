package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/paperledger/bankstat/internal/match"
	"github.com/paperledger/bankstat/internal/model"
)

// Generic is the fallback adapter for unrecognized delimited exports. It
// maps columns by header synonyms first and, failing that, sniffs column
// types by sampling data rows.
type Generic struct{}

// sniffSampleSize bounds how many data rows column sniffing inspects.
const sniffSampleSize = 10

// fuzzyHeaderThreshold is the similarity above which a header cell counts as
// a synonym match.
const fuzzyHeaderThreshold = 0.8

var (
	genericDateHeaders   = []string{"date", "дата", "transaction date", "дата операции", "дата транзакции"}
	genericAmountHeaders = []string{"amount", "сумма", "sum", "сумма операции", "сумма платежа"}
	genericDescHeaders   = []string{"description", "описание", "назначение", "details", "назначение платежа"}
)

// Name implements Adapter.
func (Generic) Name() string { return "generic" }

// Detect implements Adapter. The generic adapter never competes with
// format-specific adapters; the registry reaches it through the fallback
// path or an explicit hint.
func (Generic) Detect(content []byte) float64 {
	if _, err := DecodeTable(content); err != nil {
		return 0
	}
	return 0.1
}

// Parse implements Adapter.
func (a Generic) Parse(ctx context.Context, content []byte) (*ParseResult, error) {
	table, err := DecodeTable(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}

	dateCol := findColumn(table.Header, genericDateHeaders)
	amountCol := findColumn(table.Header, genericAmountHeaders)
	descCol := findColumn(table.Header, genericDescHeaders)

	if amountCol < 0 || descCol < 0 {
		sniffed := sniffColumns(table)
		if dateCol < 0 {
			dateCol = sniffed.date
		}
		if amountCol < 0 {
			amountCol = sniffed.amount
		}
		if descCol < 0 {
			descCol = sniffed.desc
		}
	}

	if amountCol < 0 || descCol < 0 {
		return nil, fmt.Errorf("%s: could not identify amount and description columns", a.Name())
	}

	typeCol := findColumn(table.Header, []string{"тип", "type"})

	result := &ParseResult{}
	for i, rec := range table.Records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := table.FirstLine + i
		if isBlankRecord(rec) {
			continue
		}

		amount, err := ParseAmount(Field(rec, amountCol))
		if err != nil {
			result.Warnings = append(result.Warnings, ParseWarning{Line: line, Reason: "unparseable amount"})
			continue
		}

		direction := model.DirectionExpense
		if amount.IsNegative() {
			amount = amount.Abs()
		} else if typeCol >= 0 && isIncomeType(Field(rec, typeCol)) {
			direction = model.DirectionIncome
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

// findColumn locates a header by exact synonym first, then fuzzily.
func findColumn(header []string, synonyms []string) int {
	for _, syn := range synonyms {
		for i, h := range header {
			if h == syn {
				return i
			}
		}
	}
	for _, syn := range synonyms {
		for i, h := range header {
			// Whole-string ratio only: a one-letter header must not match a
			// synonym that merely contains that letter.
			if match.FullRatio(syn, h) > fuzzyHeaderThreshold {
				return i
			}
		}
	}
	return -1
}

func isIncomeType(v string) bool {
	v = strings.ToLower(v)
	for _, kw := range []string{"доход", "приход", "income"} {
		if strings.Contains(v, kw) {
			return true
		}
	}
	return false
}

type sniffedColumns struct {
	date   int
	amount int
	desc   int
}

// sniffColumns classifies each column by sampling the first rows and scoring
// how consistently its cells parse as dates, decimal amounts, or free text.
// The most consistent column of each kind wins.
func sniffColumns(table *Table) sniffedColumns {
	cols := len(table.Header)
	sample := table.Records
	if len(sample) > sniffSampleSize {
		sample = sample[:sniffSampleSize]
	}

	best := sniffedColumns{date: -1, amount: -1, desc: -1}
	var bestDate, bestAmount, bestDesc float64

	for c := 0; c < cols; c++ {
		var dates, amounts, texts, filled int
		for _, rec := range sample {
			v := Field(rec, c)
			if v == "" {
				continue
			}
			filled++
			if _, err := ParseDate(v); err == nil {
				dates++
				continue
			}
			if _, err := ParseAmount(v); err == nil {
				amounts++
				continue
			}
			texts++
		}
		if filled == 0 {
			continue
		}

		dateScore := float64(dates) / float64(filled)
		amountScore := float64(amounts) / float64(filled)
		textScore := float64(texts) / float64(filled)

		if dateScore > bestDate {
			bestDate, best.date = dateScore, c
		}
		if amountScore > bestAmount {
			bestAmount, best.amount = amountScore, c
		}
		if textScore > bestDesc {
			bestDesc, best.desc = textScore, c
		}
	}

	// A column has to be mostly one type to be trusted.
	if bestDate < 0.5 {
		best.date = -1
	}
	if bestAmount < 0.5 {
		best.amount = -1
	}
	if bestDesc < 0.5 {
		best.desc = -1
	}
	return best
}
