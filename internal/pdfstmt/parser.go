// Package pdfstmt parses text-extractable PDF bank statements. Scanned,
// image-only documents are out of scope; the parser only sees text the PDF
// itself carries.
package pdfstmt

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dslipak/pdf"

	"github.com/paperledger/bankstat/internal/adapter"
	"github.com/paperledger/bankstat/internal/model"
)

// Parser implements the adapter contract for PDF statements.
type Parser struct{}

// NewParser creates a new PDF statement parser.
func NewParser() *Parser {
	return &Parser{}
}

var pdfMagic = []byte("%PDF")

// statementLine matches the common "date description amount" statement line:
// 01.01.2024 PYATYOROCHKA MOSCOW -500,00
var statementLine = regexp.MustCompile(`(\d{2}\.\d{2}\.\d{4})\s+(.+?)\s+([+-]?\d[\d\s\x{00a0}]*[,.]\d{2})\b`)

// Looser patterns for statements that do not follow the standard layout.
var (
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`),
		regexp.MustCompile(`\d{2}/\d{2}/\d{4}`),
		regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`\d{2}-\d{2}-\d{4}`),
	}
	amountPattern = regexp.MustCompile(`[+-]?\d[\d\s\x{00a0}]*[,.]\d{2}\b`)
)

// Name implements adapter.Adapter.
func (*Parser) Name() string { return "pdf" }

// Detect implements adapter.Adapter.
func (*Parser) Detect(content []byte) float64 {
	if bytes.HasPrefix(content, pdfMagic) {
		return 0.9
	}
	return 0
}

// Parse implements adapter.Adapter. Lines that carry both a date and an
// amount are treated as transactions; everything else on a statement page
// (headers, totals, disclaimers) is ignored.
func (p *Parser) Parse(ctx context.Context, content []byte) (*adapter.ParseResult, error) {
	text, err := extractText(content)
	if err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}

	result := &adapter.ParseResult{}
	for i, line := range strings.Split(text, "\n") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lineNo := i + 1
		row, ok, reason := parseLine(line, lineNo)
		if !ok {
			if reason != "" {
				result.Warnings = append(result.Warnings, adapter.ParseWarning{Line: lineNo, Reason: reason})
			}
			continue
		}
		result.Rows = append(result.Rows, row)
	}

	slog.Debug("parsed PDF statement", "rows", len(result.Rows), "warnings", len(result.Warnings))
	return result, nil
}

// parseLine returns (row, true, "") for a transaction line, (_, false, "")
// for prose, and (_, false, reason) for a line that looked transactional but
// could not be normalized.
func parseLine(line string, lineNo int) (model.RawRow, bool, string) {
	if m := statementLine.FindStringSubmatch(line); m != nil {
		return buildRow(m[1], m[2], m[3], lineNo)
	}

	// No standard layout; require an independent date and amount on the line.
	var dateStr string
	for _, re := range datePatterns {
		if m := re.FindString(line); m != "" {
			dateStr = m
			break
		}
	}
	if dateStr == "" {
		return model.RawRow{}, false, ""
	}

	amountStr := amountPattern.FindString(strings.Replace(line, dateStr, "", 1))
	if amountStr == "" {
		return model.RawRow{}, false, ""
	}

	desc := strings.Replace(line, dateStr, "", 1)
	desc = strings.Replace(desc, amountStr, "", 1)
	desc = strings.Trim(strings.Join(strings.Fields(desc), " "), " |:-")
	if len(desc) < 3 {
		return model.RawRow{}, false, ""
	}

	return buildRow(dateStr, desc, amountStr, lineNo)
}

func buildRow(dateStr, desc, amountStr string, lineNo int) (model.RawRow, bool, string) {
	occurredAt, err := adapter.ParseDate(dateStr)
	if err != nil {
		return model.RawRow{}, false, "unparseable date"
	}

	amount, err := adapter.ParseAmount(amountStr)
	if err != nil || amount.IsZero() {
		return model.RawRow{}, false, "unparseable amount"
	}

	direction := model.DirectionIncome
	if amount.IsNegative() {
		direction = model.DirectionExpense
		amount = amount.Abs()
	}

	return model.RawRow{
		Line:           lineNo,
		OccurredAt:     occurredAt,
		Amount:         amount,
		Direction:      direction,
		RawDescription: strings.TrimSpace(desc),
	}, true, ""
}

// extractText pulls the plain text out of every page.
func extractText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("opening document: %w", err)
	}

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("reading text: %w", err)
	}
	return buf.String(), nil
}
