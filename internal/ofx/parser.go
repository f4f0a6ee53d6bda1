// Package ofx adapts OFX/QFX statement downloads to the bank adapter
// contract.
package ofx

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/paperledger/bankstat/internal/adapter"
	"github.com/paperledger/bankstat/internal/model"
)

// Parser implements the adapter contract for OFX/QFX files.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// Name implements adapter.Adapter.
func (*Parser) Name() string { return "ofx" }

// Detect implements adapter.Adapter. OFX files self-identify with either an
// SGML OFXHEADER preamble or an XML <OFX> root.
func (*Parser) Detect(content []byte) float64 {
	head := content
	if len(head) > 1024 {
		head = head[:1024]
	}
	if bytes.Contains(head, []byte("OFXHEADER")) || bytes.Contains(head, []byte("<OFX>")) {
		return 0.95
	}
	return 0
}

// preprocess fixes common formatting issues in OFX files before they reach
// the real parser.
func (*Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// Mixed-case SEVERITY values (must be INFO, WARN, or ERROR).
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML-style files sometimes drop the closing bracket of a bare tag.
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// Parse implements adapter.Adapter, flattening every bank and credit card
// statement in the file into RawRows.
func (p *Parser) Parse(ctx context.Context, content []byte) (*adapter.ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("ofx: parsing response: %w", err)
	}

	result := &adapter.ParseResult{}
	line := 0

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		for _, ofxTx := range stmt.BankTranList.Transactions {
			line++
			result.Rows = append(result.Rows, p.convert(ofxTx, line))
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		for _, ofxTx := range stmt.BankTranList.Transactions {
			line++
			result.Rows = append(result.Rows, p.convert(ofxTx, line))
		}
	}

	slog.Debug("parsed OFX statement", "rows", len(result.Rows))
	return result, nil
}

// convert maps one OFX transaction to a RawRow. OFX uses negative amounts
// for debits.
func (p *Parser) convert(ofxTx ofxgo.Transaction, line int) model.RawRow {
	amountFloat, _ := ofxTx.TrnAmt.Float64()
	amount := decimal.NewFromFloat(amountFloat).Round(2)

	direction := model.DirectionIncome
	if amount.IsNegative() {
		direction = model.DirectionExpense
		amount = amount.Abs()
	}

	return model.RawRow{
		Line:           line,
		OccurredAt:     ofxTx.DtPosted.Time,
		Amount:         amount,
		Direction:      direction,
		RawDescription: p.description(ofxTx),
	}
}

// description picks the most informative text field for a transaction.
func (p *Parser) description(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && isGenericDescription(name) {
		name = strings.TrimSpace(string(tx.Memo))
	}
	return name
}

// isGenericDescription checks if a transaction name is too generic to be
// useful for categorization.
func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
