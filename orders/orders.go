// Package orders derives order-line amounts and order totals, and proposes
// the next order number.
package orders

import (
	"math"
	"math/big"
	"regexp"

	"erp-project/backend/models"

	"github.com/shopspring/decimal"
)

var (
	hundred  = decimal.NewFromInt(100)
	numeric  = regexp.MustCompile(`^\d+$`)
	digitRun = regexp.MustCompile(`\d+`)
)

// Totals of an order. Both follow the same rounding as line amounts.
type Totals struct {
	Untaxed models.Number `json:"untaxedAmount"`
	Total   models.Number `json:"total"`
}

// sanitize coerces negative and non-finite inputs to zero.
func sanitize(v models.Number) float64 {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func untaxed(quantity, unitPrice models.Number) decimal.Decimal {
	return decimal.NewFromFloat(sanitize(quantity)).Mul(decimal.NewFromFloat(sanitize(unitPrice)))
}

func taxed(quantity, unitPrice, taxes models.Number) decimal.Decimal {
	rate := decimal.NewFromInt(1).Add(decimal.NewFromFloat(sanitize(taxes)).Div(hundred))
	return untaxed(quantity, unitPrice).Mul(rate)
}

func round2(d decimal.Decimal) models.Number {
	f, _ := d.Round(2).Float64()
	return models.Number(f)
}

// LineAmount is round2(quantity * unitPrice * (1 + taxes/100)).
func LineAmount(quantity, unitPrice, taxes models.Number) models.Number {
	return round2(taxed(quantity, unitPrice, taxes))
}

// Compute returns the lines with sanitized inputs and recomputed amounts,
// and the order totals. The input slice is not modified.
func Compute(lines []models.OrderLine) ([]models.OrderLine, Totals) {
	out := make([]models.OrderLine, len(lines))
	sumUntaxed := decimal.Zero
	sumTotal := decimal.Zero

	for i, line := range lines {
		line.Quantity = models.Number(sanitize(line.Quantity))
		line.UnitPrice = models.Number(sanitize(line.UnitPrice))
		line.Taxes = models.Number(sanitize(line.Taxes))
		line.Amount = LineAmount(line.Quantity, line.UnitPrice, line.Taxes)
		out[i] = line

		sumUntaxed = sumUntaxed.Add(untaxed(line.Quantity, line.UnitPrice))
		sumTotal = sumTotal.Add(taxed(line.Quantity, line.UnitPrice, line.Taxes))
	}

	return out, Totals{Untaxed: round2(sumUntaxed), Total: round2(sumTotal)}
}

// Apply recomputes an order's lines and totals in place.
func Apply(order models.Order) {
	lines, totals := Compute(order.GetLines())
	order.SetComputed(lines, totals.Untaxed, totals.Total)
}

// NextNumber proposes max+1 over the integer found in each existing order
// number: the whole string when it is all digits, otherwise its first digit
// run. Numbers without digits are ignored. The result is advisory.
func NextNumber(existing []string) string {
	highest := new(big.Int)
	for _, number := range existing {
		token := number
		if !numeric.MatchString(number) {
			token = digitRun.FindString(number)
			if token == "" {
				continue
			}
		}
		n, ok := new(big.Int).SetString(token, 10)
		if !ok {
			continue
		}
		if n.Cmp(highest) > 0 {
			highest = n
		}
	}
	return highest.Add(highest, big.NewInt(1)).String()
}
