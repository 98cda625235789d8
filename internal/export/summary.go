// Package export renders decisions as short plain-text summaries for
// clipboards and chat messages.
package export

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MikeSquared-Agency/Worthit/internal/scoring"
)

const (
	untitled    = "Untitled item"
	placeholder = "n/a"
)

var printer = message.NewPrinter(language.English)

// Summary renders one decision. in supplies the wait-for-sale horizon and
// discount; everything else comes from d. Non-finite figures print as n/a.
func Summary(name string, in scoring.ItemInputs, d scoring.Decision) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = untitled
	}

	var b strings.Builder
	line := func(format string, args ...interface{}) {
		b.WriteString(printer.Sprintf(format, args...))
		b.WriteByte('\n')
	}

	line("Worthit: %s", name)
	line("Verdict: %s (%d/100)", d.Score.Verdict, d.Score.DecisionScore)
	line("Financial %s | Utility %s | Risk %s",
		score(d.Score.FinancialScore), score(d.Score.UtilityScore), score(d.Score.RiskScore))
	line("Sticker %s, resale offset %s, effective %s",
		money(d.Costs.StickerCost), money(d.Costs.ResaleOffset), money(d.Costs.EffectiveCost))
	line("Cost per use: %s", money(d.Costs.CostPerUse))
	line("What if: no resale %d, best resale %d", d.Sensitivity.NoResale, d.Sensitivity.BestResale)
	if d.Sensitivity.WaitSale != nil {
		line("Wait %s mo for %s%% off: %d",
			number(in.MonthsToWait), number(in.TargetDiscountPct), *d.Sensitivity.WaitSale)
	}
	for _, w := range d.Warnings {
		line("Note: %s", w)
	}
	return strings.TrimRight(b.String(), "\n")
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func money(v float64) string {
	if !finite(v) {
		return placeholder
	}
	if v < 0 {
		return printer.Sprintf("-$%.2f", -v)
	}
	return printer.Sprintf("$%.2f", v)
}

func score(v float64) string {
	if !finite(v) {
		return placeholder
	}
	return printer.Sprintf("%.1f", v)
}

// number drops the fraction for whole values.
func number(v float64) string {
	if !finite(v) {
		return placeholder
	}
	if v == math.Trunc(v) {
		return printer.Sprintf("%.0f", v)
	}
	return printer.Sprintf("%.1f", v)
}
