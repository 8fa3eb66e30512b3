package renderer

import (
	"fmt"
	"strings"

	"github.com/mklein/waterfall"
)

// DistributionMarkdown renders the full waterfall distribution report.
func DistributionMarkdown(result *waterfall.DealResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Distribution Report (%s)\n\n", methodName(result.Method))
	fmt.Fprintf(&b, "Archetype: %s\n\n", result.Archetype)

	fmt.Fprint(&b, "## Deal Summary\n\n")
	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Total Investment | %s |\n", result.TotalInvestment)
	fmt.Fprintf(&b, "| Total Distributions | %s |\n", result.TotalDistributions)
	fmt.Fprintf(&b, "| Net Profit | %s |\n", result.NetProfit().SignedString())
	fmt.Fprintf(&b, "| Equity Multiple | %.4fx |\n", result.EquityMultiple)
	fmt.Fprintf(&b, "| IRR | %s |\n", result.IRRString())
	if result.UnpaidFees.IsPositive() {
		fmt.Fprintf(&b, "| Unpaid Fees | %s |\n", result.UnpaidFees)
	}
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## Partners\n\n")
	fmt.Fprintln(&b, "| Partner | Kind | Share | Invested | From Waterfall | From Fees | Total | Multiple | IRR |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|")
	for _, p := range result.Partners {
		multiple := "N/A"
		if p.HasEquityMultiple() {
			multiple = fmt.Sprintf("%.4fx", p.EquityMultiple)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			p.Partner.Name,
			p.Partner.Kind,
			p.Ownership,
			p.TotalInvestment,
			p.FromWaterfall,
			p.FromFees,
			p.TotalDistributions(),
			multiple,
			p.IRRString(),
		)
	}
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## Tier Breakdown\n\n")
	fmt.Fprint(&b, "| Tier |")
	for _, p := range result.Partners {
		fmt.Fprintf(&b, " %s |", p.Partner.Name)
	}
	fmt.Fprintln(&b)
	fmt.Fprint(&b, "|:---|")
	for range result.Partners {
		fmt.Fprint(&b, "---:|")
	}
	fmt.Fprintln(&b)
	for _, tier := range result.Tiers {
		fmt.Fprintf(&b, "| %s |", tier)
		for _, p := range result.Partners {
			if amount, ok := p.ByTier[tier]; ok {
				fmt.Fprintf(&b, " %s |", amount.Round())
			} else {
				fmt.Fprint(&b, " - |")
			}
		}
		fmt.Fprintln(&b)
	}

	return b.String()
}

// SummaryMarkdown renders a compact deal-level summary.
func SummaryMarkdown(result *waterfall.DealResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Deal Summary (%s, %s)\n\n", methodName(result.Method), result.Archetype)
	fmt.Fprintln(&b, "| Kind | Partners | Share |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for _, kind := range []waterfall.PartnerKind{waterfall.GeneralPartner, waterfall.LimitedPartner} {
		if result.Summary.Count[kind] == 0 {
			continue
		}
		fmt.Fprintf(&b, "| %s | %d | %s |\n", kind, result.Summary.Count[kind], result.Summary.Share[kind])
	}
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "Invested %s, distributed %s, net profit %s.\n\n",
		result.TotalInvestment, result.TotalDistributions, result.NetProfit().SignedString())
	fmt.Fprintf(&b, "Equity multiple %.4fx, IRR %s.\n", result.EquityMultiple, result.IRRString())

	return b.String()
}

func methodName(m waterfall.DistributionMethod) string {
	switch m {
	case waterfall.PariPassu:
		return "Pari Passu"
	case waterfall.Waterfall:
		return "Waterfall"
	default:
		return string(m)
	}
}
