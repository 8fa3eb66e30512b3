package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mklein/waterfall"
)

// FeeLedgerMarkdown renders the per-partner fee ledger: which fee paid what
// to whom, and how fee cash ties against waterfall cash.
func FeeLedgerMarkdown(result *waterfall.DealResult) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Fee Ledger\n\n")

	fmt.Fprintln(&b, "| Partner | Fee | Amount |")
	fmt.Fprintln(&b, "|:---|:---|---:|")
	for _, p := range result.Partners {
		names := make([]string, 0, len(p.ByFee))
		for name := range p.ByFee {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", p.Partner.Name, name, p.ByFee[name])
		}
	}
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## By Category\n\n")
	fmt.Fprintln(&b, "| Partner | Category | Amount |")
	fmt.Fprintln(&b, "|:---|:---|---:|")
	for _, p := range result.Partners {
		categories := make([]string, 0, len(p.ByFeeCategory))
		for cat := range p.ByFeeCategory {
			categories = append(categories, cat)
		}
		sort.Strings(categories)
		for _, cat := range categories {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", p.Partner.Name, cat, p.ByFeeCategory[cat])
		}
	}
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## Reconciliation\n\n")
	fmt.Fprintln(&b, "| Partner | From Waterfall | From Fees | Total |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, p := range result.Partners {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			p.Partner.Name, p.FromWaterfall, p.FromFees, p.TotalDistributions())
	}
	fmt.Fprintf(&b, "| **Total** | | | **%s** |\n", result.TotalDistributions)
	if result.UnpaidFees.IsPositive() {
		fmt.Fprintf(&b, "\nUnpaid scheduled fees: %s\n", result.UnpaidFees)
	}

	return b.String()
}
