package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mklein/waterfall/renderer"
)

// feesCmd holds the flags for the 'fees' subcommand.
type feesCmd struct {
	dealFile string
}

func (*feesCmd) Name() string     { return "fees" }
func (*feesCmd) Synopsis() string { return "display the deal's fee ledger" }
func (*feesCmd) Usage() string {
	return `wfc fees [-d <deal>]

  Displays every fee charged against the deal: scheduled amount, paid amount,
  payee, category, and any unpaid balance at the end of the timeline.
`
}

func (c *feesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dealFile, "d", defaultDealFile, "Deal file to report on.")
}

func (c *feesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	result, err := analyzeDealFile(c.dealFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.FeeLedgerMarkdown(result))

	return subcommands.ExitSuccess
}
