package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mklein/waterfall"
)

// irrCmd holds the flags for the 'irr' subcommand.
type irrCmd struct {
	dealFile string
}

func (*irrCmd) Name() string     { return "irr" }
func (*irrCmd) Synopsis() string { return "compute the deal's internal rate of return" }
func (*irrCmd) Usage() string {
	return `wfc irr [-d <deal>]

  Computes the annualized internal rate of return of the deal's cash-flow
  series, and its equity multiple.
`
}

func (c *irrCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dealFile, "d", defaultDealFile, "Deal file to report on.")
}

func (c *irrCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	deal, err := decodeDealFile(c.dealFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	series, err := deal.Series()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	irr, err := waterfall.XIRR(series.Flows())
	switch {
	case errors.Is(err, waterfall.ErrNoSolution):
		fmt.Println("IRR: N/A (no sign change in the cash-flow series)")
	case err != nil:
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	default:
		fmt.Printf("IRR: %s\n", irr)
	}

	if multiple, ok := series.EquityMultiple(); ok {
		fmt.Printf("Equity multiple: %.2fx\n", multiple)
	}

	return subcommands.ExitSuccess
}
