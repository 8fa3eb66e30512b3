package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mklein/waterfall/renderer"
)

// distributionsCmd holds the flags for the 'distributions' subcommand.
type distributionsCmd struct {
	dealFile string
}

func (*distributionsCmd) Name() string     { return "distributions" }
func (*distributionsCmd) Synopsis() string { return "compute and display the full waterfall report" }
func (*distributionsCmd) Usage() string {
	return `wfc distributions [-d <deal>]

  Runs the deal's waterfall and displays per-partner distributions with the
  tier-by-tier breakdown, IRR and equity multiple.
`
}

func (c *distributionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dealFile, "d", defaultDealFile, "Deal file to report on.")
}

func (c *distributionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	result, err := analyzeDealFile(c.dealFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.DistributionMarkdown(result))

	return subcommands.ExitSuccess
}
