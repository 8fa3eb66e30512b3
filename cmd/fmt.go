package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// fmtCmd holds the flags for the 'fmt' subcommand.
type fmtCmd struct {
	dealFile string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the deal file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `wfc fmt [-d <deal>]

  Validates and formats the deal file. This command reads all entries,
  validates the partnership and timeline, and writes them back in a canonical
  JSONL format with stable key order.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dealFile, "d", defaultDealFile, "Deal file to format in place.")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	deal, err := decodeDealFile(c.dealFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	if _, err := deal.Structure(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid deal: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := deal.Timeline.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid timeline: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := writeDealFile(c.dealFile, deal); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Formatted %s\n", c.dealFile)
	return subcommands.ExitSuccess
}
