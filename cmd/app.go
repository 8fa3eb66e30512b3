// Package cmd implements the CLI application to analyze deal waterfalls.
package cmd

import (
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mklein/waterfall"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&distributionsCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&feesCmd{}, "reports")
	c.Register(&irrCmd{}, "reports")

	c.Register(&importCmd{}, "deal file")
	c.Register(&fmtCmd{}, "deal file")

	c.Register(&topicCmd{}, "help")
	c.Register(&assistCmd{}, "help")
}

// defaultDealFile is the deal file used when no -d flag is given.
const defaultDealFile = "deal.jsonl"

// decodeDealFile reads and decodes the deal file at the given path.
func decodeDealFile(path string) (*waterfall.Deal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open deal file %q: %w", path, err)
	}
	defer f.Close()

	deal, err := waterfall.DecodeDeal(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode deal file %q: %w", path, err)
	}
	return deal, nil
}

// analyzeDealFile decodes the deal file and runs the full analysis.
func analyzeDealFile(path string) (*waterfall.DealResult, error) {
	deal, err := decodeDealFile(path)
	if err != nil {
		return nil, err
	}
	return deal.Analyze()
}
