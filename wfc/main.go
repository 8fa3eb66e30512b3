package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/mklein/waterfall/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion handles the invocation entirely when COMP_LINE is set.
	completion().Complete("wfc")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command tree for shell completion.
func completion() *complete.Command {
	dealFlag := map[string]complete.Predictor{"d": predict.Files("*.jsonl")}
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"distributions": {Flags: dealFlag},
			"summary":       {Flags: dealFlag},
			"fees":          {Flags: dealFlag},
			"irr":           {Flags: dealFlag},
			"fmt":           {Flags: dealFlag},
			"import": {Flags: map[string]complete.Predictor{
				"d":    predict.Files("*.jsonl"),
				"f":    predict.Files("*.json"),
				"path": predict.Nothing,
				"kind": predict.Set{"contribute", "draw", "distribute"},
			}},
			"topic":  {Args: predict.Set{"readme", "waterfall", "fees", "dealfile"}},
			"assist": {Flags: dealFlag},
		},
	}
}
