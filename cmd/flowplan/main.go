// Command flowplan solves a flow-network request from a JSON file and
// prints the result.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/jmarsden/flowplan/pkg/network"
	"github.com/jmarsden/flowplan/pkg/plan"
	"github.com/jmarsden/flowplan/pkg/solver/simplex"
)

func main() {
	pretty := flag.Bool("pretty", false, "Indent the output JSON")
	slackTol := flag.Float64("slack-tolerance", plan.DefaultSlackTolerance, "Tight-constraint slack tolerance")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: flowplan [flags] <request.json>")
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fatal("reading request: %v", err)
	}

	var req network.Request
	if err := json.Unmarshal(data, &req); err != nil {
		fatal("parsing request: %v", err)
	}

	planner, err := plan.New(plan.Config{
		Factory:        simplex.Factory(simplex.Options{}),
		SlackTolerance: *slackTol,
	})
	if err != nil {
		fatal("building planner: %v", err)
	}

	result, err := planner.Solve(context.Background(), &req)
	if err != nil {
		fatal("%v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		fatal("encoding result: %v", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "flowplan: "+format+"\n", args...)
	os.Exit(1)
}
