// exercise-lookup resolves exercise names offline against the curated local
// mapping, without touching the network. Useful for checking what a given
// plan entry will resolve to and at what confidence.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ripixel/demofit-server/pkg/exercise/resolver"
)

func main() {
	asJSON := flag.Bool("json", false, "Print full match results as JSON")
	flag.Parse()

	names := flag.Args()
	if len(names) == 0 {
		fmt.Println("Usage: exercise-lookup [-json] <name> [name ...]")
		os.Exit(1)
	}

	engine := resolver.NewEngine()

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		for _, name := range names {
			result := engine.Resolve(name)
			if err := enc.Encode(map[string]interface{}{
				"query":  name,
				"result": result,
			}); err != nil {
				fmt.Printf("Failed to encode result: %v\n", err)
				os.Exit(1)
			}
		}
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "Query\tResolved\tConfidence\tMatch\tSource")
	fmt.Fprintln(w, "-----\t--------\t----------\t-----\t------")
	for _, name := range names {
		result := engine.Resolve(name)
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n",
			name, result.Record.Name, result.Confidence, result.MatchType, result.Source)
	}
	w.Flush()
}
