// Command sage-ask loads an engine from a YAML configuration file and
// answers the questions given as arguments.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cognicore/sage/pkg/sage/config"
	"github.com/cognicore/sage/pkg/sage/engine"
)

func main() {
	configPath := flag.String("config", "sage.yaml", "path to the engine configuration")
	showDeps := flag.Bool("deps", false, "print the dependency set of each answer")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: sage-ask [-config sage.yaml] [-deps] <question> [<question>...]")
		os.Exit(1)
	}

	loader := &config.Loader{Path: *configPath}
	eng, err := loader.Load()
	if err != nil {
		log.Fatalf("sage-ask: %v", err)
	}

	failed := false
	for _, arg := range flag.Args() {
		q := engine.Question(arg)
		d, err := eng.Ask(q)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", q, err)
			failed = true
			continue
		}
		fmt.Printf("%s = %v\n", q, d.Answer)
		if *showDeps {
			deps := d.Dependencies.Slice()
			parts := make([]string, len(deps))
			for i, dep := range deps {
				parts[i] = string(dep)
			}
			fmt.Printf("  depends on: [%s]\n", strings.Join(parts, ", "))
		}
	}
	if failed {
		os.Exit(1)
	}
}
