// Command sage-convert reads a human rule file, optionally lints it
// against a specification, and writes the canonical JSON rule file to
// stdout. Diagnostics go to stderr, one per line, sorted by line number
// and then by message.
//
// Usage:
//
//	sage-convert <rules-file> [<linter-spec-file>]
//
// Exit codes: 0 success, 1 usage, 2 input not found, 3 lint spec not
// found, 4 input read failed, 5 lint spec read failed, 6 lint spec decode
// failed, 7 parse failed, 8 invalid rules, 9 encoding failed.
package main

import (
	"fmt"
	"os"

	"github.com/cognicore/sage/pkg/sage/engine"
	"github.com/cognicore/sage/pkg/sage/lint"
	"github.com/cognicore/sage/pkg/sage/rulefile"
)

const (
	exitOK = iota
	exitUsage
	exitInputNotFound
	exitLintSpecNotFound
	exitInputReadFailed
	exitLintReadFailed
	exitLintDecodeFailed
	exitParseFailed
	exitInvalidRules
	exitEncodingFailed
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(os.Stderr, "usage: sage-convert <rules-file> [<linter-spec-file>]")
		return exitUsage
	}

	rulesPath := args[0]
	if _, err := os.Stat(rulesPath); err != nil {
		fmt.Fprintf(os.Stderr, "rules file %s: %v\n", rulesPath, err)
		return exitInputNotFound
	}

	var spec *lint.Spec
	if len(args) == 2 {
		specPath := args[1]
		if _, err := os.Stat(specPath); err != nil {
			fmt.Fprintf(os.Stderr, "lint spec %s: %v\n", specPath, err)
			return exitLintSpecNotFound
		}
		specData, err := os.ReadFile(specPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint spec %s: %v\n", specPath, err)
			return exitLintReadFailed
		}
		if spec, err = lint.DecodeSpec(specData); err != nil {
			fmt.Fprintf(os.Stderr, "lint spec %s: %v\n", specPath, err)
			return exitLintDecodeFailed
		}
	}

	data, err := os.ReadFile(rulesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rules file %s: %v\n", rulesPath, err)
		return exitInputReadFailed
	}

	parsed, parseErrs := rulefile.Parse(string(data))
	if len(parseErrs) > 0 {
		for _, pe := range parseErrs {
			fmt.Fprintln(os.Stderr, pe)
		}
		return exitParseFailed
	}

	if issues := lint.Check(parsed, spec); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintln(os.Stderr, issue)
		}
		return exitInvalidRules
	}

	rules := make([]engine.Rule, len(parsed))
	for i, p := range parsed {
		rules[i] = p.Rule
	}
	out, err := engine.EncodeRules(rules)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encoding failed: %v\n", err)
		return exitEncodingFailed
	}

	fmt.Println(string(out))
	return exitOK
}
