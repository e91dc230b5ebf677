// Command qalgebra is the CLI entry point of SPEC_FULL.md §11.2: it reads
// a SQL string, runs it through the library pipeline, and prints the
// translation/optimization notation, a Mermaid graph dump, or autocomplete
// suggestions, depending on the flags given.
//
// Grounded on Chahine-tech-sqlens/cmd/sqlparser/main.go's flag-driven
// shape (flag.String/flag.Bool wired to a small config struct, a single
// dispatch in main, one helper per output mode) — trimmed to this
// command's six flags rather than that tool's dialect/watch/log surface,
// since this grammar has no log-streaming or multi-dialect concerns.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/freeeve/qalgebra"
	"github.com/freeeve/qalgebra/internal/ambient"
	"github.com/freeeve/qalgebra/internal/schemaio"
	"github.com/freeeve/qalgebra/render"
	"github.com/freeeve/qalgebra/rewrite"
	"github.com/freeeve/qalgebra/schema"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run implements the CLI over an explicit argv/stdio triple so the
// testscript harness (cmd/qalgebra/testdata/*.txtar) can drive it as an
// in-process subcommand rather than forking a real process per script line.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("qalgebra", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		query        = fs.String("q", "", "SQL query string (default: read stdin)")
		schemaPath   = fs.String("schema", "", "path to a YAML schema document (§11.1)")
		configPath   = fs.String("config", "", "path to a YAML config file")
		heuristics   = fs.String("heuristics", "", "comma-separated heuristic ids (default: all four, in §4.8 order)")
		graph        = fs.Bool("graph", false, "print the Mermaid graph of the optimized algebra instead of notation")
		completeSpec = fs.String("complete", "", "text@N: print autocomplete suggestions for the text truncated at offset N")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := ambient.NewLogger()

	cfg, err := ambient.LoadConfigFile(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	cfg = ambient.MergeFlags(cfg, ambient.Config{SchemaPath: *schemaPath, Heuristics: splitHeuristics(*heuristics)})

	sql, err := readQuery(*query, stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	var db *schema.Database
	if cfg.SchemaPath != "" {
		data, err := os.ReadFile(cfg.SchemaPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		db, err = schemaio.Load(data)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		ambient.SchemaLoaded(log, db.Name, len(db.Tables()))
	}

	if *completeSpec != "" {
		return runAutocomplete(*completeSpec, db, stdout, stderr)
	}

	if db != nil {
		if validationErrs, parseErrs := qalgebra.Validate(sql, db); len(parseErrs) == 0 && len(validationErrs) != 0 {
			fmt.Fprintln(stdout, "schema validation:")
			for _, e := range validationErrs {
				fmt.Fprintln(stdout, "  - "+e.Error())
			}
		}
	}

	var chosen []rewrite.Heuristic
	if len(cfg.Heuristics) == 0 {
		chosen = rewrite.DefaultPipeline
	} else {
		for _, h := range cfg.Heuristics {
			chosen = append(chosen, rewrite.Heuristic(h))
		}
	}

	result := qalgebra.ParseWithHeuristics(sql, chosen)
	if !result.Ok {
		ambient.PipelineFailed(log, ambient.Stage(result.Stage), fmt.Errorf("%s", result.Message))
		fmt.Fprintf(stderr, "%s error: %s\n", result.Stage, result.Message)
		for _, d := range result.Details {
			fmt.Fprintln(stderr, "  "+d)
		}
		return 1
	}

	if *graph {
		fmt.Fprintln(stdout, render.Mermaid(render.BuildGraph(result.Optimization.Optimized)))
		return 0
	}

	fmt.Fprintln(stdout, "translation:", result.TranslationString)
	fmt.Fprintln(stdout, "optimized:  ", result.OptimizationString)
	if len(result.Optimization.AppliedRules) != 0 {
		fmt.Fprintln(stdout, "applied rules:")
		for _, r := range result.Optimization.AppliedRules {
			fmt.Fprintln(stdout, "  - "+r)
		}
	}
	return 0
}

func readQuery(flagValue string, stdin io.Reader) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func splitHeuristics(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// runAutocomplete implements -complete text@N: spec is the partial text
// with the cursor position appended as "@N"; N truncates the text before
// suggestions are computed.
func runAutocomplete(spec string, db *schema.Database, stdout, stderr io.Writer) int {
	text, offset, ok := splitCursor(spec)
	if !ok {
		fmt.Fprintln(stderr, "-complete expects text@N, e.g. -complete \"SELECT * FROM u@15\"")
		return 1
	}
	if offset < len(text) {
		text = text[:offset]
	}
	for _, s := range qalgebra.Autocomplete(text, db) {
		fmt.Fprintf(stdout, "%s\t%s\t%s\n", s.Kind, s.InsertText, s.Detail)
	}
	return 0
}

func splitCursor(spec string) (text string, offset int, ok bool) {
	i := strings.LastIndex(spec, "@")
	if i < 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(spec[i+1:])
	if err != nil {
		return "", 0, false
	}
	return spec[:i], n, true
}
