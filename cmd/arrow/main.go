// Command arrow runs a single Arrow source file: scan, parse, print the
// initial main-variable state, then alternate running main forwards and
// backwards (inverting its body between runs), printing state after each
// pass — exactly original_source/main.py's loop, in teacher's cmd/flowa
// idiom (flag.Bool for --help/-h, a .env hook read before flag parsing).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"arrow/pkg/ast"
	arrowerr "arrow/pkg/errors"
	"arrow/pkg/eval"
	"arrow/pkg/inverter"
	"arrow/pkg/lexer"
	"arrow/pkg/memory"
	"arrow/pkg/parser"
	"arrow/pkg/program"

	"github.com/joho/godotenv"
)

func printUsage() {
	fmt.Println("Arrow - a reversible programming language")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  arrow <file>          Run an Arrow program")
	fmt.Println("  arrow --help, -h      Show this help message")
	fmt.Println()
	fmt.Println("Configuration (optionally via a .env file):")
	fmt.Println("  ARROW_NO_COLOR=1      Disable colorized error output")
	fmt.Println("  ARROW_STEP=auto       Run both directions without prompting")
}

func main() {
	// Optional; a missing .env is not an error (teacher's loadEnvFile
	// treats it the same way).
	_ = godotenv.Load()

	helpFlag := flag.Bool("help", false, "show this help message")
	helpShort := flag.Bool("h", false, "show this help message")
	flag.Usage = printUsage
	flag.Parse()

	if *helpFlag || *helpShort {
		printUsage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	arrowerr.SetColorEnabled(os.Getenv("ARROW_NO_COLOR") == "")

	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", filename, err)
		os.Exit(1)
	}
	src := string(content)
	reporter := arrowerr.NewReporter(filename, src)

	prog, errs := parser.Parse(lexer.New(src))
	if len(errs) > 0 {
		for _, e := range errs {
			report(reporter, e)
		}
		os.Exit(1)
	}

	runtime, mem, err := program.Build(prog)
	if err != nil {
		report(reporter, err)
		os.Exit(1)
	}

	fmt.Println("Starting out...")
	fmt.Println()
	printState(prog.MainVars, mem)

	run(runtime, prog.MainVars, prog.Main.Block, mem, reporter)
}

// run implements the forwards/backwards alternation loop: evaluate
// block, print state, invert block, flip direction, repeat.
// ARROW_STEP=auto skips the "press enter" prompt and returns after one
// forward and one backward pass, for scripted runs.
func run(runtime *program.Program, mainVars []ast.MainVarDecl, block *ast.Block, mem *memory.Memory, reporter *arrowerr.Reporter) {
	auto := os.Getenv("ARROW_STEP") == "auto"
	stdin := bufio.NewReader(os.Stdin)
	direction := 1

	for {
		if !auto {
			word := "forwards"
			if direction < 0 {
				word = "backwards"
			}
			fmt.Printf("Going %s... ", word)
			if _, err := stdin.ReadString('\n'); err != nil {
				return
			}
		}

		if _, err := eval.Block(block, mem, runtime); err != nil {
			report(reporter, err)
			os.Exit(1)
		}
		printState(mainVars, mem)

		inv, err := inverter.Block(block)
		if err != nil {
			report(reporter, err)
			os.Exit(1)
		}
		block = inv
		direction *= -1
		if auto && direction > 0 {
			return
		}
	}
}

func printState(decls []ast.MainVarDecl, mem *memory.Memory) {
	for _, decl := range decls {
		v, err := mem.Get(decl.Name)
		if err != nil {
			continue
		}
		fmt.Printf("%s --> %s\n", decl.Name, v.Inspect())
	}
	fmt.Println()
}

func report(reporter *arrowerr.Reporter, err error) {
	if ae, ok := err.(*arrowerr.ArrowError); ok {
		fmt.Print(reporter.Format(ae))
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
