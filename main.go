// Command golox runs a Lox script, or starts an interactive REPL if invoked
// with no arguments.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/chzyer/readline"

	"github.com/loxlang/golox/ansi"
	"github.com/loxlang/golox/ast"
	"github.com/loxlang/golox/interpreter"
	"github.com/loxlang/golox/loxerror"
	"github.com/loxlang/golox/parser"
	"github.com/loxlang/golox/scanner"
)

const (
	exitSuccess    = 0
	exitDataErr    = 65 // scan/parse/resolve error
	exitSoftware   = 70 // runtime error
	exitUsageError = 64
)

var (
	cmd      = flag.String("c", "", "program passed in as a string")
	printAST = flag.Bool("p", false, "print the AST instead of running the program")

	cpuProfile = flag.String("cpuprofile", "", "write a CPU profile to the specified file before exiting")
	memProfile = flag.String("memprofile", "", "write an allocation profile to the specified file before exiting")
	traceFile  = flag.String("trace", "", "write an execution trace to the specified file before exiting")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("failed to create CPU profile: %s", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Fatalf("failed to close CPU profile: %s", err)
			}
		}()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("failed to start CPU profile: %s", err)
		}
		defer pprof.StopCPUProfile()
	}
	if *memProfile != "" {
		defer func() {
			f, err := os.Create(*memProfile)
			if err != nil {
				log.Fatalf("failed to create memory profile: %s", err)
			}
			defer func() {
				if err := f.Close(); err != nil {
					log.Fatalf("failed to close memory profile: %s", err)
				}
			}()
			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Fatalf("failed to write memory profile: %s", err)
			}
		}()
	}
	if *traceFile != "" {
		f, err := os.Create(*traceFile)
		if err != nil {
			log.Fatalf("failed to create trace output file: %s", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Fatalf("failed to close trace file: %s", err)
			}
		}()
		if err := trace.Start(f); err != nil {
			log.Fatalf("failed to start trace: %s", err)
		}
		defer trace.Stop()
	}

	if *cmd != "" {
		hadError, hadRuntimeError := run(*cmd, interpreter.New())
		switch {
		case hadError:
			os.Exit(exitDataErr)
		case hadRuntimeError:
			os.Exit(exitSoftware)
		}
		return
	}

	switch len(flag.Args()) {
	case 0:
		runREPL()
	case 1:
		runFile(flag.Arg(0))
	default:
		flag.Usage()
		os.Exit(exitUsageError)
	}
}

func usage() {
	fmt.Fprintln(flag.CommandLine.Output(), "Usage: golox [options] [script]")
	fmt.Fprintln(flag.CommandLine.Output())
	fmt.Fprintln(flag.CommandLine.Output(), "Options:")
	flag.PrintDefaults()
}

// run scans, parses, and (unless -p was given) resolves and interprets src
// against in, reporting whether a static or a runtime error occurred.
func run(src string, in *interpreter.Interpreter) (hadError, hadRuntimeError bool) {
	tokens, err := scanner.Scan(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		hadError = true
	}

	program, err := parser.Parse(tokens)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		hadError = true
	}
	if hadError || program == nil {
		return hadError, false
	}

	if *printAST {
		ast.Print(program)
		return false, false
	}

	if err := in.Interpret(program); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if _, ok := err.(*loxerror.RuntimeError); ok {
			return false, true
		}
		return true, false
	}
	return false, false
}

func runFile(name string) {
	src, err := os.ReadFile(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsageError)
	}

	hadError, hadRuntimeError := run(string(src), interpreter.New())
	switch {
	case hadError:
		os.Exit(exitDataErr)
	case hadRuntimeError:
		os.Exit(exitSoftware)
	default:
		os.Exit(exitSuccess)
	}
}

func runREPL() {
	cfg := &readline.Config{Prompt: ansi.Sprintf("${BOLD}${GREEN}>>> ${RESET}")}
	if homeDir, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = path.Join(homeDir, ".lox_history")
	} else {
		fmt.Fprintf(os.Stderr, "Can't get current user's home directory (%s). Command history will not be saved.\n", err)
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "running Lox REPL:", err)
		os.Exit(exitSoftware)
	}
	defer rl.Close()

	ansi.Fprintln(os.Stderr, "${BOLD}Welcome to Lox!${RESET}")

	in := interpreter.New(interpreter.REPLMode())
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				break
			}
			panic(fmt.Sprintf("unexpected error from readline: %s", err))
		}
		// Errors in the REPL are reported but never kill the loop; each line
		// starts with a clean hadError/hadRuntimeError slate.
		run(line, in)
	}
}
