// Command keyva is the CLI entry point: script-file mode, interactive
// REPL mode, and a TCP `serve` mode (SPEC_FULL.md §4's supplemented
// server feature, grounded on the teacher's main/main.go).
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"

	"github.com/fatih/color"

	"github.com/kvlang/keyva/internal/ast"
	"github.com/kvlang/keyva/internal/config"
	"github.com/kvlang/keyva/internal/interp"
	"github.com/kvlang/keyva/internal/parser"
	"github.com/kvlang/keyva/internal/repl"
	"github.com/kvlang/keyva/internal/script"
)

const version = "keyva 0.1.0"

func main() {
	args := os.Args[1:]

	if len(args) > 0 {
		switch args[0] {
		case "--help", "-h":
			showHelp()
			return
		case "--version", "-v":
			fmt.Println(version)
			return
		case "serve":
			if len(args) < 2 {
				fmt.Fprintln(os.Stderr, "usage: keyva serve <port>")
				os.Exit(1)
			}
			runServer(args[1])
			return
		}
	}

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "keyva: failed to load config: %v\n", err)
		os.Exit(1)
	}

	if len(args) == 1 {
		code := script.Run(args[0], cfg, os.Stdout, os.Stderr)
		os.Exit(code)
	}

	r := repl.New(cfg)
	if err := r.Start(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "keyva: %v\n", err)
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println(version)
	fmt.Println("usage:")
	fmt.Println("  keyva                run an interactive REPL")
	fmt.Println("  keyva <file>          run a script file")
	fmt.Println("  keyva serve <port>    run a REPL server, one session per connection")
	fmt.Println("  keyva --help          show this message")
	fmt.Println("  keyva --version       show version information")
}

// runServer accepts connections and hands each one an independent
// Interpreter and function table — each connection is a fully isolated
// single-threaded session, not shared language-level concurrency
// (SPEC_FULL.md §4 "Server mode").
func runServer(port string) {
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keyva: cannot listen on port %s: %v\n", port, err)
		os.Exit(1)
	}
	defer ln.Close()

	cyan := color.New(color.FgCyan)
	cyan.Printf("keyva server listening on :%s\n", port)

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "keyva: failed to load config: %v\n", err)
		os.Exit(1)
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			fmt.Fprintf(os.Stderr, "keyva: accept error: %v\n", err)
			continue
		}
		go handleConn(conn, cfg)
	}
}

func handleConn(conn net.Conn, cfg config.Config) {
	defer conn.Close()

	funcs := ast.NewFuncTable()
	ev := interp.New(funcs, cfg.Limits(), conn)
	ev.SetDiag(conn)

	scanner := bufio.NewScanner(conn)
	fmt.Fprintln(conn, "keyva session established")
	for scanner.Scan() {
		line := scanner.Text()
		if line == "exit" || line == "quit" {
			return
		}
		p := parser.New(line, funcs)
		p.MaxFunctions = cfg.MaxFunctions
		program := p.ParseProgram()
		for _, e := range p.Errors {
			fmt.Fprintln(conn, e)
		}
		ev.Run(program)
	}
}
