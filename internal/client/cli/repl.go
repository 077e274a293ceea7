package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// command is one REPL verb.
type command struct {
	name  string
	usage string
	help  string

	// public commands are listed before login.
	public bool
	run    func(ctx context.Context, args []string) error
}

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	commands() []command
}

// runREPL reads commands line by line from r and dispatches them to a until
// EOF, "exit" or "quit", or until ctx is done.
//
// The first token of a line selects the command, the rest are its
// arguments. Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	table := make(map[string]command)
	for _, c := range a.commands() {
		table[c.name] = c
	}

	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("gl> %s > ", statusFn()))

		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printHelp(a)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		c, ok := table[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if err := c.run(ctx, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}

func printHelp(a execIface) {
	loggedIn := a.isLoggedIn()
	printlnFn("Available commands:")
	for _, c := range a.commands() {
		if loggedIn || c.public {
			printlnFn(fmt.Sprintf("  %-40s %s", c.usage, c.help))
		}
	}
	printlnFn(fmt.Sprintf("  %-40s %s", "help", "show this list"))
	printlnFn(fmt.Sprintf("  %-40s %s", "exit | quit", "leave the program"))
}
