// Command server runs the course server.
//
// Usage:
//
//	server [flags]
//	server [flags] adduser <username> <password> [display name]
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/goinglive/internal/server"
	"github.com/dmitrijs2005/goinglive/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("%v", err)
		os.Exit(2)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
	defer app.Close()

	if args := positional(os.Args[1:]); len(args) > 0 {
		if err := runCommand(ctx, app, args); err != nil {
			log.Printf("%v", err)
			app.Close()
			os.Exit(1)
		}
		return
	}

	app.Run(ctx)
}

func runCommand(ctx context.Context, app *server.App, args []string) error {
	switch args[0] {
	case "adduser":
		if len(args) < 3 {
			return fmt.Errorf("usage: adduser <username> <password> [display name]")
		}
		return app.AddUser(ctx, args[1], args[2], strings.Join(args[3:], " "))
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// positional returns the arguments that follow the flags. Every server flag
// takes a value.
func positional(args []string) []string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") {
			return args[i:]
		}
		if !strings.Contains(a, "=") {
			i++
		}
	}
	return nil
}
