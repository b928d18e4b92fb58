package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/visittracker/internal/client/cli"
	"github.com/dmitrijs2005/visittracker/internal/client/config"
)

// commandArgs drops the flags handled by config and returns the command
// with its arguments.
func commandArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") {
			out = append(out, a)
			continue
		}
		if !strings.Contains(a, "=") && i+1 < len(args) {
			i++
		}
	}
	return out
}

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, closer, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer closer.Close()

	if err := app.Run(ctx, commandArgs(os.Args[1:])); err != nil {
		log.Printf("%v", err)
		closer.Close()
		os.Exit(1)
	}

}
