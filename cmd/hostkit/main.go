// Command hostkit runs the sample host and its maintenance tasks.
//
//	hostkit serve                  run the HTTP server
//	hostkit migrate up|down|status manage the database schema
//	hostkit token --subject ID     sign a bearer token
//	hostkit hash-password          hash a password read from stdin
//	hostkit config                 print the effective configuration
//
// Configuration comes from the environment (and .env), optionally layered
// over a YAML or JSON file given with --config.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/hostkit/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	envFiles   []string
}

func (o *rootOptions) load() (*config.Config, error) {
	return config.Load(o.configPath, o.envFiles...)
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "hostkit",
		Short:        "Sample host built on the hostkit packages",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (.yaml, .yml or .json)")
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "env files to load (default .env)")

	root.AddCommand(
		serveCommand(opts),
		migrateCommand(opts),
		tokenCommand(opts),
		hashPasswordCommand(opts),
		configCommand(opts),
	)
	return root
}
