package main

import (
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

// Version is overridden at build time with -ldflags
var Version = "dev"

// logFatal is swapped out in tests
var logFatal = log.Fatal

func main() {
	// A missing .env is the normal case
	_ = godotenv.Load()

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logFatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "lexis",
		Usage:   "Analyze, store and query strings over HTTP",
		Version: Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Server base URL for client commands",
				Value:   "http://localhost:8080",
				EnvVars: []string{"LEXIS_ADDR"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP service",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "YAML config file (missing file means defaults)",
						Value:   defaultConfigPath,
						EnvVars: []string{"LEXIS_CONFIG"},
					},
					&cli.StringFlag{
						Name:  "listen",
						Usage: "Listen address (overrides config)",
					},
					&cli.IntFlag{
						Name:  "shards",
						Usage: "Number of store shards (overrides config)",
					},
				},
				Action: serveCommand,
			},
			{
				Name:  "config",
				Usage: "Manage the server config file",
				Subcommands: []*cli.Command{
					{
						Name:      "init",
						Usage:     "Write the default config to a file",
						ArgsUsage: "[path]",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:    "force",
								Aliases: []string{"f"},
								Usage:   "Overwrite an existing file",
							},
						},
						Action: configInitCommand,
					},
				},
			},
			{
				Name:      "add",
				Usage:     "Analyze and store a string",
				ArgsUsage: "<value>",
				Action:    addCommand,
			},
			{
				Name:      "get",
				Usage:     "Show a stored string",
				ArgsUsage: "<value>",
				Action:    getCommand,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a stored string",
				ArgsUsage: "<value>",
				Action:    deleteCommand,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List stored strings, optionally filtered",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "is-palindrome", Usage: "true or false"},
					&cli.StringFlag{Name: "min-length", Usage: "Minimum length in characters"},
					&cli.StringFlag{Name: "max-length", Usage: "Maximum length in characters"},
					&cli.StringFlag{Name: "word-count", Usage: "Exact number of words"},
					&cli.StringFlag{Name: "contains-character", Usage: "Single character the string must contain"},
				},
				Action: listCommand,
			},
			{
				Name:      "query",
				Aliases:   []string{"q"},
				Usage:     "Filter stored strings with an English query",
				ArgsUsage: "<query words...>",
				Action:    queryCommand,
			},
			{
				Name:   "stats",
				Usage:  "Show store and shard statistics",
				Action: statsCommand,
			},
		},
	}
}
