package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dreamware/lexis/internal/config"
)

// defaultConfigPath is where serve reads its config and config init writes it
const defaultConfigPath = "lexis.yaml"

// configInitCommand writes the built-in defaults so they can be edited.
// An existing file is left alone unless --force is given.
func configInitCommand(c *cli.Context) error {
	path := defaultConfigPath
	switch c.NArg() {
	case 0:
	case 1:
		path = c.Args().First()
	default:
		return fmt.Errorf("config init expects at most one path, got %d", c.NArg())
	}

	if !c.Bool("force") {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
	return nil
}
