package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dreamware/lexis/internal/client"
	"github.com/dreamware/lexis/internal/filter"
)

func newClient(c *cli.Context) *client.Client {
	return client.New(c.String("addr"))
}

// singleArg returns the one positional argument a command requires
func singleArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("%s expects exactly one argument, got %d", c.Command.Name, c.NArg())
	}
	return c.Args().First(), nil
}

func addCommand(c *cli.Context) error {
	value, err := singleArg(c)
	if err != nil {
		return err
	}
	rec, err := newClient(c).Create(c.Context, value)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, rec)
}

func getCommand(c *cli.Context) error {
	value, err := singleArg(c)
	if err != nil {
		return err
	}
	rec, err := newClient(c).Get(c.Context, value)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, rec)
}

func deleteCommand(c *cli.Context) error {
	value, err := singleArg(c)
	if err != nil {
		return err
	}
	if err := newClient(c).Delete(c.Context, value); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "deleted %q\n", value)
	return nil
}

// listCommand validates its flags with the same parser the server uses so
// bad input fails before any request is sent
func listCommand(c *cli.Context) error {
	q := url.Values{}
	for _, name := range []string{
		filter.ParamIsPalindrome,
		filter.ParamMinLength,
		filter.ParamMaxLength,
		filter.ParamWordCount,
		filter.ParamContainsCharacter,
	} {
		flag := strings.ReplaceAll(name, "_", "-")
		if c.IsSet(flag) {
			q.Set(name, c.String(flag))
		}
	}
	set, err := filter.Parse(q)
	if err != nil {
		return err
	}

	res, err := newClient(c).List(c.Context, set)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, res)
}

func queryCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("query expects a query string")
	}
	res, err := newClient(c).Query(c.Context, strings.Join(c.Args().Slice(), " "))
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, res)
}

func statsCommand(c *cli.Context) error {
	res, err := newClient(c).Stats(c.Context)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, res)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
