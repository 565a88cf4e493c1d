package documents

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/facet/internal/cmd/base"
)

type DeleteCommand struct {
	*base.Command

	flagConfig  string
	flagCascade bool
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete a document"
}

func (c *DeleteCommand) Help() string {
	return `Usage: facet documents delete -config=<path> <id>

  This command deletes one document. Deleting a document with children
  fails unless -cascade is given, which removes the whole subtree.
  Later siblings are renumbered on the next read.` +
		c.Flags().Help()
}

func (c *DeleteCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("delete", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to the facet config file",
	)
	f.BoolVar(
		&c.flagCascade, "cascade", false,
		"Also delete all descendants of the document.",
	)

	return f
}

func (c *DeleteCommand) Run(args []string) int {
	ui := c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if c.flagConfig == "" {
		ui.Error("config flag is required")
		return 1
	}
	if len(flags.Args()) != 1 {
		ui.Error("exactly one document ID argument is required")
		return 1
	}
	locator := flags.Args()[0]

	s, err := openStore(c.Log, c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error opening store: %v", err))
		return 1
	}
	defer s.Close()

	if err := s.Delete(locator, c.flagCascade); err != nil {
		ui.Error(fmt.Sprintf("error deleting document: %v", err))
		return 1
	}

	ui.Info(fmt.Sprintf("Deleted document %s", locator))
	return 0
}
