package documents

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/facet/internal/cmd/base"
)

type GetCommand struct {
	*base.Command

	flagConfig string
	flagJSON   bool
}

func (c *GetCommand) Synopsis() string {
	return "Show a single document"
}

func (c *GetCommand) Help() string {
	return `Usage: facet documents get -config=<path> <id>

  This command shows one document. The ID may be a UUID or a user-facing
  ID such as "1.c2".` +
		c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("get", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to the facet config file",
	)
	f.BoolVar(
		&c.flagJSON, "json", false, "Print the document as JSON.",
	)

	return f
}

func (c *GetCommand) Run(args []string) int {
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

	doc, err := s.Get(locator)
	if err != nil {
		ui.Error(fmt.Sprintf("error getting document: %v", err))
		return 1
	}

	if c.flagJSON {
		if err := printJSON(ui, doc); err != nil {
			ui.Error(fmt.Sprintf("error encoding document: %v", err))
			return 1
		}
		return 0
	}

	printDocument(ui, doc)
	return 0
}
