package documents

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/facet/internal/cmd/base"
)

type ResolveCommand struct {
	*base.Command

	flagConfig string
}

func (c *ResolveCommand) Synopsis() string {
	return "Resolve a user-facing ID to its UUID"
}

func (c *ResolveCommand) Help() string {
	return `Usage: facet documents resolve -config=<path> <id>

  This command resolves a user-facing ID such as "1.c2" to the stable
  UUID of the document it currently denotes. A UUID argument resolves
  to itself when the document exists.` +
		c.Flags().Help()
}

func (c *ResolveCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("resolve", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to the facet config file",
	)

	return f
}

func (c *ResolveCommand) Run(args []string) int {
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

	uuid, err := s.Resolve(locator)
	if err != nil {
		ui.Error(fmt.Sprintf("error resolving ID: %v", err))
		return 1
	}

	ui.Output(uuid)
	return 0
}
