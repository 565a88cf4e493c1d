package documents

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/facet/internal/cmd/base"
	"github.com/hashicorp-forge/facet/pkg/store"
)

type AddCommand struct {
	*base.Command

	flagConfig string
	flagTitle  string
	flagBody   string
	flagDims   base.StringMapValue
}

func (c *AddCommand) Synopsis() string {
	return "Add a document to the store"
}

func (c *AddCommand) Help() string {
	return `Usage: facet documents add -config=<path> -title=<title>

  This command adds a document and prints its UUID and user-facing ID.
  Dimension values outside the configured set are rejected. A parent
  reference may be given as a UUID or a user-facing ID.` +
		c.Flags().Help()
}

func (c *AddCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("add", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to the facet config file",
	)
	f.StringVar(
		&c.flagTitle, "title", "", "(Required) Document title.",
	)
	f.StringVar(
		&c.flagBody, "body", "", "Document body.",
	)
	f.Var(
		&c.flagDims, "dim",
		"Dimension value as name=value. May be repeated.",
	)

	return f
}

func (c *AddCommand) Run(args []string) int {
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
	if c.flagTitle == "" {
		ui.Error("title flag is required")
		return 1
	}

	s, err := openStore(c.Log, c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error opening store: %v", err))
		return 1
	}
	defer s.Close()

	uuid, err := s.Add(c.flagTitle, c.flagDims)
	if err != nil {
		ui.Error(fmt.Sprintf("error adding document: %v", err))
		return 1
	}

	if c.flagBody != "" {
		if err := s.Update(uuid, store.UpdateRequest{Body: &c.flagBody}); err != nil {
			ui.Error(fmt.Sprintf("error setting document body: %v", err))
			return 1
		}
	}

	doc, err := s.Get(uuid)
	if err != nil {
		ui.Error(fmt.Sprintf("error reading back document: %v", err))
		return 1
	}

	ui.Info(fmt.Sprintf("Created document %s (uuid %s)", doc.UserFacingID, doc.UUID))
	return 0
}
