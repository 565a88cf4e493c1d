package documents

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/facet/internal/cmd/base"
	"github.com/hashicorp-forge/facet/pkg/store"
)

type UpdateCommand struct {
	*base.Command

	flagConfig string
	flagTitle  string
	flagBody   string
	flagDims   base.StringMapValue
}

func (c *UpdateCommand) Synopsis() string {
	return "Update a document's fields or dimensions"
}

func (c *UpdateCommand) Help() string {
	return `Usage: facet documents update -config=<path> <id>

  This command applies a partial update. Only the given flags change;
  setting a dimension to the empty string clears it, reverting an
  enumerated dimension to its default and detaching a parent reference.
  User-facing IDs may change as a result and are recomputed on the next
  read.` +
		c.Flags().Help()
}

func (c *UpdateCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("update", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to the facet config file",
	)
	f.StringVar(
		&c.flagTitle, "title", "", "New document title.",
	)
	f.StringVar(
		&c.flagBody, "body", "", "New document body.",
	)
	f.Var(
		&c.flagDims, "dim",
		"Dimension value as name=value. An empty value clears the\ndimension. May be repeated.",
	)

	return f
}

func (c *UpdateCommand) Run(args []string) int {
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

	// Distinguish flags left unset from flags set to "".
	var req store.UpdateRequest
	flags.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "title":
			req.Title = &c.flagTitle
		case "body":
			req.Body = &c.flagBody
		}
	})
	req.Dimensions = c.flagDims

	if req.Title == nil && req.Body == nil && len(req.Dimensions) == 0 {
		ui.Error("nothing to update: give at least one of -title, -body, -dim")
		return 1
	}

	s, err := openStore(c.Log, c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error opening store: %v", err))
		return 1
	}
	defer s.Close()

	if err := s.Update(locator, req); err != nil {
		ui.Error(fmt.Sprintf("error updating document: %v", err))
		return 1
	}

	doc, err := s.Get(locator)
	if err != nil {
		// The locator may have been a user-facing ID that the update
		// itself re-rendered.
		ui.Info("Updated document")
		return 0
	}

	ui.Info(fmt.Sprintf("Updated document %s (uuid %s)", doc.UserFacingID, doc.UUID))
	return 0
}
