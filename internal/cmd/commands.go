package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/facet/internal/cmd/base"
	"github.com/hashicorp-forge/facet/internal/cmd/commands/documents"
)

// Commands is the mapping of all available CLI commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	baseCommand := &base.Command{
		Log: log,
		UI:  ui,
	}

	Commands = map[string]cli.CommandFactory{
		"documents": func() (cli.Command, error) {
			return &documents.Command{Command: baseCommand}, nil
		},
		"documents add": func() (cli.Command, error) {
			return &documents.AddCommand{Command: baseCommand}, nil
		},
		"documents get": func() (cli.Command, error) {
			return &documents.GetCommand{Command: baseCommand}, nil
		},
		"documents list": func() (cli.Command, error) {
			return &documents.ListCommand{Command: baseCommand}, nil
		},
		"documents update": func() (cli.Command, error) {
			return &documents.UpdateCommand{Command: baseCommand}, nil
		},
		"documents delete": func() (cli.Command, error) {
			return &documents.DeleteCommand{Command: baseCommand}, nil
		},
		"documents resolve": func() (cli.Command, error) {
			return &documents.ResolveCommand{Command: baseCommand}, nil
		},
	}
}
