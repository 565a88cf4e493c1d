// Package documents implements the CLI commands for working with
// documents in a facet store.
package documents

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/facet/internal/cmd/base"
	"github.com/hashicorp-forge/facet/internal/config"
	"github.com/hashicorp-forge/facet/pkg/store"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Create, inspect, and modify documents"
}

func (c *Command) Help() string {
	return `Usage: facet documents <subcommand> [options] [args]

  This command groups subcommands for working with documents.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

// openStore loads the config file and opens the store it describes.
func openStore(log hclog.Logger, configPath string) (*store.Store, error) {
	cfg, err := config.NewConfig(afero.NewOsFs(), configPath)
	if err != nil {
		return nil, err
	}

	if log != nil {
		log.SetLevel(hclog.LevelFromString(cfg.LogLevel))
	}

	return store.Open(store.Options{
		Database:   cfg.DatabaseConfig(),
		Dimensions: cfg.DimensionConfig(),
		Logger:     log,
	})
}

// printDocument writes one document in the human-readable form shared by
// the get and list subcommands.
func printDocument(ui cli.Ui, doc store.Document) {
	ui.Output(fmt.Sprintf("%-8s %s", doc.UserFacingID, doc.Title))
	ui.Output(fmt.Sprintf("  uuid:       %s", doc.UUID))
	if len(doc.Dimensions) > 0 {
		names := make([]string, 0, len(doc.Dimensions))
		for name := range doc.Dimensions {
			names = append(names, name)
		}
		sort.Strings(names)

		pairs := make([]string, len(names))
		for i, name := range names {
			pairs[i] = name + "=" + doc.Dimensions[name]
		}
		ui.Output(fmt.Sprintf("  dimensions: %s", strings.Join(pairs, " ")))
	}
	if doc.Body != "" {
		ui.Output(fmt.Sprintf("  body:       %s", doc.Body))
	}
}

// printJSON writes v as indented JSON.
func printJSON(ui cli.Ui, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	ui.Output(string(b))
	return nil
}
