package documents

import (
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp-forge/facet/internal/cmd/base"
	"github.com/hashicorp-forge/facet/pkg/store"
)

type ListCommand struct {
	*base.Command

	flagConfig  string
	flagFilters base.StringMapValue
	flagSearch  string
	flagOrderBy base.StringSliceValue
	flagLimit   int
	flagOffset  int
	flagJSON    bool
}

func (c *ListCommand) Synopsis() string {
	return "List documents matching filters"
}

func (c *ListCommand) Help() string {
	return `Usage: facet documents list -config=<path>

  This command lists documents with their user-facing IDs. Filters
  compose with AND; a filter on an enumerated dimension matches its
  effective value, so documents that omit the dimension match a filter
  equal to the default.` +
		c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("list", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to the facet config file",
	)
	f.Var(
		&c.flagFilters, "filter",
		"Dimension filter as name=value. May be repeated.",
	)
	f.StringVar(
		&c.flagSearch, "search", "",
		"Case-insensitive substring match over title and body.",
	)
	f.Var(
		&c.flagOrderBy, "order-by",
		"Sort field, one of title, created_at, updated_at. Append :desc\nfor descending. May be repeated.",
	)
	f.IntVar(
		&c.flagLimit, "limit", -1, "Maximum number of results.",
	)
	f.IntVar(
		&c.flagOffset, "offset", 0, "Number of results to skip.",
	)
	f.BoolVar(
		&c.flagJSON, "json", false, "Print the documents as JSON.",
	)

	return f
}

func (c *ListCommand) Run(args []string) int {
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

	opts := store.ListOptions{
		Filters: c.flagFilters,
		Search:  c.flagSearch,
	}
	for _, spec := range c.flagOrderBy {
		field, dir, _ := strings.Cut(spec, ":")
		if dir != "" && dir != "asc" && dir != "desc" {
			ui.Error(fmt.Sprintf("invalid order direction %q", dir))
			return 1
		}
		opts.OrderBy = append(opts.OrderBy, store.OrderClause{
			Field:      field,
			Descending: dir == "desc",
		})
	}
	if c.flagLimit >= 0 {
		opts.Limit = &c.flagLimit
	}
	if c.flagOffset > 0 {
		opts.Offset = &c.flagOffset
	}

	s, err := openStore(c.Log, c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error opening store: %v", err))
		return 1
	}
	defer s.Close()

	docs, err := s.List(opts)
	if err != nil {
		ui.Error(fmt.Sprintf("error listing documents: %v", err))
		return 1
	}

	if c.flagJSON {
		if docs == nil {
			docs = []store.Document{}
		}
		if err := printJSON(ui, docs); err != nil {
			ui.Error(fmt.Sprintf("error encoding documents: %v", err))
			return 1
		}
		return 0
	}

	if len(docs) == 0 {
		ui.Info("No documents found")
		return 0
	}
	for _, doc := range docs {
		ui.Output(fmt.Sprintf("%-8s %s", doc.UserFacingID, doc.Title))
	}
	return 0
}
