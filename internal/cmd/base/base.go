// Package base carries the pieces shared by every CLI command: the
// logger, the UI, and a flag set that can render its own help text.
package base

import (
	"bytes"
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
)

// Command is embedded in each CLI command struct.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui
}

// FlagSet wraps a standard flag set with help rendering.
type FlagSet struct {
	*flag.FlagSet
}

func NewFlagSet(f *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: f}
}

// Help returns the flag descriptions as an indented block suitable for
// appending to a command's help text.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	buf.WriteString("\n\nOptions:\n")

	f.VisitAll(func(fl *flag.Flag) {
		fmt.Fprintf(&buf, "\n  -%s\n", fl.Name)
		usage := strings.ReplaceAll(fl.Usage, "\n", "\n      ")
		fmt.Fprintf(&buf, "      %s", usage)
		if fl.DefValue != "" && fl.DefValue != "false" {
			fmt.Fprintf(&buf, " (default: %s)", fl.DefValue)
		}
		buf.WriteString("\n")
	})

	return strings.TrimRight(buf.String(), "\n")
}

// StringMapValue collects repeated "key=value" flags into a map.
type StringMapValue map[string]string

func (v *StringMapValue) String() string {
	if v == nil || len(*v) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(*v))
	for k, val := range *v {
		pairs = append(pairs, k+"="+val)
	}
	return strings.Join(pairs, ",")
}

func (v *StringMapValue) Set(s string) error {
	key, value, found := strings.Cut(s, "=")
	if !found || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	if *v == nil {
		*v = make(map[string]string)
	}
	(*v)[key] = value
	return nil
}

// StringSliceValue collects repeated flags into an ordered slice.
type StringSliceValue []string

func (v *StringSliceValue) String() string {
	return strings.Join(*v, ",")
}

func (v *StringSliceValue) Set(s string) error {
	*v = append(*v, s)
	return nil
}
