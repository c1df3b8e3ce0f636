package options

import (
	"errors"

	"github.com/spf13/cobra"
)

// EntryOptions
type EntryOptions struct {
	Meta    string
	Stacked bool
	Inline  bool
}

func AddEntryArgs(cmd *cobra.Command, o *EntryOptions) {
	cmd.Flags().StringVarP(&o.Meta, "meta", "m", "",
		`Meta line of the entry, example: --meta="2019 – 2021".`)
	cmd.Flags().BoolVar(&o.Stacked, "stacked", false,
		"Print the meta line below the title.")
	cmd.Flags().BoolVar(&o.Inline, "inline", false,
		"Print the meta line next to the title.")
}

// MetaPtr returns the meta flag when it was given.
func (o *EntryOptions) MetaPtr(cmd *cobra.Command) *string {
	if !cmd.Flags().Changed("meta") {
		return nil
	}
	return &o.Meta
}

// Layout returns the requested layout, nil when neither flag is set.
func (o *EntryOptions) Layout() (*bool, error) {
	switch {
	case o.Stacked && o.Inline:
		return nil, errors.New("--stacked and --inline are exclusive")
	case o.Stacked:
		v := true
		return &v, nil
	case o.Inline:
		v := false
		return &v, nil
	}
	return nil, nil
}
