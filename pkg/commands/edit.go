package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/resume/pkg/commands/options"
	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/session"
)

func addSection(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Add or rename sections.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <title>",
		Short: "Append a section.",
		Example: `
resume section add Education
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			return dispatch(cmd, session.Command{Op: session.CmdAddSection, Title: title},
				fmt.Sprintf("added section %q", title))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "edit <section> <title>",
		Short: "Rename a section.",
		Example: `
resume section edit 1 "Open Source"
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pathArg(args[0], document.KindSection)
			if err != nil {
				return oo.HandleError(err)
			}
			return dispatch(cmd, session.Command{Op: session.CmdEditSection, Path: p, Title: strings.Join(args[1:], " ")},
				fmt.Sprintf("renamed section %s", args[0]))
		},
	})

	topLevel.AddCommand(cmd)
}

func addEntry(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Add or edit entries.",
	}

	ao := &options.EntryOptions{}
	add := &cobra.Command{
		Use:   "add <section> <title>",
		Short: "Append an entry to a section.",
		Example: `
resume entry add 0 "Staff Engineer, Acme" --meta "2021 – Present"
resume entry add 1 "BSc Physics" --meta "2015" --stacked
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pathArg(args[0], document.KindSection)
			if err != nil {
				return oo.HandleError(err)
			}
			title := strings.Join(args[1:], " ")
			return dispatch(cmd, session.Command{
				Op:      session.CmdAddEntry,
				Path:    p,
				Title:   title,
				Meta:    &ao.Meta,
				Stacked: &ao.Stacked,
			}, fmt.Sprintf("added entry %q", title))
		},
	}
	options.AddEntryArgs(add, ao)
	cmd.AddCommand(add)

	eo := &options.EntryOptions{}
	edit := &cobra.Command{
		Use:   "edit <section/entry> <title>",
		Short: "Change the title, meta or layout of an entry.",
		Example: `
resume entry edit 0/0 "Principal Engineer, Acme"
resume entry edit 0/0 "Principal Engineer, Acme" --meta "2023 – Present" --inline
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pathArg(args[0], document.KindEntry)
			if err != nil {
				return oo.HandleError(err)
			}
			layout, err := eo.Layout()
			if err != nil {
				return oo.HandleError(err)
			}
			return dispatch(cmd, session.Command{
				Op:      session.CmdEditEntry,
				Path:    p,
				Title:   strings.Join(args[1:], " "),
				Meta:    eo.MetaPtr(cmd),
				Stacked: layout,
			}, fmt.Sprintf("updated entry %s", args[0]))
		},
	}
	options.AddEntryArgs(edit, eo)
	cmd.AddCommand(edit)

	topLevel.AddCommand(cmd)
}

func addBullet(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "bullet",
		Short: "Add or edit bullets. Text may use **bold**, *italic*, __underline__, ~~strike~~ and [links](example.com).",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <section/entry> <text>",
		Short: "Append a bullet to an entry.",
		Example: `
resume bullet add 0/0 "Cut deploy time by **60%**"
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pathArg(args[0], document.KindEntry)
			if err != nil {
				return oo.HandleError(err)
			}
			return dispatch(cmd, session.Command{Op: session.CmdAddBullet, Path: p, Text: strings.Join(args[1:], " ")},
				fmt.Sprintf("added bullet to %s", args[0]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "edit <section/entry/bullet> <text>",
		Short: "Replace the text of a bullet.",
		Example: `
resume bullet edit 0/0/1 "Cut build times by 45%"
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pathArg(args[0], document.KindBullet)
			if err != nil {
				return oo.HandleError(err)
			}
			return dispatch(cmd, session.Command{Op: session.CmdEditBullet, Path: p, Text: strings.Join(args[1:], " ")},
				fmt.Sprintf("updated bullet %s", args[0]))
		},
	})

	topLevel.AddCommand(cmd)
}

func addHeader(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "header",
		Short: "Edit the name and contact line.",
	}

	var contact string
	set := &cobra.Command{
		Use:   "set <name>",
		Short: "Set the name, and the contact line when --contact is given.",
		Example: `
resume header set "Ada Lovelace" --contact "ada@example.com | London"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := session.Command{Op: session.CmdEditHeader, Name: strings.Join(args, " ")}
			if cmd.Flags().Changed("contact") {
				c.Contact = &contact
			}
			return dispatch(cmd, c, "updated header")
		},
	}
	set.Flags().StringVarP(&contact, "contact", "c", "", "Contact line, parts separated by \" | \".")
	cmd.AddCommand(set)

	topLevel.AddCommand(cmd)
}

func addContact(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Edit the contact line.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <part>",
		Short: "Append a part to the contact line.",
		Example: `
resume contact add "[github.com/ada](github.com/ada)"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, session.Command{Op: session.CmdAppendContact, Text: strings.Join(args, " ")}, "updated contact")
		},
	})

	topLevel.AddCommand(cmd)
}

func addToggle(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "toggle <path>",
		Short: "Hide or show a section, entry or bullet. Hidden items stay in the document but are left out of exports.",
		Example: `
resume toggle 2
resume toggle 0/0/1
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, k, err := document.ParsePath(args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			return dispatch(cmd, session.Command{Op: session.CmdToggle, Kind: k.String(), Path: p},
				fmt.Sprintf("toggled %s %s", k, args[0]))
		},
	}

	topLevel.AddCommand(cmd)
}

func addMove(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "move <path> up|down",
		Short: "Move an item one place within its parent. Moving past either end does nothing.",
		Example: `
resume move 1 up
resume move 0/0/2 down
`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, k, err := document.ParsePath(args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			dir, err := parseDirection(args[1])
			if err != nil {
				return oo.HandleError(err)
			}
			return dispatch(cmd, session.Command{Op: session.CmdMove, Kind: k.String(), Path: p, Direction: dir},
				fmt.Sprintf("moved %s %s %s", k, args[0], args[1]))
		},
	}

	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "delete <path>",
		Aliases: []string{"rm"},
		Short:   "Delete a section, entry or bullet.",
		Example: `
resume delete 0/1
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, k, err := document.ParsePath(args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			return dispatch(cmd, session.Command{Op: session.CmdDelete, Kind: k.String(), Path: p},
				fmt.Sprintf("deleted %s %s", k, args[0]))
		},
	}

	topLevel.AddCommand(cmd)
}

func addSet(topLevel *cobra.Command) {
	var valid []string
	for _, d := range document.AllDensities() {
		valid = append(valid, d.String())
	}
	for _, f := range document.AllFonts() {
		valid = append(valid, f.String())
	}

	cmd := &cobra.Command{
		Use:   "set density|font <value>",
		Short: "Change a layout setting.",
		Long:  options.Wrap80("Change a layout setting. Values: " + strings.Join(valid, ", ") + "."),
		Example: `
resume set density compact
resume set font serif
`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"density", "font"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, session.Command{Op: session.CmdSet, Key: args[0], Value: args[1]},
				fmt.Sprintf("set %s to %s", args[0], args[1]))
		},
	}

	topLevel.AddCommand(cmd)
}

func addReset(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace the document with the starter resume.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, session.Command{Op: session.CmdReset}, "reset document")
		},
	}

	topLevel.AddCommand(cmd)
}

// pathArg parses raw and checks it addresses an item of kind k.
func pathArg(raw string, k document.Kind) (document.Path, error) {
	p, got, err := document.ParsePath(raw)
	if err != nil {
		return document.Path{}, err
	}
	if got != k {
		return document.Path{}, &document.ValidationError{Field: "path", Reason: fmt.Sprintf("must address a %s, got %q", k, raw)}
	}
	return p, nil
}

func parseDirection(raw string) (int, error) {
	switch strings.ToLower(raw) {
	case "up":
		return -1, nil
	case "down":
		return 1, nil
	}
	if n, err := strconv.Atoi(raw); err == nil && (n == 1 || n == -1) {
		return n, nil
	}
	return 0, &document.ValidationError{Field: "direction", Reason: fmt.Sprintf("must be up or down: %q", raw)}
}
