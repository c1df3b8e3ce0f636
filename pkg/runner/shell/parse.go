package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/anmitsu/go-shlex"

	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/session"
)

// Split tokenizes a shell line with POSIX quoting.
func Split(line string) ([]string, error) {
	return shlex.Split(line, true)
}

// Parse turns tokenized words into a session command. The first word is the
// command name, see session.Commands for the argument order of each.
func Parse(words []string) (session.Command, error) {
	if len(words) == 0 {
		return session.Command{}, &document.ValidationError{Field: "command"}
	}
	op := strings.ToLower(words[0])
	args, flags := splitFlags(words[1:])
	c := session.Command{Op: op}

	var err error
	switch op {
	case session.CmdAddSection:
		c.Title, err = join(args, 0, "title")
	case session.CmdAddEntry:
		if c.Path.Section, err = index(args, 0, "section"); err != nil {
			break
		}
		if c.Title, err = word(args, 1, "title"); err != nil {
			break
		}
		c.Meta = optional(args, 2)
		c.Stacked = stacked(flags)
	case session.CmdAddBullet:
		if c.Path.Section, err = index(args, 0, "section"); err != nil {
			break
		}
		if c.Path.Entry, err = index(args, 1, "entry"); err != nil {
			break
		}
		c.Text, err = join(args, 2, "text")
	case session.CmdEditHeader:
		if c.Name, err = word(args, 0, "name"); err != nil {
			break
		}
		c.Contact = optional(args, 1)
	case session.CmdAppendContact:
		c.Text, err = join(args, 0, "part")
	case session.CmdEditSection:
		if c.Path.Section, err = index(args, 0, "section"); err != nil {
			break
		}
		c.Title, err = join(args, 1, "title")
	case session.CmdEditEntry:
		if c.Path.Section, err = index(args, 0, "section"); err != nil {
			break
		}
		if c.Path.Entry, err = index(args, 1, "entry"); err != nil {
			break
		}
		if c.Title, err = word(args, 2, "title"); err != nil {
			break
		}
		c.Meta = optional(args, 3)
		c.Stacked = stacked(flags)
	case session.CmdEditBullet:
		if c.Path.Section, err = index(args, 0, "section"); err != nil {
			break
		}
		if c.Path.Entry, err = index(args, 1, "entry"); err != nil {
			break
		}
		if c.Path.Bullet, err = index(args, 2, "bullet"); err != nil {
			break
		}
		c.Text, err = join(args, 3, "text")
	case session.CmdToggle, session.CmdDelete, session.CmdMove:
		rest := args
		if len(rest) > 0 {
			if k, kerr := document.ParseKind(rest[0]); kerr == nil {
				c.Kind = k.String()
				rest = rest[1:]
			}
		}
		if len(rest) == 0 {
			err = &document.ValidationError{Field: "path"}
			break
		}
		var k document.Kind
		if c.Path, k, err = document.ParsePath(rest[0]); err != nil {
			break
		}
		if c.Kind == "" {
			c.Kind = k.String()
		}
		if op == session.CmdMove {
			c.Direction, err = direction(rest, 1)
		}
	case session.CmdSet:
		if c.Key, err = word(args, 0, "setting"); err != nil {
			break
		}
		c.Value, err = word(args, 1, "value")
	case session.CmdUndo, session.CmdReset:
	default:
		err = &document.ValidationError{Field: "command", Reason: fmt.Sprintf("is unknown: %q", words[0])}
	}
	return c, err
}

func splitFlags(words []string) (args []string, flags map[string]bool) {
	flags = map[string]bool{}
	for _, w := range words {
		if strings.HasPrefix(w, "--") && len(w) > 2 {
			flags[strings.TrimPrefix(w, "--")] = true
			continue
		}
		args = append(args, w)
	}
	return args, flags
}

func stacked(flags map[string]bool) *bool {
	switch {
	case flags["stacked"]:
		v := true
		return &v
	case flags["inline"]:
		v := false
		return &v
	}
	return nil
}

func word(args []string, i int, field string) (string, error) {
	if i >= len(args) {
		return "", &document.ValidationError{Field: field}
	}
	return args[i], nil
}

// join reads the rest of the line so unquoted text works.
func join(args []string, i int, field string) (string, error) {
	if i >= len(args) {
		return "", &document.ValidationError{Field: field}
	}
	return strings.Join(args[i:], " "), nil
}

func optional(args []string, i int) *string {
	if i >= len(args) {
		return nil
	}
	v := args[i]
	return &v
}

func index(args []string, i int, field string) (int, error) {
	raw, err := word(args, i, field)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &document.ValidationError{Field: field, Reason: fmt.Sprintf("is not an index: %q", raw)}
	}
	return n, nil
}

func direction(args []string, i int) (int, error) {
	raw, err := word(args, i, "direction")
	if err != nil {
		return 0, err
	}
	switch strings.ToLower(raw) {
	case "up", "-1":
		return -1, nil
	case "down", "1", "+1":
		return 1, nil
	}
	return 0, &document.ValidationError{Field: "direction", Reason: fmt.Sprintf("must be up or down: %q", raw)}
}
