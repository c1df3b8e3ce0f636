// Package edit applies structural changes to a document. Every change is an
// Action value, and applying one returns the Action that reverts it.
package edit

import (
	"fmt"

	"tableflip.dev/resume/pkg/document"
)

// Op names what an Action does.
type Op string

const (
	OpAppend      Op = "append"
	OpRemoveLast  Op = "remove-last"
	OpInsert      Op = "insert"
	OpRemove      Op = "remove"
	OpSetHeader   Op = "set-header"
	OpSetSection  Op = "set-section"
	OpSetEntry    Op = "set-entry"
	OpSetBullet   Op = "set-bullet"
	OpSetSettings Op = "set-settings"
	OpToggle      Op = "toggle-hidden"
	OpMove        Op = "move"
	OpReplace     Op = "replace"
)

// Action is a single structural change. Only the fields its Op reads are set.
//
//   - append / remove-last: Kind, Path addresses the parent; append carries the item.
//   - insert / remove: Kind, Path addresses the item; insert carries the item.
//   - set-*: Path addresses the item; the payload holds the new field values.
//   - toggle-hidden: Kind, Path.
//   - move: Kind, Path, Direction (-1, +1, or 0 for a recorded no-op).
//   - replace: Document.
type Action struct {
	Op        Op                 `json:"op"`
	Kind      document.Kind      `json:"kind,omitempty"`
	Path      document.Path      `json:"path"`
	Direction int                `json:"direction,omitempty"`
	Header    *document.Header   `json:"header,omitempty"`
	Section   *document.Section  `json:"section,omitempty"`
	Entry     *document.Entry    `json:"entry,omitempty"`
	Bullet    *document.Bullet   `json:"bullet,omitempty"`
	Settings  *document.Settings `json:"settings,omitempty"`
	Document  *document.Document `json:"document,omitempty"`
}

// IsNoop reports whether applying the action leaves the document unchanged.
func (a Action) IsNoop() bool {
	return a.Op == OpMove && a.Direction == 0
}

func (a Action) String() string {
	switch a.Op {
	case OpAppend, OpRemoveLast:
		return fmt.Sprintf("%s %s under %s", a.Op, a.Kind, parentOf(a.Kind, a.Path))
	case OpInsert, OpRemove, OpToggle:
		return fmt.Sprintf("%s %s %s", a.Op, a.Kind, a.Path.Format(a.Kind))
	case OpMove:
		return fmt.Sprintf("%s %s %s by %+d", a.Op, a.Kind, a.Path.Format(a.Kind), a.Direction)
	case OpSetSection:
		return fmt.Sprintf("%s %s", a.Op, a.Path.Format(document.KindSection))
	case OpSetEntry:
		return fmt.Sprintf("%s %s", a.Op, a.Path.Format(document.KindEntry))
	case OpSetBullet:
		return fmt.Sprintf("%s %s", a.Op, a.Path.Format(document.KindBullet))
	}
	return string(a.Op)
}

func parentOf(k document.Kind, p document.Path) string {
	switch k {
	case document.KindEntry:
		return "section " + p.Format(document.KindSection)
	case document.KindBullet:
		return "entry " + p.Format(document.KindEntry)
	}
	return "document"
}
