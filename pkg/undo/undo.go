// Package undo keeps the inverse actions of a session in order.
package undo

import (
	"encoding/json"
	"errors"

	"tableflip.dev/resume/pkg/edit"
)

// ErrEmpty is returned by Pop when there is nothing to undo.
var ErrEmpty = errors.New("undo: nothing to undo")

// Log is a LIFO stack of inverse actions. It grows without bound and is only
// cleared by Reset. The zero value is ready to use.
type Log struct {
	actions []edit.Action
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// Push records an inverse action. No-op inverses are still recorded so that
// undo count matches the number of successful mutations.
func (l *Log) Push(a edit.Action) {
	l.actions = append(l.actions, a)
}

// Pop removes and returns the most recent inverse action.
func (l *Log) Pop() (edit.Action, error) {
	if len(l.actions) == 0 {
		return edit.Action{}, ErrEmpty
	}
	last := len(l.actions) - 1
	a := l.actions[last]
	l.actions[last] = edit.Action{}
	l.actions = l.actions[:last]
	return a, nil
}

// Peek returns the most recent inverse action without removing it.
func (l *Log) Peek() (edit.Action, error) {
	if len(l.actions) == 0 {
		return edit.Action{}, ErrEmpty
	}
	return l.actions[len(l.actions)-1], nil
}

// Len returns the number of recorded actions.
func (l *Log) Len() int {
	return len(l.actions)
}

// Reset drops every recorded action.
func (l *Log) Reset() {
	l.actions = nil
}

// Actions returns a copy of the recorded actions, oldest first.
func (l *Log) Actions() []edit.Action {
	return append([]edit.Action(nil), l.actions...)
}

func (l *Log) MarshalJSON() ([]byte, error) {
	if l.actions == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.actions)
}

func (l *Log) UnmarshalJSON(data []byte) error {
	var actions []edit.Action
	if err := json.Unmarshal(data, &actions); err != nil {
		return err
	}
	l.actions = actions
	return nil
}
