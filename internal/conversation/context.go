// Package conversation holds per-session rolling history and resolves
// follow-up queries against it.
package conversation

import (
	"strings"

	"github.com/Bellilty/real-estate-multi-agent/internal/model"
)

// Context is the rolling history of one conversation session. It is
// thread-unsafe by design: one instance per session, never shared across
// concurrent runs (sessions serialize their runs).
type Context struct {
	window int
	turns  []model.ConversationTurn
}

// NewContext creates a Context bounded to the given number of turns.
func NewContext(window int) *Context {
	if window <= 0 {
		window = 10
	}
	return &Context{window: window}
}

// Append adds a completed turn, evicting the oldest beyond capacity.
func (c *Context) Append(turn model.ConversationTurn) {
	c.turns = append(c.turns, turn)
	if len(c.turns) > c.window {
		c.turns = c.turns[len(c.turns)-c.window:]
	}
}

// Len returns the number of retained turns.
func (c *Context) Len() int { return len(c.turns) }

// Turns returns a copy of the retained history, oldest first.
func (c *Context) Turns() []model.ConversationTurn {
	return append([]model.ConversationTurn(nil), c.turns...)
}

// LastEntities returns the most recently resolved entities and periods, or
// empty values when there is no history.
func (c *Context) LastEntities() (model.ExtractedEntities, []model.Period) {
	if len(c.turns) == 0 {
		return model.ExtractedEntities{}, nil
	}
	last := c.turns[len(c.turns)-1]
	return last.Entities.Clone(), append([]model.Period(nil), last.Periods...)
}

// MostRecentQuery returns the last turn's original text, or "".
func (c *Context) MostRecentQuery() string {
	if len(c.turns) == 0 {
		return ""
	}
	return c.turns[len(c.turns)-1].Query
}

// LastYear extracts the year component of the most recent period, used to
// complete bare quarter/month references in follow-ups. Empty when no
// period with a year component was used.
func (c *Context) LastYear() string {
	_, periods := c.LastEntities()
	for i := len(periods) - 1; i >= 0; i-- {
		p := periods[i]
		switch p.Kind {
		case model.PeriodYear:
			return p.Value
		case model.PeriodQuarter, model.PeriodMonth:
			if idx := strings.Index(p.Value, "-"); idx > 0 {
				return p.Value[:idx]
			}
		}
	}
	return ""
}
