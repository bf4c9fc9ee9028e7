package model

import (
	"errors"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrGroupNotFound = errors.New("group not found")
	ErrGroupExists   = errors.New("group with this name already exists")
)

// Group is a named collection of users used for ticket assignment and mail routing.
type Group struct {
	ID         string   `json:"_id"`
	Name       string   `json:"name"`
	Members    []string `json:"members"`
	SendMailTo []string `json:"sendMailTo"`
}

// Normalize trims user references, drops blanks and duplicates, and guarantees
// that Members and SendMailTo are never nil.
func (g *Group) Normalize() {
	g.Name = strings.TrimSpace(g.Name)
	g.Members = UserRefSet(g.Members)
	g.SendMailTo = UserRefSet(g.SendMailTo)
}

// HasMember reports whether userID is one of the group members.
func (g *Group) HasMember(userID string) bool {
	return lo.Contains(g.Members, userID)
}

// Clone returns a deep copy of the group.
func (g *Group) Clone() *Group {
	clone := &Group{
		ID:         g.ID,
		Name:       g.Name,
		Members:    make([]string, len(g.Members)),
		SendMailTo: make([]string, len(g.SendMailTo)),
	}
	copy(clone.Members, g.Members)
	copy(clone.SendMailTo, g.SendMailTo)

	return clone
}

// UserRefSet returns refs as a set, preserving first occurrence order.
// The result is never nil.
func UserRefSet(refs []string) []string {
	trimmed := lo.Compact(lo.Map(refs, func(ref string, _ int) string {
		return strings.TrimSpace(ref)
	}))

	return lo.Uniq(trimmed)
}
