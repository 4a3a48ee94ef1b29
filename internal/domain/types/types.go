// Package types contains report-facing types shared by adapters.
package types

import "github.com/okian/quiver/internal/domain/model"

// MemberEntry is one archer on a reported team.
type MemberEntry struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// TeamEntry is one reported team. Team numbers start at 1.
type TeamEntry struct {
	Team    int           `json:"team"`
	Members []MemberEntry `json:"members"`
	Total   int           `json:"total"`
}

// Report is the full output of a search.
type Report struct {
	RunID        string      `json:"run_id"`
	Balance      int         `json:"balance"`
	Trials       int64       `json:"trials"`
	Improvements int         `json:"improvements"`
	Teams        []TeamEntry `json:"teams"`
}

// TeamsFromAssignment flattens an assignment into report entries, one per
// slot, members in category order.
func TeamsFromAssignment(a model.Assignment) []TeamEntry {
	teams := make([]TeamEntry, len(a))
	for i, slot := range a {
		members := make([]MemberEntry, 0, model.NumCategories)
		for _, c := range model.Categories() {
			m := slot.Member(c)
			members = append(members, MemberEntry{Category: c.String(), Name: m.Name, Score: m.Score})
		}
		teams[i] = TeamEntry{Team: i + 1, Members: members, Total: slot.Total()}
	}
	return teams
}
