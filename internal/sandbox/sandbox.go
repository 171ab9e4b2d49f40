// Package sandbox answers "what would happen if" questions about conditions
// without touching sessions or the catalog.
package sandbox

import (
	"strings"

	"github.com/nhle/packlist/internal/checklist"
	"github.com/nhle/packlist/internal/engine"
	"github.com/nhle/packlist/internal/model"
)

// Delta lists the item names a condition toggle would add or remove.
type Delta struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// Preview computes the delta of toggling conditionID on s.
//
// Added holds AddItem targets, admitted by the rule's archetype filter and
// aimed at a section the session has, whose name appears nowhere in the
// session yet. Removed holds unpacked items that
// would lose their last lineage entry, and be deleted by their removal policy,
// if the condition were deactivated.
func Preview(rs engine.RuleSource, s *model.Session, conditionID string) (Delta, error) {
	if _, err := rs.Condition(conditionID); err != nil {
		return Delta{}, err
	}
	rules := rs.RulesForCondition(conditionID)

	delta := Delta{Added: []string{}, Removed: []string{}}
	seen := newNameSet()
	for _, r := range rules {
		if r.Action != model.ActionAddItem || !r.AppliesTo(s.Archetype) {
			continue
		}
		if checklist.SectionByDesignation(s, r.TargetSection) == nil {
			continue
		}
		if checklist.HasItemNamed(s, r.TargetItem) || !seen.add(r.TargetItem) {
			continue
		}
		delta.Added = append(delta.Added, r.TargetItem)
	}

	retracted := engine.RuleSet(rules)
	for _, sec := range s.Sections {
		for _, item := range sec.Items {
			if engine.WouldRemove(item, retracted) {
				delta.Removed = append(delta.Removed, item.Name)
			}
		}
	}
	return delta, nil
}

// Union returns the AddItem targets of every condition in conditionIDs, in
// condition then priority order, deduplicated case-insensitively with the
// first spelling kept. Unknown conditions contribute nothing.
func Union(rs engine.RuleSource, archetype model.Archetype, conditionIDs []string) []string {
	names := []string{}
	seen := newNameSet()
	for _, id := range conditionIDs {
		for _, r := range rs.RulesForCondition(id) {
			if r.Action != model.ActionAddItem {
				continue
			}
			if archetype != "" && !r.AppliesTo(archetype) {
				continue
			}
			if seen.add(r.TargetItem) {
				names = append(names, r.TargetItem)
			}
		}
	}
	return names
}

type nameSet map[string]struct{}

func newNameSet() nameSet { return nameSet{} }

// add reports whether name was not yet present.
func (n nameSet) add(name string) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := n[key]; ok {
		return false
	}
	n[key] = struct{}{}
	return true
}
