// Package engine applies and retracts a condition's rules against a session,
// recording on every touched item which rules touched it (its lineage) so a
// retraction can undo exactly what the condition contributed.
package engine

import (
	"errors"
	"slices"
	"strings"

	"github.com/nhle/packlist/internal/apperrors"
	"github.com/nhle/packlist/internal/checklist"
	"github.com/nhle/packlist/internal/model"
)

// noteSeparator joins appended notes.
const noteSeparator = "; "

// RuleSource is the read side of the condition and rule catalog.
type RuleSource interface {
	Condition(id string) (model.Condition, error)
	RulesForCondition(conditionID string) []model.Rule
}

// Report summarises the effect of one Apply or Retract pass.
type Report struct {
	ConditionID string
	Added       []string // names of items created
	Touched     []string // names of existing items whose lineage, flag or note changed
	Removed     []string // names of items deleted
	Skipped     int      // rules skipped by archetype filter or missing target
}

// Engine runs Apply and Retract. It holds no session state.
type Engine struct {
	rules RuleSource
	newID func() string
}

// New returns an engine reading rules from rs. newID names injected items.
func New(rs RuleSource, newID func() string) *Engine {
	return &Engine{rules: rs, newID: newID}
}

// Apply runs every rule of conditionID against s, highest priority first,
// and marks the condition active. Applying twice changes nothing the second time.
func (e *Engine) Apply(s *model.Session, conditionID string) (Report, error) {
	cond, err := e.rules.Condition(conditionID)
	if err != nil {
		return Report{}, err
	}

	report := Report{ConditionID: conditionID}
	for _, rule := range e.rules.RulesForCondition(conditionID) {
		if !rule.AppliesTo(s.Archetype) {
			report.Skipped++
			continue
		}
		sec := checklist.SectionByDesignation(s, rule.TargetSection)
		if sec == nil {
			report.Skipped++
			continue
		}
		e.applyRule(sec, rule, cond, &report)
	}

	s.Activate(conditionID)
	return report, nil
}

func (e *Engine) applyRule(sec *model.Section, rule model.Rule, cond model.Condition, report *Report) {
	target := checklist.ItemByName(sec, rule.TargetItem)

	switch rule.Action {
	case model.ActionAddItem:
		if target == nil {
			sec.Items = append(sec.Items, model.Item{
				ID:       e.newID(),
				Name:     rule.TargetItem,
				Quantity: 1,
				Origin:   model.OriginRuleInjected,
				Lineage:  []string{rule.ID},
				Reason:   reasonFor(rule, cond),
			})
			report.Added = append(report.Added, rule.TargetItem)
			return
		}
		if appendLineage(target, rule.ID) {
			report.Touched = append(report.Touched, target.Name)
		}

	case model.ActionMakeCritical:
		if target == nil {
			return
		}
		changed := !target.Critical
		target.Critical = true
		if appendLineage(target, rule.ID) || changed {
			report.Touched = append(report.Touched, target.Name)
		}

	case model.ActionAppendNote:
		if target == nil || strings.Contains(target.Note, rule.Reason) {
			return
		}
		if target.Note == "" {
			target.Note = rule.Reason
		} else {
			target.Note += noteSeparator + rule.Reason
		}
		report.Touched = append(report.Touched, target.Name)
	}
}

// Retract withdraws conditionID from s: rule-injected items left without any
// lineage are removed according to the removal policy unless packed, and every
// surviving item loses its lineage entries for the condition's rules.
//
// A condition that was deleted from the catalog while active can still be
// retracted; it simply has no rules left to withdraw.
func (e *Engine) Retract(s *model.Session, conditionID string) (Report, error) {
	if _, err := e.rules.Condition(conditionID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) || !s.IsActive(conditionID) {
			return Report{}, err
		}
	}

	retracted := RuleSet(e.rules.RulesForCondition(conditionID))
	report := Report{ConditionID: conditionID}

	for si := range s.Sections {
		sec := &s.Sections[si]
		kept := make([]model.Item, 0, len(sec.Items))
		for _, item := range sec.Items {
			if WouldRemove(item, retracted) {
				report.Removed = append(report.Removed, item.Name)
				continue
			}
			if stripped, ok := stripLineage(item.Lineage, retracted); ok {
				item.Lineage = stripped
				report.Touched = append(report.Touched, item.Name)
			}
			kept = append(kept, item)
		}
		sec.Items = kept
	}

	s.Deactivate(conditionID)
	return report, nil
}

// RuleSet indexes rules by id.
func RuleSet(rules []model.Rule) map[string]model.Rule {
	set := make(map[string]model.Rule, len(rules))
	for _, r := range rules {
		set[r.ID] = r
	}
	return set
}

// OrphanPolicy reports whether withdrawing the retracted rules would leave a
// rule-injected item with an empty lineage, and if so which removal policy
// governs it. With several retracted rules on one item, the first one in
// lineage order decides.
func OrphanPolicy(item model.Item, retracted map[string]model.Rule) (model.RemovalPolicy, bool) {
	if item.Origin != model.OriginRuleInjected {
		return "", false
	}
	var policy model.RemovalPolicy
	found := false
	for _, id := range item.Lineage {
		r, ok := retracted[id]
		if !ok {
			return "", false
		}
		if !found {
			policy, found = r.RemovalPolicy, true
		}
	}
	return policy, found
}

// WouldRemove reports whether Retract deletes item. Packed items are never deleted.
func WouldRemove(item model.Item, retracted map[string]model.Rule) bool {
	if item.Packed {
		return false
	}
	policy, orphaned := OrphanPolicy(item, retracted)
	return orphaned && policy.Removes()
}

func appendLineage(item *model.Item, ruleID string) bool {
	if item.HasRule(ruleID) {
		return false
	}
	item.Lineage = append(item.Lineage, ruleID)
	return true
}

func stripLineage(lineage []string, retracted map[string]model.Rule) ([]string, bool) {
	hit := slices.ContainsFunc(lineage, func(id string) bool {
		_, ok := retracted[id]
		return ok
	})
	if !hit {
		return lineage, false
	}
	return slices.DeleteFunc(slices.Clone(lineage), func(id string) bool {
		_, ok := retracted[id]
		return ok
	}), true
}

func reasonFor(rule model.Rule, cond model.Condition) string {
	if rule.Reason != "" {
		return rule.Reason
	}
	return "Added by rule: " + cond.Name
}
