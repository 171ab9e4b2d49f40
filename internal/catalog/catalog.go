// Package catalog stores conditions and the rules that reference them.
package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/packlist/internal/apperrors"
	"github.com/nhle/packlist/internal/model"
)

// Catalog is the in-memory condition and rule store. It is not safe for
// concurrent mutation; the planner owns the only instance.
type Catalog struct {
	conditions []model.Condition
	rules      []model.Rule
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Load replaces the catalog contents and recounts every condition's rules.
func (c *Catalog) Load(conditions []model.Condition, rules []model.Rule) {
	c.conditions = slices.Clone(conditions)
	c.rules = make([]model.Rule, len(rules))
	for i, r := range rules {
		r.Archetypes = slices.Clone(r.Archetypes)
		c.rules[i] = r
	}
	for i := range c.conditions {
		c.conditions[i].RuleCount = c.countRules(c.conditions[i].ID)
	}
}

// AddCondition appends a condition. Duplicate names are allowed.
func (c *Catalog) AddCondition(cond model.Condition) (model.Condition, error) {
	cond.Name = strings.TrimSpace(cond.Name)
	if cond.Name == "" {
		return model.Condition{}, fmt.Errorf("condition name must not be empty: %w", apperrors.ErrInvalidInput)
	}
	if cond.ID == "" {
		cond.ID = uuid.New().String()
	}
	if c.indexOfCondition(cond.ID) >= 0 {
		return model.Condition{}, fmt.Errorf("condition %s already exists: %w", cond.ID, apperrors.ErrInvalidInput)
	}
	cond.RuleCount = c.countRules(cond.ID)
	c.conditions = append(c.conditions, cond)
	return cond, nil
}

// DeleteCondition removes a user-created condition and every rule that
// references it. Effects already applied to sessions are left in place.
func (c *Catalog) DeleteCondition(id string) error {
	i := c.indexOfCondition(id)
	if i < 0 {
		return fmt.Errorf("condition %s: %w", id, apperrors.ErrNotFound)
	}
	if c.conditions[i].BuiltIn {
		return fmt.Errorf("condition %s is built-in: %w", id, apperrors.ErrInvalidInput)
	}
	c.conditions = slices.Delete(c.conditions, i, i+1)
	c.rules = slices.DeleteFunc(c.rules, func(r model.Rule) bool {
		return r.ConditionID == id
	})
	return nil
}

// Condition returns the condition with the given id.
func (c *Catalog) Condition(id string) (model.Condition, error) {
	i := c.indexOfCondition(id)
	if i < 0 {
		return model.Condition{}, fmt.Errorf("condition %s: %w", id, apperrors.ErrNotFound)
	}
	return c.conditions[i], nil
}

// Conditions returns a copy of every condition in insertion order.
func (c *Catalog) Conditions() []model.Condition {
	return slices.Clone(c.conditions)
}

// AddRule validates and appends a rule, then refreshes its condition's rule count.
func (c *Catalog) AddRule(rule model.Rule) (model.Rule, error) {
	ci := c.indexOfCondition(rule.ConditionID)
	if ci < 0 {
		return model.Rule{}, fmt.Errorf("condition %s: %w", rule.ConditionID, apperrors.ErrNotFound)
	}
	rule, err := normalizeRule(rule)
	if err != nil {
		return model.Rule{}, err
	}
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	if c.indexOfRule(rule.ID) >= 0 {
		return model.Rule{}, fmt.Errorf("rule %s already exists: %w", rule.ID, apperrors.ErrInvalidInput)
	}
	c.rules = append(c.rules, rule)
	c.conditions[ci].RuleCount = c.countRules(rule.ConditionID)
	return rule, nil
}

// DeleteRule removes a rule and refreshes its condition's rule count.
func (c *Catalog) DeleteRule(id string) error {
	i := c.indexOfRule(id)
	if i < 0 {
		return fmt.Errorf("rule %s: %w", id, apperrors.ErrNotFound)
	}
	conditionID := c.rules[i].ConditionID
	c.rules = slices.Delete(c.rules, i, i+1)
	if ci := c.indexOfCondition(conditionID); ci >= 0 {
		c.conditions[ci].RuleCount = c.countRules(conditionID)
	}
	return nil
}

// Rule returns the rule with the given id.
func (c *Catalog) Rule(id string) (model.Rule, error) {
	i := c.indexOfRule(id)
	if i < 0 {
		return model.Rule{}, fmt.Errorf("rule %s: %w", id, apperrors.ErrNotFound)
	}
	return c.rules[i], nil
}

// Rules returns a copy of every rule in insertion order.
func (c *Catalog) Rules() []model.Rule {
	return slices.Clone(c.rules)
}

// RulesForCondition returns the condition's rules ordered by priority,
// highest first. Equal priorities keep insertion order.
func (c *Catalog) RulesForCondition(conditionID string) []model.Rule {
	var out []model.Rule
	for _, r := range c.rules {
		if r.ConditionID == conditionID {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Rule) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	return out
}

func normalizeRule(r model.Rule) (model.Rule, error) {
	r.TargetItem = strings.TrimSpace(r.TargetItem)
	if r.TargetItem == "" {
		return r, fmt.Errorf("rule target item must not be empty: %w", apperrors.ErrInvalidInput)
	}
	if !r.Action.Valid() {
		return r, fmt.Errorf("unknown rule action %q: %w", r.Action, apperrors.ErrInvalidInput)
	}
	if !r.TargetSection.Valid() {
		return r, fmt.Errorf("unknown target section %q: %w", r.TargetSection, apperrors.ErrInvalidInput)
	}
	if r.RemovalPolicy == "" {
		r.RemovalPolicy = model.RemoveIfNotPacked
	}
	if !r.RemovalPolicy.Valid() {
		return r, fmt.Errorf("unknown removal policy %q: %w", r.RemovalPolicy, apperrors.ErrInvalidInput)
	}
	if r.Priority < model.PriorityMin || r.Priority > model.PriorityMax {
		r.Priority = model.PriorityDefault
	}
	for _, a := range r.Archetypes {
		if !a.Valid() {
			return r, fmt.Errorf("unknown archetype %q: %w", a, apperrors.ErrInvalidInput)
		}
	}
	r.Reason = strings.TrimSpace(r.Reason)
	r.Archetypes = slices.Clone(r.Archetypes)
	return r, nil
}

func (c *Catalog) countRules(conditionID string) int {
	n := 0
	for _, r := range c.rules {
		if r.ConditionID == conditionID {
			n++
		}
	}
	return n
}

func (c *Catalog) indexOfCondition(id string) int {
	return slices.IndexFunc(c.conditions, func(cond model.Condition) bool {
		return cond.ID == id
	})
}

func (c *Catalog) indexOfRule(id string) int {
	return slices.IndexFunc(c.rules, func(r model.Rule) bool {
		return r.ID == id
	})
}
