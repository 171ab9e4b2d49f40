package model

import "slices"

// Action is the effect a rule has on its target item.
type Action string

const (
	ActionAddItem      Action = "add_item"
	ActionMakeCritical Action = "make_critical"
	ActionAppendNote   Action = "append_note"
)

func (a Action) Valid() bool {
	switch a {
	case ActionAddItem, ActionMakeCritical, ActionAppendNote:
		return true
	}
	return false
}

// RemovalPolicy decides what happens to a rule-injected item when the last
// rule holding it is retracted.
type RemovalPolicy string

const (
	RemoveIfNotPacked RemovalPolicy = "remove_if_not_packed"
	AlwaysKeep        RemovalPolicy = "always_keep"

	// Archive currently behaves exactly like RemoveIfNotPacked.
	Archive RemovalPolicy = "archive"
)

func (p RemovalPolicy) Valid() bool {
	switch p {
	case RemoveIfNotPacked, AlwaysKeep, Archive:
		return true
	}
	return false
}

// Removes reports whether the policy deletes an unpacked orphaned item.
func (p RemovalPolicy) Removes() bool {
	return p == RemoveIfNotPacked || p == Archive
}

// Rule priority bounds (higher applies first).
const (
	PriorityMin     = 1
	PriorityDefault = 3
	PriorityMax     = 5
)

// Condition is a user-toggleable contextual trigger.
type Condition struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Icon        string `json:"icon" yaml:"icon"`
	Explanation string `json:"explanation" yaml:"explanation"`
	BuiltIn     bool   `json:"built_in" yaml:"-"`

	// RuleCount is maintained by the catalog on every rule add/delete.
	RuleCount int `json:"rule_count" yaml:"-"`
}

// Rule links a condition to an effect on one item of one section.
type Rule struct {
	ID            string        `json:"id" yaml:"id"`
	ConditionID   string        `json:"condition_id" yaml:"-"`
	Action        Action        `json:"action" yaml:"action"`
	TargetItem    string        `json:"target_item" yaml:"target_item"`
	TargetSection Designation   `json:"target_section" yaml:"target_section"`
	RemovalPolicy RemovalPolicy `json:"removal_policy" yaml:"removal_policy"`
	Priority      int           `json:"priority" yaml:"priority"`
	Reason        string        `json:"reason" yaml:"reason"`

	// Archetypes is an allow-list; empty means every archetype.
	Archetypes []Archetype `json:"archetypes,omitempty" yaml:"archetypes,omitempty"`
}

// AppliesTo reports whether the rule's archetype filter admits a.
func (r Rule) AppliesTo(a Archetype) bool {
	return len(r.Archetypes) == 0 || slices.Contains(r.Archetypes, a)
}
