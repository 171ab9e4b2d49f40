package model

import (
	"slices"
	"time"
)

// Archetype is the journey style a session is planned around.
type Archetype string

const (
	ArchetypeUrbanExplorer   Archetype = "urban_explorer"
	ArchetypeCoastalBreeze   Archetype = "coastal_breeze"
	ArchetypeAlpineAscent    Archetype = "alpine_ascent"
	ArchetypeFrostExpedition Archetype = "frost_expedition"
)

// Archetypes lists every journey archetype in display order.
var Archetypes = []Archetype{
	ArchetypeUrbanExplorer,
	ArchetypeCoastalBreeze,
	ArchetypeAlpineAscent,
	ArchetypeFrostExpedition,
}

func (a Archetype) Valid() bool {
	return slices.Contains(Archetypes, a)
}

// Designation identifies the category of a section.
type Designation string

const (
	DesignationDocuments  Designation = "documents"
	DesignationClothing   Designation = "clothing"
	DesignationFootwear   Designation = "footwear"
	DesignationHygiene    Designation = "hygiene"
	DesignationFirstAid   Designation = "first_aid"
	DesignationGadgets    Designation = "gadgets"
	DesignationProvisions Designation = "provisions"
	DesignationCustom     Designation = "custom"
)

// Designations lists the fixed template designations in sort order.
// Custom is valid but not part of the template.
var Designations = []Designation{
	DesignationDocuments,
	DesignationClothing,
	DesignationFootwear,
	DesignationHygiene,
	DesignationFirstAid,
	DesignationGadgets,
	DesignationProvisions,
}

func (d Designation) Valid() bool {
	return d == DesignationCustom || slices.Contains(Designations, d)
}

// Title returns the human-readable section label.
func (d Designation) Title() string {
	switch d {
	case DesignationDocuments:
		return "Documents"
	case DesignationClothing:
		return "Clothing"
	case DesignationFootwear:
		return "Footwear"
	case DesignationHygiene:
		return "Hygiene"
	case DesignationFirstAid:
		return "First-Aid"
	case DesignationGadgets:
		return "Gadgets"
	case DesignationProvisions:
		return "Provisions"
	default:
		return "Custom"
	}
}

// Origin records how an item came to exist. It is set once at creation.
type Origin string

const (
	OriginTemplateSeeded Origin = "template_seeded"
	OriginRuleInjected   Origin = "rule_injected"
	OriginUserAdded      Origin = "user_added"
)

// Progress is the cached aggregate of a section or a whole session.
type Progress struct {
	TotalCells        int     `json:"total_cells"`
	PackedCells       int     `json:"packed_cells"`
	CriticalRemaining int     `json:"critical_remaining"`
	RuleAddedCount    int     `json:"rule_added_count"`
	Fraction          float64 `json:"fraction"`
}

// Complete reports whether every cell is packed. An empty checklist is never complete.
func (p Progress) Complete() bool {
	return p.TotalCells > 0 && p.PackedCells == p.TotalCells
}

// ReminderConfig describes when the host should remind the traveller to pack.
// Scheduling the reminder is the host's concern.
type ReminderConfig struct {
	Enabled   bool `json:"enabled"`
	LeadHours int  `json:"lead_hours"`
}

// Item is a single checklist entry.
type Item struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Quantity int        `json:"quantity"`
	Packed   bool       `json:"packed"`
	PackedAt *time.Time `json:"packed_at,omitempty"`
	Critical bool       `json:"critical"`
	Note     string     `json:"note,omitempty"`
	Origin   Origin     `json:"origin"`

	// Lineage lists the ids of every rule that has touched this item, in the
	// order they first touched it.
	Lineage []string `json:"lineage"`

	// Reason is the user-facing explanation for rule-injected items.
	Reason string `json:"reason,omitempty"`
}

// HasRule reports whether ruleID is in the item's lineage.
func (i Item) HasRule(ruleID string) bool {
	return slices.Contains(i.Lineage, ruleID)
}

// Section is one category of items within a session.
type Section struct {
	ID          string      `json:"id"`
	Designation Designation `json:"designation"`
	CustomName  string      `json:"custom_name,omitempty"`
	SortIndex   int         `json:"sort_index"`
	Collapsed   bool        `json:"collapsed"`
	Items       []Item      `json:"items"`
	Progress    Progress    `json:"progress"`
}

// DisplayName prefers the custom name when one is set.
func (s Section) DisplayName() string {
	if s.CustomName != "" {
		return s.CustomName
	}
	return s.Designation.Title()
}

// Session is one trip's packing checklist.
type Session struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Archetype        Archetype      `json:"archetype"`
	DepartureAt      time.Time      `json:"departure_at"`
	CreatedAt        time.Time      `json:"created_at"`
	Archived         bool           `json:"archived"`
	ActiveConditions []string       `json:"active_conditions"`
	Sections         []Section      `json:"sections"`
	Reminder         ReminderConfig `json:"reminder"`
	Progress         Progress       `json:"progress"`
}

// IsActive reports whether conditionID is in the active-condition set.
func (s *Session) IsActive(conditionID string) bool {
	return slices.Contains(s.ActiveConditions, conditionID)
}

// Activate adds conditionID to the active set if it is not already present.
func (s *Session) Activate(conditionID string) {
	if !s.IsActive(conditionID) {
		s.ActiveConditions = append(s.ActiveConditions, conditionID)
	}
}

// Deactivate removes conditionID from the active set.
func (s *Session) Deactivate(conditionID string) {
	s.ActiveConditions = slices.DeleteFunc(s.ActiveConditions, func(id string) bool {
		return id == conditionID
	})
}

// Clone returns a deep copy that shares no slices or pointers with s.
func (s *Session) Clone() *Session {
	out := *s
	out.ActiveConditions = slices.Clone(s.ActiveConditions)
	out.Sections = make([]Section, len(s.Sections))
	for i, sec := range s.Sections {
		sec.Items = make([]Item, len(s.Sections[i].Items))
		for j, item := range s.Sections[i].Items {
			item.Lineage = slices.Clone(item.Lineage)
			if item.PackedAt != nil {
				at := *item.PackedAt
				item.PackedAt = &at
			}
			sec.Items[j] = item
		}
		out.Sections[i] = sec
	}
	return &out
}
