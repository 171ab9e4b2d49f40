package checklist

import (
	"slices"

	"github.com/nhle/packlist/internal/model"
)

type templateItem struct {
	name     string
	quantity int
	critical bool
}

// baseTemplate is shared by every archetype.
var baseTemplate = map[model.Designation][]templateItem{
	model.DesignationDocuments: {
		{"Passport", 1, true},
		{"ID Card", 1, true},
		{"Travel Tickets", 1, true},
		{"Travel Insurance", 1, false},
	},
	model.DesignationClothing: {
		{"T-Shirts", 4, false},
		{"Underwear", 5, false},
		{"Socks", 5, false},
		{"Sleepwear", 1, false},
	},
	model.DesignationHygiene: {
		{"Toothbrush", 1, false},
		{"Toothpaste", 1, false},
		{"Deodorant", 1, false},
		{"Shampoo", 1, false},
	},
	model.DesignationFirstAid: {
		{"Plasters", 1, false},
		{"Pain Relievers", 1, false},
		{"Personal Medication", 1, true},
	},
	model.DesignationGadgets: {
		{"Phone Charger", 1, true},
		{"Power Bank", 1, false},
		{"Headphones", 1, false},
	},
	model.DesignationProvisions: {
		{"Water Bottle", 1, false},
		{"Snacks", 1, false},
	},
}

// archetypeTemplate adds archetype-specific items on top of baseTemplate.
var archetypeTemplate = map[model.Archetype]map[model.Designation][]templateItem{
	model.ArchetypeUrbanExplorer: {
		model.DesignationClothing: {{"Light Jacket", 1, false}},
		model.DesignationFootwear: {{"Walking Shoes", 1, false}},
		model.DesignationGadgets:  {{"Camera", 1, false}},
	},
	model.ArchetypeCoastalBreeze: {
		model.DesignationClothing: {{"Swimsuit", 2, false}, {"Sun Hat", 1, false}},
		model.DesignationFootwear: {{"Sandals", 1, false}, {"Flip-Flops", 1, false}},
		model.DesignationHygiene:  {{"Sunscreen", 1, true}},
		model.DesignationGadgets:  {{"Waterproof Phone Case", 1, false}},
	},
	model.ArchetypeAlpineAscent: {
		model.DesignationClothing:   {{"Fleece Jacket", 1, false}, {"Rain Shell", 1, false}},
		model.DesignationFootwear:   {{"Hiking Boots", 1, false}, {"Camp Shoes", 1, false}},
		model.DesignationProvisions: {{"Electrolyte Tablets", 1, false}},
	},
	model.ArchetypeFrostExpedition: {
		model.DesignationClothing: {
			{"Thermal Base Layer", 2, false},
			{"Down Jacket", 1, true},
			{"Insulated Gloves", 1, false},
			{"Wool Hat", 1, false},
		},
		model.DesignationFootwear: {{"Insulated Snow Boots", 1, true}},
		model.DesignationHygiene:  {{"Lip Balm", 1, false}},
		model.DesignationGadgets:  {{"Hand Warmers", 4, false}},
	},
}

// Seed builds the fixed template sections for an archetype. newID supplies
// identifiers for sections and items.
func Seed(archetype model.Archetype, newID func() string) []model.Section {
	extra := archetypeTemplate[archetype]
	sections := make([]model.Section, 0, len(model.Designations))
	for idx, d := range model.Designations {
		sec := model.Section{
			ID:          newID(),
			Designation: d,
			SortIndex:   idx,
			Items:       []model.Item{},
		}
		for _, t := range slices.Concat(baseTemplate[d], extra[d]) {
			sec.Items = append(sec.Items, model.Item{
				ID:       newID(),
				Name:     t.name,
				Quantity: t.quantity,
				Critical: t.critical,
				Origin:   model.OriginTemplateSeeded,
			})
		}
		sections = append(sections, sec)
	}
	return sections
}
