package sandbox

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/packlist/internal/apperrors"
	"github.com/nhle/packlist/internal/catalog"
	"github.com/nhle/packlist/internal/checklist"
	"github.com/nhle/packlist/internal/engine"
	"github.com/nhle/packlist/internal/model"
)

func setup(t *testing.T, arch model.Archetype) (*catalog.Catalog, *engine.Engine, *model.Session) {
	t.Helper()
	cat := catalog.New()
	_, err := cat.SeedBuiltins()
	require.NoError(t, err)

	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return cat, engine.New(cat, newID), &model.Session{Archetype: arch, Sections: checklist.Seed(arch, newID)}
}

func TestPreviewInactive(t *testing.T) {
	cat, _, s := setup(t, model.ArchetypeUrbanExplorer)
	before := s.Clone()

	delta, err := Preview(cat, s, "freezing-temperatures")
	require.NoError(t, err)
	assert.Equal(t, []string{"Thermal Base Layer", "Insulated Gloves"}, delta.Added, "hand warmers are filtered by archetype")
	assert.Empty(t, delta.Removed)
	assert.Equal(t, before, s, "preview never mutates")
}

func TestPreviewSkipsNamesAnywhereInSession(t *testing.T) {
	cat, _, s := setup(t, model.ArchetypeCoastalBreeze)

	delta, err := Preview(cat, s, "beach-day")
	require.NoError(t, err)
	assert.Equal(t, []string{"Beach Towel"}, delta.Added)
}

func TestPreviewSkipsMissingTargetSection(t *testing.T) {
	cat, eng, s := setup(t, model.ArchetypeUrbanExplorer)
	_, err := cat.AddCondition(model.Condition{ID: "windy", Name: "Windy"})
	require.NoError(t, err)
	_, err = cat.AddRule(model.Rule{
		ConditionID: "windy", Action: model.ActionAddItem,
		TargetItem: "Kite", TargetSection: model.DesignationCustom,
	})
	require.NoError(t, err)

	delta, err := Preview(cat, s, "windy")
	require.NoError(t, err)
	assert.Empty(t, delta.Added)

	report, err := eng.Apply(s, "windy")
	require.NoError(t, err)
	assert.Empty(t, report.Added, "apply agrees with the preview")
	assert.Equal(t, 1, report.Skipped)
}

func TestPreviewActiveMatchesRetract(t *testing.T) {
	cat, eng, s := setup(t, model.ArchetypeAlpineAscent)
	_, err := eng.Apply(s, "trekking-hiking")
	require.NoError(t, err)
	checklist.ItemByName(checklist.SectionByDesignation(s, model.DesignationProvisions), "Trekking Poles").Packed = true

	delta, err := Preview(cat, s, "trekking-hiking")
	require.NoError(t, err)
	assert.Empty(t, delta.Added)

	report, err := eng.Retract(s, "trekking-hiking")
	require.NoError(t, err)
	assert.ElementsMatch(t, report.Removed, delta.Removed)
	assert.ElementsMatch(t, []string{"Blister Plasters", "Trail Mix / Energy Bars"}, delta.Removed)
}

func TestPreviewUnknownCondition(t *testing.T) {
	cat, _, s := setup(t, model.ArchetypeUrbanExplorer)
	_, err := Preview(cat, s, "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUnion(t *testing.T) {
	cat, _, _ := setup(t, model.ArchetypeUrbanExplorer)
	_, err := cat.AddCondition(model.Condition{ID: "sunny", Name: "Sunny"})
	require.NoError(t, err)
	_, err = cat.AddRule(model.Rule{
		ConditionID: "sunny", Action: model.ActionAddItem,
		TargetItem: "SUNSCREEN", TargetSection: model.DesignationHygiene,
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		archetype  model.Archetype
		conditions []string
		want       []string
	}{
		{
			name:       "first spelling wins",
			conditions: []string{"beach-day", "sunny"},
			want:       []string{"Sunscreen", "Swimsuit", "Beach Towel"},
		},
		{
			name:       "order follows conditions",
			conditions: []string{"sunny", "beach-day"},
			want:       []string{"SUNSCREEN", "Swimsuit", "Beach Towel"},
		},
		{
			name:       "no archetype ignores filters",
			conditions: []string{"freezing-temperatures"},
			want:       []string{"Thermal Base Layer", "Insulated Gloves", "Hand Warmers"},
		},
		{
			name:       "archetype filters",
			archetype:  model.ArchetypeUrbanExplorer,
			conditions: []string{"freezing-temperatures"},
			want:       []string{"Thermal Base Layer", "Insulated Gloves"},
		},
		{
			name:       "unknown and empty",
			conditions: []string{"nope"},
			want:       []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Union(cat, tt.archetype, tt.conditions))
		})
	}
}
