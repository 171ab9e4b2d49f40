package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/packlist/internal/apperrors"
	"github.com/nhle/packlist/internal/catalog"
	"github.com/nhle/packlist/internal/checklist"
	"github.com/nhle/packlist/internal/model"
)

type fixture struct {
	cat *catalog.Catalog
	eng *Engine
	s   *model.Session
}

func newFixture(t *testing.T, arch model.Archetype) *fixture {
	t.Helper()
	cat := catalog.New()
	_, err := cat.SeedBuiltins()
	require.NoError(t, err)

	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return &fixture{
		cat: cat,
		eng: New(cat, newID),
		s:   &model.Session{ID: "s", Archetype: arch, Sections: checklist.Seed(arch, newID)},
	}
}

func (f *fixture) item(t *testing.T, d model.Designation, name string) *model.Item {
	t.Helper()
	sec := checklist.SectionByDesignation(f.s, d)
	require.NotNil(t, sec)
	return checklist.ItemByName(sec, name)
}

func (f *fixture) addCondition(t *testing.T, id string, rules ...model.Rule) {
	t.Helper()
	_, err := f.cat.AddCondition(model.Condition{ID: id, Name: id})
	require.NoError(t, err)
	for _, r := range rules {
		r.ConditionID = id
		_, err := f.cat.AddRule(r)
		require.NoError(t, err)
	}
}

func TestApplyTrekkingOnAlpine(t *testing.T) {
	f := newFixture(t, model.ArchetypeAlpineAscent)

	report, err := f.eng.Apply(f.s, "trekking-hiking")
	require.NoError(t, err)
	assert.True(t, f.s.IsActive("trekking-hiking"))
	assert.ElementsMatch(t, []string{"Blister Plasters", "Trekking Poles", "Trail Mix / Energy Bars"}, report.Added)

	boots := f.item(t, model.DesignationFootwear, "Hiking Boots")
	require.NotNil(t, boots)
	assert.True(t, boots.Critical)
	assert.Equal(t, model.OriginTemplateSeeded, boots.Origin)
	assert.Equal(t, []string{"trekking-hiking/hiking-boots"}, boots.Lineage)

	plasters := f.item(t, model.DesignationFirstAid, "Blister Plasters")
	require.NotNil(t, plasters)
	assert.Equal(t, model.OriginRuleInjected, plasters.Origin)
	assert.Equal(t, 1, plasters.Quantity)
	assert.Equal(t, []string{"trekking-hiking/blister-plasters"}, plasters.Lineage)
	assert.Equal(t, "Added by rule: Trekking / Hiking", plasters.Reason)
}

func TestApplyIsIdempotent(t *testing.T) {
	f := newFixture(t, model.ArchetypeAlpineAscent)
	_, err := f.eng.Apply(f.s, "trekking-hiking")
	require.NoError(t, err)
	_, err = f.eng.Apply(f.s, "international-travel")
	require.NoError(t, err)
	once := f.s.Clone()

	report, err := f.eng.Apply(f.s, "international-travel")
	require.NoError(t, err)
	assert.Empty(t, report.Added)
	assert.Empty(t, report.Touched)
	assert.Equal(t, once, f.s)
}

func TestApplyRetractRoundTrip(t *testing.T) {
	f := newFixture(t, model.ArchetypeUrbanExplorer)
	before := f.s.Clone()

	_, err := f.eng.Apply(f.s, "rain-expected")
	require.NoError(t, err)
	assert.NotNil(t, f.item(t, model.DesignationClothing, "Rain Jacket"))
	shoes := f.item(t, model.DesignationFootwear, "Walking Shoes")
	require.NotNil(t, shoes)
	assert.Equal(t, "Pack a plastic bag for wet shoes", shoes.Note)
	assert.Empty(t, shoes.Lineage, "append_note does not touch lineage")

	report, err := f.eng.Retract(f.s, "rain-expected")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Rain Jacket", "Umbrella"}, report.Removed)
	assert.False(t, f.s.IsActive("rain-expected"))
	assert.Nil(t, f.item(t, model.DesignationClothing, "Rain Jacket"))
	assert.Nil(t, f.item(t, model.DesignationGadgets, "Umbrella"), "archive behaves like remove_if_not_packed")

	// Notes are not reverted; everything else matches the pre-apply state.
	f.item(t, model.DesignationFootwear, "Walking Shoes").Note = ""
	assert.Equal(t, before.Sections, f.s.Sections)
}

func TestRetractKeepsPackedItems(t *testing.T) {
	f := newFixture(t, model.ArchetypeAlpineAscent)
	_, err := f.eng.Apply(f.s, "trekking-hiking")
	require.NoError(t, err)

	plasters := f.item(t, model.DesignationFirstAid, "Blister Plasters")
	require.NotNil(t, plasters)
	plasters.Packed = true

	report, err := f.eng.Retract(f.s, "trekking-hiking")
	require.NoError(t, err)
	assert.NotContains(t, report.Removed, "Blister Plasters")

	kept := f.item(t, model.DesignationFirstAid, "Blister Plasters")
	require.NotNil(t, kept)
	assert.Empty(t, kept.Lineage)
	assert.Equal(t, model.OriginRuleInjected, kept.Origin)
	assert.Nil(t, f.item(t, model.DesignationProvisions, "Trekking Poles"))

	boots := f.item(t, model.DesignationFootwear, "Hiking Boots")
	require.NotNil(t, boots, "template items are never removed")
	assert.Empty(t, boots.Lineage)
	assert.True(t, boots.Critical, "critical is not reverted")
}

func TestRetractAlwaysKeep(t *testing.T) {
	f := newFixture(t, model.ArchetypeUrbanExplorer)
	_, err := f.eng.Apply(f.s, "international-travel")
	require.NoError(t, err)

	_, err = f.eng.Retract(f.s, "international-travel")
	require.NoError(t, err)

	adapter := f.item(t, model.DesignationGadgets, "Power Adapter")
	require.NotNil(t, adapter)
	assert.Empty(t, adapter.Lineage)
	assert.Nil(t, f.item(t, model.DesignationDocuments, "Local Currency"))
}

func TestSharedItemSurvivesUntilLastCondition(t *testing.T) {
	f := newFixture(t, model.ArchetypeUrbanExplorer)
	f.addCondition(t, "city-hike", model.Rule{
		ID: "city-hike/plasters", Action: model.ActionAddItem,
		TargetItem: "blister plasters", TargetSection: model.DesignationFirstAid,
	})

	_, err := f.eng.Apply(f.s, "trekking-hiking")
	require.NoError(t, err)
	report, err := f.eng.Apply(f.s, "city-hike")
	require.NoError(t, err)
	assert.Empty(t, report.Added, "names match case-insensitively")
	assert.Equal(t, []string{"Blister Plasters"}, report.Touched)

	plasters := f.item(t, model.DesignationFirstAid, "Blister Plasters")
	require.NotNil(t, plasters)
	assert.Equal(t, []string{"trekking-hiking/blister-plasters", "city-hike/plasters"}, plasters.Lineage)

	_, err = f.eng.Retract(f.s, "trekking-hiking")
	require.NoError(t, err)
	plasters = f.item(t, model.DesignationFirstAid, "Blister Plasters")
	require.NotNil(t, plasters)
	assert.Equal(t, []string{"city-hike/plasters"}, plasters.Lineage)

	_, err = f.eng.Retract(f.s, "city-hike")
	require.NoError(t, err)
	assert.Nil(t, f.item(t, model.DesignationFirstAid, "Blister Plasters"))
}

func TestFirstRetractedRuleDecidesPolicy(t *testing.T) {
	f := newFixture(t, model.ArchetypeUrbanExplorer)
	f.addCondition(t, "mixed",
		model.Rule{ID: "mixed/keep", Action: model.ActionAddItem, TargetItem: "Rope",
			TargetSection: model.DesignationGadgets, RemovalPolicy: model.AlwaysKeep, Priority: 5},
		model.Rule{ID: "mixed/drop", Action: model.ActionMakeCritical, TargetItem: "Rope",
			TargetSection: model.DesignationGadgets, RemovalPolicy: model.RemoveIfNotPacked, Priority: 1},
	)

	_, err := f.eng.Apply(f.s, "mixed")
	require.NoError(t, err)
	rope := f.item(t, model.DesignationGadgets, "Rope")
	require.NotNil(t, rope)
	assert.True(t, rope.Critical)
	assert.Equal(t, []string{"mixed/keep", "mixed/drop"}, rope.Lineage)

	_, err = f.eng.Retract(f.s, "mixed")
	require.NoError(t, err)
	assert.NotNil(t, f.item(t, model.DesignationGadgets, "Rope"))
}

func TestAppendNoteSkipsWhenPresent(t *testing.T) {
	f := newFixture(t, model.ArchetypeUrbanExplorer)
	f.addCondition(t, "noted", model.Rule{
		ID: "noted/charger", Action: model.ActionAppendNote, TargetItem: "Phone Charger",
		TargetSection: model.DesignationGadgets, Reason: "bring a spare cable",
	})

	charger := f.item(t, model.DesignationGadgets, "Phone Charger")
	charger.Note = "the long one"

	_, err := f.eng.Apply(f.s, "noted")
	require.NoError(t, err)
	assert.Equal(t, "the long one; bring a spare cable", f.item(t, model.DesignationGadgets, "Phone Charger").Note)

	_, err = f.eng.Retract(f.s, "noted")
	require.NoError(t, err)
	_, err = f.eng.Apply(f.s, "noted")
	require.NoError(t, err)
	assert.Equal(t, "the long one; bring a spare cable", f.item(t, model.DesignationGadgets, "Phone Charger").Note)
}

func TestArchetypeFilterAndMissingTargets(t *testing.T) {
	urban := newFixture(t, model.ArchetypeUrbanExplorer)
	report, err := urban.eng.Apply(urban.s, "freezing-temperatures")
	require.NoError(t, err)
	assert.Nil(t, urban.item(t, model.DesignationGadgets, "Hand Warmers"))
	assert.Equal(t, 1, report.Skipped)

	frost := newFixture(t, model.ArchetypeFrostExpedition)
	report, err = frost.eng.Apply(frost.s, "freezing-temperatures")
	require.NoError(t, err)
	warmers := frost.item(t, model.DesignationGadgets, "Hand Warmers")
	require.NotNil(t, warmers)
	assert.Equal(t, model.OriginTemplateSeeded, warmers.Origin)
	assert.Equal(t, 4, warmers.Quantity)
	assert.Empty(t, report.Added, "frost template already carries every item")

	// make_critical on an absent item does nothing.
	report, err = urban.eng.Apply(urban.s, "trekking-hiking")
	require.NoError(t, err)
	assert.Nil(t, urban.item(t, model.DesignationFootwear, "Hiking Boots"))
}

func TestMissingSectionSkipsRule(t *testing.T) {
	f := newFixture(t, model.ArchetypeUrbanExplorer)
	f.s.Sections = f.s.Sections[:1]

	report, err := f.eng.Apply(f.s, "beach-day")
	require.NoError(t, err)
	assert.Equal(t, 4, report.Skipped)
	assert.True(t, f.s.IsActive("beach-day"))
}

func TestUnknownCondition(t *testing.T) {
	f := newFixture(t, model.ArchetypeUrbanExplorer)
	_, err := f.eng.Apply(f.s, "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = f.eng.Retract(f.s, "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRetractDeletedConditionWhileActive(t *testing.T) {
	f := newFixture(t, model.ArchetypeUrbanExplorer)
	f.addCondition(t, "gone", model.Rule{
		ID: "gone/kite", Action: model.ActionAddItem, TargetItem: "Kite", TargetSection: model.DesignationGadgets,
	})
	_, err := f.eng.Apply(f.s, "gone")
	require.NoError(t, err)
	require.NoError(t, f.cat.DeleteCondition("gone"))

	_, err = f.eng.Retract(f.s, "gone")
	require.NoError(t, err)
	assert.False(t, f.s.IsActive("gone"))

	kite := f.item(t, model.DesignationGadgets, "Kite")
	require.NotNil(t, kite, "rules are gone so nothing is withdrawn")
	assert.Equal(t, []string{"gone/kite"}, kite.Lineage)
}
