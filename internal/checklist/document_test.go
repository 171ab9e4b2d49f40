package checklist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/packlist/internal/apperrors"
	"github.com/nhle/packlist/internal/model"
)

func newSection(names ...string) *model.Section {
	sec := &model.Section{ID: "sec", Designation: model.DesignationGadgets}
	for _, n := range names {
		sec.Items = append(sec.Items, model.Item{ID: n, Name: n, Quantity: 1})
	}
	return sec
}

func itemIDs(sec *model.Section) []string {
	ids := make([]string, 0, len(sec.Items))
	for _, item := range sec.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestValidateItem(t *testing.T) {
	tests := []struct {
		name     string
		item     string
		quantity int
		wantErr  bool
	}{
		{name: "valid", item: "Socks", quantity: 3},
		{name: "blank name", item: "   ", quantity: 1, wantErr: true},
		{name: "zero quantity", item: "Socks", quantity: 0, wantErr: true},
		{name: "negative quantity", item: "Socks", quantity: -2, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItem(tt.item, tt.quantity)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSameName(t *testing.T) {
	assert.True(t, SameName("rain jacket", "Rain Jacket"))
	assert.True(t, SameName(" Umbrella ", "umbrella"))
	assert.False(t, SameName("Umbrella", "Umbrellas"))
}

func TestInsertAt(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []string
	}{
		{name: "front", index: 0, want: []string{"x", "a", "b", "c"}},
		{name: "middle", index: 1, want: []string{"a", "x", "b", "c"}},
		{name: "past end clamps", index: 10, want: []string{"a", "b", "c", "x"}},
		{name: "negative clamps to end", index: -1, want: []string{"a", "b", "c", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec := newSection("a", "b", "c")
			require.NoError(t, InsertAt(sec, tt.index, model.Item{ID: "x", Name: "x", Quantity: 1}))
			assert.Equal(t, tt.want, itemIDs(sec))
		})
	}
}

func TestInsertRejectsDuplicateID(t *testing.T) {
	sec := newSection("a")
	err := Insert(sec, model.Item{ID: "a", Name: "Other", Quantity: 1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Len(t, sec.Items, 1)
}

func TestRemove(t *testing.T) {
	sec := newSection("a", "b", "c")
	before := sec.Items

	item, idx, err := Remove(sec, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", item.ID)
	assert.Equal(t, 1, idx)
	assert.Equal(t, []string{"a", "c"}, itemIDs(sec))
	assert.Equal(t, "b", before[1].ID, "removal must not shift the caller's backing array")

	_, _, err = Remove(sec, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMove(t *testing.T) {
	s := &model.Session{Sections: []model.Section{*newSection("a", "b"), {ID: "other", Designation: model.DesignationProvisions}}}

	require.NoError(t, Move(s, "sec", "a", "other"))
	assert.Equal(t, []string{"b"}, itemIDs(&s.Sections[0]))
	assert.Equal(t, []string{"a"}, itemIDs(&s.Sections[1]))

	assert.ErrorIs(t, Move(s, "sec", "a", "other"), apperrors.ErrNotFound)
	assert.ErrorIs(t, Move(s, "sec", "b", "nowhere"), apperrors.ErrNotFound)

	require.NoError(t, Move(s, "sec", "b", "sec"))
	assert.Equal(t, []string{"b"}, itemIDs(&s.Sections[0]))
}

func TestUpdate(t *testing.T) {
	item := model.Item{Name: "Socks", Quantity: 2}

	name, qty, note := "  Wool Socks ", 4, " warm "
	require.NoError(t, Update(&item, ItemPatch{Name: &name, Quantity: &qty, Note: &note}))
	assert.Equal(t, "Wool Socks", item.Name)
	assert.Equal(t, 4, item.Quantity)
	assert.Equal(t, "warm", item.Note)

	zero := 0
	assert.ErrorIs(t, Update(&item, ItemPatch{Quantity: &zero}), apperrors.ErrInvalidInput)
	assert.Equal(t, 4, item.Quantity, "a rejected patch leaves the item untouched")
}

func TestSetPacked(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	item := model.Item{Name: "Socks", Quantity: 1}

	assert.True(t, SetPacked(&item, true, now))
	require.NotNil(t, item.PackedAt)
	assert.Equal(t, now, *item.PackedAt)

	assert.False(t, SetPacked(&item, true, now.Add(time.Hour)), "already packed")
	assert.Equal(t, now, *item.PackedAt)

	assert.False(t, SetPacked(&item, false, time.Time{}))
	assert.False(t, item.Packed)
	assert.Nil(t, item.PackedAt)
}

func TestHasItemNamed(t *testing.T) {
	s := &model.Session{Sections: []model.Section{*newSection("Phone Charger")}}
	assert.True(t, HasItemNamed(s, "phone charger"))
	assert.False(t, HasItemNamed(s, "Laptop"))
}
