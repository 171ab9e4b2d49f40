// Package checklist implements the structural primitives over a session's
// Section/Item tree. Every primitive validates first and mutates second, so a
// rejected call leaves the tree untouched.
package checklist

import (
	"fmt"
	"strings"
	"time"

	"github.com/nhle/packlist/internal/apperrors"
	"github.com/nhle/packlist/internal/model"
)

// ItemPatch carries optional field updates for UpdateItem. Nil fields are left alone.
type ItemPatch struct {
	Name     *string
	Quantity *int
	Note     *string
}

// SameName reports whether two item names match case-insensitively.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ValidateItem rejects empty names and quantities below one.
func ValidateItem(name string, quantity int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("item name must not be empty: %w", apperrors.ErrInvalidInput)
	}
	if quantity < 1 {
		return fmt.Errorf("item quantity %d must be at least 1: %w", quantity, apperrors.ErrInvalidInput)
	}
	return nil
}

// Section returns the section with the given id.
func Section(s *model.Session, sectionID string) (*model.Section, error) {
	for i := range s.Sections {
		if s.Sections[i].ID == sectionID {
			return &s.Sections[i], nil
		}
	}
	return nil, fmt.Errorf("section %s: %w", sectionID, apperrors.ErrNotFound)
}

// SectionByDesignation returns the first section carrying designation d, or nil.
func SectionByDesignation(s *model.Session, d model.Designation) *model.Section {
	for i := range s.Sections {
		if s.Sections[i].Designation == d {
			return &s.Sections[i]
		}
	}
	return nil
}

// Item returns the item with the given id inside sec.
func Item(sec *model.Section, itemID string) (*model.Item, error) {
	if i := indexOf(sec, itemID); i >= 0 {
		return &sec.Items[i], nil
	}
	return nil, fmt.Errorf("item %s: %w", itemID, apperrors.ErrNotFound)
}

// ItemByName returns the first item in sec whose name matches case-insensitively, or nil.
func ItemByName(sec *model.Section, name string) *model.Item {
	for i := range sec.Items {
		if SameName(sec.Items[i].Name, name) {
			return &sec.Items[i]
		}
	}
	return nil
}

// HasItemNamed reports whether any section of s holds an item named name.
func HasItemNamed(s *model.Session, name string) bool {
	for i := range s.Sections {
		if ItemByName(&s.Sections[i], name) != nil {
			return true
		}
	}
	return false
}

// Insert appends item to sec after validating it.
func Insert(sec *model.Section, item model.Item) error {
	if err := ValidateItem(item.Name, item.Quantity); err != nil {
		return err
	}
	if indexOf(sec, item.ID) >= 0 {
		return fmt.Errorf("item %s already exists: %w", item.ID, apperrors.ErrInvalidInput)
	}
	item.Name = strings.TrimSpace(item.Name)
	sec.Items = append(sec.Items, item)
	return nil
}

// InsertAt places item at index, clamped to the section bounds.
func InsertAt(sec *model.Section, index int, item model.Item) error {
	if err := Insert(sec, item); err != nil {
		return err
	}
	last := len(sec.Items) - 1
	if index < 0 || index >= last {
		return nil
	}
	moved := sec.Items[last]
	copy(sec.Items[index+1:], sec.Items[index:last])
	sec.Items[index] = moved
	return nil
}

// Remove deletes the item from sec and returns it with its former index.
func Remove(sec *model.Section, itemID string) (model.Item, int, error) {
	i := indexOf(sec, itemID)
	if i < 0 {
		return model.Item{}, -1, fmt.Errorf("item %s: %w", itemID, apperrors.ErrNotFound)
	}
	removed := sec.Items[i]
	sec.Items = append(sec.Items[:i:i], sec.Items[i+1:]...)
	return removed, i, nil
}

// Move transfers an item between two sections of the same session.
func Move(s *model.Session, fromSectionID, itemID, toSectionID string) error {
	from, err := Section(s, fromSectionID)
	if err != nil {
		return err
	}
	to, err := Section(s, toSectionID)
	if err != nil {
		return err
	}
	if _, err := Item(from, itemID); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	item, _, err := Remove(from, itemID)
	if err != nil {
		return err
	}
	to.Items = append(to.Items, item)
	return nil
}

// Update applies patch to the item after validating the resulting values.
func Update(item *model.Item, patch ItemPatch) error {
	name, quantity := item.Name, item.Quantity
	if patch.Name != nil {
		name = *patch.Name
	}
	if patch.Quantity != nil {
		quantity = *patch.Quantity
	}
	if err := ValidateItem(name, quantity); err != nil {
		return err
	}
	item.Name = strings.TrimSpace(name)
	item.Quantity = quantity
	if patch.Note != nil {
		item.Note = strings.TrimSpace(*patch.Note)
	}
	return nil
}

// SetPacked sets the packed flag and keeps PackedAt in step with it.
// It reports whether the item transitioned from unpacked to packed.
func SetPacked(item *model.Item, packed bool, now time.Time) bool {
	if item.Packed == packed {
		return false
	}
	item.Packed = packed
	if packed {
		at := now
		item.PackedAt = &at
		return true
	}
	item.PackedAt = nil
	return false
}

func indexOf(sec *model.Section, itemID string) int {
	for i := range sec.Items {
		if sec.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}
