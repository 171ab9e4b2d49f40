package planner

import (
	"slices"

	"github.com/nhle/packlist/internal/checklist"
	"github.com/nhle/packlist/internal/model"
)

// ItemDraft holds the user-supplied fields of a new item.
type ItemDraft struct {
	Name     string
	Quantity int
	Critical bool
	Note     string
}

// UndoCapsule captures a deleted item and where it lived, so RestoreItem can
// put it back verbatim.
type UndoCapsule struct {
	SessionID string     `json:"session_id"`
	SectionID string     `json:"section_id"`
	Index     int        `json:"index"`
	Item      model.Item `json:"item"`
}

// AddItem creates a user-added item at the end of the section.
func (p *Planner) AddItem(sessionID, sectionID string, draft ItemDraft) (model.Item, error) {
	var added model.Item
	_, err := p.mutate(sessionID, func(s *model.Session) error {
		sec, err := checklist.Section(s, sectionID)
		if err != nil {
			return err
		}
		added = model.Item{
			ID:       p.newID(),
			Name:     trim(draft.Name),
			Quantity: draft.Quantity,
			Critical: draft.Critical,
			Note:     trim(draft.Note),
			Origin:   model.OriginUserAdded,
		}
		return checklist.Insert(sec, added)
	})
	if err != nil {
		return model.Item{}, err
	}
	return added, nil
}

// UpdateItem changes an item's name, quantity or note.
func (p *Planner) UpdateItem(sessionID, sectionID, itemID string, patch checklist.ItemPatch) (model.Item, error) {
	return p.mutateItem(sessionID, sectionID, itemID, func(item *model.Item) error {
		return checklist.Update(item, patch)
	})
}

// DeleteItem removes an item and returns the capsule needed to undo it.
func (p *Planner) DeleteItem(sessionID, sectionID, itemID string) (UndoCapsule, error) {
	capsule := UndoCapsule{SessionID: sessionID, SectionID: sectionID}
	_, err := p.mutate(sessionID, func(s *model.Session) error {
		sec, err := checklist.Section(s, sectionID)
		if err != nil {
			return err
		}
		capsule.Item, capsule.Index, err = checklist.Remove(sec, itemID)
		return err
	})
	if err != nil {
		return UndoCapsule{}, err
	}
	return capsule, nil
}

// RestoreItem reinserts a deleted item at its former position.
func (p *Planner) RestoreItem(capsule UndoCapsule) (model.Item, error) {
	_, err := p.mutate(capsule.SessionID, func(s *model.Session) error {
		sec, err := checklist.Section(s, capsule.SectionID)
		if err != nil {
			return err
		}
		item := capsule.Item
		item.Lineage = slices.Clone(item.Lineage)
		return checklist.InsertAt(sec, capsule.Index, item)
	})
	if err != nil {
		return model.Item{}, err
	}
	return capsule.Item, nil
}

// MoveItem transfers an item to another section of the same session.
func (p *Planner) MoveItem(sessionID, fromSectionID, itemID, toSectionID string) error {
	_, err := p.mutate(sessionID, func(s *model.Session) error {
		return checklist.Move(s, fromSectionID, itemID, toSectionID)
	})
	return err
}

// ToggleItemPacked flips the packed flag. Packing counts toward the global
// packed-item total.
func (p *Planner) ToggleItemPacked(sessionID, sectionID, itemID string) (model.Item, error) {
	return p.mutateItem(sessionID, sectionID, itemID, func(item *model.Item) error {
		if checklist.SetPacked(item, !item.Packed, p.clock.Now()) {
			p.stats.TotalItemsPacked++
		}
		return nil
	})
}

// ToggleItemCritical flips the critical flag.
func (p *Planner) ToggleItemCritical(sessionID, sectionID, itemID string) (model.Item, error) {
	return p.mutateItem(sessionID, sectionID, itemID, func(item *model.Item) error {
		item.Critical = !item.Critical
		return nil
	})
}

func (p *Planner) mutateItem(
	sessionID, sectionID, itemID string,
	fn func(item *model.Item) error,
) (model.Item, error) {
	var out model.Item
	_, err := p.mutate(sessionID, func(s *model.Session) error {
		sec, err := checklist.Section(s, sectionID)
		if err != nil {
			return err
		}
		item, err := checklist.Item(sec, itemID)
		if err != nil {
			return err
		}
		if err := fn(item); err != nil {
			return err
		}
		out = *item
		out.Lineage = slices.Clone(item.Lineage)
		return nil
	})
	if err != nil {
		return model.Item{}, err
	}
	return out, nil
}
