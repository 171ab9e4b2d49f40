package planner

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nhle/packlist/internal/apperrors"
	"github.com/nhle/packlist/internal/checklist"
	"github.com/nhle/packlist/internal/engine"
	"github.com/nhle/packlist/internal/model"
	"github.com/nhle/packlist/internal/store"
)

// ToggleResult describes the outcome of ToggleCondition.
type ToggleResult struct {
	Active  bool
	Report  engine.Report
	Session *model.Session
}

// CreateSession seeds a session from the archetype template and applies the
// initial conditions. Unknown conditions reject the whole call.
func (p *Planner) CreateSession(
	title string,
	archetype model.Archetype,
	departure time.Time,
	conditionIDs []string,
) (*model.Session, error) {
	if err := validateTitle("session title", title); err != nil {
		return nil, err
	}
	if !archetype.Valid() {
		return nil, fmt.Errorf("unknown archetype %q: %w", archetype, apperrors.ErrInvalidInput)
	}
	for _, id := range conditionIDs {
		if _, err := p.catalog.Condition(id); err != nil {
			return nil, err
		}
	}

	s := &model.Session{
		ID:               p.newID(),
		Title:            trim(title),
		Archetype:        archetype,
		DepartureAt:      departure.UTC(),
		CreatedAt:        p.clock.Now(),
		ActiveConditions: []string{},
		Sections:         checklist.Seed(archetype, p.newID),
		Reminder:         p.reminder,
	}
	for _, id := range conditionIDs {
		report, err := p.engine.Apply(s, id)
		if err != nil {
			return nil, err
		}
		p.logReport("condition applied", s, report)
	}
	p.agg.Refresh(s)

	p.sessions = append(p.sessions, s)
	p.stats.SessionsCreated++
	p.log.Info("session created", "session", s.ID, "archetype", archetype, "conditions", len(conditionIDs))
	p.save(store.DocSessions, store.DocStatistics)
	return s.Clone(), nil
}

// Session returns a copy of one session.
func (p *Planner) Session(id string) (*model.Session, error) {
	s, err := p.session(id)
	if err != nil {
		return nil, err
	}
	return s.Clone(), nil
}

// Sessions returns copies of all sessions in creation order.
func (p *Planner) Sessions(includeArchived bool) []*model.Session {
	out := make([]*model.Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		if s.Archived && !includeArchived {
			continue
		}
		out = append(out, s.Clone())
	}
	return out
}

// ArchiveSession hides a session without deleting it.
func (p *Planner) ArchiveSession(id string) (*model.Session, error) {
	return p.mutate(id, func(s *model.Session) error {
		s.Archived = true
		return nil
	})
}

// RestoreSession brings an archived session back.
func (p *Planner) RestoreSession(id string) (*model.Session, error) {
	return p.mutate(id, func(s *model.Session) error {
		s.Archived = false
		return nil
	})
}

// DeleteSession removes a session permanently.
func (p *Planner) DeleteSession(id string) error {
	i := slices.IndexFunc(p.sessions, func(s *model.Session) bool { return s.ID == id })
	if i < 0 {
		return fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
	}
	p.sessions = slices.Delete(p.sessions, i, i+1)
	p.log.Info("session deleted", "session", id)
	p.save(store.DocSessions)
	return nil
}

// ToggleCondition applies conditionID if it is inactive in the session and
// retracts it otherwise.
func (p *Planner) ToggleCondition(sessionID, conditionID string) (ToggleResult, error) {
	var res ToggleResult
	s, err := p.mutate(sessionID, func(s *model.Session) error {
		var err error
		if s.IsActive(conditionID) {
			res.Report, err = p.engine.Retract(s, conditionID)
			if err == nil {
				p.logReport("condition retracted", s, res.Report)
			}
		} else {
			res.Report, err = p.engine.Apply(s, conditionID)
			if err == nil {
				p.logReport("condition applied", s, res.Report)
			}
		}
		res.Active = s.IsActive(conditionID)
		return err
	})
	if err != nil {
		return ToggleResult{}, err
	}
	res.Session = s
	return res, nil
}

// SetSectionCollapsed stores the section's collapse flag.
func (p *Planner) SetSectionCollapsed(sessionID, sectionID string, collapsed bool) error {
	_, err := p.mutate(sessionID, func(s *model.Session) error {
		sec, err := checklist.Section(s, sectionID)
		if err != nil {
			return err
		}
		sec.Collapsed = collapsed
		return nil
	})
	return err
}

// MarkSectionComplete packs every item of the section.
func (p *Planner) MarkSectionComplete(sessionID, sectionID string) (*model.Session, error) {
	return p.mutate(sessionID, func(s *model.Session) error {
		sec, err := checklist.Section(s, sectionID)
		if err != nil {
			return err
		}
		now := p.clock.Now()
		for i := range sec.Items {
			if checklist.SetPacked(&sec.Items[i], true, now) {
				p.stats.TotalItemsPacked++
			}
		}
		return nil
	})
}

// ResetSection unpacks every item of the section.
func (p *Planner) ResetSection(sessionID, sectionID string) (*model.Session, error) {
	return p.mutate(sessionID, func(s *model.Session) error {
		sec, err := checklist.Section(s, sectionID)
		if err != nil {
			return err
		}
		for i := range sec.Items {
			checklist.SetPacked(&sec.Items[i], false, time.Time{})
		}
		return nil
	})
}

// mutate is the single path for session changes: look up, mutate, recompute
// progress, schedule persistence. A failing fn must not have mutated s.
func (p *Planner) mutate(sessionID string, fn func(s *model.Session) error) (*model.Session, error) {
	s, err := p.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	p.agg.Refresh(s)
	p.save(store.DocSessions, store.DocStatistics)
	return s.Clone(), nil
}

func (p *Planner) session(id string) (*model.Session, error) {
	for _, s := range p.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
}

func (p *Planner) logReport(msg string, s *model.Session, r engine.Report) {
	p.log.Debug(msg,
		"session", s.ID,
		"condition", r.ConditionID,
		"added", r.Added,
		"touched", r.Touched,
		"removed", r.Removed,
		"skipped", r.Skipped,
	)
}

func validateTitle(field, value string) error {
	if trim(value) == "" {
		return fmt.Errorf("%s must not be empty: %w", field, apperrors.ErrInvalidInput)
	}
	return nil
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
