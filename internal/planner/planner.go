// Package planner exposes the checklist core to its callers. Every mutating
// operation goes through one choke point that mutates, recomputes progress,
// and hands an immutable snapshot to the persister, in that order.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/nhle/packlist/internal/catalog"
	"github.com/nhle/packlist/internal/clock"
	"github.com/nhle/packlist/internal/engine"
	"github.com/nhle/packlist/internal/logger"
	"github.com/nhle/packlist/internal/model"
	"github.com/nhle/packlist/internal/progress"
	"github.com/nhle/packlist/internal/sandbox"
	"github.com/nhle/packlist/internal/store"
)

// Persister receives serialized document snapshots after each mutation.
type Persister interface {
	Schedule(doc store.Document, payload []byte)
}

// Options configures a Planner. Zero values pick production defaults.
type Options struct {
	Clock     clock.Clock
	NewID     func() string
	Logger    *logger.Logger
	Persister Persister
	Reminder  model.ReminderConfig
}

// Planner owns sessions, the condition catalog and the global statistics.
// It is single-writer: callers must not invoke it concurrently.
type Planner struct {
	catalog  *catalog.Catalog
	engine   *engine.Engine
	agg      *progress.Aggregator
	sessions []*model.Session

	stats      model.Statistics
	identity   model.Identity
	onboarding model.OnboardingState

	clock    clock.Clock
	newID    func() string
	log      *logger.Logger
	persist  Persister
	reminder model.ReminderConfig
}

// New returns a planner with an empty catalog and no sessions. Call Load or
// SeedBuiltins before use.
func New(opts Options) *Planner {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	p := &Planner{
		catalog:  catalog.New(),
		clock:    opts.Clock,
		newID:    opts.NewID,
		log:      opts.Logger,
		persist:  opts.Persister,
		reminder: opts.Reminder,
	}
	p.engine = engine.New(p.catalog, p.newID)
	p.agg = progress.NewAggregator(&p.stats)
	p.agg.OnCompleted = func(s *model.Session, stats model.Statistics) {
		p.log.Info("perfect pack recorded",
			"session", s.ID, "streak", stats.PerfectPackStreak, "longest", stats.LongestStreak)
	}
	return p
}

// SeedBuiltins installs the shipped conditions and rules.
func (p *Planner) SeedBuiltins() error {
	res, err := p.catalog.SeedBuiltins()
	if err != nil {
		return fmt.Errorf("seeding built-in catalog: %w", err)
	}
	p.log.Debug("built-in catalog seeded", "conditions", len(res.Conditions), "rules", len(res.Rules))
	p.save(store.DocConditions, store.DocRules)
	return nil
}

// Load restores all state documents from s. Documents that were never saved
// keep their defaults; a missing condition catalog is seeded with built-ins.
func (p *Planner) Load(ctx context.Context, s store.Store) error {
	var sessions []*model.Session
	if _, err := store.LoadJSON(ctx, s, store.DocSessions, &sessions); err != nil {
		return err
	}
	var conditions []model.Condition
	hasConditions, err := store.LoadJSON(ctx, s, store.DocConditions, &conditions)
	if err != nil {
		return err
	}
	var rules []model.Rule
	if _, err := store.LoadJSON(ctx, s, store.DocRules, &rules); err != nil {
		return err
	}
	var stats model.Statistics
	if _, err := store.LoadJSON(ctx, s, store.DocStatistics, &stats); err != nil {
		return err
	}
	var identity model.Identity
	if _, err := store.LoadJSON(ctx, s, store.DocIdentity, &identity); err != nil {
		return err
	}
	var onboarding model.OnboardingState
	if _, err := store.LoadJSON(ctx, s, store.DocOnboarding, &onboarding); err != nil {
		return err
	}

	for _, sess := range sessions {
		progress.Compute(sess)
	}
	p.sessions = sessions
	p.stats = stats
	p.identity = identity
	p.onboarding = onboarding
	p.catalog.Load(conditions, rules)

	if !hasConditions {
		return p.SeedBuiltins()
	}
	p.log.Debug("state loaded", "sessions", len(sessions), "conditions", len(conditions), "rules", len(rules))
	return nil
}

// save serializes the named documents now and schedules them for writing.
func (p *Planner) save(docs ...store.Document) {
	if p.persist == nil {
		return
	}
	for _, doc := range docs {
		payload, err := json.Marshal(p.document(doc))
		if err != nil {
			p.log.Error("serializing document failed", "document", doc, "error", err)
			continue
		}
		p.persist.Schedule(doc, payload)
	}
}

func (p *Planner) document(doc store.Document) any {
	switch doc {
	case store.DocSessions:
		if p.sessions == nil {
			return []*model.Session{}
		}
		return p.sessions
	case store.DocConditions:
		return p.catalog.Conditions()
	case store.DocRules:
		return p.catalog.Rules()
	case store.DocIdentity:
		return p.identity
	case store.DocStatistics:
		return p.stats
	case store.DocOnboarding:
		return p.onboarding
	default:
		return nil
	}
}

// === Catalog ===

// Conditions returns every condition in insertion order.
func (p *Planner) Conditions() []model.Condition {
	return p.catalog.Conditions()
}

// Condition returns one condition.
func (p *Planner) Condition(id string) (model.Condition, error) {
	return p.catalog.Condition(id)
}

// Rules returns every rule in insertion order.
func (p *Planner) Rules() []model.Rule {
	return p.catalog.Rules()
}

// RulesForCondition returns a condition's rules, highest priority first.
func (p *Planner) RulesForCondition(conditionID string) []model.Rule {
	return p.catalog.RulesForCondition(conditionID)
}

// AddCondition adds a user-created condition.
func (p *Planner) AddCondition(cond model.Condition) (model.Condition, error) {
	cond.BuiltIn = false
	added, err := p.catalog.AddCondition(cond)
	if err != nil {
		return model.Condition{}, err
	}
	p.log.Info("condition added", "condition", added.ID, "name", added.Name)
	p.save(store.DocConditions)
	return added, nil
}

// DeleteCondition removes a condition and its rules. Sessions that already
// applied the condition keep its effects until it is toggled off there.
func (p *Planner) DeleteCondition(id string) error {
	if err := p.catalog.DeleteCondition(id); err != nil {
		return err
	}
	p.log.Info("condition deleted", "condition", id)
	p.save(store.DocConditions, store.DocRules)
	return nil
}

// AddRule adds a rule. Sessions where its condition is already active are
// not re-evaluated.
func (p *Planner) AddRule(rule model.Rule) (model.Rule, error) {
	added, err := p.catalog.AddRule(rule)
	if err != nil {
		return model.Rule{}, err
	}
	p.log.Info("rule added", "rule", added.ID, "condition", added.ConditionID, "action", added.Action)
	p.save(store.DocConditions, store.DocRules)
	return added, nil
}

// DeleteRule removes a rule.
func (p *Planner) DeleteRule(id string) error {
	if err := p.catalog.DeleteRule(id); err != nil {
		return err
	}
	p.log.Info("rule deleted", "rule", id)
	p.save(store.DocConditions, store.DocRules)
	return nil
}

// ImportCatalog adds the conditions and rules of a YAML catalog. A failed
// import leaves the catalog as it was.
func (p *Planner) ImportCatalog(r io.Reader) (catalog.ImportResult, error) {
	conditions, rules := p.catalog.Conditions(), p.catalog.Rules()
	res, err := p.catalog.ImportYAML(r)
	if err != nil {
		p.catalog.Load(conditions, rules)
		return catalog.ImportResult{}, err
	}
	p.log.Info("catalog imported", "conditions", len(res.Conditions), "rules", len(res.Rules))
	p.save(store.DocConditions, store.DocRules)
	return res, nil
}

// === Preview ===

// PreviewConditionDelta reports what toggling conditionID would add and
// remove in the session, without changing anything.
func (p *Planner) PreviewConditionDelta(sessionID, conditionID string) (sandbox.Delta, error) {
	s, err := p.session(sessionID)
	if err != nil {
		return sandbox.Delta{}, err
	}
	return sandbox.Preview(p.catalog, s, conditionID)
}

// Sandbox lists the items a hypothetical set of active conditions would add.
// An empty archetype ignores archetype filters.
func (p *Planner) Sandbox(archetype model.Archetype, conditionIDs []string) []string {
	return sandbox.Union(p.catalog, archetype, conditionIDs)
}

// === Profile ===

// Statistics returns the global statistics.
func (p *Planner) Statistics() model.Statistics {
	return p.stats
}

// Identity returns the traveller profile.
func (p *Planner) Identity() model.Identity {
	return p.identity
}

// SetIdentity updates the traveller profile.
func (p *Planner) SetIdentity(displayName, avatar string) (model.Identity, error) {
	if err := validateTitle("display name", displayName); err != nil {
		return model.Identity{}, err
	}
	if p.identity.CreatedAt.IsZero() {
		p.identity.CreatedAt = p.clock.Now()
	}
	p.identity.DisplayName = trim(displayName)
	p.identity.Avatar = trim(avatar)
	p.save(store.DocIdentity)
	return p.identity, nil
}

// Onboarding returns the onboarding state.
func (p *Planner) Onboarding() model.OnboardingState {
	return p.onboarding
}

// CompleteOnboarding marks onboarding as done. Repeated calls keep the first timestamp.
func (p *Planner) CompleteOnboarding() model.OnboardingState {
	if !p.onboarding.Completed {
		now := p.clock.Now()
		p.onboarding = model.OnboardingState{Completed: true, CompletedAt: &now}
		p.save(store.DocOnboarding)
	}
	return p.onboarding
}
