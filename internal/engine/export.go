package engine

import (
	"fmt"
	"math"
	"slices"

	"github.com/tatianab/kingdom-crisis/internal/config"
	"github.com/tatianab/kingdom-crisis/internal/models"
)

// Snapshot exports the session. The RNG position is not included.
func (s *Session) Snapshot() models.Snapshot {
	snap := models.Snapshot{
		Version:      models.SnapshotVersion,
		SessionID:    s.id,
		Role:         s.role,
		PrimaryEvent: s.event,
		Day:          s.clock.Day(),
		Slot:         s.clock.Slot(),
		Phase:        s.clock.Phase(),
		Resources:    s.ledger.All(),
		Evidence:     s.Evidence(),
		Preparation:  s.preparer.Export(),
		RandomEvents: s.randomEvents.History(),
		Actions:      append([]models.ActionRecord(nil), s.actions...),
	}
	if s.resolution != nil {
		r := *s.resolution
		snap.Resolution = &r
	}
	return snap
}

// Restore rebuilds a session from a snapshot. Everything is checked before
// anything is applied; any problem fails the whole restore with
// ErrInvalidSnapshot. opts.Role and opts.Event are ignored.
func Restore(rules config.Rules, lib *EvidenceLibrary, snap models.Snapshot, opts Options) (*Session, error) {
	if snap.Version < 1 || snap.Version > models.SnapshotVersion {
		return nil, models.Detail(models.ErrInvalidSnapshot, "unsupported version %d", snap.Version)
	}
	if !snap.Role.Valid() {
		return nil, models.Detail(models.ErrInvalidSnapshot, "unknown role %q", snap.Role)
	}
	if !snap.PrimaryEvent.Valid() {
		return nil, models.Detail(models.ErrInvalidSnapshot, "unknown crisis %q", snap.PrimaryEvent)
	}

	opts.Role = snap.Role
	opts.Event = snap.PrimaryEvent
	if snap.SessionID != "" {
		opts.ID = snap.SessionID
	}
	s, err := NewSession(rules, lib, opts)
	if err != nil {
		return nil, err
	}

	if err := s.clock.Set(snap.Day, snap.Slot); err != nil {
		return nil, err
	}
	if snap.Phase != "" && snap.Phase != s.clock.Phase() {
		return nil, models.Detail(models.ErrInvalidSnapshot, "phase %s does not match day %d", snap.Phase, snap.Day)
	}
	if err := s.restoreResources(snap.Resources); err != nil {
		return nil, err
	}
	if err := s.restoreEvidence(snap.Evidence, snap.Day); err != nil {
		return nil, err
	}
	progress, err := validateProgress(snap.Role, snap.Preparation)
	if err != nil {
		return nil, err
	}
	s.preparer.restore(progress)
	if len(snap.RandomEvents) > rules.MaxRandomEvents {
		return nil, models.Detail(models.ErrInvalidSnapshot, "%d random events exceed the limit of %d", len(snap.RandomEvents), rules.MaxRandomEvents)
	}
	for _, ev := range snap.RandomEvents {
		if ev.Day < 1 || ev.Day > snap.Day {
			return nil, models.Detail(models.ErrInvalidSnapshot, "random event %s on day %d", ev.ID, ev.Day)
		}
	}
	s.randomEvents.restore(snap.RandomEvents)
	s.actions = append([]models.ActionRecord(nil), snap.Actions...)

	switch {
	case s.clock.Terminal() && snap.Resolution == nil:
		s.resolve()
	case s.clock.Terminal():
		r := *snap.Resolution
		if r.Event != s.event {
			return nil, models.Detail(models.ErrInvalidSnapshot, "resolution names %s, session is %s", r.Event, s.event)
		}
		prog, _ := s.preparer.Progress(s.event)
		want := s.resolver.Resolve(s.event, prog)
		if r.Outcome != want.Outcome || !(math.Abs(r.Effectiveness-want.Effectiveness) <= 1e-9) {
			return nil, models.Detail(models.ErrInvalidSnapshot, "resolution %s at %v, preparation gives %s at %v", r.Outcome, r.Effectiveness, want.Outcome, want.Effectiveness)
		}
		s.resolution = &r
	case snap.Resolution != nil:
		return nil, models.Detail(models.ErrInvalidSnapshot, "resolution present before the epilogue")
	}

	s.log.Event("session_restore", s.id, fmt.Sprintf("day=%d slot=%s evidence=%d", snap.Day, snap.Slot, len(snap.Evidence)))
	return s, nil
}

func (s *Session) restoreResources(resources map[models.Role]map[models.Resource]int) error {
	for _, role := range models.Roles {
		values, ok := resources[role]
		if !ok {
			return models.Detail(models.ErrInvalidSnapshot, "no resources for %s", role)
		}
		if len(values) != 4 {
			return models.Detail(models.ErrInvalidSnapshot, "%s has %d resources, want 4", role, len(values))
		}
		for res, v := range values {
			if _, ok := role.ResourceIndex(res); !ok {
				return models.Detail(models.ErrInvalidSnapshot, "%s has no %q", role, res)
			}
			if v < s.rules.MinResource || v > s.rules.MaxResource {
				return models.Detail(models.ErrInvalidSnapshot, "%s %s = %d out of range", role, res, v)
			}
		}
	}
	for role := range resources {
		if !role.Valid() {
			return models.Detail(models.ErrInvalidSnapshot, "unknown role %q in resources", role)
		}
	}
	for role, values := range resources {
		for res, v := range values {
			if err := s.ledger.Set(role, res, v); err != nil {
				return models.Wrap(models.ErrInvalidSnapshot, err)
			}
		}
	}
	return nil
}

func (s *Session) restoreEvidence(items []models.EvidenceItem, day int) error {
	for _, it := range items {
		known, ok := s.pools.Library().Lookup(it.ID)
		if !ok {
			return models.Detail(models.ErrInvalidSnapshot, "unknown evidence id %q", it.ID)
		}
		if known.Event != s.event {
			return models.Detail(models.ErrInvalidSnapshot, "evidence %q belongs to %s", it.ID, known.Event)
		}
		known.Day = it.Day
		if it != known {
			return models.Detail(models.ErrInvalidSnapshot, "evidence %q differs from the library", it.ID)
		}
		if it.Day < 1 || it.Day > day {
			return models.Detail(models.ErrInvalidSnapshot, "evidence %q found on day %d", it.ID, it.Day)
		}
		if err := s.pools.MarkUsed(it.ID); err != nil {
			return err
		}
	}
	s.evidence = append([]models.EvidenceItem(nil), items...)
	return nil
}

func validateProgress(role models.Role, in map[models.CrisisEvent]*models.PreparationProgress) (map[models.CrisisEvent]*models.PreparationProgress, error) {
	out := make(map[models.CrisisEvent]*models.PreparationProgress, len(in))
	for event, prog := range in {
		if !event.Valid() || prog == nil {
			return nil, models.Detail(models.ErrInvalidSnapshot, "bad preparation entry %q", event)
		}
		cp := models.NewPreparationProgress(event)
		sum := 0.0
		ids := make([]string, 0, len(prog.Actions))
		for id := range prog.Actions {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			rec := prog.Actions[id]
			a, ok := FindPreparationAction(role, id)
			if !ok || a.Event != event {
				return nil, models.Detail(models.ErrInvalidSnapshot, "preparation %q is not a %s action against %s", id, role, event)
			}
			if !finite(rec.Effectiveness) || rec.Effectiveness < 0 || rec.Effectiveness > 1 || rec.Times < 1 {
				return nil, models.Detail(models.ErrInvalidSnapshot, "preparation %q has effectiveness %v over %d runs", id, rec.Effectiveness, rec.Times)
			}
			rec.ActionID = id
			cp.Actions[id] = rec
			sum += rec.Effectiveness
		}
		if !finite(prog.Sum) {
			return nil, models.Detail(models.ErrInvalidSnapshot, "preparation total %v against %s", prog.Sum, event)
		}
		if prog.Sum < 0 || prog.Sum+1e-9 < sum {
			return nil, models.Detail(models.ErrInvalidSnapshot, "preparation total %v below its latest records %v", prog.Sum, sum)
		}
		cp.Sum = prog.Sum
		for _, id := range prog.Order {
			if _, ok := cp.Actions[id]; ok && !slices.Contains(cp.Order, id) {
				cp.Order = append(cp.Order, id)
			}
		}
		for _, id := range ids {
			if !slices.Contains(cp.Order, id) {
				cp.Order = append(cp.Order, id)
			}
		}
		out[event] = cp
	}
	return out, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
