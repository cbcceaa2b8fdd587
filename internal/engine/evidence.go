package engine

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tatianab/kingdom-crisis/internal/logger"
	"github.com/tatianab/kingdom-crisis/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed evidence/*.yaml
var builtinEvidence embed.FS

type evidenceRecord struct {
	ID          string      `yaml:"id"`
	Content     string      `yaml:"content"`
	Reliability models.Tier `yaml:"reliability"`
	SourceType  string      `yaml:"source_type"`
	Location    string      `yaml:"location"`
}

type evidenceFile struct {
	Low    []evidenceRecord `yaml:"low_priority"`
	Medium []evidenceRecord `yaml:"medium_priority"`
	High   []evidenceRecord `yaml:"high_priority"`
}

func (f evidenceFile) tiers() map[models.Tier][]evidenceRecord {
	return map[models.Tier][]evidenceRecord{
		models.TierLow:    f.Low,
		models.TierMedium: f.Medium,
		models.TierHigh:   f.High,
	}
}

// EvidenceLibrary is the evidence catalog loaded at startup. It is never
// mutated after loading; sessions draw from it through EvidencePools.
type EvidenceLibrary struct {
	pools map[models.CrisisEvent]map[models.Tier][]models.EvidenceItem
	index map[string]models.EvidenceItem
}

func newEvidenceLibrary() *EvidenceLibrary {
	return &EvidenceLibrary{
		pools: make(map[models.CrisisEvent]map[models.Tier][]models.EvidenceItem),
		index: make(map[string]models.EvidenceItem),
	}
}

// parseEvidence decodes one event's file. JSON is accepted as well, being a
// subset of YAML.
func parseEvidence(event models.CrisisEvent, data []byte) (map[models.Tier][]models.EvidenceItem, error) {
	var f evidenceFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	out := make(map[models.Tier][]models.EvidenceItem, 3)
	seen := make(map[string]bool)
	for tier, records := range f.tiers() {
		for i, r := range records {
			if strings.TrimSpace(r.Content) == "" {
				return nil, fmt.Errorf("%s item %d has no content", tier, i+1)
			}
			if !r.Reliability.Valid() {
				return nil, fmt.Errorf("%s item %d has reliability %q", tier, i+1, r.Reliability)
			}
			id := r.ID
			if id == "" {
				id = fmt.Sprintf("%s_%s_%02d", event, tier, i+1)
			}
			if seen[id] {
				return nil, fmt.Errorf("duplicate evidence id %q", id)
			}
			seen[id] = true
			out[tier] = append(out[tier], models.EvidenceItem{
				ID:          id,
				Event:       event,
				Tier:        tier,
				Content:     r.Content,
				Reliability: r.Reliability,
				SourceType:  r.SourceType,
				Location:    r.Location,
			})
		}
	}
	return out, nil
}

// add installs items for event, skipping the whole set if any id is taken.
func (lib *EvidenceLibrary) add(event models.CrisisEvent, tiers map[models.Tier][]models.EvidenceItem) error {
	for _, items := range tiers {
		for _, it := range items {
			if _, dup := lib.index[it.ID]; dup {
				return fmt.Errorf("evidence id %q already used by another event", it.ID)
			}
		}
	}
	if lib.pools[event] == nil {
		lib.pools[event] = make(map[models.Tier][]models.EvidenceItem, 3)
	}
	for tier, items := range tiers {
		lib.pools[event][tier] = items
		for _, it := range items {
			lib.index[it.ID] = it
		}
	}
	return nil
}

var defaultEvidence = sync.OnceValue(func() *EvidenceLibrary {
	lib := newEvidenceLibrary()
	for _, event := range models.CrisisEvents {
		data, err := builtinEvidence.ReadFile("evidence/" + string(event) + ".yaml")
		if err != nil {
			panic(fmt.Sprintf("built-in evidence for %s: %v", event, err))
		}
		tiers, err := parseEvidence(event, data)
		if err != nil {
			panic(fmt.Sprintf("built-in evidence for %s: %v", event, err))
		}
		if err := lib.add(event, tiers); err != nil {
			panic(err)
		}
	}
	return lib
})

// DefaultEvidence returns the built-in catalog.
func DefaultEvidence() *EvidenceLibrary {
	return defaultEvidence()
}

// LoadEvidence reads <event>.yaml, .yml or .json files from dir. Anything
// missing or malformed is taken from the built-in catalog; the substitution
// is logged and otherwise invisible.
func LoadEvidence(dir string, log *logger.Logger) *EvidenceLibrary {
	log = logger.OrDiscard(log)
	builtin := DefaultEvidence()
	if dir == "" {
		return builtin
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("%v; using built-in evidence", models.Wrap(models.ErrContentLoad, err))
		return builtin
	}

	lib := newEvidenceLibrary()
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml" && ext != ".json") {
			continue
		}
		event, err := models.ParseCrisisEvent(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		if err != nil {
			log.Warn("skipping evidence file %s: %v", entry.Name(), err)
			continue
		}
		if _, loaded := lib.pools[event]; loaded {
			log.Warn("skipping evidence file %s: %s already loaded", entry.Name(), event)
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Warn("%v", models.Wrap(models.ErrContentLoad, err))
			continue
		}
		tiers, err := parseEvidence(event, data)
		if err == nil {
			err = lib.add(event, tiers)
		}
		if err != nil {
			log.Warn("%v", models.Wrap(models.ErrContentLoad, fmt.Errorf("%s: %w", entry.Name(), err)))
			continue
		}
		log.Info("loaded evidence for %s from %s", event, entry.Name())
	}

	for _, event := range models.CrisisEvents {
		for _, tier := range models.Tiers {
			if len(lib.pools[event][tier]) > 0 {
				continue
			}
			fill := map[models.Tier][]models.EvidenceItem{tier: builtin.pools[event][tier]}
			if err := lib.add(event, fill); err != nil {
				log.Error("cannot fill %s/%s from built-in evidence: %v", event, tier, err)
				continue
			}
			log.Info("using built-in %s evidence for %s", tier, event)
		}
	}
	return lib
}

// Items returns a copy of one pool.
func (lib *EvidenceLibrary) Items(event models.CrisisEvent, tier models.Tier) []models.EvidenceItem {
	return append([]models.EvidenceItem(nil), lib.pools[event][tier]...)
}

// Lookup finds an item by id.
func (lib *EvidenceLibrary) Lookup(id string) (models.EvidenceItem, bool) {
	it, ok := lib.index[id]
	return it, ok
}

// NewPools starts a fresh without-replacement draw over the library.
func (lib *EvidenceLibrary) NewPools() *EvidencePools {
	return &EvidencePools{lib: lib, used: make(map[string]bool)}
}

// EvidencePools tracks which items a session has already discovered.
type EvidencePools struct {
	lib  *EvidenceLibrary
	used map[string]bool
}

func (p *EvidencePools) Library() *EvidenceLibrary { return p.lib }

func (p *EvidencePools) Used(id string) bool { return p.used[id] }

// Remaining counts the unused items of one pool.
func (p *EvidencePools) Remaining(event models.CrisisEvent, tier models.Tier) int {
	n := 0
	for _, it := range p.lib.pools[event][tier] {
		if !p.used[it.ID] {
			n++
		}
	}
	return n
}

// Draw picks an unused item uniformly and marks it used.
func (p *EvidencePools) Draw(event models.CrisisEvent, tier models.Tier, rng RNG) (models.EvidenceItem, error) {
	var unused []models.EvidenceItem
	for _, it := range p.lib.pools[event][tier] {
		if !p.used[it.ID] {
			unused = append(unused, it)
		}
	}
	if len(unused) == 0 {
		return models.EvidenceItem{}, models.Detail(models.ErrPoolExhausted, "%s %s", event, tier)
	}
	it := unused[rng.IntN(len(unused))]
	p.used[it.ID] = true
	return it, nil
}

// MarkUsed records an id discovered earlier, as when restoring a session.
func (p *EvidencePools) MarkUsed(id string) error {
	if _, ok := p.lib.index[id]; !ok {
		return models.Detail(models.ErrInvalidSnapshot, "unknown evidence id %q", id)
	}
	if p.used[id] {
		return models.Detail(models.ErrInvalidSnapshot, "evidence id %q listed twice", id)
	}
	p.used[id] = true
	return nil
}
