package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/tatianab/kingdom-crisis/internal/models"
)

// Files keeps saves as YAML directories under models.SaveDir.
type Files struct{}

func (Files) Save(_ context.Context, name string, snap models.Snapshot) error {
	if err := snap.Save(name); err != nil {
		return storeErr("save slot "+name, err)
	}
	return nil
}

// Load returns nil when the slot does not exist.
func (Files) Load(_ context.Context, name string) (*models.Snapshot, error) {
	snap, err := models.LoadSnapshot(name)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("load slot "+name, err)
	}
	return snap, nil
}

// List reads every slot's state to fill the summary. Slots that fail to
// load are skipped.
func (f Files) List(ctx context.Context) ([]SaveSummary, error) {
	names, err := models.ListSaves()
	if err != nil {
		return nil, storeErr("list slots", err)
	}
	var out []SaveSummary
	for _, name := range names {
		snap, err := f.Load(ctx, name)
		if err != nil || snap == nil {
			continue
		}
		s := SaveSummary{
			Name:      name,
			SessionID: snap.SessionID,
			Role:      snap.Role,
			Event:     snap.PrimaryEvent,
			Day:       snap.Day,
			Slot:      snap.Slot,
		}
		if info, err := os.Stat(filepath.Join(models.SaveDir, name, "state.yaml")); err == nil {
			s.UpdatedAt = info.ModTime()
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}
