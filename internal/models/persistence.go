package models

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveDir is where named save slots are written.
var SaveDir = ".saves"

type savedState struct {
	Version      int                                  `yaml:"version"`
	SessionID    string                               `yaml:"session_id"`
	Role         Role                                 `yaml:"role"`
	PrimaryEvent CrisisEvent                          `yaml:"primary_event"`
	Day          int                                  `yaml:"day"`
	Slot         Slot                                 `yaml:"slot"`
	Phase        Phase                                `yaml:"phase"`
	Resources    map[Role]map[Resource]int            `yaml:"resources"`
	Preparation  map[CrisisEvent]*PreparationProgress `yaml:"preparation"`
	Resolution   *Resolution                          `yaml:"resolution,omitempty"`
}

type savedHistory struct {
	RandomEvents []RandomEventInstance `yaml:"random_events"`
	Actions      []ActionRecord        `yaml:"actions"`
}

func (s *Snapshot) Save(name string) error {
	dir := filepath.Join(SaveDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Save state.yaml
	stateData, err := yaml.Marshal(savedState{
		Version:      s.Version,
		SessionID:    s.SessionID,
		Role:         s.Role,
		PrimaryEvent: s.PrimaryEvent,
		Day:          s.Day,
		Slot:         s.Slot,
		Phase:        s.Phase,
		Resources:    s.Resources,
		Preparation:  s.Preparation,
		Resolution:   s.Resolution,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "state.yaml"), stateData, 0644); err != nil {
		return err
	}

	// Save evidence.yaml
	evidenceData, err := yaml.Marshal(s.Evidence)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "evidence.yaml"), evidenceData, 0644); err != nil {
		return err
	}

	// Save history.yaml
	historyData, err := yaml.Marshal(savedHistory{RandomEvents: s.RandomEvents, Actions: s.Actions})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "history.yaml"), historyData, 0644)
}

func LoadSnapshot(name string) (*Snapshot, error) {
	dir := filepath.Join(SaveDir, name)

	stateData, err := os.ReadFile(filepath.Join(dir, "state.yaml"))
	if err != nil {
		return nil, err
	}
	var state savedState
	if err := yaml.Unmarshal(stateData, &state); err != nil {
		return nil, err
	}

	var evidence []EvidenceItem
	evidenceData, err := os.ReadFile(filepath.Join(dir, "evidence.yaml"))
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(evidenceData, &evidence); err != nil {
		return nil, err
	}

	var history savedHistory
	historyData, err := os.ReadFile(filepath.Join(dir, "history.yaml"))
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(historyData, &history); err != nil {
		return nil, err
	}

	return &Snapshot{
		Version:      state.Version,
		SessionID:    state.SessionID,
		Role:         state.Role,
		PrimaryEvent: state.PrimaryEvent,
		Day:          state.Day,
		Slot:         state.Slot,
		Phase:        state.Phase,
		Resources:    state.Resources,
		Evidence:     evidence,
		Preparation:  state.Preparation,
		RandomEvents: history.RandomEvents,
		Actions:      history.Actions,
		Resolution:   state.Resolution,
	}, nil
}

func ListSaves() ([]string, error) {
	if _, err := os.Stat(SaveDir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(SaveDir)
	if err != nil {
		return nil, err
	}

	var saves []string
	for _, entry := range entries {
		if entry.IsDir() {
			// state.yaml marks a complete save slot
			statePath := filepath.Join(SaveDir, entry.Name(), "state.yaml")
			if _, err := os.Stat(statePath); err == nil {
				saves = append(saves, entry.Name())
			}
		}
	}
	return saves, nil
}
