package models

// SnapshotVersion is bumped whenever the exported layout changes.
const SnapshotVersion = 1

// Snapshot is a read-only export of a session. It is what the UI renders,
// what gets saved, and what a session can be restored from.
type Snapshot struct {
	Version      int                                  `yaml:"version" json:"version"`
	SessionID    string                               `yaml:"session_id" json:"session_id"`
	Role         Role                                 `yaml:"role" json:"role"`
	PrimaryEvent CrisisEvent                          `yaml:"primary_event" json:"primary_event"`
	Day          int                                  `yaml:"day" json:"day"`
	Slot         Slot                                 `yaml:"slot" json:"slot"`
	Phase        Phase                                `yaml:"phase" json:"phase"`
	Resources    map[Role]map[Resource]int            `yaml:"resources" json:"resources"`
	Evidence     []EvidenceItem                       `yaml:"evidence" json:"evidence"`
	Preparation  map[CrisisEvent]*PreparationProgress `yaml:"preparation" json:"preparation"`
	RandomEvents []RandomEventInstance                `yaml:"random_events" json:"random_events"`
	Actions      []ActionRecord                       `yaml:"actions" json:"actions"`
	Resolution   *Resolution                          `yaml:"resolution,omitempty" json:"resolution,omitempty"`
}

// Over reports whether the session has reached the epilogue.
func (s *Snapshot) Over() bool {
	return s.Slot == Epilogue
}

// Balance returns the player's current value for res.
func (s *Snapshot) Balance(res Resource) int {
	return s.Resources[s.Role][res]
}

// PrimaryProgress is the preparation total for the session's crisis.
func (s *Snapshot) PrimaryProgress() float64 {
	return s.Preparation[s.PrimaryEvent].TotalEffectiveness()
}
