package narrator

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/tatianab/kingdom-crisis/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var contentYAML []byte

// Dialogue holds the lines for one role's action.
type Dialogue struct {
	Role     models.Role           `yaml:"role"`
	Action   string                `yaml:"action"`
	Category models.ActionCategory `yaml:"category"`
	Success  []string              `yaml:"success"`
	Failure  []string              `yaml:"failure"`
	Neutral  []string              `yaml:"neutral"`
}

type RandomEventLines struct {
	Description string                 `yaml:"description"`
	Effects     string                 `yaml:"effects"`
	Roles       map[models.Role]string `yaml:"roles"`
}

type Ending struct {
	Title       string                 `yaml:"title"`
	Description string                 `yaml:"description"`
	Roles       map[models.Role]string `yaml:"roles"`
}

// Contexts are the sentences appended to action dialogue.
type Contexts struct {
	Time     []string                           `yaml:"time"`
	Role     map[models.Role][]string           `yaml:"role"`
	Category map[models.ActionCategory][]string `yaml:"category"`
	Outcome  map[string][]string                `yaml:"outcome"`
}

// Content is the narrative table. It is data only; the engine never reads it.
type Content struct {
	Daily        map[int]map[models.Role]string                   `yaml:"daily"`
	Dialogue     []Dialogue                                       `yaml:"dialogue"`
	RandomEvents map[string]RandomEventLines                      `yaml:"random_events"`
	Endings      map[models.CrisisEvent]map[models.Outcome]Ending `yaml:"endings"`
	Contexts     Contexts                                         `yaml:"contexts"`
}

// ParseContent decodes a content table.
func ParseContent(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, models.Wrap(models.ErrContentLoad, err)
	}
	for i, d := range c.Dialogue {
		if !d.Role.Valid() || d.Action == "" {
			return nil, models.Detail(models.ErrContentLoad, "dialogue entry %d has role %q action %q", i+1, d.Role, d.Action)
		}
	}
	return &c, nil
}

var defaultContent = sync.OnceValue(func() *Content {
	c, err := ParseContent(contentYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in narrative content: %v", err))
	}
	return c
})

// DefaultContent returns the built-in table.
func DefaultContent() *Content {
	return defaultContent()
}

func (c *Content) dialogue(role models.Role, actionID string) (Dialogue, bool) {
	for _, d := range c.Dialogue {
		if d.Role == role && d.Action == actionID {
			return d, true
		}
	}
	return Dialogue{}, false
}
