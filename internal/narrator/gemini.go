package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/kingdom-crisis/internal/logger"
	"github.com/tatianab/kingdom-crisis/internal/models"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/action.txt
var actionPrompt string

//go:embed prompts/random_event.txt
var randomEventPrompt string

//go:embed prompts/ending.txt
var endingPrompt string

//go:embed prompts/daily.txt
var dailyPrompt string

// generator is the part of *genai.GenerativeModel the narrator uses.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Gemini asks the model to retell the static narration in its own words.
// Any failure, including a timeout, returns the static text instead.
type Gemini struct {
	client   *genai.Client
	model    generator
	timeout  time.Duration
	fallback *Static
	log      *logger.Logger
}

func NewGemini(ctx context.Context, apiKey, modelName string, timeout time.Duration, fallback *Static, log *logger.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{
		client:   client,
		model:    client.GenerativeModel(modelName),
		timeout:  timeout,
		fallback: fallback,
		log:      logger.OrDiscard(log),
	}, nil
}

func (g *Gemini) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

type promptData struct {
	Role      string
	Subject   string
	Category  string
	Success   bool
	Day       int
	Outcome   string
	Reference string
}

func (g *Gemini) ActionText(role models.Role, category models.ActionCategory, actionID string, success bool) (string, error) {
	ref, _ := g.fallback.ActionText(role, category, actionID, success)
	return g.retell("action", actionPrompt, promptData{
		Role:      role.Title(),
		Subject:   models.Humanize(trimRole(role, actionID)),
		Category:  string(category),
		Success:   success,
		Reference: ref,
	})
}

func (g *Gemini) RandomEventText(eventID string, role models.Role) (string, error) {
	ref, _ := g.fallback.RandomEventText(eventID, role)
	return g.retell("random_event", randomEventPrompt, promptData{
		Role:      role.Title(),
		Subject:   models.Humanize(eventID),
		Reference: ref,
	})
}

func (g *Gemini) EndingText(event models.CrisisEvent, outcome models.Outcome, role models.Role) (string, error) {
	ref, _ := g.fallback.EndingText(event, outcome, role)
	return g.retell("ending", endingPrompt, promptData{
		Role:      role.Title(),
		Subject:   event.Title(),
		Outcome:   outcome.Title(),
		Reference: ref,
	})
}

func (g *Gemini) DailyText(day int, role models.Role) (string, error) {
	ref, _ := g.fallback.DailyText(day, role)
	return g.retell("daily", dailyPrompt, promptData{
		Role:      role.Title(),
		Day:       day,
		Reference: ref,
	})
}

func (g *Gemini) retell(name, prompt string, data promptData) (string, error) {
	text, err := g.generate(name, prompt, data)
	if err != nil {
		g.log.Warn("gemini %s narration: %v; using static text", name, err)
		return data.Reference, nil
	}
	return text, nil
}

func (g *Gemini) generate(name, prompt string, data promptData) (string, error) {
	tmpl, err := template.New(name).Parse(prompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	ctx := context.Background()
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	resp, err := g.model.GenerateContent(ctx, genai.Text(buf.String()))
	if err != nil {
		return "", err
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}

	var reply struct {
		Narration string `yaml:"narration"`
	}
	cleanYAML := cleanReply(text)
	if err := yaml.Unmarshal([]byte(cleanYAML), &reply); err != nil {
		return "", fmt.Errorf("failed to parse narration YAML: %v\nOutput was: %s", err, cleanYAML)
	}
	if strings.TrimSpace(reply.Narration) == "" {
		return "", fmt.Errorf("empty narration in reply: %s", cleanYAML)
	}
	return strings.TrimSpace(reply.Narration), nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return string(text), nil
}

// cleanReply strips the markdown fence models like to wrap YAML in.
func cleanReply(text string) string {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```yaml")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
