// Package wizard is the headless client core of the generation
// studio: a linear multi-step form collecting a prompt and settings,
// a registry describing each step, and an HTTP client that submits
// the finished request to the generation proxy.
package wizard

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/GhazanSubz/fypstudio-api/models"
)

// PromptLimit is advisory only, the server does not enforce it.
const PromptLimit = 500

// State is the wizard's lifecycle state.
type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateResultShown
	StateFailed
)

// Result is the proxy's answer to a successful generation.
type Result struct {
	URL     string
	VideoID string
}

// Generator submits one assembled request. *Client is the real
// implementation.
type Generator interface {
	Generate(ctx context.Context, prompt string, settings models.VideoSettings) (*Result, error)
}

// SettingKey names one field of models.VideoSettings. Steps write
// through these keys so the controller can reject typos instead of
// silently storing them.
type SettingKey string

const (
	KeySubtitleColor   SettingKey = "subtitleColor"
	KeyIterations      SettingKey = "iterations"
	KeyGenre           SettingKey = "genre"
	KeyBackgroundVideo SettingKey = "backgroundVideo"
	KeyBackgroundMusic SettingKey = "backgroundMusic"
	KeyVoiceType       SettingKey = "voiceType"
)

// Controller owns the wizard state and drives transitions. It is
// reusable indefinitely: after a result is closed the user keeps
// their prompt and settings and can tweak and regenerate.
type Controller struct {
	mu sync.Mutex

	steps       []Step
	prompt      string
	settings    models.VideoSettings
	currentStep int
	submitting  bool
	result      *Result
	lastErr     string
	showResult  bool

	client Generator
}

func NewController(client Generator) *Controller {
	return &Controller{
		steps:       DefaultSteps(),
		settings:    models.DefaultSettings(),
		currentStep: 1,
		client:      client,
	}
}

func (c *Controller) Steps() []Step {
	return c.steps
}

func (c *Controller) Prompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prompt
}

func (c *Controller) Settings() models.VideoSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

func (c *Controller) CurrentStep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentStep
}

func (c *Controller) IsSubmitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) Result() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func (c *Controller) ShowingResult() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showResult
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.submitting:
		return StateSubmitting
	case c.showResult:
		return StateResultShown
	case c.lastErr != "":
		return StateFailed
	default:
		return StateEditing
	}
}

// SetPrompt replaces the prompt text. Length is not enforced, the
// 500-character limit is a display counter only.
func (c *Controller) SetPrompt(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompt = text
}

// PromptCounter renders the advisory character counter. Characters,
// not bytes: a multibyte prompt must not over-report.
func (c *Controller) PromptCounter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("%d / %d", utf8.RuneCountInString(c.prompt), PromptLimit)
}

// SetSetting replaces one settings field. Iterations accepts an int
// or a numeric string; everything else is a string. Unknown keys are
// an error, not a silent no-op.
func (c *Controller) SetSetting(key SettingKey, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key == KeyIterations {
		switch v := value.(type) {
		case int:
			c.settings.Iterations = v
			return nil
		case string:
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("iterations must be a number, got %q", v)
			}
			c.settings.Iterations = n
			return nil
		default:
			return fmt.Errorf("iterations must be a number, got %T", value)
		}
	}

	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("setting %q must be a string, got %T", key, value)
	}
	switch key {
	case KeySubtitleColor:
		c.settings.SubtitleColor = s
	case KeyGenre:
		c.settings.Genre = s
	case KeyBackgroundVideo:
		c.settings.BackgroundVideo = s
	case KeyBackgroundMusic:
		c.settings.BackgroundMusic = s
	case KeyVoiceType:
		c.settings.VoiceType = s
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// Advance moves to the next step, or, on the last step, submits the
// generation request. A second Advance while a submission is in
// flight is ignored so a double click can never fire two requests.
func (c *Controller) Advance(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil
	}
	if c.currentStep < len(c.steps) {
		c.currentStep++
		c.mu.Unlock()
		return nil
	}

	c.submitting = true
	c.result = nil
	c.lastErr = ""
	prompt := c.prompt
	settings := c.settings
	c.mu.Unlock()

	res, err := c.client.Generate(ctx, prompt, settings)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		// Stay on the last step with the prompt and settings intact
		// so the user can retry without starting over.
		c.lastErr = err.Error()
		return err
	}
	c.result = res
	c.showResult = true
	return nil
}

// Retreat moves back one step, floored at step 1.
func (c *Controller) Retreat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return
	}
	if c.currentStep > 1 {
		c.currentStep--
	}
}

// DismissError clears the error banner.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = ""
}

// CloseResult returns to the editable wizard without resetting the
// prompt or settings.
func (c *Controller) CloseResult() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showResult = false
}
