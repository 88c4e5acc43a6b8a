package wizard

// Option is one selectable value within a step.
type Option struct {
	Value       string
	Label       string
	Description string
}

// Step is one entry of the step registry. Every step edits either the
// prompt (Key empty) or exactly one settings field, through the same
// controller contract, so a renderer can walk the registry without
// per-step branching. Ordering is significant and fixed; every step
// is always visited.
type Step struct {
	ID      int
	Title   string
	Key     SettingKey
	Options []Option
}

// DefaultSteps returns the fixed step sequence:
// prompt, genre, duration, subtitle color, background, music, voice.
func DefaultSteps() []Step {
	return []Step{
		{
			ID:    1,
			Title: "Prompt",
		},
		{
			ID:    2,
			Title: "Genre",
			Key:   KeyGenre,
			Options: []Option{
				{Value: "Adventure", Label: "Adventure", Description: "Exciting journeys and explorations"},
				{Value: "Horror", Label: "Horror", Description: "Scary and suspenseful content"},
				{Value: "Fantasy", Label: "Fantasy", Description: "Magical and mythical elements"},
				{Value: "Funny", Label: "Funny", Description: "Humorous and comedic content"},
				{Value: "Children", Label: "Children", Description: "Kid-friendly and educational"},
				{Value: "Documentary", Label: "Documentary", Description: "Informative and factual"},
				{Value: "Cinematic", Label: "Cinematic", Description: "Movie-like with dramatic elements"},
				{Value: "Vlog", Label: "Vlog", Description: "Personal and casual style"},
			},
		},
		{
			ID:    3,
			Title: "Duration",
			Key:   KeyIterations,
			Options: []Option{
				{Value: "2", Label: "20 seconds", Description: "Short and concise"},
				{Value: "3", Label: "40 seconds", Description: "Standard length"},
				{Value: "4", Label: "1 minute", Description: "Extended content"},
			},
		},
		{
			ID:    4,
			Title: "Subtitle Color",
			Key:   KeySubtitleColor,
			Options: []Option{
				{Value: "#00ff66", Label: "Neon Green"},
				{Value: "#ff00ff", Label: "Hot Pink"},
				{Value: "#00ffff", Label: "Electric Blue"},
				{Value: "#ffff00", Label: "Yellow"},
				{Value: "#ffffff", Label: "White"},
			},
		},
		{
			ID:    5,
			Title: "Background",
			Key:   KeyBackgroundVideo,
			Options: []Option{
				{Value: "1", Label: "Urban"},
				{Value: "2", Label: "Nature"},
				{Value: "3", Label: "Abstract"},
				{Value: "4", Label: "Retro"},
				{Value: "0", Label: "No Video"},
			},
		},
		{
			ID:    6,
			Title: "Music",
			Key:   KeyBackgroundMusic,
			Options: []Option{
				{Value: "1", Label: "Experiance"},
				{Value: "2", Label: "Soul"},
				{Value: "3", Label: "Aadat"},
				{Value: "0", Label: "No Music"},
			},
		},
		{
			ID:    7,
			Title: "Voice",
			Key:   KeyVoiceType,
			Options: []Option{
				{Value: "en_speaker_4", Label: "William", Description: "Deep and confident"},
				{Value: "en_speaker_6", Label: "Adam", Description: "Warm and friendly"},
				{Value: "en_speaker_9", Label: "Natasha", Description: "Clear and energetic"},
				{Value: "zh_speaker_8", Label: "Jake", Description: "Calm and measured"},
			},
		},
	}
}
