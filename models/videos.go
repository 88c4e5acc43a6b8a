package models

import (
	"time"
)

// VideoSettings is the full customization snapshot for one generation
// request. The same struct is edited by the wizard, sent to the
// generation proxy, and persisted verbatim on the resulting video row.
type VideoSettings struct {
	SubtitleColor   string `json:"subtitleColor"`
	Iterations      int    `json:"iterations"`
	Genre           string `json:"genre"`
	BackgroundVideo string `json:"backgroundVideo"`
	BackgroundMusic string `json:"backgroundMusic"`
	VoiceType       string `json:"voiceType"`
}

// DefaultSettings returns the settings a fresh wizard starts with.
func DefaultSettings() VideoSettings {
	return VideoSettings{
		SubtitleColor:   "#ff00ff",
		Iterations:      2,
		Genre:           "Adventure",
		BackgroundVideo: "1",
		BackgroundMusic: "1",
		VoiceType:       "en_speaker_6",
	}
}

type Video struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	// Filename is the object key in storage. It must always match the
	// key under which the artifact actually lives; delete and rename
	// go through it.
	Filename string `gorm:"not null" json:"filename"`
	URL      string `gorm:"not null" json:"url"`

	Prompt string `gorm:"type:text" json:"prompt"`
	Genre  string `json:"genre"`

	// Downloaded partitions the exports view from the recents view.
	// Set when the user completes a download-with-custom-name action.
	Downloaded bool `gorm:"default:false" json:"downloaded"`

	Settings VideoSettings `gorm:"serializer:json" json:"settings"`

	CreatedAt time.Time `json:"created_at"`
}

func (Video) TableName() string {
	return "videos"
}
