package domain

// MemoryImage is a stored photo attached to a memory.
type MemoryImage struct {
	FilePath string `json:"file_path"`
}

// Memory is a user-authored record tied to a senior.
type Memory struct {
	ID          int64         `json:"memory_id"`
	Title       string        `json:"title"`
	Content     string        `json:"content,omitempty"`
	DateOfEvent string        `json:"date_of_event"`
	Images      []MemoryImage `json:"images"`
	AudioURL    string        `json:"audio_url,omitempty"`
	OwnerID     int64         `json:"user_id,omitempty"`
	CreatorID   int64         `json:"creator_id,omitempty"`
}

// NarrationLanguage is a language the text-to-speech service can narrate in.
type NarrationLanguage string

const (
	LanguageTagalog NarrationLanguage = "tgl"
	LanguageEnglish NarrationLanguage = "en"
	LanguageBikol   NarrationLanguage = "bikol"
)
