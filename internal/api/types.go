package api

// Settings are the per-user preferences embedded in the profile.
type Settings struct {
	TranscriptionLanguage string `json:"transcription_language"`
	VoiceDiarization      bool   `json:"voice_diarization"`
	ExportFormat          string `json:"export_format"`
}

// Settings defaults applied when the backend omits a value.
const (
	DefaultTranscriptionLanguage = "English"
	DefaultExportFormat          = "pdf"
)

// TranscriptionLanguages lists the choices offered on the settings page.
var TranscriptionLanguages = []string{"English", "Spanish"}

// ExportFormats lists the preferred export formats offered on the settings page.
var ExportFormats = []string{"pdf", "docx", "txt"}

// DefaultSettings returns English, diarization on, pdf.
func DefaultSettings() Settings {
	return Settings{
		TranscriptionLanguage: DefaultTranscriptionLanguage,
		VoiceDiarization:      true,
		ExportFormat:          DefaultExportFormat,
	}
}

// User is the signed-in account as returned by login and profile calls.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt string    `json:"created_at,omitempty"`
	Settings  *Settings `json:"settings,omitempty"`
}

// DisplayName returns the name, falling back to "User".
func (u User) DisplayName() string {
	if u.Name == "" {
		return "User"
	}
	return u.Name
}

// EffectiveSettings returns the user's settings with defaults for anything
// the backend omitted.
func (u User) EffectiveSettings() Settings {
	if u.Settings == nil {
		return DefaultSettings()
	}
	s := *u.Settings
	if s.TranscriptionLanguage == "" {
		s.TranscriptionLanguage = DefaultTranscriptionLanguage
	}
	if s.ExportFormat == "" {
		s.ExportFormat = DefaultExportFormat
	}
	return s
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// MessageResponse is the generic {message} body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ProfileUpdate is the PUT /api/user/profile body.
type ProfileUpdate struct {
	Name     string    `json:"name,omitempty"`
	Email    string    `json:"email,omitempty"`
	Settings *Settings `json:"settings,omitempty"`
}

// AvatarResponse is returned by an avatar upload.
type AvatarResponse struct {
	Message   string `json:"message,omitempty"`
	AvatarURL string `json:"avatar_url"`
}

// UploadResponse is returned by an audio upload.
type UploadResponse struct {
	Message  string `json:"message,omitempty"`
	FileID   int64  `json:"file_id"`
	Filename string `json:"filename,omitempty"`
}
