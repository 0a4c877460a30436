package domain

// Language is a custom type for the supported UI languages.
type Language string

const (
	LanguageSpanish Language = "es"
	LanguageEnglish Language = "en"
)

// Theme is a custom type for the supported UI themes.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Preferences are the persisted user preferences.
type Preferences struct {
	Language             Language `json:"language"`
	Theme                Theme    `json:"theme"`
	NotificationsEnabled bool     `json:"notificationsEnabled"`
}

// DefaultPreferences returns the preferences used when nothing is
// stored or the stored slot cannot be parsed.
func DefaultPreferences() Preferences {
	return Preferences{
		Language:             LanguageSpanish,
		Theme:                ThemeLight,
		NotificationsEnabled: true,
	}
}
