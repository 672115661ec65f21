package domain

// ThemeKey is the storage key of the theme preference.
const ThemeKey = "runrep-theme"

// ThemeMode is the user's colour scheme preference.
type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// DefaultTheme follows the device setting.
const DefaultTheme = ThemeSystem

func (m ThemeMode) Valid() bool {
	return m == ThemeLight || m == ThemeDark || m == ThemeSystem
}
