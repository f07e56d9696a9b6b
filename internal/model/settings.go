package model

// Settings models a row in the `user_settings` table.  Every user owns at
// most one settings row; it is created with defaults at registration and
// cascade-deleted with the user.
//
// Fields:
//
//	ID            – primary key identifier.
//	UserID        – owning user (unique).
//	DisplayName   – optional public display name.
//	Bio           – optional free-form profile text.
//	Theme         – UI theme, defaults to "light".
//	Notifications – whether the user receives notifications.
//	Language      – preferred language code, defaults to "en".
type Settings struct {
	ID            uint64 // user_settings.id
	UserID        uint64 // user_settings.user_id
	DisplayName   string // user_settings.display_name (nullable)
	Bio           string // user_settings.bio (nullable)
	Theme         string // user_settings.theme
	Notifications bool   // user_settings.notifications
	Language      string // user_settings.language
}

// DefaultSettings returns the settings row created for a freshly
// registered user.
func DefaultSettings(userID uint64) Settings {
	return Settings{
		UserID:        userID,
		Theme:         "light",
		Notifications: true,
		Language:      "en",
	}
}
