package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/auth-service/internal/model"
)

// SettingsRepo persists per-user preference rows ('user_settings' table).
type SettingsRepo struct{ DB *sql.DB }

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{DB: db} }

// CreateDefault inserts the default settings row for a new user.  A second
// call for the same user is a no-op; the unique key on user_id guards
// against duplicates when registration is retried.
func (r *SettingsRepo) CreateDefault(ctx context.Context, userID uint64) error {
	s := model.DefaultSettings(userID)
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_settings (user_id, theme, notifications, language) VALUES (?,?,?,?)",
		s.UserID, s.Theme, s.Notifications, s.Language)
	if err != nil && isDuplicate(err) {
		return nil
	}
	return err
}

// GetByUserID fetches the settings row owned by a user.
func (r *SettingsRepo) GetByUserID(ctx context.Context, userID uint64) (model.Settings, error) {
	var (
		s    model.Settings
		name sql.NullString
		bio  sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,display_name,bio,theme,notifications,language FROM user_settings WHERE user_id=? LIMIT 1",
		userID).Scan(&s.ID, &s.UserID, &name, &bio, &s.Theme, &s.Notifications, &s.Language)
	if err != nil {
		return model.Settings{}, err
	}
	s.DisplayName = name.String
	s.Bio = bio.String
	return s, nil
}

// Update overwrites the mutable preference fields for a user.
func (r *SettingsRepo) Update(ctx context.Context, s model.Settings) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE user_settings SET display_name=?, bio=?, theme=?, notifications=?, language=? WHERE user_id=?",
		s.DisplayName, s.Bio, s.Theme, s.Notifications, s.Language, s.UserID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
