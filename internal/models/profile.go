package models

import "time"

// Theme defaults applied to every new profile at registration. The update
// validator only accepts values from the theme's closed set, so the stored
// field must never start out empty.
const (
	DefaultThemePreference = "light"
	DefaultColorTheme      = "green"
)

// Profile represents a user's public profile document. Its ID is the
// auth provider UID, so profile lookups are point reads by account id.
type Profile struct {
	ID              string    `json:"id" bson:"_id"`
	Name            string    `json:"name" bson:"name"`
	Username        string    `json:"username" bson:"username"`
	Email           string    `json:"email" bson:"email"`
	Avatar          string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	ThemePreference string    `json:"theme_preference" bson:"theme_preference"`
	ColorTheme      string    `json:"color_theme" bson:"color_theme"`
	FCMToken        string    `json:"-" bson:"fcm_token,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// ProfileCompact is the author projection merged into feed items.
type ProfileCompact struct {
	ID       string `json:"id" bson:"_id"`
	Name     string `json:"name" bson:"name"`
	Username string `json:"username" bson:"username"`
	Avatar   string `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

// NewProfile builds a registration-time profile document with the theme
// defaults set.
func NewProfile(id, name, username, email string) *Profile {
	return &Profile{
		ID:              id,
		Name:            name,
		Username:        username,
		Email:           email,
		ThemePreference: DefaultThemePreference,
		ColorTheme:      DefaultColorTheme,
	}
}

// ToCompact returns the compact projection of a profile.
func (p *Profile) ToCompact() ProfileCompact {
	return ProfileCompact{
		ID:       p.ID,
		Name:     p.Name,
		Username: p.Username,
		Avatar:   p.Avatar,
	}
}

// PlaceholderProfile is merged into a feed item whose author lookup failed,
// so a broken join degrades the single item instead of dropping it.
func PlaceholderProfile(userID string) ProfileCompact {
	return ProfileCompact{ID: userID, Name: "Unknown"}
}

// RegisterRequest defines the request body for creating a new account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Username string `json:"username" validate:"required,min=3,max=30"`
}

// UpdateProfileRequest defines the request body for updating a profile.
type UpdateProfileRequest struct {
	Name            string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Avatar          string `json:"avatar,omitempty" validate:"omitempty,url"`
	ThemePreference string `json:"theme_preference,omitempty" validate:"omitempty,oneof=light dark"`
	ColorTheme      string `json:"color_theme,omitempty"`
}

// RegisterPushTokenRequest defines the request body for saving an FCM token.
type RegisterPushTokenRequest struct {
	Token string `json:"token" validate:"required"`
}
