package objects

import (
	"time"

	"github.com/arthur-debert/coredroid/pkg/registry"
)

// Credentials is the authenticated session of the current user.
type Credentials struct {
	Username  string    `json:"username" yaml:"username"`
	Token     string    `json:"token" yaml:"token"`
	ExpiresAt time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// IsPersistent returns false: credentials do not outlive the session
func (*Credentials) IsPersistent() bool { return false }

// Expired reports whether the credentials are past their expiry at now.
// A zero expiry never expires.
func (c *Credentials) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Profile holds user preferences that survive logout.
type Profile struct {
	DisplayName string            `json:"display_name" yaml:"display_name"`
	Locale      string            `json:"locale,omitempty" yaml:"locale,omitempty"`
	DarkMode    bool              `json:"dark_mode" yaml:"dark_mode"`
	Extras      map[string]string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// IsPersistent returns true
func (*Profile) IsPersistent() bool { return true }

// Register adds the built-in types to reg under their qualified names.
func Register(reg *registry.Types) error {
	if _, err := registry.RegisterType[Credentials](reg); err != nil {
		return err
	}
	if _, err := registry.RegisterType[Profile](reg); err != nil {
		return err
	}
	return nil
}
