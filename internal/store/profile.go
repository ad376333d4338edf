package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"finlink/pkg/logging"
)

// Profile is the singleton user identity attached to hosted link requests.
type Profile struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ValidationError indicates a malformed profile field. It is recoverable: the
// caller re-prompts instead of aborting.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var (
	emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// ValidateEmail checks the email against a minimal name@host.tld shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Reason: "must look like name@example.com"}
	}
	return nil
}

// ValidatePhone checks for exactly ten digits, no spaces or dashes.
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return &ValidationError{Field: "phone", Reason: "must be exactly 10 digits"}
	}
	return nil
}

// Validate checks all profile fields.
func (p Profile) Validate() error {
	if err := ValidateEmail(p.Email); err != nil {
		return err
	}
	return ValidatePhone(p.Phone)
}

// MaskPhone blanks every digit except the last four for display.
func MaskPhone(phone string) string {
	if len(phone) < 4 {
		return phone
	}
	return strings.Repeat("•", len(phone)-4) + phone[len(phone)-4:]
}

// Profiles persists the singleton user profile as a JSON file.
type Profiles struct {
	path string
}

// NewProfiles creates a profile store backed by the given file path.
func NewProfiles(path string) *Profiles {
	return &Profiles{path: path}
}

// Load reads the stored profile. A missing, corrupt, or incomplete file
// reports absent.
func (p *Profiles) Load() (Profile, bool) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return Profile{}, false
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		logging.Warn("Store", "credentials file %s is corrupt, treating as absent", p.path)
		return Profile{}, false
	}
	if profile.Email == "" || profile.Phone == "" {
		return Profile{}, false
	}
	return profile, true
}

// Save validates and writes the profile with owner-only permissions.
func (p *Profiles) Save(profile Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}
