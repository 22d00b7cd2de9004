package users

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes matchmakers from candidates
type Role string

const (
	RoleMatchmaker Role = "MATCHMAKER"
	RoleCandidate  Role = "CANDIDATE"
)

// User is the record-store view of a person the core needs: identity, contact
// fields and locale preference. Profile details (photos, questionnaires,
// checklists) live elsewhere and are not consulted here.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex"`
	Phone     string    `json:"phone" gorm:""`
	Language  string    `json:"language" gorm:"default:en"`
	Role      Role      `json:"role" gorm:"not null;default:CANDIDATE"`
	// PushEndpointARN is the SNS platform endpoint registered by the mobile
	// app; empty when the user has no registered device.
	PushEndpointARN string    `json:"-" gorm:"column:push_endpoint_arn"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// FullName returns the display name used in notification content
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Locale returns the user's preferred locale, or fallback when unset
func (u *User) Locale(fallback string) string {
	if u.Language == "" {
		return fallback
	}
	return u.Language
}
