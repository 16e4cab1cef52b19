package entity

import "time"

// FlowType is the intent behind a verification request.
type FlowType int

const (
	FlowRegister FlowType = iota
	FlowLogin
	FlowForgotPassword
	FlowResetPassword
)

func (f FlowType) String() string {
	switch f {
	case FlowRegister:
		return "register"
	case FlowLogin:
		return "login"
	case FlowForgotPassword:
		return "forgot_password"
	case FlowResetPassword:
		return "reset_password"
	default:
		return "unknown"
	}
}

// IdentifierType classifies the identifier a request is bound to.
type IdentifierType int

const (
	IdentifierEmail IdentifierType = iota
	IdentifierUsername
)

func (t IdentifierType) String() string {
	if t == IdentifierUsername {
		return "username"
	}
	return "email"
}

// RequestStatus is the stored lifecycle state. PENDING transitions to
// COMPLETE exactly once; expiry and attempt exhaustion are derived at
// verification time, never stored.
type RequestStatus int

const (
	StatusPending RequestStatus = iota
	StatusComplete
)

// AuthRequest is one in-flight verification-code challenge bound to an
// identifier and a flow type.
type AuthRequest struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"size:50;not null;index:idx_auth_requests_lookup" json:"username"`
	Identifier     string         `gorm:"size:100;not null;index:idx_auth_requests_lookup;index" json:"identifier"`
	IdentifierType IdentifierType `gorm:"not null;default:0" json:"identifier_type"`
	DeviceUUID     string         `gorm:"size:40;not null;default:''" json:"device_uuid"`
	Code           string         `gorm:"size:6;not null;index:idx_auth_requests_lookup" json:"-"`
	Status         RequestStatus  `gorm:"not null;default:0" json:"status"`
	FlowType       FlowType       `gorm:"not null;default:0" json:"flow_type"`
	ExpiresAt      time.Time      `gorm:"not null;index" json:"expires_at"`
	AttemptCount   int            `gorm:"not null;default:0" json:"attempt_count"`
	UserIsActive   bool           `gorm:"not null;default:false" json:"user_is_active"`
	// UserIsRegistered is a snapshot taken at creation for login flows.
	UserIsRegistered bool `gorm:"not null;default:false" json:"user_is_registered"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AuthRequest) TableName() string {
	return "auth_requests"
}

func (r *AuthRequest) IsComplete() bool {
	return r.Status == StatusComplete
}

// IsExpired reports whether the code is no longer acceptable at now.
// The boundary instant itself counts as expired.
func (r *AuthRequest) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
