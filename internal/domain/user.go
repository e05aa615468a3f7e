package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// UserStatus enumerates account standing.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

// Usage tracks per-capability consumption counters for one user. Counters move
// only on successful completion of the matching action.
type Usage struct {
	Generations int `json:"generations"`
	Chats       int `json:"chats"`
	Projects    int `json:"projects"`
	Toolkit     int `json:"toolkit"`
	CSAssistant int `json:"csAssistant"`
	Quizzes     int `json:"quizzes"`
}

// User represents an account within the suite. Role, premium and status are
// independent attributes; none is derived from another.
type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Bio           string     `json:"bio"`
	Avatar        string     `json:"avatar"`
	Role          UserRole   `json:"role"`
	IsPremium     bool       `json:"isPremium"`
	Status        UserStatus `json:"status"`
	SuspensionEnd *time.Time `json:"suspensionEndDate"`
	Usage         Usage      `json:"usage"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Suspended reports whether the user is under an active suspension at now.
func (u User) Suspended(now time.Time) bool {
	return u.Status == UserStatusSuspended && u.SuspensionEnd != nil && now.Before(*u.SuspensionEnd)
}

// SuspensionLapsed reports whether a past suspension window has run out and
// the account is due for reactivation.
func (u User) SuspensionLapsed(now time.Time) bool {
	return u.Status == UserStatusSuspended && u.SuspensionEnd != nil && now.After(*u.SuspensionEnd)
}
