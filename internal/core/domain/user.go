package domain

import "time"

// User models an authenticated actor in the system. Neither the password
// hash nor the token is serialized; the token reaches its owner only
// through the login and register responses.
type User struct {
	ID          int64      `json:"id"                    gorm:"primaryKey"`
	Email       string     `json:"email"                 gorm:"size:255;not null;uniqueIndex"`
	Password    string     `json:"-"                     gorm:"size:255;not null"`
	Token       string     `json:"-"                     gorm:"size:128;not null;uniqueIndex"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	RoleID      *int64     `json:"roleId"                gorm:"index"`
	Role        *Role      `json:"-"                     gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// UserInput is the writable shape of a User. Role is a link field.
type UserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     *int64 `json:"role,omitempty"`
}

// Sanitized returns a copy without the password hash.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
