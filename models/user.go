package models

import (
	"time"
)

const UserTable = "grt_users"

// Team values accepted by the team check constraint on profiles.
var Teams = []string{"mechanical", "electrical", "software", "operations"}

func ValidTeam(t string) bool {
	for _, v := range Teams {
		if v == t {
			return true
		}
	}
	return false
}

type User struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	DisplayName  string `gorm:"size:255;not null" json:"displayName"`
	Team         string `gorm:"size:32;not null;default:'operations'" json:"team"`
	PhotoURL     string `gorm:"size:512" json:"photoUrl,omitempty"`
	PasswordHash []byte `gorm:"not null" json:"-"`
	IsAdmin      bool   `gorm:"not null;default:false" json:"isAdmin"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"loginCount"`
	LastLoginIP string     `gorm:"size:45" json:"-"`
	LastLoginUA string     `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }
