package models

import "gorm.io/gorm"

// Admin rows are consumed by the external auth service; this backend only
// seeds the initial principal.
type Admin struct {
	gorm.Model
	FullName string `json:"fullName"`
	Username string `gorm:"uniqueIndex;size:150" json:"username"`
	Password string `json:"-"`
}
