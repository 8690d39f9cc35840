package model

import "time"

// Lead is a contact captured from the public website.
type Lead struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FullName  string    `json:"full_name" gorm:"size:255;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Phone     string    `json:"phone" gorm:"size:30;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Lead) TableName() string { return "lead" }
