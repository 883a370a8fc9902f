package models

import "time"

// Like represents a user liking a note. At most one row per (note, user).
type Like struct {
	NoteID    uint      `gorm:"primaryKey;autoIncrement:false" json:"note_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
