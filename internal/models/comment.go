package models

import "time"

// Comment represents a comment left on a note.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"comment_id"`
	NoteID   uint   `gorm:"not null;index" json:"note_id"`
	Note     *Note  `gorm:"foreignKey:NoteID" json:"note,omitempty"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content  string `gorm:"type:text;not null" json:"content"`
	IsHidden bool   `gorm:"not null;default:false" json:"is_hidden"`
	// Author is not persisted; joined from users at query time
	Author    string    `gorm:"->" json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
