package models

import "time"

// MaxNotesPerTree is the hard cap on ornaments a single tree can hold.
// Enforced transactionally in the note repository.
const MaxNotesPerTree = 10

// Note represents a positioned message ("ornament") attached to a tree.
type Note struct {
	ID      uint   `gorm:"primaryKey" json:"note_id"`
	TreeID  uint   `gorm:"not null;index" json:"tree_id"`
	Tree    *Tree  `gorm:"foreignKey:TreeID" json:"tree,omitempty"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Message string `gorm:"type:text;not null" json:"message"`
	PosX    int    `gorm:"not null;default:0" json:"pos_x"`
	PosY    int    `gorm:"not null;default:0" json:"pos_y"`
	IsHidden bool  `gorm:"not null;default:false" json:"is_hidden"`
	// LikeCount is not persisted; computed at query time
	LikeCount int       `gorm:"->" json:"like_count"`
	Author    string    `gorm:"->" json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
