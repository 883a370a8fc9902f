package models

import (
	"crypto/rand"
	"time"
)

// TreeType defines the visibility of a tree.
type TreeType string

const (
	// TreeTypePublic is a tree anyone may join.
	TreeTypePublic TreeType = "PUBLIC"
	// TreeTypePrivate is a tree joinable only with its key.
	TreeTypePrivate TreeType = "PRIVATE"
)

// TreeKeyLength is the length of a private tree's join key.
const TreeKeyLength = 12

// Tree represents a decoration board users attach notes to.
type Tree struct {
	ID        uint      `gorm:"primaryKey" json:"tree_id"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	Owner     *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name      string    `gorm:"size:120;not null" json:"tree_name"`
	Type      TreeType  `gorm:"type:varchar(10);not null;default:'PUBLIC'" json:"tree_type"`
	Key       string    `gorm:"size:24;index" json:"tree_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const treeKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewTreeKey returns a random join key for a private tree. The 12-character
// uppercase alphanumeric format matches what clients already store and share.
func NewTreeKey() string {
	buf := make([]byte, TreeKeyLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	for i, b := range buf {
		buf[i] = treeKeyAlphabet[int(b)%len(treeKeyAlphabet)]
	}
	return string(buf)
}
