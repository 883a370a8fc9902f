package models

import "time"

// TreeMembership maps users to the trees they have joined.
type TreeMembership struct {
	TreeID   uint      `gorm:"primaryKey;autoIncrement:false" json:"tree_id"`
	Tree     *Tree     `gorm:"foreignKey:TreeID" json:"tree,omitempty"`
	UserID   uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
