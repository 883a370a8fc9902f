package models

import "time"

// AdminAction enumerates the moderation actions recorded in the audit log.
type AdminAction string

const (
	ActionHideNote      AdminAction = "HIDE_NOTE"
	ActionShowNote      AdminAction = "SHOW_NOTE"
	ActionDeleteNote    AdminAction = "DELETE_NOTE"
	ActionHideComment   AdminAction = "HIDE_COMMENT"
	ActionShowComment   AdminAction = "SHOW_COMMENT"
	ActionDeleteComment AdminAction = "DELETE_COMMENT"
	ActionBlockUser     AdminAction = "BLOCK_USER"
	ActionUnblockUser   AdminAction = "UNBLOCK_USER"
)

// AdminLog is an append-only audit record of a moderation action. Rows are
// never updated or deleted. There are intentionally no foreign keys: a log
// row written just before a delete may outlive the ids it references.
// For user-level actions target_note and note_id hold 0.
type AdminLog struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	AdminID    uint        `gorm:"column:admin_id;not null;index" json:"admin_id"`
	Action     AdminAction `gorm:"type:varchar(20);not null" json:"action"`
	TargetNote uint        `gorm:"column:target_note;not null;default:0" json:"target_note"`
	UserID     uint        `gorm:"column:user_id;not null" json:"user_id"`
	NoteID     uint        `gorm:"column:note_id;not null;default:0" json:"note_id"`
	ActionTime time.Time   `gorm:"column:actiontime;autoCreateTime" json:"actiontime"`
}
