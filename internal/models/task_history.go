package models

import "time"

// TaskHistory is an append-only audit record of a task status change.
// Rows are never updated; they are removed only when the owning task
// or the authoring user is deleted.
type TaskHistory struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	TaskID    uint64     `gorm:"not null" json:"task_id"`
	ChangedBy uint64     `gorm:"not null" json:"changed_by"`
	OldStatus TaskStatus `gorm:"type:varchar(20);not null" json:"old_status"`
	NewStatus TaskStatus `gorm:"type:varchar(20);not null" json:"new_status"`
	ChangedAt time.Time  `gorm:"autoCreateTime" json:"changed_at"`

	// Relations
	ChangedByUser User `gorm:"foreignKey:ChangedBy" json:"changed_by_user,omitempty"`
}
