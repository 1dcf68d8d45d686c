package models

import (
	"time"

	"gorm.io/gorm"
)

// Task belongs to the user identified by OwnerUID (the authenticated
// username, i.e. the LDAP uid). Every query against this table must be
// scoped by OwnerUID.
type Task struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Completed bool           `gorm:"default:false" json:"completed"`
	Deadline  *time.Time     `gorm:"index" json:"deadline,omitempty"`
	OwnerUID  string         `gorm:"index;size:100;not null" json:"-"`
	Subtasks  []Subtask      `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"subtasks"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Subtask struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"index;size:36;not null" json:"-"`
	Text      string    `gorm:"size:500;not null" json:"text"`
	Completed bool      `gorm:"default:false" json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Task) TableName() string    { return "tasks" }
func (Subtask) TableName() string { return "subtasks" }
