// Package model defines the persisted entities of the task API.
package model

// PermType names a capability granted on a task. The column is free-form;
// PermRead and PermUpdate are the values the API issues.
type PermType string

const (
	PermRead   PermType = "read"
	PermUpdate PermType = "update"
)

// IsValid reports whether p is one of the values the API issues.
func (p PermType) IsValid() bool {
	return p == PermRead || p == PermUpdate
}

type User struct {
	Id             int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username       string `json:"username" gorm:"size:50;not null;uniqueIndex"`
	HashedPassword string `json:"-" gorm:"column:hashed_password;not null"`
}

type Task struct {
	Id          int     `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatorId   int     `json:"creator_id" gorm:"not null;index"`
	Name        string  `json:"name" gorm:"size:100;not null"`
	Description *string `json:"description"`
	Finished    bool    `json:"finished" gorm:"not null;default:false"`
	CreatedAt   int64   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   int64   `json:"updated_at" gorm:"autoUpdateTime"`

	Tags        []Tag        `json:"tags" gorm:"foreignKey:TaskId;references:Id;constraint:OnDelete:CASCADE"`
	Permissions []Permission `json:"-" gorm:"foreignKey:TaskId;references:Id;constraint:OnDelete:CASCADE"`
}

// Tag is a label on a task. Names are not unique per task.
type Tag struct {
	Id     int    `json:"id" gorm:"primaryKey;autoIncrement"`
	TaskId int    `json:"task_id" gorm:"not null;index"`
	Name   string `json:"name" gorm:"size:50;not null;index"`
}

// Permission is a grant of PermType on a task to a user. The composite
// primary key makes each grant unique.
type Permission struct {
	TaskId   int      `json:"task_id" gorm:"primaryKey;autoIncrement:false"`
	UserId   int      `json:"user_id" gorm:"primaryKey;autoIncrement:false;index"`
	PermType PermType `json:"perm_type" gorm:"primaryKey;size:20"`
}
