package models

import "time"

type Class struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	Name        string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedBy   uint64    `gorm:"column:created_by;not null;index:idx_created_by" json:"created_by,string"`
	Semester    string    `gorm:"column:semester;type:varchar(32);not null" json:"semester"`
	Year        int       `gorm:"column:year;not null" json:"year"`
	Professor   string    `gorm:"column:professor;type:varchar(128);not null" json:"professor"`
	IsArchived  bool      `gorm:"column:is_archived;not null;default:false" json:"is_archived"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index:idx_class_created_at" json:"created_at"`
}

func (Class) TableName() string {
	return "classes"
}

// ClassFavorite 收藏的课程
type ClassFavorite struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	ClassID   uint64    `gorm:"column:class_id;not null;uniqueIndex:idx_class_user" json:"class_id,string"`
	UserID    uint64    `gorm:"column:user_id;not null;uniqueIndex:idx_class_user;index:idx_favorite_user" json:"user_id,string"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ClassFavorite) TableName() string {
	return "class_favorites"
}
