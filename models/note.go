package models

import (
	"time"

	"gorm.io/datatypes"
)

// 支持上传的笔记文件类型
const (
	FileTypePDF  = "pdf"
	FileTypeDOC  = "doc"
	FileTypeDOCX = "docx"
	FileTypePPTX = "pptx"
	FileTypeTXT  = "txt"
	FileTypeMD   = "md"
)

type Note struct {
	ID            uint64                      `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	Title         string                      `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Description   string                      `gorm:"column:description;type:text" json:"description"`
	FilePath      string                      `gorm:"column:file_path;type:varchar(512);not null" json:"file_path"`
	FileType      string                      `gorm:"column:file_type;type:varchar(16);not null;index:idx_note_file_type" json:"file_type"`
	FileSize      int64                       `gorm:"column:file_size;not null;default:0" json:"file_size"`
	UploaderID    uint64                      `gorm:"column:uploader_id;not null;index:idx_note_uploader" json:"uploader_id,string"`
	UploaderName  string                      `gorm:"column:uploader_name;type:varchar(128);not null" json:"uploader_name"`
	ClassID       uint64                      `gorm:"column:class_id;not null;index:idx_note_class" json:"class_id,string"`
	Professor     string                      `gorm:"column:professor;type:varchar(128);not null;default:''" json:"professor"`
	Semester      string                      `gorm:"column:semester;type:varchar(32);not null;default:''" json:"semester"`
	School        string                      `gorm:"column:school;type:varchar(128);not null;default:''" json:"school"`
	Keywords      datatypes.JSONSlice[string] `gorm:"column:keywords" json:"keywords"`
	AverageRating float64                     `gorm:"column:average_rating;not null;default:0" json:"average_rating"`
	RatingsCount  int64                       `gorm:"column:ratings_count;not null;default:0" json:"ratings_count"`
	CommentsCount int64                       `gorm:"column:comments_count;not null;default:0" json:"comments_count"`
	CreatedAt     time.Time                   `gorm:"column:created_at;autoCreateTime;index:idx_note_created_at" json:"created_at"`
	UpdatedAt     time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Note) TableName() string {
	return "notes"
}

// NoteRating 每个用户对每篇笔记只有一条评分
type NoteRating struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	NoteID    uint64    `gorm:"column:note_id;not null;uniqueIndex:idx_rating_note_user" json:"note_id,string"`
	UserID    uint64    `gorm:"column:user_id;not null;uniqueIndex:idx_rating_note_user" json:"user_id,string"`
	Rating    int       `gorm:"column:rating;not null" json:"rating"`
	Comment   string    `gorm:"column:comment;type:varchar(500);not null;default:''" json:"comment"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (NoteRating) TableName() string {
	return "note_ratings"
}
