package types

import "time"

type CreateClassRequest struct {
	Name        string `json:"name" binding:"required,max=128"`
	Description string `json:"description" binding:"max=2000"`
	Semester    string `json:"semester" binding:"required,max=32"`
	Year        int    `json:"year" binding:"required,min=2000,max=2100"`
	Professor   string `json:"professor" binding:"required,max=128"`
}

type ClassIDRequest struct {
	ClassID uint64 `json:"class_id,string" binding:"required"`
}

type ArchiveClassRequest struct {
	ClassID  uint64 `json:"class_id,string" binding:"required"`
	Archived bool   `json:"archived"`
}

type ListClassesRequest struct {
	Favorites       bool `form:"favorites"`
	IncludeArchived bool `form:"include_archived"`
	Page            int  `form:"page"`
	PageSize        int  `form:"page_size"`
}

// ClassResponse 课程 + 笔记数 + 当前用户是否收藏
type ClassResponse struct {
	ID          uint64    `json:"id,string"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   uint64    `json:"created_by,string"`
	Semester    string    `json:"semester"`
	Year        int       `json:"year"`
	Professor   string    `json:"professor"`
	IsArchived  bool      `json:"is_archived"`
	CreatedAt   time.Time `json:"created_at"`
	NoteCount   int64     `json:"note_count"`
	IsFavorited bool      `json:"is_favorited"`
	IsOwner     bool      `json:"is_owner"`
}

type ClassListResponse struct {
	Classes []*ClassResponse `json:"classes"`
	Total   int64            `json:"total"`
}

type FavoriteResponse struct {
	ClassID     uint64 `json:"class_id,string"`
	IsFavorited bool   `json:"is_favorited"`
}
