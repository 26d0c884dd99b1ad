package types

import "time"

// UploadNoteRequest multipart 表单字段, 文件单独读取
type UploadNoteRequest struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description" binding:"max=2000"`
	ClassID     uint64 `form:"class_id" binding:"required"`
	Professor   string `form:"professor" binding:"max=128"`
	Semester    string `form:"semester" binding:"max=32"`
	School      string `form:"school" binding:"max=128"`
	Keywords    string `form:"keywords" binding:"max=500"`
}

type ListNotesRequest struct {
	Search    string  `form:"search"`
	ClassID   uint64  `form:"class_id"`
	Professor string  `form:"professor"`
	Semester  string  `form:"semester"`
	School    string  `form:"school"`
	FileType  string  `form:"file_type"`
	MinRating float64 `form:"min_rating" binding:"omitempty,min=0,max=5"`
	Page      int     `form:"page"`
	PageSize  int     `form:"page_size"`
}

type NoteIDRequest struct {
	NoteID uint64 `json:"note_id,string" binding:"required"`
}

type NoteResponse struct {
	ID            uint64    `json:"id,string"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	FilePath      string    `json:"file_path"`
	FileType      string    `json:"file_type"`
	FileSize      int64     `json:"file_size"`
	FileSizeText  string    `json:"file_size_text"`
	UploaderID    uint64    `json:"uploader_id,string"`
	UploaderName  string    `json:"uploader_name"`
	ClassID       uint64    `json:"class_id,string"`
	ClassName     string    `json:"class_name"`
	Professor     string    `json:"professor"`
	Semester      string    `json:"semester"`
	School        string    `json:"school"`
	Keywords      []string  `json:"keywords"`
	AverageRating float64   `json:"average_rating"`
	RatingsCount  int64     `json:"ratings_count"`
	CommentsCount int64     `json:"comments_count"`
	ShareCode     string    `json:"share_code,omitempty"`
	MyRating      *MyRating `json:"my_rating,omitempty"`
	IsOwner       bool      `json:"is_owner"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type NoteListResponse struct {
	Notes    []*NoteResponse `json:"notes"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type ClassOption struct {
	ID   uint64 `json:"id,string"`
	Name string `json:"name"`
}

type FilterOptionsResponse struct {
	Classes    []ClassOption `json:"classes"`
	Professors []string      `json:"professors"`
	Semesters  []string      `json:"semesters"`
	Schools    []string      `json:"schools"`
	FileTypes  []string      `json:"file_types"`
}

// 预览模式
const (
	PreviewHTML     = "html"
	PreviewText     = "text"
	PreviewEmbed    = "embed"
	PreviewDownload = "download"
)

type PreviewResponse struct {
	Mode        string `json:"mode"`
	FileType    string `json:"file_type"`
	ContentType string `json:"content_type"`
	Content     string `json:"content,omitempty"`
	URL         string `json:"url,omitempty"`
	Truncated   bool   `json:"truncated,omitempty"`
	Message     string `json:"message,omitempty"`
}

type DownloadURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
