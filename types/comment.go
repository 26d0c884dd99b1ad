package types

import "time"

// 创建评论请求
type CreateCommentRequest struct {
	NoteID    uint64 `json:"note_id,string" binding:"required"`
	Content   string `json:"content" binding:"required,max=4000"`
	ReplyToID uint64 `json:"reply_to_id,string"` // 被回复的评论ID
}

type UpdateCommentRequest struct {
	CommentID uint64 `json:"comment_id,string" binding:"required"`
	Content   string `json:"content" binding:"required,max=4000"`
}

type CommentIDRequest struct {
	CommentID uint64 `json:"comment_id,string" binding:"required"`
}

// 评论响应
type CommentResponse struct {
	ID           uint64    `json:"id,string"`
	NoteID       uint64    `json:"note_id,string"`
	UserID       uint64    `json:"user_id,string"`
	ReplyToID    uint64    `json:"reply_to_id,string"`
	IsReply      bool      `json:"is_reply"`
	Content      string    `json:"content"`
	LikesCount   int64     `json:"likes_count"`
	RepliesCount int64     `json:"replies_count"`
	IsLiked      bool      `json:"is_liked"`
	Edited       bool      `json:"edited"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	CreatedAgo   string    `json:"created_ago"`

	// 评论者信息
	User UserProfile `json:"user"`
}

type CommentsListResponse struct {
	Comments   []*CommentResponse `json:"comments"`
	NextCursor uint64             `json:"next_cursor,string"`
	HasMore    bool               `json:"has_more"`
}

type LikeToggleResponse struct {
	CommentID  uint64 `json:"comment_id,string"`
	Liked      bool   `json:"liked"`
	LikesCount int64  `json:"likes_count"`
}
