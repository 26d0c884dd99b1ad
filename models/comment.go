package models

import (
	"time"
)

// NoteComment 笔记评论, ReplyToID 为 0 表示一级评论
type NoteComment struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	NoteID       uint64    `gorm:"column:note_id;not null;index:idx_comment_note_reply" json:"note_id,string"`
	UserID       uint64    `gorm:"column:user_id;not null;index:idx_comment_user" json:"user_id,string"`
	ReplyToID    uint64    `gorm:"column:reply_to_id;not null;default:0;index:idx_comment_note_reply" json:"reply_to_id,string"`
	Content      string    `gorm:"column:content;type:text;not null" json:"content"`
	LikesCount   int64     `gorm:"column:likes_count;not null;default:0" json:"likes_count"`
	RepliesCount int64     `gorm:"column:replies_count;not null;default:0" json:"replies_count"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (NoteComment) TableName() string {
	return "note_comments"
}

// IsReply 是否为回复
func (c *NoteComment) IsReply() bool {
	return c.ReplyToID != 0
}

// CommentLike 评论点赞表
type CommentLike struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	CommentID uint64    `gorm:"column:comment_id;not null;uniqueIndex:idx_comment_user_like" json:"comment_id,string"`
	UserID    uint64    `gorm:"column:user_id;not null;uniqueIndex:idx_comment_user_like" json:"user_id,string"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
