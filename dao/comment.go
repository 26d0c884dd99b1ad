package dao

import (
	"context"

	"stash/models"

	"gorm.io/gorm"
)

type Comment struct {
	Repo[models.NoteComment]
}

func NewComment(db *gorm.DB) *Comment {
	return &Comment{
		Repo: NewRepo[models.NoteComment](db),
	}
}

// GetRootCommentsByCursor 一级评论按时间倒序, cursor 为上一页最后一条的 ID
func (d *Comment) GetRootCommentsByCursor(ctx context.Context, noteID uint64, cursor uint64, limit int) ([]*models.NoteComment, error) {
	var comments []*models.NoteComment
	query := d.Db.WithContext(ctx).
		Where("note_id = ? AND reply_to_id = 0", noteID)

	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	err := query.
		Order("id DESC").
		Limit(limit).
		Find(&comments).Error

	return comments, err
}

// GetRepliesByCursor 回复按时间正序
func (d *Comment) GetRepliesByCursor(ctx context.Context, rootID uint64, cursor uint64, limit int) ([]*models.NoteComment, error) {
	var replies []*models.NoteComment
	query := d.Db.WithContext(ctx).
		Where("reply_to_id = ?", rootID)

	if cursor > 0 {
		query = query.Where("id > ?", cursor)
	}

	err := query.
		Order("id ASC").
		Limit(limit).
		Find(&replies).Error

	return replies, err
}

// Replies 一级评论下所有回复的 ID 和作者
func (d *Comment) Replies(tx *gorm.DB, rootID uint64) ([]*models.NoteComment, error) {
	var replies []*models.NoteComment
	err := tx.Select("id, user_id").Where("reply_to_id = ?", rootID).Find(&replies).Error
	return replies, err
}

func (d *Comment) IncrRepliesCount(tx *gorm.DB, rootID uint64, delta int64) error {
	expr := gorm.Expr("replies_count + ?", delta)
	if delta < 0 {
		expr = gorm.Expr(decrClamp("replies_count"), -delta, -delta)
	}
	return tx.Model(&models.NoteComment{}).Where("id = ?", rootID).UpdateColumn("replies_count", expr).Error
}

func (d *Comment) IncrLikesCount(tx *gorm.DB, commentID uint64, delta int64) error {
	expr := gorm.Expr("likes_count + ?", delta)
	if delta < 0 {
		expr = gorm.Expr(decrClamp("likes_count"), -delta, -delta)
	}
	return tx.Model(&models.NoteComment{}).Where("id = ?", commentID).UpdateColumn("likes_count", expr).Error
}

// LikesCount 读取最新点赞数
func (d *Comment) LikesCount(tx *gorm.DB, commentID uint64) (int64, error) {
	var count int64
	err := tx.Model(&models.NoteComment{}).Select("likes_count").Where("id = ?", commentID).Scan(&count).Error
	return count, err
}
