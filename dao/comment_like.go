package dao

import (
	"stash/models"

	"gorm.io/gorm"
)

type CommentLike struct {
	Repo[models.CommentLike]
}

func NewCommentLike(db *gorm.DB) *CommentLike {
	return &CommentLike{
		Repo: NewRepo[models.CommentLike](db),
	}
}

// LikedBy 某条评论的点赞用户, 删除评论时用于回收积分
func (d *CommentLike) LikedBy(tx *gorm.DB, commentIDs []uint64) ([]*models.CommentLike, error) {
	var likes []*models.CommentLike
	if len(commentIDs) == 0 {
		return likes, nil
	}
	err := tx.Where("comment_id IN ?", commentIDs).Find(&likes).Error
	return likes, err
}
