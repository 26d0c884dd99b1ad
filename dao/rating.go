package dao

import (
	"context"

	"stash/models"

	"gorm.io/gorm"
)

type NoteRating struct {
	Repo[models.NoteRating]
}

func NewNoteRating(db *gorm.DB) *NoteRating {
	return &NoteRating{
		Repo: NewRepo[models.NoteRating](db),
	}
}

func (d *NoteRating) FindByUser(ctx context.Context, noteID, userID uint64) (*models.NoteRating, error) {
	return d.FindByWhere(ctx, "note_id = ? AND user_id = ?", noteID, userID)
}

// ListByNote 最新的评分在前
func (d *NoteRating) ListByNote(ctx context.Context, noteID uint64, offset, limit int) ([]*models.NoteRating, error) {
	var ratings []*models.NoteRating
	err := d.Db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("updated_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&ratings).Error
	return ratings, err
}
