package dao

import (
	"context"

	"stash/models"

	"gorm.io/gorm"
)

type Note struct {
	Repo[models.Note]
}

func NewNoteDAO(db *gorm.DB) *Note {
	return &Note{
		Repo: NewRepo[models.Note](db),
	}
}

// NoteQuery 笔记筛选条件, 空值表示不过滤
type NoteQuery struct {
	Search     string
	ClassID    uint64
	UploaderID uint64
	Professor  string
	Semester   string
	School     string
	FileType   string
	MinRating  float64
	Offset     int
	Limit      int
}

func (d *Note) filter(db *gorm.DB, q NoteQuery) *gorm.DB {
	if q.Search != "" {
		pattern := likePattern(q.Search)
		db = db.Where(
			"(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!' OR LOWER("+textExpr(d.Db, "keywords")+") LIKE ? ESCAPE '!')",
			pattern, pattern, pattern,
		)
	}
	if q.ClassID > 0 {
		db = db.Where("class_id = ?", q.ClassID)
	}
	if q.UploaderID > 0 {
		db = db.Where("uploader_id = ?", q.UploaderID)
	}
	if q.Professor != "" {
		db = db.Where("professor = ?", q.Professor)
	}
	if q.Semester != "" {
		db = db.Where("semester = ?", q.Semester)
	}
	if q.School != "" {
		db = db.Where("school = ?", q.School)
	}
	if q.FileType != "" {
		db = db.Where("file_type = ?", q.FileType)
	}
	if q.MinRating > 0 {
		db = db.Where("average_rating >= ?", q.MinRating)
	}
	return db
}

// List 按创建时间倒序分页
func (d *Note) List(ctx context.Context, q NoteQuery) ([]*models.Note, int64, error) {
	db := d.filter(d.Db.WithContext(ctx).Model(&models.Note{}), q)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notes []*models.Note
	db = db.Order("created_at DESC").Order("id DESC")
	if q.Limit > 0 {
		db = db.Offset(q.Offset).Limit(q.Limit)
	}
	err := db.Find(&notes).Error
	return notes, total, err
}

// Distinct 某一列去重后的非空取值
func (d *Note) Distinct(ctx context.Context, column string) ([]string, error) {
	values := make([]string, 0)
	err := d.Db.WithContext(ctx).Model(&models.Note{}).
		Distinct(column).
		Where(column+" <> ''").
		Order(column).
		Pluck(column, &values).Error
	return values, err
}

// RefreshRating 根据 note_ratings 重新计算平均分和评分人数
func (d *Note) RefreshRating(tx *gorm.DB, noteID uint64) (float64, int64, error) {
	var agg struct {
		Avg   float64
		Total int64
	}
	err := tx.Model(&models.NoteRating{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS total").
		Where("note_id = ?", noteID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, err
	}
	err = tx.Model(&models.Note{}).Where("id = ?", noteID).UpdateColumns(map[string]any{
		"average_rating": agg.Avg,
		"ratings_count":  agg.Total,
	}).Error
	return agg.Avg, agg.Total, err
}

// IncrCommentsCount delta 可为负数, 结果不小于 0
func (d *Note) IncrCommentsCount(tx *gorm.DB, noteID uint64, delta int64) error {
	expr := gorm.Expr("comments_count + ?", delta)
	if delta < 0 {
		expr = gorm.Expr(decrClamp("comments_count"), -delta, -delta)
	}
	return tx.Model(&models.Note{}).Where("id = ?", noteID).UpdateColumn("comments_count", expr).Error
}

// DeleteNotesCascade 删除笔记以及评分、评论、评论点赞, 需在事务中调用
func DeleteNotesCascade(tx *gorm.DB, noteIDs []uint64) error {
	if len(noteIDs) == 0 {
		return nil
	}
	commentIDs := tx.Model(&models.NoteComment{}).Select("id").Where("note_id IN ?", noteIDs)
	if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
		return err
	}
	if err := tx.Where("note_id IN ?", noteIDs).Delete(&models.NoteComment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("note_id IN ?", noteIDs).Delete(&models.NoteRating{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", noteIDs).Delete(&models.Note{}).Error
}
