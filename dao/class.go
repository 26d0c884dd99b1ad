package dao

import (
	"context"

	"stash/models"

	"gorm.io/gorm"
)

type Class struct {
	Repo[models.Class]
}

func NewClass(db *gorm.DB) *Class {
	return &Class{
		Repo: NewRepo[models.Class](db),
	}
}

type ClassQuery struct {
	UserID          uint64
	FavoritesOnly   bool
	IncludeArchived bool
	CreatedBy       uint64
	Offset          int
	Limit           int
}

// List 按创建时间倒序
func (d *Class) List(ctx context.Context, q ClassQuery) ([]*models.Class, int64, error) {
	db := d.Db.WithContext(ctx).Model(&models.Class{})
	if !q.IncludeArchived {
		db = db.Where("is_archived = ?", false)
	}
	if q.CreatedBy > 0 {
		db = db.Where("created_by = ?", q.CreatedBy)
	}
	if q.FavoritesOnly {
		db = db.Where("id IN (?)", d.Db.Model(&models.ClassFavorite{}).Select("class_id").Where("user_id = ?", q.UserID))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var classes []*models.Class
	db = db.Order("created_at DESC").Order("id DESC")
	if q.Limit > 0 {
		db = db.Offset(q.Offset).Limit(q.Limit)
	}
	err := db.Find(&classes).Error
	return classes, total, err
}

// Options 用于筛选下拉框, 按名称排序
func (d *Class) Options(ctx context.Context) ([]*models.Class, error) {
	var classes []*models.Class
	err := d.Db.WithContext(ctx).
		Select("id, name").
		Order("name ASC").
		Find(&classes).Error
	return classes, err
}

// BatchGetNames 批量获取课程名称
func (d *Class) BatchGetNames(ctx context.Context, ids []uint64) (map[uint64]string, error) {
	result := make(map[uint64]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var classes []*models.Class
	if err := d.Db.WithContext(ctx).Select("id, name").Where("id IN ?", ids).Find(&classes).Error; err != nil {
		return nil, err
	}
	for _, c := range classes {
		result[c.ID] = c.Name
	}
	return result, nil
}

// NoteCounts 每个课程下的笔记数量
func (d *Class) NoteCounts(ctx context.Context, ids []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []struct {
		ClassID uint64
		Total   int64
	}
	err := d.Db.WithContext(ctx).Model(&models.Note{}).
		Select("class_id, COUNT(*) AS total").
		Where("class_id IN ?", ids).
		Group("class_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		result[r.ClassID] = r.Total
	}
	return result, nil
}

// DeleteCascade 删除课程及其下所有笔记, 需在事务中调用
func (d *Class) DeleteCascade(tx *gorm.DB, classID uint64) error {
	var noteIDs []uint64
	if err := tx.Model(&models.Note{}).Where("class_id = ?", classID).Pluck("id", &noteIDs).Error; err != nil {
		return err
	}
	if err := DeleteNotesCascade(tx, noteIDs); err != nil {
		return err
	}
	if err := tx.Where("class_id = ?", classID).Delete(&models.ClassFavorite{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", classID).Delete(&models.Class{}).Error
}

type ClassFavorite struct {
	Repo[models.ClassFavorite]
}

func NewClassFavorite(db *gorm.DB) *ClassFavorite {
	return &ClassFavorite{
		Repo: NewRepo[models.ClassFavorite](db),
	}
}

// BatchCheckExists 批量检查收藏状态
func (d *ClassFavorite) BatchCheckExists(ctx context.Context, classIDs []uint64, userID uint64) (map[uint64]bool, error) {
	result := make(map[uint64]bool)
	if len(classIDs) == 0 || userID == 0 {
		return result, nil
	}

	var ids []uint64
	err := d.Db.WithContext(ctx).Model(&models.ClassFavorite{}).
		Where("class_id IN ? AND user_id = ?", classIDs, userID).
		Pluck("class_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
