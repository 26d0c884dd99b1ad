package models

import "gorm.io/gorm"

// All 需要建表的模型
func All() []any {
	return []any{
		&User{},
		&Profile{},
		&Class{},
		&ClassFavorite{},
		&Note{},
		&NoteRating{},
		&NoteComment{},
		&CommentLike{},
		&UserReputation{},
		&UserBadge{},
		&ReputationLog{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
