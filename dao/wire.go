package dao

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewUsers,
	NewProfiles,
	NewClass,
	NewClassFavorite,
	NewNoteDAO,
	NewNoteRating,
	NewComment,
	NewCommentLike,
	NewReputation,
	NewBadge,
	NewReputationLog,
)
