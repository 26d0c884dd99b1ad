package service

import (
	"stash/config"
	"stash/pkg/hashid"
	"stash/pkg/llm"

	"github.com/google/wire"
)

// NewShareCodec 分享码使用 app.hash_salt
func NewShareCodec(conf *config.Config) (*hashid.Codec, error) {
	return hashid.New(conf.App.HashSalt)
}

var ProviderSet = wire.NewSet(
	NewOAuthProviders,
	NewShareCodec,
	NewActivityPublisher,

	llm.NewClient,
	wire.Bind(new(llm.KeywordSuggester), new(*llm.Client)),

	wire.Struct(new(ActivityConsumer), "*"),

	wire.Struct(new(ReputationService), "*"),
	wire.Bind(new(IReputationService), new(*ReputationService)),

	wire.Struct(new(ProfileService), "*"),
	wire.Bind(new(IProfileService), new(*ProfileService)),

	wire.Struct(new(AuthService), "*"),
	wire.Bind(new(IAuthService), new(*AuthService)),

	wire.Struct(new(ClassService), "*"),
	wire.Bind(new(IClassService), new(*ClassService)),

	wire.Struct(new(NoteService), "*"),
	wire.Bind(new(INoteService), new(*NoteService)),

	wire.Struct(new(RatingService), "*"),
	wire.Bind(new(IRatingService), new(*RatingService)),

	wire.Struct(new(CommentsService), "*"),
	wire.Bind(new(ICommentsService), new(*CommentsService)),

	wire.Struct(new(AdminService), "*"),
	wire.Bind(new(IAdminService), new(*AdminService)),
)
