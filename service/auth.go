package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stash/config"
	"stash/dao"
	"stash/dao/cache"
	"stash/models"
	"stash/pkg/encrypt"
	"stash/pkg/jwt"
	"stash/pkg/log"
	"stash/pkg/response"
	"stash/pkg/snowflake"
	"stash/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var _ IAuthService = (*AuthService)(nil)

var errNoSession = response.Unauthorized("No authentication session found. Please try signing in again.")

type AuthService struct {
	Config        *config.Config
	DB            *gorm.DB
	UserDAO       *dao.Users
	ProfileDAO    *dao.Profiles
	ReputationDAO *dao.Reputation
	StateStorage  *cache.OAuthStateStorage
	DenyList      *cache.TokenDenyList
	OAuth         *OAuthProviders
	Profiles      IProfileService
}

type IAuthService interface {
	SignUp(ctx context.Context, req *types.SignUpRequest) (*types.AuthResponse, error)
	SignIn(ctx context.Context, req *types.SignInRequest) (*types.AuthResponse, error)

	// OAuthStart 生成 state 并返回授权页地址
	OAuthStart(ctx context.Context, provider string) (*types.OAuthStartResponse, error)
	// OAuthCallback 依次处理 error / code+state / access_token 三种回调
	OAuthCallback(ctx context.Context, params *types.OAuthCallbackParams) (*types.AuthResponse, error)

	Refresh(ctx context.Context, refreshToken string) (*types.AuthResponse, error)
	SignOut(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID uint64) (*types.MeResponse, error)
}

func (s *AuthService) SignUp(ctx context.Context, req *types.SignUpRequest) (*types.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if len(req.Password) < 6 {
		return nil, response.BadRequest("Password must be at least 6 characters")
	}

	exists, err := s.UserDAO.IsExist(ctx, "email = ?", email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, response.Conflict("An account with this email already exists")
	}

	hash, err := encrypt.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           snowflake.GenID(),
		Email:        email,
		PasswordHash: hash,
		Provider:     models.ProviderEmail,
	}
	profile := &models.Profile{
		ID:       user.ID,
		Username: usernameFromEmail(email),
		FullName: strings.TrimSpace(req.FullName),
	}
	if err := s.createAccount(ctx, user, profile); err != nil {
		return nil, err
	}
	log.L.Info("user signed up", zap.Uint64("user_id", user.ID), zap.String("provider", user.Provider))
	return s.issue(ctx, user)
}

func (s *AuthService) SignIn(ctx context.Context, req *types.SignInRequest) (*types.AuthResponse, error) {
	invalid := response.Unauthorized("Invalid email or password")

	user, err := s.UserDAO.FindByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.PasswordHash == "" || !encrypt.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, invalid
	}
	return s.issue(ctx, user)
}

func (s *AuthService) OAuthStart(ctx context.Context, provider string) (*types.OAuthStartResponse, error) {
	provider = strings.ToLower(provider)
	state := uuid.NewString()
	url, err := s.OAuth.AuthCodeURL(provider, state)
	if errors.Is(err, ErrUnknownProvider) {
		return nil, response.BadRequest("Unsupported sign-in provider")
	}
	if err != nil {
		return nil, err
	}
	if err := s.StateStorage.Save(ctx, state, provider, s.stateTTL()); err != nil {
		return nil, fmt.Errorf("save oauth state: %w", err)
	}
	return &types.OAuthStartResponse{Provider: provider, URL: url, State: state}, nil
}

func (s *AuthService) OAuthCallback(ctx context.Context, params *types.OAuthCallbackParams) (*types.AuthResponse, error) {
	var (
		provider    string
		accessToken string
		err         error
	)

	switch {
	case params.Error != "" || params.ErrorDescription != "":
		msg := params.ErrorDescription
		if msg == "" {
			msg = params.Error
		}
		return nil, response.Unauthorized(msg)

	case params.Code != "":
		if params.State == "" {
			return nil, errNoSession
		}
		var ok bool
		provider, ok, err = s.StateStorage.Consume(ctx, params.State)
		if err != nil {
			return nil, fmt.Errorf("consume oauth state: %w", err)
		}
		if !ok {
			return nil, errNoSession
		}
		accessToken, err = s.OAuth.Exchange(ctx, provider, params.Code)
		if err != nil {
			log.L.Warn("oauth exchange failed", zap.String("provider", provider), zap.Error(err))
			return nil, response.Unauthorized("Could not complete sign-in. Please try again.")
		}

	case params.AccessToken != "" && params.Provider != "":
		provider = strings.ToLower(params.Provider)
		accessToken = params.AccessToken

	default:
		return nil, errNoSession
	}

	info, err := s.OAuth.FetchUser(ctx, provider, accessToken)
	if errors.Is(err, ErrUnknownProvider) {
		return nil, response.BadRequest("Unsupported sign-in provider")
	}
	if err != nil {
		log.L.Warn("oauth userinfo failed", zap.String("provider", provider), zap.Error(err))
		return nil, response.Unauthorized("Could not complete sign-in. Please try again.")
	}

	user, err := s.getOrCreateOAuthUser(ctx, info)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

func (s *AuthService) getOrCreateOAuthUser(ctx context.Context, info *types.OAuthUser) (*models.User, error) {
	user, err := s.UserDAO.FindByProvider(ctx, info.Provider, info.ProviderID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find oauth user: %w", err)
	}

	if info.Email == "" {
		return nil, response.Unauthorized("Your account does not expose an email address")
	}
	if !info.EmailVerified {
		return nil, response.Unauthorized("Please verify your email address with the provider first")
	}

	// 同邮箱已注册则直接登录, 补全空的资料
	user, err = s.UserDAO.FindByEmail(ctx, info.Email)
	if err == nil {
		s.fillProfile(ctx, user.ID, info)
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	user = &models.User{
		ID:         snowflake.GenID(),
		Email:      info.Email,
		Provider:   info.Provider,
		ProviderID: info.ProviderID,
	}
	profile := &models.Profile{
		ID:        user.ID,
		Username:  usernameFromEmail(info.Email),
		FullName:  info.Name,
		AvatarURL: info.AvatarURL,
	}
	if err := s.createAccount(ctx, user, profile); err != nil {
		return nil, err
	}
	log.L.Info("user signed up", zap.Uint64("user_id", user.ID), zap.String("provider", user.Provider))
	return user, nil
}

func (s *AuthService) fillProfile(ctx context.Context, userID uint64, info *types.OAuthUser) {
	p, err := s.ProfileDAO.FindById(ctx, userID)
	if err != nil {
		return
	}
	updates := map[string]any{}
	if p.FullName == "" && info.Name != "" {
		updates["full_name"] = info.Name
	}
	if p.AvatarURL == "" && info.AvatarURL != "" {
		updates["avatar_url"] = info.AvatarURL
	}
	if len(updates) == 0 {
		return
	}
	if _, err := s.ProfileDAO.UpdateById(ctx, userID, updates); err != nil {
		log.L.Warn("fill profile failed", zap.Uint64("user_id", userID), zap.Error(err))
	}
}

// createAccount 用户、资料和积分账户在同一事务中创建
func (s *AuthService) createAccount(ctx context.Context, user *models.User, profile *models.Profile) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if err := tx.Create(profile).Error; err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		if _, err := s.ReputationDAO.EnsureAccount(tx, user.ID); err != nil {
			return fmt.Errorf("create reputation: %w", err)
		}
		return nil
	})
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*types.AuthResponse, error) {
	claims, err := s.parseRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.UserDAO.FindById(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.Unauthorized("Invalid refresh token")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	// 旧 refresh token 作废
	if err := s.DenyList.Deny(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return nil, fmt.Errorf("deny refresh token: %w", err)
	}
	return s.issue(ctx, user)
}

func (s *AuthService) SignOut(ctx context.Context, refreshToken string) error {
	claims, err := s.parseRefresh(ctx, refreshToken)
	if err != nil {
		var be *response.BizError
		if errors.As(err, &be) {
			// 已失效的 token 视为已退出
			return nil
		}
		return err
	}
	if err := s.DenyList.Deny(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return fmt.Errorf("deny refresh token: %w", err)
	}
	return nil
}

func (s *AuthService) parseRefresh(ctx context.Context, refreshToken string) (*jwt.Claims, error) {
	claims, err := jwt.ParseToken([]byte(s.Config.Jwt.Secret), jwt.TypeRefresh, refreshToken)
	if err != nil || claims.ExpiresAt == nil {
		return nil, response.Unauthorized("Invalid refresh token")
	}
	denied, err := s.DenyList.IsDenied(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check refresh token: %w", err)
	}
	if denied {
		return nil, response.Unauthorized("Invalid refresh token")
	}
	return claims, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint64) (*types.MeResponse, error) {
	user, err := s.UserDAO.FindById(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.Unauthorized("Please sign in first")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return s.buildMe(ctx, user)
}

func (s *AuthService) buildMe(ctx context.Context, user *models.User) (*types.MeResponse, error) {
	me := &types.MeResponse{
		ID:       user.ID,
		Email:    user.Email,
		Provider: user.Provider,
	}
	p, err := s.ProfileDAO.FindById(ctx, user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if p != nil {
		me.Username = p.Username
		me.FullName = p.FullName
		me.AvatarURL = p.AvatarURL
	}
	me.IsAdmin, err = s.Profiles.IsAdmin(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return me, nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*types.AuthResponse, error) {
	pair, err := jwt.GeneratePair([]byte(s.Config.Jwt.Secret), user.ID, user.Email, s.Config.Jwt.AccessTTL, s.Config.Jwt.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	me, err := s.buildMe(ctx, user)
	if err != nil {
		return nil, err
	}
	return &types.AuthResponse{TokenPair: pair, User: me}, nil
}

func (s *AuthService) stateTTL() time.Duration {
	if s.Config.OAuth != nil && s.Config.OAuth.StateTTLSeconds > 0 {
		return time.Duration(s.Config.OAuth.StateTTLSeconds) * time.Second
	}
	return 10 * time.Minute
}

// usernameFromEmail 邮箱前缀, 为空时返回 user
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.TrimSpace(local)
	if local == "" {
		return "user"
	}
	return local
}
