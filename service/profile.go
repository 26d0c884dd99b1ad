package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"stash/config"
	"stash/dao"
	"stash/models"
	"stash/pkg/log"
	"stash/pkg/response"
	"stash/pkg/storage"
	"stash/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
	"gorm.io/gorm"
)

var _ IProfileService = (*ProfileService)(nil)

type ProfileService struct {
	Config     *config.Config
	UserDAO    *dao.Users
	ProfileDAO *dao.Profiles
	Storage    storage.Storage
}

type IProfileService interface {
	GetProfile(ctx context.Context, userID uint64, viewerID uint64) (*types.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uint64, req *types.UpdateProfileRequest) (*types.ProfileResponse, error)
	UploadAvatar(ctx context.Context, userID uint64, header *multipart.FileHeader) (*types.UploadAvatarResponse, error)

	// IsAdmin profiles.is_admin 或配置中的管理员邮箱
	IsAdmin(ctx context.Context, userID uint64) (bool, error)
	SetAdmin(ctx context.Context, email string, isAdmin bool) error

	BatchGetUserInfo(ctx context.Context, userIDs []uint64) map[uint64]types.UserProfile
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint64, viewerID uint64) (*types.ProfileResponse, error) {
	p, err := s.ProfileDAO.FindById(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NotFound("Profile not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	resp := &types.ProfileResponse{
		ID:        p.ID,
		Username:  p.Username,
		FullName:  p.FullName,
		AvatarURL: p.AvatarURL,
		UpdatedAt: p.UpdatedAt,
	}
	// 只有本人能看到管理员标记
	if viewerID == userID {
		resp.IsAdmin, err = s.IsAdmin(ctx, userID)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint64, req *types.UpdateProfileRequest) (*types.ProfileResponse, error) {
	updates := map[string]any{}
	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		if n := len([]rune(name)); n < 3 || n > 32 {
			return nil, response.BadRequest("Username must be between 3 and 32 characters")
		}
		updates["username"] = name
	}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if len(updates) > 0 {
		if _, err := s.ProfileDAO.UpdateById(ctx, userID, updates); err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}
	return s.GetProfile(ctx, userID, userID)
}

var avatarFormats = map[string]string{
	"jpeg": "jpg",
	"png":  "png",
	"webp": "webp",
}

func (s *ProfileService) UploadAvatar(ctx context.Context, userID uint64, header *multipart.FileHeader) (*types.UploadAvatarResponse, error) {
	maxSize := s.Config.Upload.MaxAvatarBytes
	if header == nil {
		return nil, response.BadRequest("Please choose an image")
	}
	// header.Size 不可信，但可做第一道拦截
	if header.Size <= 0 {
		return nil, response.BadRequest("Image is empty")
	}
	if header.Size > maxSize {
		return nil, response.TooLarge(fmt.Sprintf("Image must be less than %dMB", maxSize>>20))
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open avatar: %w", err)
	}
	defer f.Close()

	// 1) MIME 校验
	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	contentType := http.DetectContentType(head[:n])
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		return nil, response.BadRequest("Only JPEG, PNG and WebP images are supported")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek avatar: %w", err)
	}

	// 2) 读取尺寸 + 格式（不解码全图）
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, response.BadRequest("Invalid image file")
	}
	ext, ok := avatarFormats[strings.ToLower(format)]
	if !ok {
		return nil, response.BadRequest("Only JPEG, PNG and WebP images are supported")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek avatar: %w", err)
	}

	// 3) 上传
	bucket := s.Config.Storage.AvatarsBucket
	key := fmt.Sprintf("%d/%s.%s", userID, uuid.NewString(), ext)
	if err := s.Storage.Put(ctx, bucket, key, io.LimitReader(f, maxSize+1), header.Size, contentType); err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	url := s.Storage.PublicURL(bucket, key)
	if _, err := s.ProfileDAO.UpdateById(ctx, userID, map[string]any{"avatar_url": url}); err != nil {
		if derr := s.Storage.Delete(ctx, bucket, key); derr != nil {
			log.L.Warn("rollback avatar failed", zap.String("key", key), zap.Error(derr))
		}
		return nil, fmt.Errorf("save avatar url: %w", err)
	}

	return &types.UploadAvatarResponse{
		AvatarURL: url,
		Width:     cfg.Width,
		Height:    cfg.Height,
	}, nil
}

func (s *ProfileService) IsAdmin(ctx context.Context, userID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	p, err := s.ProfileDAO.FindById(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("get profile: %w", err)
	}
	if p != nil && p.IsAdmin {
		return true, nil
	}

	user, err := s.UserDAO.FindById(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get user: %w", err)
	}
	return s.Config.App.IsAdminEmail(user.Email), nil
}

func (s *ProfileService) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	user, err := s.UserDAO.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound("User not found")
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if _, err := s.ProfileDAO.SetAdmin(ctx, user.ID, isAdmin); err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	log.L.Info("admin flag changed", zap.String("email", user.Email), zap.Bool("is_admin", isAdmin))
	return nil
}

// BatchGetUserInfo 查询失败时返回空 map, 调用方按匿名用户展示
func (s *ProfileService) BatchGetUserInfo(ctx context.Context, userIDs []uint64) map[uint64]types.UserProfile {
	result := make(map[uint64]types.UserProfile, len(userIDs))
	profiles, err := s.ProfileDAO.BatchGet(ctx, uniqueIDs(userIDs))
	if err != nil {
		log.L.Warn("batch get profiles failed", zap.Error(err))
		profiles = map[uint64]*models.Profile{}
	}
	for _, id := range userIDs {
		result[id] = toUserProfile(id, profiles[id])
	}
	return result
}

func toUserProfile(userID uint64, p *models.Profile) types.UserProfile {
	u := types.UserProfile{UserID: userID, UserName: "Anonymous"}
	if p == nil {
		return u
	}
	switch {
	case p.Username != "":
		u.UserName = p.Username
	case p.FullName != "":
		u.UserName = p.FullName
	}
	u.AvatarURL = p.AvatarURL
	return u
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == 0 {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
