package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"stash/config"
	"stash/dao"
	"stash/dao/cache"
	"stash/models"
	"stash/pkg/log"
	"stash/pkg/response"
	"stash/pkg/snowflake"
	"stash/pkg/storage"
	"stash/types"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ IClassService = (*ClassService)(nil)

type ClassService struct {
	Config      *config.Config
	DB          *gorm.DB
	ClassDAO    *dao.Class
	FavoriteDAO *dao.ClassFavorite
	NoteDAO     *dao.Note
	Storage     storage.Storage
	FilterCache *cache.FilterOptionsStorage
	Publisher   ActivityPublisher
}

type IClassService interface {
	Create(ctx context.Context, userID uint64, req *types.CreateClassRequest) (*types.ClassResponse, error)
	List(ctx context.Context, userID uint64, req *types.ListClassesRequest) (*types.ClassListResponse, error)
	Get(ctx context.Context, userID, classID uint64) (*types.ClassResponse, error)
	ToggleFavorite(ctx context.Context, userID, classID uint64) (*types.FavoriteResponse, error)
	SetArchived(ctx context.Context, userID, classID uint64, archived bool) (*types.ClassResponse, error)

	// Delete force 为 true 时跳过创建者校验（管理员）
	Delete(ctx context.Context, userID, classID uint64, force bool) error
}

func (s *ClassService) Create(ctx context.Context, userID uint64, req *types.CreateClassRequest) (*types.ClassResponse, error) {
	class := &models.Class{
		ID:          snowflake.GenID(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   userID,
		Semester:    strings.TrimSpace(req.Semester),
		Year:        req.Year,
		Professor:   strings.TrimSpace(req.Professor),
	}
	if class.Name == "" || class.Semester == "" || class.Professor == "" {
		return nil, response.BadRequest("Name, semester and professor are required")
	}
	if class.Year < 2000 || class.Year > 2100 {
		return nil, response.BadRequest("Year must be between 2000 and 2100")
	}
	if err := s.ClassDAO.Create(ctx, class); err != nil {
		return nil, fmt.Errorf("create class: %w", err)
	}
	s.invalidateFilters(ctx)
	return s.toResponse(class, 0, false, userID), nil
}

func (s *ClassService) List(ctx context.Context, userID uint64, req *types.ListClassesRequest) (*types.ClassListResponse, error) {
	offset, limit := types.Paginate(req.Page, req.PageSize)
	if req.Favorites && userID == 0 {
		return nil, response.Unauthorized("Please sign in first")
	}
	classes, total, err := s.ClassDAO.List(ctx, dao.ClassQuery{
		UserID:          userID,
		FavoritesOnly:   req.Favorites,
		IncludeArchived: req.IncludeArchived,
		Offset:          offset,
		Limit:           limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	list, err := s.hydrate(ctx, userID, classes)
	if err != nil {
		return nil, err
	}
	return &types.ClassListResponse{Classes: list, Total: total}, nil
}

func (s *ClassService) Get(ctx context.Context, userID, classID uint64) (*types.ClassResponse, error) {
	class, err := s.find(ctx, classID)
	if err != nil {
		return nil, err
	}
	list, err := s.hydrate(ctx, userID, []*models.Class{class})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

// hydrate 补充笔记数和收藏状态
func (s *ClassService) hydrate(ctx context.Context, userID uint64, classes []*models.Class) ([]*types.ClassResponse, error) {
	ids := make([]uint64, 0, len(classes))
	for _, c := range classes {
		ids = append(ids, c.ID)
	}
	counts, err := s.ClassDAO.NoteCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}
	favorites, err := s.FavoriteDAO.BatchCheckExists(ctx, ids, userID)
	if err != nil {
		return nil, fmt.Errorf("check favorites: %w", err)
	}
	list := make([]*types.ClassResponse, 0, len(classes))
	for _, c := range classes {
		list = append(list, s.toResponse(c, counts[c.ID], favorites[c.ID], userID))
	}
	return list, nil
}

func (s *ClassService) ToggleFavorite(ctx context.Context, userID, classID uint64) (*types.FavoriteResponse, error) {
	if _, err := s.find(ctx, classID); err != nil {
		return nil, err
	}

	favorited := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("class_id = ? AND user_id = ?", classID, userID).Delete(&models.ClassFavorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		favorited = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.ClassFavorite{
			ID:      snowflake.GenID(),
			ClassID: classID,
			UserID:  userID,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("toggle favorite: %w", err)
	}
	return &types.FavoriteResponse{ClassID: classID, IsFavorited: favorited}, nil
}

func (s *ClassService) SetArchived(ctx context.Context, userID, classID uint64, archived bool) (*types.ClassResponse, error) {
	class, err := s.find(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class.CreatedBy != userID {
		return nil, response.Forbidden("Only the class creator can archive this class")
	}
	if _, err := s.ClassDAO.UpdateById(ctx, classID, map[string]any{"is_archived": archived}); err != nil {
		return nil, fmt.Errorf("archive class: %w", err)
	}
	return s.Get(ctx, userID, classID)
}

func (s *ClassService) Delete(ctx context.Context, userID, classID uint64, force bool) error {
	class, err := s.find(ctx, classID)
	if err != nil {
		return err
	}
	if !force && class.CreatedBy != userID {
		return response.Forbidden("Only the class creator can delete this class")
	}

	notes, err := s.NoteDAO.FindAll(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Select("id, uploader_id, file_path").Where("class_id = ?", classID)
	})
	if err != nil {
		return fmt.Errorf("list class notes: %w", err)
	}

	// 先删文件, 失败只记录日志
	paths := make([]string, 0, len(notes))
	for _, n := range notes {
		paths = append(paths, n.FilePath)
	}
	removeObjects(ctx, s.Storage, s.Config.Storage.NotesBucket, paths)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.ClassDAO.DeleteCascade(tx, classID)
	})
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}

	for _, n := range notes {
		publishActivity(ctx, s.Publisher, n.UploaderID, models.ActivityUpload, noteSource(n.ID), true)
	}
	s.invalidateFilters(ctx)
	log.L.Info("class deleted", zap.Uint64("class_id", classID), zap.Uint64("operator", userID), zap.Int("notes", len(notes)))
	return nil
}

func (s *ClassService) find(ctx context.Context, classID uint64) (*models.Class, error) {
	class, err := s.ClassDAO.FindById(ctx, classID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NotFound("Class not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	return class, nil
}

func (s *ClassService) toResponse(c *models.Class, noteCount int64, favorited bool, userID uint64) *types.ClassResponse {
	return &types.ClassResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedBy:   c.CreatedBy,
		Semester:    c.Semester,
		Year:        c.Year,
		Professor:   c.Professor,
		IsArchived:  c.IsArchived,
		CreatedAt:   c.CreatedAt,
		NoteCount:   noteCount,
		IsFavorited: favorited,
		IsOwner:     userID != 0 && c.CreatedBy == userID,
	}
}

func (s *ClassService) invalidateFilters(ctx context.Context) {
	if err := s.FilterCache.Invalidate(ctx); err != nil {
		log.L.Warn("invalidate filter options failed", zap.Error(err))
	}
}

// removeObjects 并发删除文件, 失败只记录日志
func removeObjects(ctx context.Context, st storage.Storage, bucket string, keys []string) {
	p := pool.New().WithMaxGoroutines(4)
	for _, key := range keys {
		if key == "" {
			continue
		}
		p.Go(func() {
			if err := st.Delete(ctx, bucket, key); err != nil {
				log.L.Warn("delete object failed", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
			}
		})
	}
	p.Wait()
}

func noteSource(noteID uint64) string {
	return "note:" + strconv.FormatUint(noteID, 10)
}
