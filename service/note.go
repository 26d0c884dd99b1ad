package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"stash/config"
	"stash/dao"
	"stash/dao/cache"
	"stash/models"
	"stash/pkg/hashid"
	"stash/pkg/llm"
	"stash/pkg/log"
	"stash/pkg/response"
	"stash/pkg/snowflake"
	"stash/pkg/storage"
	"stash/pkg/timefmt"
	"stash/types"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	maxKeywords        = 20
	keywordSuggestWait = 5 * time.Second
)

var _ INoteService = (*NoteService)(nil)

type NoteService struct {
	Config      *config.Config
	DB          *gorm.DB
	NoteDAO     *dao.Note
	ClassDAO    *dao.Class
	RatingDAO   *dao.NoteRating
	UserDAO     *dao.Users
	ProfileDAO  *dao.Profiles
	Storage     storage.Storage
	FilterCache *cache.FilterOptionsStorage
	Keywords    llm.KeywordSuggester
	ShareCodec  *hashid.Codec
	Publisher   ActivityPublisher
}

// NoteFile 下载用的文件流
type NoteFile struct {
	*storage.Object
	FileName string
}

type INoteService interface {
	Upload(ctx context.Context, userID uint64, req *types.UploadNoteRequest, header *multipart.FileHeader) (*types.NoteResponse, error)
	List(ctx context.Context, userID uint64, req *types.ListNotesRequest) (*types.NoteListResponse, error)
	Mine(ctx context.Context, userID uint64, page *types.PageRequest) (*types.NoteListResponse, error)
	FilterOptions(ctx context.Context) (*types.FilterOptionsResponse, error)
	Detail(ctx context.Context, userID, noteID uint64) (*types.NoteResponse, error)
	// ResolveShare 分享码解析为笔记详情
	ResolveShare(ctx context.Context, userID uint64, code string) (*types.NoteResponse, error)
	Download(ctx context.Context, noteID uint64) (*NoteFile, error)
	DownloadURL(ctx context.Context, noteID uint64) (*types.DownloadURLResponse, error)
	// Preview 未登录时不签发文件地址
	Preview(ctx context.Context, userID, noteID uint64) (*types.PreviewResponse, error)
	// Delete force 为 true 时跳过上传者校验（管理员）
	Delete(ctx context.Context, userID, noteID uint64, force bool) error
}

func (s *NoteService) Upload(ctx context.Context, userID uint64, req *types.UploadNoteRequest, header *multipart.FileHeader) (*types.NoteResponse, error) {
	if header == nil {
		return nil, response.BadRequest("Please select a file to upload")
	}
	maxSize := s.Config.Upload.MaxNoteBytes
	if header.Size > maxSize {
		return nil, response.TooLarge(fmt.Sprintf("File size must be less than %dMB. Your file is %.2f MB",
			maxSize>>20, float64(header.Size)/(1<<20)))
	}
	if header.Size <= 0 {
		return nil, response.BadRequest("File is empty")
	}
	fileType, ok := DetectFileType(header.Header.Get("Content-Type"), header.Filename)
	if !ok {
		return nil, response.BadRequest("Unsupported file type. Allowed: pdf, doc, docx, pptx, txt, md")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, response.BadRequest("Title is required")
	}

	class, err := s.ClassDAO.FindById(ctx, req.ClassID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NotFound("Class not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	if class.IsArchived {
		return nil, response.BadRequest("This class is archived")
	}

	uploaderName, err := s.uploaderName(ctx, userID)
	if err != nil {
		return nil, err
	}

	keywords := parseKeywords(req.Keywords)
	if len(keywords) == 0 && s.Keywords != nil {
		sctx, cancel := context.WithTimeout(ctx, keywordSuggestWait)
		keywords = s.Keywords.SuggestKeywords(sctx, title, req.Description)
		cancel()
	}

	// 1. 上传文件
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	bucket := s.Config.Storage.NotesBucket
	key := fmt.Sprintf("%d/%d.%s", userID, time.Now().UnixMilli(), fileType)
	if err := s.Storage.Put(ctx, bucket, key, io.LimitReader(f, maxSize), header.Size, contentTypeOf(fileType)); err != nil {
		return nil, fmt.Errorf("upload note file: %w", err)
	}

	// 2. 写库, 失败时删除已上传的文件
	note := &models.Note{
		ID:           snowflake.GenID(),
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		FilePath:     key,
		FileType:     fileType,
		FileSize:     header.Size,
		UploaderID:   userID,
		UploaderName: uploaderName,
		ClassID:      class.ID,
		Professor:    strings.TrimSpace(req.Professor),
		Semester:     strings.TrimSpace(req.Semester),
		School:       strings.TrimSpace(req.School),
		Keywords:     datatypes.NewJSONSlice(keywords),
	}
	if err := s.NoteDAO.Create(ctx, note); err != nil {
		if derr := s.Storage.Delete(ctx, bucket, key); derr != nil {
			log.L.Error("rollback note file failed", zap.String("key", key), zap.Error(derr))
		}
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.invalidateFilters(ctx)
	publishActivity(ctx, s.Publisher, userID, models.ActivityUpload, noteSource(note.ID), false)

	log.L.Info("note uploaded",
		zap.Uint64("note_id", note.ID),
		zap.Uint64("user_id", userID),
		zap.String("file_type", fileType),
		zap.Int64("size", header.Size),
	)
	return s.toResponse(note, class.Name, userID), nil
}

// uploaderName 优先使用全名, 其次邮箱前缀
func (s *NoteService) uploaderName(ctx context.Context, userID uint64) (string, error) {
	p, err := s.ProfileDAO.FindById(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("get profile: %w", err)
	}
	if p != nil && strings.TrimSpace(p.FullName) != "" {
		return strings.TrimSpace(p.FullName), nil
	}
	user, err := s.UserDAO.FindById(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("get user: %w", err)
	}
	if user != nil {
		if local, _, _ := strings.Cut(user.Email, "@"); local != "" {
			return local, nil
		}
	}
	return "Anonymous", nil
}

func (s *NoteService) List(ctx context.Context, userID uint64, req *types.ListNotesRequest) (*types.NoteListResponse, error) {
	offset, limit := types.Paginate(req.Page, req.PageSize)
	notes, total, err := s.NoteDAO.List(ctx, dao.NoteQuery{
		Search:    req.Search,
		ClassID:   req.ClassID,
		Professor: req.Professor,
		Semester:  req.Semester,
		School:    req.School,
		FileType:  req.FileType,
		MinRating: req.MinRating,
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return s.buildList(ctx, userID, notes, total, offset, limit)
}

func (s *NoteService) Mine(ctx context.Context, userID uint64, page *types.PageRequest) (*types.NoteListResponse, error) {
	offset, limit := page.Normalize()
	notes, total, err := s.NoteDAO.List(ctx, dao.NoteQuery{
		UploaderID: userID,
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list my notes: %w", err)
	}
	return s.buildList(ctx, userID, notes, total, offset, limit)
}

func (s *NoteService) buildList(ctx context.Context, userID uint64, notes []*models.Note, total int64, offset, limit int) (*types.NoteListResponse, error) {
	classIDs := make([]uint64, 0, len(notes))
	for _, n := range notes {
		classIDs = append(classIDs, n.ClassID)
	}
	names, err := s.ClassDAO.BatchGetNames(ctx, uniqueIDs(classIDs))
	if err != nil {
		return nil, fmt.Errorf("get class names: %w", err)
	}

	list := make([]*types.NoteResponse, 0, len(notes))
	for _, n := range notes {
		list = append(list, s.toResponse(n, names[n.ClassID], userID))
	}
	return &types.NoteListResponse{
		Notes:    list,
		Total:    total,
		Page:     offset/limit + 1,
		PageSize: limit,
	}, nil
}

func (s *NoteService) FilterOptions(ctx context.Context) (*types.FilterOptionsResponse, error) {
	var opts types.FilterOptionsResponse
	hit, err := s.FilterCache.Get(ctx, &opts)
	if err != nil {
		log.L.Warn("read filter options cache failed", zap.Error(err))
	}
	if hit {
		return &opts, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	columns := map[string]*[]string{
		"professor": &opts.Professors,
		"semester":  &opts.Semesters,
		"school":    &opts.Schools,
		"file_type": &opts.FileTypes,
	}
	for col, dest := range columns {
		g.Go(func() error {
			values, err := s.NoteDAO.Distinct(gctx, col)
			if err != nil {
				return fmt.Errorf("distinct %s: %w", col, err)
			}
			*dest = values
			return nil
		})
	}
	g.Go(func() error {
		classes, err := s.ClassDAO.Options(gctx)
		if err != nil {
			return fmt.Errorf("class options: %w", err)
		}
		opts.Classes = make([]types.ClassOption, 0, len(classes))
		for _, c := range classes {
			opts.Classes = append(opts.Classes, types.ClassOption{ID: c.ID, Name: c.Name})
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.FilterCache.Set(ctx, &opts); err != nil {
		log.L.Warn("write filter options cache failed", zap.Error(err))
	}
	return &opts, nil
}

func (s *NoteService) Detail(ctx context.Context, userID, noteID uint64) (*types.NoteResponse, error) {
	note, err := s.find(ctx, noteID)
	if err != nil {
		return nil, err
	}

	var (
		className string
		mine      *types.MyRating
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		names, err := s.ClassDAO.BatchGetNames(gctx, []uint64{note.ClassID})
		if err != nil {
			return fmt.Errorf("get class name: %w", err)
		}
		className = names[note.ClassID]
		return nil
	})
	if userID > 0 {
		g.Go(func() error {
			r, err := s.RatingDAO.FindByUser(gctx, noteID, userID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("get my rating: %w", err)
			}
			mine = &types.MyRating{Rating: r.Rating, Comment: r.Comment, UpdatedAt: r.UpdatedAt}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := s.toResponse(note, className, userID)
	resp.MyRating = mine
	return resp, nil
}

func (s *NoteService) ResolveShare(ctx context.Context, userID uint64, code string) (*types.NoteResponse, error) {
	noteID, err := s.ShareCodec.Decode(code)
	if err != nil {
		return nil, response.NotFound("Note not found")
	}
	return s.Detail(ctx, userID, noteID)
}

func (s *NoteService) Download(ctx context.Context, noteID uint64) (*NoteFile, error) {
	note, err := s.find(ctx, noteID)
	if err != nil {
		return nil, err
	}
	obj, err := s.Storage.Get(ctx, s.Config.Storage.NotesBucket, note.FilePath)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, response.NotFound("File not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get note file: %w", err)
	}
	if obj.ContentType == "" {
		obj.ContentType = contentTypeOf(note.FileType)
	}
	return &NoteFile{Object: obj, FileName: note.Title + "." + note.FileType}, nil
}

func (s *NoteService) DownloadURL(ctx context.Context, noteID uint64) (*types.DownloadURLResponse, error) {
	note, err := s.find(ctx, noteID)
	if err != nil {
		return nil, err
	}
	expire := s.signExpire()
	url, err := s.Storage.SignURL(ctx, s.Config.Storage.NotesBucket, note.FilePath, expire)
	if err != nil {
		return nil, fmt.Errorf("sign note url: %w", err)
	}
	return &types.DownloadURLResponse{URL: url, ExpiresAt: time.Now().Add(expire)}, nil
}

func (s *NoteService) Preview(ctx context.Context, userID, noteID uint64) (*types.PreviewResponse, error) {
	note, err := s.find(ctx, noteID)
	if err != nil {
		return nil, err
	}
	resp := &types.PreviewResponse{
		FileType:    note.FileType,
		ContentType: contentTypeOf(note.FileType),
	}

	switch note.FileType {
	case models.FileTypeMD, models.FileTypeTXT, models.FileTypeDOCX:
		text, truncated, err := s.previewText(ctx, note)
		if err != nil {
			return nil, err
		}
		resp.Mode = types.PreviewText
		resp.Content = text
		resp.Truncated = truncated
		if note.FileType == models.FileTypeMD {
			html, err := RenderMarkdown([]byte(text))
			if err != nil {
				return nil, fmt.Errorf("render markdown: %w", err)
			}
			resp.Mode = types.PreviewHTML
			resp.Content = html
		}
		return resp, nil

	case models.FileTypePDF:
		resp.Mode = types.PreviewEmbed
	default:
		resp.Mode = types.PreviewDownload
		resp.Message = "Preview not available for this file type."
	}
	if userID == 0 {
		resp.Message = "Sign in to view this file."
		return resp, nil
	}

	resp.URL, err = s.Storage.SignURL(ctx, s.Config.Storage.NotesBucket, note.FilePath, s.signExpire())
	if err != nil {
		return nil, fmt.Errorf("sign note url: %w", err)
	}
	return resp, nil
}

// previewText 读取文本内容, 超过上限时截断
func (s *NoteService) previewText(ctx context.Context, note *models.Note) (string, bool, error) {
	obj, err := s.Storage.Get(ctx, s.Config.Storage.NotesBucket, note.FilePath)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return "", false, response.NotFound("File not found")
	}
	if err != nil {
		return "", false, fmt.Errorf("get note file: %w", err)
	}
	defer obj.Body.Close()

	limit := s.Config.Upload.MaxPreviewBytes
	if note.FileType == models.FileTypeDOCX {
		// docx 需要完整读取才能解压
		data, err := io.ReadAll(io.LimitReader(obj.Body, s.Config.Upload.MaxNoteBytes+1))
		if err != nil {
			return "", false, fmt.Errorf("read note file: %w", err)
		}
		text, err := ExtractDocxText(data)
		if err != nil {
			return "", false, response.BadRequest("Could not read this document")
		}
		out, truncated := truncateText(text, int(limit))
		return out, truncated, nil
	}

	data, err := io.ReadAll(io.LimitReader(obj.Body, limit+1))
	if err != nil {
		return "", false, fmt.Errorf("read note file: %w", err)
	}
	out, truncated := truncateText(string(data), int(limit))
	return out, truncated, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, noteID uint64, force bool) error {
	note, err := s.find(ctx, noteID)
	if err != nil {
		return err
	}
	if !force && note.UploaderID != userID {
		return response.Forbidden("You can only delete your own notes")
	}

	if err := s.Storage.Delete(ctx, s.Config.Storage.NotesBucket, note.FilePath); err != nil {
		log.L.Warn("delete note file failed", zap.String("key", note.FilePath), zap.Error(err))
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return dao.DeleteNotesCascade(tx, []uint64{noteID})
	})
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	s.invalidateFilters(ctx)
	publishActivity(ctx, s.Publisher, note.UploaderID, models.ActivityUpload, noteSource(noteID), true)
	log.L.Info("note deleted", zap.Uint64("note_id", noteID), zap.Uint64("operator", userID))
	return nil
}

func (s *NoteService) find(ctx context.Context, noteID uint64) (*models.Note, error) {
	note, err := s.NoteDAO.FindById(ctx, noteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NotFound("Note not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

func (s *NoteService) toResponse(n *models.Note, className string, userID uint64) *types.NoteResponse {
	code, err := s.ShareCodec.Encode(n.ID)
	if err != nil {
		log.L.Warn("encode share code failed", zap.Uint64("note_id", n.ID), zap.Error(err))
	}
	keywords := []string(n.Keywords)
	if keywords == nil {
		keywords = []string{}
	}
	return &types.NoteResponse{
		ID:            n.ID,
		Title:         n.Title,
		Description:   n.Description,
		FilePath:      n.FilePath,
		FileType:      n.FileType,
		FileSize:      n.FileSize,
		FileSizeText:  timefmt.Size(n.FileSize),
		UploaderID:    n.UploaderID,
		UploaderName:  n.UploaderName,
		ClassID:       n.ClassID,
		ClassName:     className,
		Professor:     n.Professor,
		Semester:      n.Semester,
		School:        n.School,
		Keywords:      keywords,
		AverageRating: n.AverageRating,
		RatingsCount:  n.RatingsCount,
		CommentsCount: n.CommentsCount,
		ShareCode:     code,
		IsOwner:       userID != 0 && n.UploaderID == userID,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

func (s *NoteService) signExpire() time.Duration {
	return time.Duration(s.Config.Storage.SignExpireSec) * time.Second
}

func (s *NoteService) invalidateFilters(ctx context.Context) {
	if err := s.FilterCache.Invalidate(ctx); err != nil {
		log.L.Warn("invalidate filter options failed", zap.Error(err))
	}
}

// parseKeywords 逗号分隔, 去重
func parseKeywords(raw string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, k := range strings.Split(raw, ",") {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		lower := strings.ToLower(k)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, k)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}
