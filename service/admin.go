package service

import (
	"context"

	"stash/pkg/log"
	"stash/types"

	"go.uber.org/zap"
)

var _ IAdminService = (*AdminService)(nil)

// AdminService 管理员操作, 跳过所有权校验
type AdminService struct {
	Profiles     IProfileService
	ClassService IClassService
	NoteService  INoteService
}

type IAdminService interface {
	Status(ctx context.Context, userID uint64) (*types.AdminStatusResponse, error)
	ListClasses(ctx context.Context, page *types.PageRequest) (*types.ClassListResponse, error)
	ListNotes(ctx context.Context, page *types.PageRequest) (*types.NoteListResponse, error)
	DeleteClass(ctx context.Context, operatorID, classID uint64) error
	DeleteNote(ctx context.Context, operatorID, noteID uint64) error
	SetAdmin(ctx context.Context, email string, isAdmin bool) error
}

func (s *AdminService) Status(ctx context.Context, userID uint64) (*types.AdminStatusResponse, error) {
	isAdmin, err := s.Profiles.IsAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &types.AdminStatusResponse{IsAdmin: isAdmin}, nil
}

func (s *AdminService) ListClasses(ctx context.Context, page *types.PageRequest) (*types.ClassListResponse, error) {
	return s.ClassService.List(ctx, 0, &types.ListClassesRequest{
		IncludeArchived: true,
		Page:            page.Page,
		PageSize:        page.PageSize,
	})
}

func (s *AdminService) ListNotes(ctx context.Context, page *types.PageRequest) (*types.NoteListResponse, error) {
	return s.NoteService.List(ctx, 0, &types.ListNotesRequest{
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

func (s *AdminService) DeleteClass(ctx context.Context, operatorID, classID uint64) error {
	log.L.Info("admin force delete class", zap.Uint64("operator", operatorID), zap.Uint64("class_id", classID))
	return s.ClassService.Delete(ctx, operatorID, classID, true)
}

func (s *AdminService) DeleteNote(ctx context.Context, operatorID, noteID uint64) error {
	log.L.Info("admin force delete note", zap.Uint64("operator", operatorID), zap.Uint64("note_id", noteID))
	return s.NoteService.Delete(ctx, operatorID, noteID, true)
}

func (s *AdminService) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	return s.Profiles.SetAdmin(ctx, email, isAdmin)
}
