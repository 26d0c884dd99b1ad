package handler

import (
	"net/http"

	"stash/config"
	"stash/middleware"
	"stash/pkg/context"
	"stash/pkg/response"
	"stash/service"
	"stash/types"

	"github.com/gin-gonic/gin"
)

type Admin struct {
	Config         *config.Config
	AdminService   service.IAdminService
	ProfileService service.IProfileService
}

func (h *Admin) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth(h.Config.Jwt)
	g := r.Group("/v1/admin", authorize)
	g.GET("/status", context.Wrap(h.Status))

	admin := g.Group("", middleware.AdminOnly(h.ProfileService))
	admin.GET("/classes", context.Wrap(h.ListClasses))
	admin.GET("/notes", context.Wrap(h.ListNotes))
	admin.POST("/classes/delete", context.Wrap(h.DeleteClass))
	admin.POST("/notes/delete", context.Wrap(h.DeleteNote))
	admin.POST("/grant", context.Wrap(h.Grant))
}

func (h *Admin) Status(c *gin.Context) error {
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	resp, err := h.AdminService.Status(c, uid)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Admin) ListClasses(c *gin.Context) error {
	var page types.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.AdminService.ListClasses(c, &page)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Admin) ListNotes(c *gin.Context) error {
	var page types.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.AdminService.ListNotes(c, &page)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Admin) DeleteClass(c *gin.Context) error {
	var req types.ClassIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.AdminService.DeleteClass(c, context.OptionalUserID(c), req.ClassID); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *Admin) DeleteNote(c *gin.Context) error {
	var req types.NoteIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.AdminService.DeleteNote(c, context.OptionalUserID(c), req.NoteID); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

// Grant 设置或取消管理员
func (h *Admin) Grant(c *gin.Context) error {
	var req types.GrantAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.AdminService.SetAdmin(c, req.Email, req.IsAdmin); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
