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

type Class struct {
	Config       *config.Config
	ClassService service.IClassService
}

func (h *Class) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth(h.Config.Jwt)
	optional := middleware.OptionalAuth(h.Config.Jwt)

	g := r.Group("/v1/classes")
	g.GET("/list", optional, context.Wrap(h.List))
	g.POST("/create", authorize, context.Wrap(h.Create))
	g.POST("/favorite", authorize, context.Wrap(h.ToggleFavorite))
	g.POST("/archive", authorize, context.Wrap(h.Archive))
	g.POST("/delete", authorize, context.Wrap(h.Delete))
	g.GET("/:class_id", optional, context.Wrap(h.Get))
}

func (h *Class) List(c *gin.Context) error {
	var req types.ListClassesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.ClassService.List(c, context.OptionalUserID(c), &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Class) Get(c *gin.Context) error {
	classID, err := paramID(c, "class_id")
	if err != nil {
		return err
	}
	resp, err := h.ClassService.Get(c, context.OptionalUserID(c), classID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Class) Create(c *gin.Context) error {
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	var req types.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.ClassService.Create(c, uid, &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

// ToggleFavorite 收藏 / 取消收藏
func (h *Class) ToggleFavorite(c *gin.Context) error {
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	var req types.ClassIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.ClassService.ToggleFavorite(c, uid, req.ClassID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Class) Archive(c *gin.Context) error {
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	var req types.ArchiveClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.ClassService.SetArchived(c, uid, req.ClassID, req.Archived)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Class) Delete(c *gin.Context) error {
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	var req types.ClassIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.ClassService.Delete(c, uid, req.ClassID, false); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
