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

type Rating struct {
	Config        *config.Config
	RatingService service.IRatingService
}

func (h *Rating) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth(h.Config.Jwt)
	g := r.Group("/v1/ratings")
	g.POST("/rate", authorize, context.Wrap(h.Rate))
	g.GET("/:note_id", middleware.OptionalAuth(h.Config.Jwt), context.Wrap(h.Get))
	g.GET("/:note_id/list", context.Wrap(h.List))
}

func (h *Rating) Rate(c *gin.Context) error {
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	var req types.RateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.RatingService.Rate(c, uid, &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

// Get 平均分和当前用户的评分
func (h *Rating) Get(c *gin.Context) error {
	noteID, err := paramID(c, "note_id")
	if err != nil {
		return err
	}
	resp, err := h.RatingService.Get(c, context.OptionalUserID(c), noteID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Rating) List(c *gin.Context) error {
	noteID, err := paramID(c, "note_id")
	if err != nil {
		return err
	}
	var page types.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.RatingService.List(c, noteID, &page)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
