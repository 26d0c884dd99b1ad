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

type Profile struct {
	Config         *config.Config
	ProfileService service.IProfileService
}

func (p *Profile) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth(p.Config.Jwt)
	g := r.Group("/v1/profile")
	g.GET("/me", authorize, context.Wrap(p.Me))
	g.POST("/update", authorize, context.Wrap(p.Update))
	g.POST("/avatar", authorize, context.Wrap(p.UploadAvatar))
	g.GET("/:user_id", middleware.OptionalAuth(p.Config.Jwt), context.Wrap(p.Get))
}

func (p *Profile) Me(c *gin.Context) error {
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	resp, err := p.ProfileService.GetProfile(c, uid, uid)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (p *Profile) Get(c *gin.Context) error {
	uid, err := paramID(c, "user_id")
	if err != nil {
		return err
	}
	resp, err := p.ProfileService.GetProfile(c, uid, context.OptionalUserID(c))
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (p *Profile) Update(c *gin.Context) error {
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	resp, err := p.ProfileService.UpdateProfile(c, uid, &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

// UploadAvatar multipart 字段 avatar
func (p *Profile) UploadAvatar(c *gin.Context) error {
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	header, err := c.FormFile("avatar")
	if err != nil {
		return response.BadRequest("Please choose an image to upload")
	}
	resp, err := p.ProfileService.UploadAvatar(c, uid, header)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
