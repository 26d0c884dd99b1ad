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

type Auth struct {
	Config      *config.Config
	AuthService service.IAuthService
}

func (a *Auth) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth(a.Config.Jwt)
	g := r.Group("/v1/auth")
	g.POST("/sign-up", context.Wrap(a.SignUp))
	g.POST("/sign-in", context.Wrap(a.SignIn))
	g.POST("/refresh", context.Wrap(a.Refresh))
	g.POST("/sign-out", context.Wrap(a.SignOut))
	g.GET("/oauth/:provider", context.Wrap(a.OAuthStart))
	// 授权回调, 隐式流程下前端把 hash 中的 access_token 以 POST 转发
	g.GET("/callback", context.Wrap(a.OAuthCallback))
	g.POST("/callback", context.Wrap(a.OAuthCallback))
	g.GET("/me", authorize, context.Wrap(a.Me))
}

func (a *Auth) SignUp(c *gin.Context) error {
	var req types.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	resp, err := a.AuthService.SignUp(c, &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (a *Auth) SignIn(c *gin.Context) error {
	var req types.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	resp, err := a.AuthService.SignIn(c, &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (a *Auth) Refresh(c *gin.Context) error {
	var req types.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	resp, err := a.AuthService.Refresh(c, req.RefreshToken)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

// SignOut 重复退出也返回成功
func (a *Auth) SignOut(c *gin.Context) error {
	var req types.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	if err := a.AuthService.SignOut(c, req.RefreshToken); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (a *Auth) OAuthStart(c *gin.Context) error {
	resp, err := a.AuthService.OAuthStart(c, c.Param("provider"))
	if err != nil {
		return err
	}
	if c.Query("redirect") == "1" {
		c.Redirect(http.StatusFound, resp.URL)
		return nil
	}
	response.Success(c, resp)
	return nil
}

func (a *Auth) OAuthCallback(c *gin.Context) error {
	var params types.OAuthCallbackParams
	if err := c.ShouldBind(&params); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	resp, err := a.AuthService.OAuthCallback(c, &params)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (a *Auth) Me(c *gin.Context) error {
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	me, err := a.AuthService.Me(c, uid)
	if err != nil {
		return err
	}
	response.Success(c, me)
	return nil
}
