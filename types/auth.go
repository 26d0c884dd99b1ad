package types

import "stash/pkg/jwt"

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	FullName string `json:"full_name" binding:"max=128"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type OAuthStartResponse struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
	State    string `json:"state"`
}

// OAuthCallbackParams 回调地址上的参数, hash fragment 由前端转发
type OAuthCallbackParams struct {
	Error            string `form:"error"`
	ErrorDescription string `form:"error_description"`
	Code             string `form:"code"`
	State            string `form:"state"`
	AccessToken      string `form:"access_token"`
	Provider         string `form:"provider"`
}

// OAuthUser 第三方平台返回的用户信息
type OAuthUser struct {
	Provider      string
	ProviderID    string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
}

type AuthResponse struct {
	*jwt.TokenPair
	User *MeResponse `json:"user"`
}

type MeResponse struct {
	ID        uint64 `json:"id,string"`
	Email     string `json:"email"`
	Provider  string `json:"provider"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	IsAdmin   bool   `json:"is_admin"`
}
