package types

import "time"

type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=32"`
	FullName *string `json:"full_name" binding:"omitempty,max=128"`
}

// UserProfile 评论、笔记中展示的用户信息
type UserProfile struct {
	UserID    uint64 `json:"user_id,string"`
	UserName  string `json:"user_name"`
	AvatarURL string `json:"avatar_url"`
}

type ProfileResponse struct {
	ID        uint64    `json:"id,string"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	IsAdmin   bool      `json:"is_admin,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UploadAvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}
