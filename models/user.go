package models

import "time"

const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
	ProviderGithub = "github"
)

// User 登录账号
type User struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	Email        string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null;default:''" json:"-"`
	Provider     string    `gorm:"column:provider;type:varchar(20);not null;default:'email'" json:"provider"`
	ProviderID   string    `gorm:"column:provider_id;type:varchar(128);not null;default:''" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Profile 用户资料, id 与 users.id 相同
type Profile struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	Username  string    `gorm:"column:username;type:varchar(64);not null;default:''" json:"username"`
	FullName  string    `gorm:"column:full_name;type:varchar(128);not null;default:''" json:"full_name"`
	AvatarURL string    `gorm:"column:avatar_url;type:varchar(512);not null;default:''" json:"avatar_url"`
	IsAdmin   bool      `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
