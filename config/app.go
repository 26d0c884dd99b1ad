package config

import "strings"

type App struct {
	Env         string   `json:"env" yaml:"env"`
	Debug       bool     `json:"debug" yaml:"debug"`
	PublicURL   string   `json:"public_url" yaml:"public_url"`
	AdminEmails []string `json:"admin_emails" yaml:"admin_emails"`
	HashSalt    string   `json:"hash_salt" yaml:"hash_salt"`
	// AllowOrigins 为空时允许所有来源
	AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
}

// IsAdminEmail 配置中声明的管理员邮箱
func (a *App) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, e := range a.AdminEmails {
		if strings.ToLower(strings.TrimSpace(e)) == email {
			return true
		}
	}
	return false
}
