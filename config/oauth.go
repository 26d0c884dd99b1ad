package config

type OAuth struct {
	// StateTTLSeconds state 在 redis 中的有效期
	StateTTLSeconds int                       `json:"state_ttl_seconds" yaml:"state_ttl_seconds"`
	Providers       map[string]*OAuthProvider `json:"providers" yaml:"providers"`
}

// OAuthProvider 第三方登录配置. 端点留空时使用各平台默认值
type OAuthProvider struct {
	ClientID     string   `json:"client_id" yaml:"client_id"`
	ClientSecret string   `json:"client_secret" yaml:"client_secret"`
	RedirectURL  string   `json:"redirect_url" yaml:"redirect_url"`
	Scopes       []string `json:"scopes" yaml:"scopes"`
	AuthURL      string   `json:"auth_url" yaml:"auth_url"`
	TokenURL     string   `json:"token_url" yaml:"token_url"`
	UserInfoURL  string   `json:"userinfo_url" yaml:"userinfo_url"`
	EmailsURL    string   `json:"emails_url" yaml:"emails_url"`
}

func ProvideOAuthConfig(cfg *Config) *OAuth {
	return cfg.OAuth
}
