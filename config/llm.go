package config

type LLMConfig struct {
	APIKey  string `json:"api_key" yaml:"api_key"`
	BaseURL string `json:"base_url" yaml:"base_url"`
	Model   string `json:"model" yaml:"model"`
}

// Enabled 未配置 key 时关键词推荐关闭
func (l *LLMConfig) Enabled() bool {
	return l != nil && l.APIKey != ""
}

func ProvideLLMConfig(cfg *Config) *LLMConfig {
	return cfg.LLM
}
