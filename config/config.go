package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 配置信息
type Config struct {
	App        *App            `json:"app" yaml:"app"`
	Server     *Server         `json:"server" yaml:"server"`
	Database   *Database       `json:"database" yaml:"database"`
	Redis      *Redis          `json:"redis" yaml:"redis"`
	Jwt        *Jwt            `json:"jwt" yaml:"jwt"`
	OAuth      *OAuth          `json:"oauth" yaml:"oauth"`
	Storage    *Storage        `json:"storage" yaml:"storage"`
	Oss        *OssConfig      `json:"oss" yaml:"oss"`
	S3         *S3Config       `json:"s3" yaml:"s3"`
	Upload     *Upload         `json:"upload" yaml:"upload"`
	Reputation *Reputation     `json:"reputation" yaml:"reputation"`
	RocketMQ   *RocketMQConfig `json:"rocketmq" yaml:"rocketmq"`
	LLM        *LLMConfig      `json:"llm" yaml:"llm"`
}

type Server struct {
	Http int `json:"http" yaml:"http"`
}

// New 读取配置文件, ${VAR} 形式的引用会用环境变量替换
func New(filename string) *Config {
	_ = godotenv.Load()

	content, err := os.ReadFile(filename)
	if err != nil {
		panic(err)
	}

	conf, err := Parse(content)
	if err != nil {
		panic(fmt.Sprintf("解析 %s 读取错误: %v", filename, err))
	}

	return conf
}

// Parse 解析 yaml 内容并补齐默认值
func Parse(content []byte) (*Config, error) {
	var conf Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(content))), &conf); err != nil {
		return nil, err
	}
	conf.applyDefaults()
	return &conf, nil
}

func (c *Config) applyDefaults() {
	if c.App == nil {
		c.App = &App{}
	}
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server == nil {
		c.Server = &Server{}
	}
	if c.Server.Http == 0 {
		c.Server.Http = 8080
	}
	if c.Database == nil {
		c.Database = &Database{Driver: DriverSQLite, Name: "stash.db"}
	}
	if c.Redis == nil {
		c.Redis = &Redis{Address: "127.0.0.1", Port: 6379}
	}
	if c.Jwt == nil {
		c.Jwt = &Jwt{}
	}
	c.Jwt.applyDefaults()
	if c.OAuth == nil {
		c.OAuth = &OAuth{}
	}
	if c.Storage == nil {
		c.Storage = &Storage{Driver: StorageLocal}
	}
	c.Storage.applyDefaults()
	if c.Upload == nil {
		c.Upload = &Upload{}
	}
	c.Upload.applyDefaults()
	if c.Reputation == nil {
		c.Reputation = &Reputation{}
	}
	if c.Reputation.Topic == "" {
		c.Reputation.Topic = "stash_reputation_activity"
	}
	if c.LLM == nil {
		c.LLM = &LLMConfig{}
	}
}

// Debug 调试模式
func (c *Config) Debug() bool {
	return c.App.Debug
}
