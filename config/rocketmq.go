package config

type RocketMQConfig struct {
	NameServer []string `yaml:"nameserver"`

	Producer Producer `yaml:"producer"`

	Consumer Consumer `yaml:"consumer"`
}

type Producer struct {
	Group string `yaml:"group"`
	Retry int    `yaml:"retry"`
}

type Consumer struct {
	Group string `yaml:"group"`
}

// Reputation 积分事件是否走 MQ 异步处理
type Reputation struct {
	Async bool   `json:"async" yaml:"async"`
	Topic string `json:"topic" yaml:"topic"`
}
