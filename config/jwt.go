package config

import "time"

type Jwt struct {
	Secret     string        `json:"secret" yaml:"secret"`
	AccessTTL  time.Duration `json:"access_ttl" yaml:"access_ttl"`
	RefreshTTL time.Duration `json:"refresh_ttl" yaml:"refresh_ttl"`
}

func (j *Jwt) applyDefaults() {
	if j.AccessTTL == 0 {
		j.AccessTTL = 2 * time.Hour
	}
	if j.RefreshTTL == 0 {
		j.RefreshTTL = 30 * 24 * time.Hour
	}
}
