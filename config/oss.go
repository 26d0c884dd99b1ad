package config

const (
	StorageLocal = "local"
	StorageOss   = "oss"
	StorageS3    = "s3"
)

// Storage 文件存储. notes 存笔记文件, avatars 存头像
type Storage struct {
	Driver        string `json:"driver" yaml:"driver"`
	NotesBucket   string `json:"notes_bucket" yaml:"notes_bucket"`
	AvatarsBucket string `json:"avatars_bucket" yaml:"avatars_bucket"`
	// LocalRoot 本地驱动的根目录
	LocalRoot string `json:"local_root" yaml:"local_root"`
	// PublicBaseURL 拼接公开访问地址, 例如 CDN 域名
	PublicBaseURL string `json:"public_base_url" yaml:"public_base_url"`
	SignExpireSec int64  `json:"sign_expire_sec" yaml:"sign_expire_sec"`
}

func (s *Storage) applyDefaults() {
	if s.Driver == "" {
		s.Driver = StorageLocal
	}
	if s.NotesBucket == "" {
		s.NotesBucket = "notes"
	}
	if s.AvatarsBucket == "" {
		s.AvatarsBucket = "avatars"
	}
	if s.LocalRoot == "" {
		s.LocalRoot = "./data"
	}
	if s.SignExpireSec == 0 {
		s.SignExpireSec = 600
	}
}

type OssConfig struct {
	Endpoint         string `json:"endpoint" yaml:"endpoint"`
	InternalEndpoint string `json:"internal_endpoint" yaml:"internal_endpoint"`
	Region           string `json:"region" yaml:"region"`
	AccessKeyID      string `json:"ak" yaml:"ak"`
	AccessKeySecret  string `json:"sk" yaml:"sk"`
}

type S3Config struct {
	Region          string `json:"region" yaml:"region"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
	AccessKeyID     string `json:"ak" yaml:"ak"`
	AccessKeySecret string `json:"sk" yaml:"sk"`
	ForcePathStyle  bool   `json:"force_path_style" yaml:"force_path_style"`
}
