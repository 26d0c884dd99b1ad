package config

type Upload struct {
	MaxNoteBytes   int64 `json:"max_note_bytes" yaml:"max_note_bytes"`
	MaxAvatarBytes int64 `json:"max_avatar_bytes" yaml:"max_avatar_bytes"`
	// MaxPreviewBytes 文本预览最多返回的字节数
	MaxPreviewBytes int64 `json:"max_preview_bytes" yaml:"max_preview_bytes"`
}

func (u *Upload) applyDefaults() {
	if u.MaxNoteBytes == 0 {
		u.MaxNoteBytes = 2 << 20
	}
	if u.MaxAvatarBytes == 0 {
		u.MaxAvatarBytes = 5 << 20
	}
	if u.MaxPreviewBytes == 0 {
		u.MaxPreviewBytes = 512 << 10
	}
}
