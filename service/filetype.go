package service

import (
	"mime"
	"path/filepath"
	"strings"

	"stash/models"
)

var mimeFileTypes = map[string]string{
	"application/pdf":    models.FileTypePDF,
	"application/msword": models.FileTypeDOC,

	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   models.FileTypeDOCX,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": models.FileTypePPTX,

	"text/plain":      models.FileTypeTXT,
	"text/markdown":   models.FileTypeMD,
	"text/x-markdown": models.FileTypeMD,
}

var extFileTypes = map[string]string{
	".pdf":      models.FileTypePDF,
	".doc":      models.FileTypeDOC,
	".docx":     models.FileTypeDOCX,
	".pptx":     models.FileTypePPTX,
	".txt":      models.FileTypeTXT,
	".md":       models.FileTypeMD,
	".markdown": models.FileTypeMD,
}

var fileContentTypes = map[string]string{
	models.FileTypePDF:  "application/pdf",
	models.FileTypeDOC:  "application/msword",
	models.FileTypeDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	models.FileTypePPTX: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	models.FileTypeTXT:  "text/plain; charset=utf-8",
	models.FileTypeMD:   "text/markdown; charset=utf-8",
}

// DetectFileType 先看 MIME, 再看扩展名
func DetectFileType(contentType, filename string) (string, bool) {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if t, ok := mimeFileTypes[strings.ToLower(mt)]; ok {
			return t, true
		}
	}
	t, ok := extFileTypes[strings.ToLower(filepath.Ext(filename))]
	return t, ok
}

func contentTypeOf(fileType string) string {
	if ct, ok := fileContentTypes[fileType]; ok {
		return ct
	}
	return "application/octet-stream"
}
