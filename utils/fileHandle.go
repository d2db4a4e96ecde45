package utils

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"trainhub/config"

	"github.com/google/uuid"
)

// SaveUploadedFile stores a multipart upload under public/uploads/<category>
// with a collision-free filename and returns the path relative to uploads/.
func SaveUploadedFile(file *multipart.FileHeader, category string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	destDir := filepath.Join("public", "uploads", category)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	ext := filepath.Ext(file.Filename)
	newFilename := time.Now().Format("20060102150405") + "-" + strings.Split(uuid.NewString(), "-")[0] + ext
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return category + "/" + newFilename, nil
}

// GetFileURL maps a stored relative path to its public URL.
func GetFileURL(relPath string) string {
	if relPath == "" {
		return ""
	}
	return config.AppConfig.BaseURL + "/uploads/" + relPath
}
