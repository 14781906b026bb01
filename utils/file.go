package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// EnsureUploadDir creates the local uploads directory if it doesn't exist.
// Used as the avatar storage fallback when R2 is not configured.
func EnsureUploadDir() error {
	return os.MkdirAll(filepath.Join("uploads", "avatars"), os.ModePerm)
}

// SaveAvatarLocally writes an uploaded avatar under uploads/avatars/ and
// returns the URL path the static file handler serves it from.
func SaveAvatarLocally(fileHeader *multipart.FileHeader, userID string) (string, error) {
	filename := fmt.Sprintf("%s%s", userID, filepath.Ext(fileHeader.Filename))
	destPath := filepath.Join("uploads", "avatars", filename)

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return "/uploads/avatars/" + filename, nil
}

// IsImageUpload checks a multipart upload's extension against the accepted
// avatar formats.
func IsImageUpload(fileHeader *multipart.FileHeader) bool {
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	default:
		return false
	}
}
