package storage

import (
	"mime"
	"path"
	"strings"
)

const defaultContentType = "application/octet-stream"

// ImageKey is the object key of a product image
func ImageKey(brandID, productID, filename string) string {
	return brandID + "/" + productID + "/" + filename
}

// ContentTypeFor derives a content type from the key's extension
func ContentTypeFor(key string) string {
	ext := strings.ToLower(path.Ext(key))
	if ext == "" {
		return defaultContentType
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return defaultContentType
}

// validateKey rejects empty keys and keys that could escape a base directory
func validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	return nil
}
