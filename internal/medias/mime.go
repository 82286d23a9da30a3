package medias

import (
	"path/filepath"
	"strings"
)

var mimeTypes = map[string]string{
	// See https://developer.mozilla.org/en-US/docs/Web/HTTP/Basics_of_HTTP/MIME_types/Common_types
	".md":   "text/markdown",
	".avif": "image/avif",
	".avi":  "video/x-msvideo",
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".heic": "image/heic",
	".ico":  "image/vnd.microsoft.icon",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".mov":  "video/quicktime",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".mpeg": "video/mpeg",
	".ogv":  "video/ogg",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".txt":  "text/plain",
	".webm": "video/webm",
	".webp": "image/webp",
}

// Formats decoded without external tools
var decodable = map[string]bool{
	"image/bmp":  true,
	"image/gif":  true,
	"image/jpeg": true,
	"image/png":  true,
	"image/tiff": true,
	"image/webp": true,
}

// MimeType returns the mime type for common web file extensions.
func MimeType(extension string) string {
	mime, ok := mimeTypes[strings.ToLower(extension)]
	if !ok {
		// RFC 2046 declares:
		// The "octet-stream" subtype is used to indicate that a body contains arbitrary binary data.
		return "application/octet-stream"
	}
	return mime
}

// IsImage returns if the file can be decoded natively based on its extension.
func IsImage(path string) bool {
	return decodable[MimeType(filepath.Ext(path))]
}

// IsMedia returns if the file is an image or a video.
func IsMedia(path string) bool {
	mime := MimeType(filepath.Ext(path))
	return strings.HasPrefix(mime, "image/") || strings.HasPrefix(mime, "video/")
}
