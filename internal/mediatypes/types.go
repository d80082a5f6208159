package mediatypes

import (
	"path/filepath"
	"strings"
)

// Kind is the kind of a gallery item.
type Kind string

const (
	// KindImage is a published image.
	KindImage Kind = "image"
	// KindVideo is a published video.
	KindVideo Kind = "video"
)

const (
	// TargetImageExt is the only image format listed by the gallery and
	// produced by the converter.
	TargetImageExt = ".webp"
	// TargetVideoExt is the only video format listed by the gallery.
	TargetVideoExt = ".mp4"
	// PlaceholderThumbnail is the file served for videos without a thumbnail.
	PlaceholderThumbnail = "video-placeholder" + TargetImageExt
)

// ConvertibleExtensions are the raster formats the converter accepts.
var ConvertibleExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// ThumbnailImageExtensions are the image sources for thumbnail generation.
var ThumbnailImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ThumbnailVideoExtensions are the video sources for the batch thumbnail run.
var ThumbnailVideoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
	".mkv": true,
}

// VideoExtensions are all video formats the per-video extractor accepts.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".flv":  true,
	".wmv":  true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",

	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
}

// Ext returns the lowercase extension of name, including the dot.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsConvertible reports whether the converter accepts the extension.
// The target format itself is not convertible.
func IsConvertible(ext string) bool {
	return ConvertibleExtensions[ext]
}

// GetMimeType returns the MIME type for a given file extension.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}
