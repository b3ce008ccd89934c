package constants

import "strings"

// MaxUploadBytes caps the decoded poster size accepted by the API (16 MiB).
const MaxUploadBytes = 16 * 1024 * 1024

// AllowedImageFormats holds the image formats the OCR stage can decode.
var AllowedImageFormats = map[string]struct{}{
	"png":  {},
	"jpeg": {},
	"gif":  {},
	"bmp":  {},
	"tiff": {},
	"webp": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedImageFormat reports whether name (as returned by image.Decode) is supported.
func IsAllowedImageFormat(name string) bool {
	_, ok := AllowedImageFormats[NormalizeExt(name)]
	return ok
}

// PosterExtensions holds the file extensions picked up from watched folders.
var PosterExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"bmp":  {},
	"tif":  {},
	"tiff": {},
	"webp": {},
}

// IsPosterFile reports whether path carries a poster image extension.
func IsPosterFile(path string) bool {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return false
	}
	_, ok := PosterExtensions[NormalizeExt(path[i:])]
	return ok
}
