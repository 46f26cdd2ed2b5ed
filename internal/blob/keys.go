package blob

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// AvatarKey returns a fresh object key for a user's profile picture.
func AvatarKey(userID, filename string) string {
	return "avatars/" + userID + "/" + uuid.NewString() + extension(filename)
}

// ReportPhotoKey returns a fresh object key for a verification photo.
func ReportPhotoKey(hostelID, filename string) string {
	return "verification/" + hostelID + "/" + uuid.NewString() + extension(filename)
}

func extension(filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, `\`, "/"))))
	if len(ext) > 10 || strings.ContainsAny(ext, " ?#%") {
		return ""
	}
	return ext
}
