package blob

import "affordhostel/internal/infra/blob/fs"

// NewFilesystem constructs a filesystem-backed Store rooted at root whose
// object URLs start with baseURL.
func NewFilesystem(root, baseURL string) (Store, error) {
	return fs.New(root, baseURL)
}
