package compositor

import (
	"path/filepath"
	"strings"
)

// AssetResolver maps authored asset references to something the runtime can
// open. Network references pass through; everything else is looked up in the
// public (static) directory.
type AssetResolver struct {
	PublicDir string
}

// Resolve returns "" for an empty reference, meaning the layer is absent.
func (r AssetResolver) Resolve(ref string) string {
	if ref == "" {
		return ""
	}
	if IsRemote(ref) {
		return ref
	}
	rel := strings.TrimPrefix(filepath.ToSlash(ref), "/")
	return filepath.Join(r.PublicDir, filepath.FromSlash(rel))
}

// IsRemote reports whether ref is an http(s) URL. Local names that merely
// start with "http" are not.
func IsRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
