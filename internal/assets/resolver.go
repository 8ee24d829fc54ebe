package assets

import "strings"

// Resolve returns the mirrored asset directory for the note at docPath.
//
// The result is "/" + root + "/" + dirname(docPath), or the bare "/" + root
// for a top-level note. docPath is not cleaned: ".." segments and leading
// slashes pass through and are left to the storage layer.
func Resolve(root, docPath string) string {
	base := "/" + strings.TrimSpace(root)
	i := strings.LastIndex(docPath, "/")
	if i < 0 {
		return base
	}
	return base + "/" + docPath[:i]
}
