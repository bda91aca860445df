// Package store provides well storage implementations.
package store

import (
	"path/filepath"
)

// LocalWelsPath returns the path to the local .wels directory
// for the given project root.
func LocalWelsPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".wels")
}
