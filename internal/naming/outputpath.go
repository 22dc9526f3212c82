package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// IsHidden reports whether the base name of path starts with a dot.
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// OutputDir returns the directory that receives outputs for src. With
// keepRelative the directory of src relative to inputRoot is mirrored under
// outputRoot; otherwise every output lands directly in outputRoot.
func OutputDir(inputRoot, outputRoot, src string, keepRelative bool) (string, error) {
	if !keepRelative {
		return outputRoot, nil
	}
	rel, err := filepath.Rel(inputRoot, filepath.Dir(src))
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", src, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside input root %s", src, inputRoot)
	}
	return filepath.Join(outputRoot, rel), nil
}

// TranscodeName returns stem(src) + suffix + containerExt.
func TranscodeName(src, suffix, containerExt string) string {
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + suffix + containerExt
}

// TranscodePath joins outDir with [TranscodeName].
func TranscodePath(outDir, src, suffix, containerExt string) string {
	return filepath.Join(outDir, TranscodeName(src, suffix, containerExt))
}

// CopyPath returns where a verbatim copy of src goes in outDir.
func CopyPath(outDir, src string) string {
	return filepath.Join(outDir, filepath.Base(src))
}
