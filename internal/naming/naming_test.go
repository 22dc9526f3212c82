package naming

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/media/.DS_Store"))
	assert.True(t, IsHidden(".partial.mkv"))
	assert.False(t, IsHidden("/media/.cache/movie.mkv"), "only the base name counts")
	assert.False(t, IsHidden("movie.mkv"))
}

func TestOutputDir(t *testing.T) {
	tests := []struct {
		name         string
		src          string
		keepRelative bool
		want         string
		wantErr      bool
	}{
		{"flat", "/in/shows/s01/e01.avi", false, "/out", false},
		{"mirrored", "/in/shows/s01/e01.avi", true, "/out/shows/s01", false},
		{"mirrored at root", "/in/e01.avi", true, "/out", false},
		{"outside root", "/elsewhere/e01.avi", true, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OutputDir("/in", "/out", tt.src, tt.keepRelative)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestTranscodeName(t *testing.T) {
	tests := []struct {
		src, suffix, ext, want string
	}{
		{"/in/movie.avi", "", ".mkv", "movie.mkv"},
		{"/in/movie.avi", "_hevc", ".mkv", "movie_hevc.mkv"},
		{"/in/movie.name.with.dots.mp4", "", ".webm", "movie.name.with.dots.webm"},
		{"/in/noext", "-x", ".mkv", "noext-x.mkv"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, TranscodeName(tt.src, tt.suffix, tt.ext))
		})
	}
	assert.Equal(t, filepath.Join("/out", "movie.mkv"), TranscodePath("/out", "/in/movie.avi", "", ".mkv"))
	assert.Equal(t, filepath.Join("/out", "notes.txt"), CopyPath("/out", "/in/sub/notes.txt"))
}

func TestCollisionResolver(t *testing.T) {
	cr := NewCollisionResolver()

	assert.Equal(t, "/out/movie.mkv", cr.Resolve("/in/movie.avi", "/out/movie.mkv"))
	assert.Equal(t, "/out/movie.mkv", cr.Resolve("/in/movie.avi", "/out/movie.mkv"), "same owner keeps its path")
	assert.Equal(t, filepath.Join("/out", "movie - dup1.mkv"), cr.Resolve("/in/movie.mp4", "/out/movie.mkv"))
	assert.Equal(t, filepath.Join("/out", "movie - dup2.mkv"), cr.Resolve("/in/movie.wmv", "/out/movie.mkv"))
	assert.Equal(t, filepath.Join("/out", "movie - dup1.mkv"), cr.Resolve("/in/movie.mp4", "/out/movie.mkv"))
	assert.Equal(t, "/out/movie.mkv", cr.Resolve("/in/movie.avi", "/out/movie.mkv"), "first owner keeps its path")
}

func TestCollisionResolverReserve(t *testing.T) {
	cr := NewCollisionResolver()
	cr.Reserve("/media/movie.mkv")

	// An h264 movie.mkv transcoded in place must not overwrite itself.
	assert.Equal(t, filepath.Join("/media", "movie - dup1.mkv"), cr.Resolve("/media/movie.mkv", "/media/movie.mkv"))
	assert.Equal(t, "/media/other.mkv", cr.Resolve("/media/other.avi", "/media/other.mkv"))
}
