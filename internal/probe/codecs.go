package probe

// videoCodecs are the ffprobe codec names treated as transcodable video.
// Anything else reported for stream v:0 (cover art, subtitles-only files,
// unknown formats) is unclassifiable.
var videoCodecs = map[string]bool{
	"h264":       true,
	"hevc":       true,
	"av1":        true,
	"vp8":        true,
	"vp9":        true,
	"mpeg4":      true,
	"msmpeg4v3":  true,
	"msmpeg4v2":  true,
	"mpeg2video": true,
	"mpeg1video": true,
	"dvvideo":    true,
	"dnxhd":      true,
	"prores":     true,
	"vc1":        true,
	"wmv3":       true,
	"theora":     true,
}

// IsVideoCodec reports whether name is a recognized video codec.
func IsVideoCodec(name string) bool {
	return videoCodecs[name]
}
