package ffmpeg

import "regexp"

// Pre-compiled patterns for explaining common ffmpeg failures. Checked in
// order by [Diagnose]; the first match wins.
var diagnoses = []struct {
	re   *regexp.Regexp
	hint string
}{
	{
		regexp.MustCompile(`Unknown encoder|Encoder not found|Unrecognized option`),
		"encoder or option not available in this ffmpeg build; check the preset with --check",
	},
	{
		regexp.MustCompile(`(?i)Subtitle codec .* is not supported|` +
			`Could not find tag for codec .* in stream .*subtitle|` +
			`Subtitle encoding currently only possible from text to text or bitmap to bitmap`),
		"a mapped subtitle stream cannot be written to this container; try --map-args or --default-map",
	},
	{
		regexp.MustCompile(`Attachment stream \d+ has no (filename|mimetype) tag`),
		"an attachment stream lacks filename/mimetype tags; try --map-args to drop attachments",
	},
	{
		regexp.MustCompile(`Too many packets buffered for output stream`),
		"mux queue overflow; add -max_muxing_queue_size to the encoder arguments",
	},
	{
		regexp.MustCompile(`(?i)Non-monotonous DTS|non monotonically increasing dts|` +
			`DTS .*out of order|PTS .*out of order|pts has no value|missing PTS|Timestamps are unset`),
		"timestamp discontinuity in the source",
	},
	{
		regexp.MustCompile(`Invalid data found when processing input|moov atom not found|` +
			`End of file|Invalid argument`),
		"input is truncated or not a media file",
	},
}

// Diagnose returns a one-line hint for a failed encoder run, or "" when
// stderr matches no known failure.
func Diagnose(stderr string) string {
	for _, d := range diagnoses {
		if d.re.MatchString(stderr) {
			return d.hint
		}
	}
	return ""
}
