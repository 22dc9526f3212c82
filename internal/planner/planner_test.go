package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name             string
		facts            Facts
		want             Action
		wantUnclassified bool
	}{
		{"different codec transcodes", Facts{Codec: "h264", Target: "hevc"}, ActionTranscode, false},
		{"existing output is compared", Facts{Codec: "h264", Target: "hevc", OutputExists: true}, ActionCompareExisting, false},
		{"same codec skipped", Facts{Codec: "hevc", Target: "hevc"}, ActionSkip, false},
		{"same codec copied", Facts{Codec: "hevc", Target: "hevc", CopyOthers: true}, ActionCopy, false},
		{"same codec copy exists", Facts{Codec: "hevc", Target: "hevc", CopyOthers: true, CopyExists: true}, ActionSkip, false},
		{"skip-listed skipped", Facts{Skippable: true, Target: "hevc"}, ActionSkip, false},
		{"skip-listed copied", Facts{Skippable: true, Target: "hevc", CopyOthers: true}, ActionCopy, false},
		{"skip-listed ignores existing output", Facts{Skippable: true, Target: "hevc", OutputExists: true}, ActionSkip, false},
		{"unclassifiable skipped", Facts{Target: "hevc"}, ActionSkip, true},
		{"unclassifiable copied", Facts{Target: "hevc", CopyOthers: true}, ActionCopy, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Decide(tt.facts)
			assert.Equal(t, tt.want, p.Action, p.Reason)
			assert.Equal(t, tt.wantUnclassified, p.Unclassified)
			assert.NotEmpty(t, p.Reason)
		})
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "compare-existing", ActionCompareExisting.String())
	assert.Equal(t, "unknown", Action(42).String())
}

func TestNeedsTranscode(t *testing.T) {
	assert.True(t, NeedsTranscode("h264", false, "hevc"))
	assert.False(t, NeedsTranscode("hevc", false, "hevc"))
	assert.False(t, NeedsTranscode("", false, "hevc"))
	assert.False(t, NeedsTranscode("h264", true, "hevc"))
}
