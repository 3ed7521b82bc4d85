package hosting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspiderteam/pinoutbot/pkg/errors"
)

func TestEligible(t *testing.T) {
	tests := []struct {
		name  string
		files []ChangedFile
		dir   string
		want  bool
	}{
		{
			name:  "single added submission",
			files: []ChangedFile{{Path: "submissions/pinout_x.json", Status: "added"}},
			dir:   "submissions",
			want:  true,
		},
		{
			name:  "trailing slash in dir",
			files: []ChangedFile{{Path: "submissions/pinout_x.json", Status: "added"}},
			dir:   "submissions/",
			want:  true,
		},
		{
			name:  "nested under submissions",
			files: []ChangedFile{{Path: "submissions/2024/pinout_x.json", Status: "added"}},
			dir:   "submissions",
			want:  true,
		},
		{
			name:  "modified file",
			files: []ChangedFile{{Path: "submissions/pinout_x.json", Status: "modified"}},
			dir:   "submissions",
		},
		{
			name: "two files",
			files: []ChangedFile{
				{Path: "submissions/pinout_x.json", Status: "added"},
				{Path: "submissions/pinout_y.json", Status: "added"},
			},
			dir: "submissions",
		},
		{
			name:  "outside submissions",
			files: []ChangedFile{{Path: "pinouts.json", Status: "added"}},
			dir:   "submissions",
		},
		{
			name:  "sibling with shared prefix",
			files: []ChangedFile{{Path: "submissions-old/pinout_x.json", Status: "added"}},
			dir:   "submissions",
		},
		{
			name:  "path escaping the dir",
			files: []ChangedFile{{Path: "submissions/../pinouts.json", Status: "added"}},
			dir:   "submissions",
		},
		{
			name: "no files",
			dir:  "submissions",
		},
		{
			name:  "empty dir never matches",
			files: []ChangedFile{{Path: "pinout_x.json", Status: "added"}},
			dir:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eligible(tt.files, tt.dir))
		})
	}
}

func TestSplitRepository(t *testing.T) {
	owner, name, err := SplitRepository("webspiderteam/laptop-battery-pinouts")
	require.NoError(t, err)
	assert.Equal(t, "webspiderteam", owner)
	assert.Equal(t, "laptop-battery-pinouts", name)

	for _, bad := range []string{"", "owner", "/name", "owner/", "a/b/c"} {
		_, _, err := SplitRepository(bad)
		assert.True(t, errors.IsValidationError(err), bad)
	}
}
