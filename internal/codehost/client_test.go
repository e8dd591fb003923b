package codehost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		want      Reference
		wantError bool
	}{
		{
			name: "simple group and project",
			text: "https://host.example/g/p/-/merge_requests/24",
			want: Reference{ProjectID: "g/p", ItemIID: 24},
		},
		{
			name: "nested subgroups",
			text: "https://gitlab.com/group/sub/deeper/project/-/merge_requests/123",
			want: Reference{ProjectID: "group/sub/deeper/project", ItemIID: 123},
		},
		{
			name: "trailing path segment ignored",
			text: "https://gitlab.com/g/p/-/merge_requests/5/diffs",
			want: Reference{ProjectID: "g/p", ItemIID: 5},
		},
		{
			name: "query string ignored",
			text: "https://gitlab.com/g/p/-/merge_requests/5?tab=overview",
			want: Reference{ProjectID: "g/p", ItemIID: 5},
		},
		{
			name: "fragment ignored",
			text: "https://gitlab.com/g/p/-/merge_requests/5#note_77",
			want: Reference{ProjectID: "g/p", ItemIID: 5},
		},
		{
			name:      "not a merge request URL",
			text:      "https://gitlab.com/g/p/-/issues/5",
			wantError: true,
		},
		{
			name:      "missing project path",
			text:      "https://gitlab.com/-/merge_requests/5",
			wantError: true,
		},
		{
			name:      "non-numeric IID",
			text:      "https://gitlab.com/g/p/-/merge_requests/abc",
			wantError: true,
		},
		{
			name:      "zero IID",
			text:      "https://gitlab.com/g/p/-/merge_requests/0",
			wantError: true,
		},
		{
			name:      "empty string",
			text:      "",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReference(tt.text)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReferenceString(t *testing.T) {
	ref := Reference{ProjectID: "group/project", ItemIID: 42}
	assert.Equal(t, "group/project!42", ref.String())
}
