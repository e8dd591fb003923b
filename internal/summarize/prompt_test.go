package summarize

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"mrsummarizer/internal/codehost"
)

func TestBuildPromptIncludesMetadata(t *testing.T) {
	req := Request{
		Title:        "Add request timeouts",
		Description:  "Bounds all outbound calls",
		SourceBranch: "feature/timeouts",
		TargetBranch: "main",
		Changes: []codehost.Change{
			{OldPath: "main.go", NewPath: "main.go", Diff: "+added line"},
		},
	}

	prompt := BuildPrompt(req, 10, 50)

	assert.Contains(t, prompt, "Add request timeouts")
	assert.Contains(t, prompt, "Bounds all outbound calls")
	assert.Contains(t, prompt, "`feature/timeouts` → `main`")
	assert.Contains(t, prompt, "### File: `main.go`")
	assert.Contains(t, prompt, "+added line")
}

func TestBuildPromptEmptyDescription(t *testing.T) {
	prompt := BuildPrompt(Request{Title: "t"}, 10, 50)
	assert.Contains(t, prompt, "No description provided.")
}

func TestBuildPromptRenamedFile(t *testing.T) {
	req := Request{
		Changes: []codehost.Change{
			{OldPath: "old.go", NewPath: "new.go", Diff: "+x"},
		},
	}

	prompt := BuildPrompt(req, 10, 50)
	assert.Contains(t, prompt, "### File: `old.go` → `new.go`")
}

func TestBuildPromptCapsFiles(t *testing.T) {
	req := Request{}
	for i := 0; i < 12; i++ {
		req.Changes = append(req.Changes, codehost.Change{
			OldPath: fmt.Sprintf("file%d.go", i),
			NewPath: fmt.Sprintf("file%d.go", i),
			Diff:    "+x",
		})
	}

	prompt := BuildPrompt(req, 10, 50)

	assert.Contains(t, prompt, "file9.go")
	assert.NotContains(t, prompt, "file10.go")
	assert.Contains(t, prompt, "... and 2 more files.")
}

func TestBuildPromptCapsDiffLines(t *testing.T) {
	lines := make([]string, 60)
	for i := range lines {
		lines[i] = fmt.Sprintf("+line %d", i)
	}
	req := Request{
		Changes: []codehost.Change{
			{OldPath: "big.go", NewPath: "big.go", Diff: strings.Join(lines, "\n")},
		},
	}

	prompt := BuildPrompt(req, 10, 50)

	assert.Contains(t, prompt, "+line 49")
	assert.NotContains(t, prompt, "+line 50\n")
	assert.Contains(t, prompt, "... (diff truncated)")
}

func TestBuildPromptUnlimitedWhenCapsDisabled(t *testing.T) {
	lines := make([]string, 60)
	for i := range lines {
		lines[i] = fmt.Sprintf("+line %d", i)
	}
	req := Request{}
	for i := 0; i < 12; i++ {
		req.Changes = append(req.Changes, codehost.Change{
			OldPath: fmt.Sprintf("file%d.go", i),
			NewPath: fmt.Sprintf("file%d.go", i),
			Diff:    strings.Join(lines, "\n"),
		})
	}

	prompt := BuildPrompt(req, 0, 0)

	assert.Contains(t, prompt, "file11.go")
	assert.Contains(t, prompt, "+line 59")
	assert.NotContains(t, prompt, "truncated")
	assert.NotContains(t, prompt, "more files")
}
