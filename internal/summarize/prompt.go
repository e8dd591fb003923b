package summarize

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the review prompt. Oversized input is never an error:
// the file list and each diff are capped and a truncation note is appended in
// their place. Caps of zero or below mean unlimited.
func BuildPrompt(req Request, maxFiles, maxDiffLines int) string {
	var prompt strings.Builder

	description := req.Description
	if description == "" {
		description = "No description provided."
	}

	fmt.Fprintf(&prompt, `You are a code review assistant. Please provide a concise, human-readable summary of the following merge request.

**Merge Request Title:** %s

**Description:**
%s

**Branches:** `+"`%s` → `%s`"+`

**Changes:**
`, req.Title, description, req.SourceBranch, req.TargetBranch)

	files := req.Changes
	if maxFiles > 0 && len(files) > maxFiles {
		files = files[:maxFiles]
	}

	for _, change := range files {
		if change.NewPath == change.OldPath {
			fmt.Fprintf(&prompt, "\n### File: `%s`\n", change.NewPath)
		} else {
			fmt.Fprintf(&prompt, "\n### File: `%s` → `%s`\n", change.OldPath, change.NewPath)
		}

		diffLines := strings.Split(change.Diff, "\n")
		truncated := maxDiffLines > 0 && len(diffLines) > maxDiffLines
		if truncated {
			diffLines = diffLines[:maxDiffLines]
		}

		prompt.WriteString("```diff\n")
		prompt.WriteString(strings.Join(diffLines, "\n"))
		if truncated {
			prompt.WriteString("\n... (diff truncated)")
		}
		prompt.WriteString("\n```\n")
	}

	if len(req.Changes) > len(files) {
		fmt.Fprintf(&prompt, "\n... and %d more files.\n", len(req.Changes)-len(files))
	}

	prompt.WriteString(`

Please provide a summary that includes:
1. **Overview**: What is the main purpose of this MR?
2. **Key Changes**: What are the most important changes?
3. **Impact**: What areas of the codebase are affected?

Keep the summary concise (3-5 sentences max) and focus on what reviewers need to know.
`)

	return prompt.String()
}
