// Package codehost talks to the code-host API for a work item: metadata,
// per-file changes, and comments.
package codehost

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Reference identifies one work item on the code host, derived from its URL.
type Reference struct {
	ProjectID string
	ItemIID   int
}

func (r Reference) String() string {
	return fmt.Sprintf("%s!%d", r.ProjectID, r.ItemIID)
}

type Metadata struct {
	IID          int       `json:"iid"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	State        string    `json:"state"`
	SourceBranch string    `json:"source_branch"`
	TargetBranch string    `json:"target_branch"`
	WebURL       string    `json:"web_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Change struct {
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
	Diff    string `json:"diff"`
}

type DiffStats struct {
	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`
	FilesChanged int `json:"files_changed"`
}

type Changes struct {
	Changes []Change  `json:"changes"`
	Stats   DiffStats `json:"diff_stats"`
}

type Note struct {
	ID        int       `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	WebURL    string    `json:"web_url"`
}

type Client interface {
	GetMergeRequest(ctx context.Context, ref Reference) (*Metadata, error)
	GetMergeRequestChanges(ctx context.Context, ref Reference) (*Changes, error)
	PostMergeRequestNote(ctx context.Context, ref Reference, body string) (*Note, error)
}

// ParseReference derives a Reference from a work item URL of the shape
// https://host/group/subgroup/project/-/merge_requests/123. The project path
// may be arbitrarily deep; anything after the IID (slash, query, fragment) is
// ignored.
func ParseReference(text string) (Reference, error) {
	parts := strings.SplitN(text, "/-/merge_requests/", 2)
	if len(parts) != 2 {
		return Reference{}, fmt.Errorf("reference %q does not contain a merge request path", text)
	}

	prefix := strings.SplitN(parts[0], "/", 4)
	if len(prefix) < 4 || prefix[3] == "" {
		return Reference{}, fmt.Errorf("reference %q has no project path", text)
	}
	projectID := prefix[3]

	iidPart := parts[1]
	for _, sep := range []string{"/", "?", "#"} {
		iidPart = strings.SplitN(iidPart, sep, 2)[0]
	}

	iid, err := strconv.Atoi(iidPart)
	if err != nil || iid <= 0 {
		return Reference{}, fmt.Errorf("reference %q has an invalid item IID: %q", text, iidPart)
	}

	return Reference{ProjectID: projectID, ItemIID: iid}, nil
}
