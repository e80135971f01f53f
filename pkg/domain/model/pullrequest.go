package model

import "time"

// PullRequestSnapshot is an immutable extraction of one pull request at one
// point in time. It is created once per validation run by the repository
// data provider and read-only afterward.
type PullRequestSnapshot struct {
	Number  int
	Title   string
	Body    string
	Author  string
	HeadSHA string
	Commits []Commit
	Files   []FileChange
	Stats   DiffStats
}

// Commit is a single commit in the pull request.
type Commit struct {
	SHA     string
	Message string
	Author  CommitAuthor
}

// CommitAuthor identifies who authored a commit.
type CommitAuthor struct {
	Name  string
	Email string
	Date  time.Time
}

// FileChange describes one changed file in the pull request.
type FileChange struct {
	Filename  string
	Status    string
	Additions int
	Deletions int
	Patch     string
}

// DiffStats aggregates file-level change counts. It is always derived from
// the file list, never fetched or mutated independently.
type DiffStats struct {
	TotalAdditions int
	TotalDeletions int
	TotalChanges   int
	FilesChanged   int
}

// ComputeDiffStats derives aggregate statistics from a list of file changes.
func ComputeDiffStats(files []FileChange) DiffStats {
	stats := DiffStats{FilesChanged: len(files)}
	for _, f := range files {
		stats.TotalAdditions += f.Additions
		stats.TotalDeletions += f.Deletions
	}
	stats.TotalChanges = stats.TotalAdditions + stats.TotalDeletions
	return stats
}
