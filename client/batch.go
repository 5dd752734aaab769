package client

import (
	"context"
	"fmt"
	"strings"
)

// FileResult is the outcome of reading one file as part of a batch.
// Exactly one of Content or Err is meaningful.
type FileResult struct {
	Path    string
	Content string
	Err     error
}

// ReadFiles reads each file in order, one request at a time.
// A failure reading one file is recorded in its FileResult and never stops the remaining reads.
func (c *Client) ReadFiles(ctx context.Context, filepaths []string) []FileResult {
	results := make([]FileResult, 0, len(filepaths))
	for _, p := range filepaths {
		content, err := c.GetFileContents(ctx, p)
		results = append(results, FileResult{Path: p, Content: content, Err: err})
	}
	return results
}

// GetBatchFileContents reads every file in filepaths and returns them as one document,
// each file under a "# <path>" header and followed by a "---" divider.
func (c *Client) GetBatchFileContents(ctx context.Context, filepaths []string) string {
	return FormatBatch(c.ReadFiles(ctx, filepaths))
}

// FormatBatch renders batch results in input order.
// Failed reads are rendered inline as "Error reading file: <message>".
func FormatBatch(results []FileResult) string {
	var b strings.Builder
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(&b, "# %s\n\nError reading file: %s\n\n---\n\n", r.Path, r.Err.Error())
			continue
		}
		fmt.Fprintf(&b, "# %s\n\n%s\n\n---\n\n", r.Path, r.Content)
	}
	return b.String()
}
