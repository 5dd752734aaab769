package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mcpjungle/obsidian-mcp/pkg/types"
)

const markdownContentType = "text/markdown"

// ListFilesInVault lists the files and directories at the root of the vault.
func (c *Client) ListFilesInVault(ctx context.Context) ([]string, error) {
	return c.listFiles(ctx, "/vault/")
}

// ListFilesInDir lists the files and directories inside dirpath.
// The REST API does not report directories that contain no files.
func (c *Client) ListFilesInDir(ctx context.Context, dirpath string) ([]string, error) {
	dir := strings.Trim(dirpath, "/")
	if dir == "" {
		return c.ListFilesInVault(ctx)
	}
	return c.listFiles(ctx, vaultPath(dir)+"/")
}

func (c *Client) listFiles(ctx context.Context, p string) ([]string, error) {
	u, err := c.constructAPIEndpoint(p, nil)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", u, err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var list types.FileList
	if err := decodeJSON(resp, &list); err != nil {
		return nil, err
	}
	return list.Files, nil
}

// GetFileContents returns the raw content of a single file.
func (c *Client) GetFileContents(ctx context.Context, filepath string) (string, error) {
	p, err := vaultFilePath(filepath)
	if err != nil {
		return "", err
	}
	u, err := c.constructAPIEndpoint(p, nil)
	if err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request to %s: %w", u, err)
	}

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	return string(body), nil
}

// AppendContent appends content to the end of filepath, creating the file if it does not exist.
func (c *Client) AppendContent(ctx context.Context, filepath, content string) error {
	p, err := vaultFilePath(filepath)
	if err != nil {
		return err
	}
	u, err := c.constructAPIEndpoint(p, nil)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, u, strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", u, err)
	}
	req.Header.Set("Content-Type", markdownContentType)

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	return nil
}

// PatchContent inserts or replaces content relative to a heading, block reference or
// frontmatter field of an existing file.
// Resolution of the target is done entirely by the REST API; the target is only percent-encoded.
func (c *Client) PatchContent(
	ctx context.Context,
	filepath string,
	operation types.PatchOperation,
	targetType types.TargetType,
	target string,
	content string,
) error {
	p, err := vaultFilePath(filepath)
	if err != nil {
		return err
	}
	u, err := c.constructAPIEndpoint(p, nil)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPatch, u, strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", u, err)
	}
	req.Header.Set("Content-Type", markdownContentType)
	req.Header.Set("Operation", string(operation))
	req.Header.Set("Target-Type", string(targetType))
	req.Header.Set("Target", encodeURIComponent(target))

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	return nil
}

// encodeURIComponent percent-encodes s the way the REST API expects header values,
// leaving only ALPHA / DIGIT / "-_.!~*'()" unescaped.
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if isUnreservedComponentChar(ch) {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[ch>>4])
		b.WriteByte(hex[ch&0x0F])
	}
	return b.String()
}

func isUnreservedComponentChar(ch byte) bool {
	switch {
	case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z', '0' <= ch && ch <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", ch) >= 0
}
