package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mcpjungle/obsidian-mcp/pkg/types"
)

// DefaultContextLength is the number of characters of context returned around each search hit
// when the caller does not specify one.
const DefaultContextLength = 100

const jsonLogicContentType = "application/vnd.olrapi.jsonlogic+json"

// Search runs a simple text search across every file in the vault.
// A contextLength of zero or less selects DefaultContextLength.
func (c *Client) Search(ctx context.Context, query string, contextLength int) ([]types.SearchResult, error) {
	if contextLength <= 0 {
		contextLength = DefaultContextLength
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("contextLength", strconv.Itoa(contextLength))

	u, err := c.constructAPIEndpoint("/search/simple/", params)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", u, err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var results []types.SearchResult
	if err := decodeJSON(resp, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// SearchJSON runs a JsonLogic query against the vault and returns the decoded response as is.
func (c *Client) SearchJSON(ctx context.Context, query map[string]any) (any, error) {
	u, err := c.constructAPIEndpoint("/search/", nil)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", u, err)
	}
	req.Header.Set("Content-Type", jsonLogicContentType)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var results any
	if err := decodeJSON(resp, &results); err != nil {
		return nil, err
	}
	return results, nil
}
