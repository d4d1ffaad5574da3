package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Read-side views of the intake server's query API.
type (
	// OfficerInfo is one roster row derived from recorded calls.
	OfficerInfo struct {
		ID        string    `json:"id"`
		CallCount int       `json:"call_count"`
		LastSeen  time.Time `json:"last_seen"`
	}

	// CallInfo is one call under an officer.
	CallInfo struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	// UpdateLine is one narrative row. ID is the server's polling cursor.
	UpdateLine struct {
		ID        int64     `json:"id"`
		Body      string    `json:"body"`
		CreatedAt time.Time `json:"created_at"`
	}

	// ImageInfo is the metadata for one stored image.
	ImageInfo struct {
		ID           string    `json:"id"`
		FileName     string    `json:"file_name"`
		OriginalName string    `json:"original_name"`
		SizeBytes    int64     `json:"size_bytes"`
		CreatedAt    time.Time `json:"created_at"`
	}
)

// Officers lists officer ids that have at least one recorded call.
func (c *Client) Officers(ctx context.Context) ([]OfficerInfo, error) {
	var out struct {
		Officers []OfficerInfo `json:"officers"`
	}
	if err := c.getJSON(ctx, "/api/officers", &out); err != nil {
		return nil, err
	}
	return out.Officers, nil
}

// Calls lists the calls recorded for one officer, oldest first.
func (c *Client) Calls(ctx context.Context, officerID string) ([]CallInfo, error) {
	var out struct {
		Calls []CallInfo `json:"calls"`
	}
	path := "/api/officers/" + url.PathEscape(officerID) + "/calls"
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Calls, nil
}

// Updates fetches the narrative rows for a call with id greater than after,
// oldest first. The second return value is the cursor for the next poll.
func (c *Client) Updates(ctx context.Context, officerID, callID string, after int64) ([]UpdateLine, int64, error) {
	var out struct {
		Updates []UpdateLine `json:"updates"`
		LastID  int64        `json:"last_id"`
	}
	path := "/api/officers/" + url.PathEscape(officerID) +
		"/calls/" + url.PathEscape(callID) +
		"/updates?after=" + strconv.FormatInt(after, 10)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, 0, err
	}
	return out.Updates, out.LastID, nil
}

// Images lists the stored image metadata for a call.
func (c *Client) Images(ctx context.Context, officerID, callID string) ([]ImageInfo, error) {
	var out struct {
		Images []ImageInfo `json:"images"`
	}
	path := "/api/officers/" + url.PathEscape(officerID) +
		"/calls/" + url.PathEscape(callID) + "/images"
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Images, nil
}

func (c *Client) getJSON(ctx context.Context, path string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var fail struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&fail) == nil && fail.Error != "" {
			return fmt.Errorf("intake: %s", fail.Error)
		}
		return fmt.Errorf("intake returned %s for %s", resp.Status, path)
	}
	return json.NewDecoder(resp.Body).Decode(into)
}
