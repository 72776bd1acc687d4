package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/quicknote/quicknote-api/internal/utils"
	"github.com/quicknote/quicknote-api/pkg/notes"
)

type Client struct {
	URL string
}

func NewClient(url string) *Client {
	return &Client{url}
}

func (c *Client) ListNotes() ([]*notes.Note, error) {
	resp, err := c.invoke("GET", "/notes/")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBytes, err := validateResponse(resp)
	if err != nil {
		return nil, err
	}

	var all []*notes.Note
	if err := json.Unmarshal(respBytes, &all); err != nil {
		return nil, fmt.Errorf("error JSON-decoding response body: %w", err)
	}

	return all, nil
}

func (c *Client) CreateNote(title string, content string) (*notes.Note, error) {
	payload, err := json.Marshal(map[string]string{"title": title, "content": content})
	if err != nil {
		return nil, fmt.Errorf("error JSON-encoding note: %w", err)
	}

	resp, err := c.invokeWithPayload("POST", "/notes/", "application/json", strings.NewReader(string(payload)))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBytes, err := validateResponse(resp)
	if err != nil {
		return nil, err
	}

	var note *notes.Note
	if err := json.Unmarshal(respBytes, &note); err != nil {
		return nil, fmt.Errorf("error JSON-decoding response body: %w", err)
	}

	return note, nil
}

func (c *Client) GetNote(id int64) (*notes.Note, error) {
	urlPath := fmt.Sprintf("/notes/%d", id)
	resp, err := c.invoke("GET", urlPath)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBytes, err := validateResponse(resp)
	if err != nil {
		return nil, err
	}

	var note *notes.Note
	if err := json.Unmarshal(respBytes, &note); err != nil {
		return nil, fmt.Errorf("error JSON-decoding response body: %w", err)
	}

	return note, nil
}

// UpdateNote sends a partial update: nil fields are omitted and left
// untouched by the server.
func (c *Client) UpdateNote(id int64, title *string, content *string) (*notes.Note, error) {
	urlPath := fmt.Sprintf("/notes/%d", id)
	fields := map[string]string{}
	if title != nil {
		fields["title"] = *title
	}
	if content != nil {
		fields["content"] = *content
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("error JSON-encoding note update: %w", err)
	}

	resp, err := c.invokeWithPayload("PUT", urlPath, "application/json", strings.NewReader(string(payload)))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBytes, err := validateResponse(resp)
	if err != nil {
		return nil, err
	}

	var note *notes.Note
	if err := json.Unmarshal(respBytes, &note); err != nil {
		return nil, fmt.Errorf("error JSON-decoding response body: %w", err)
	}

	return note, nil
}

func (c *Client) DeleteNote(id int64) error {
	urlPath := fmt.Sprintf("/notes/%d", id)

	resp, err := c.invoke("DELETE", urlPath)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, err = validateResponse(resp)
	return err
}

func (c *Client) SearchNotes(query string) ([]*notes.Note, error) {
	requestUrl, err := url.JoinPath(c.URL, "/notes/search")
	if err != nil {
		return nil, fmt.Errorf("error building URL path: %w", err)
	}
	requestUrl += "?q=" + url.QueryEscape(query)

	req, err := http.NewRequest("GET", requestUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("error building API request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error invoking API: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := validateResponse(resp)
	if err != nil {
		return nil, err
	}

	var found []*notes.Note
	if err := json.Unmarshal(respBytes, &found); err != nil {
		return nil, fmt.Errorf("error JSON-decoding response body: %w", err)
	}

	return found, nil
}

func (c *Client) Translate(text string, target string) (string, error) {
	fields := map[string]string{"text": text}
	if target != "" {
		fields["target"] = target
	}
	var result struct {
		Translation string `json:"translation"`
	}
	if err := c.postJSON("/ai/translate", fields, &result); err != nil {
		return "", err
	}
	return result.Translation, nil
}

func (c *Client) TranslateNote(id int64, target string) (string, error) {
	fields := map[string]any{"note_id": id}
	if target != "" {
		fields["target"] = target
	}
	var result struct {
		Translation string `json:"translation"`
	}
	if err := c.postJSON("/ai/translate", fields, &result); err != nil {
		return "", err
	}
	return result.Translation, nil
}

func (c *Client) Generate(prompt string, language string) (*notes.Draft, error) {
	fields := map[string]string{"prompt": prompt}
	if language != "" {
		fields["language"] = language
	}
	var draft notes.Draft
	if err := c.postJSON("/ai/generate", fields, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *Client) Chat(prompt string) (string, error) {
	var result struct {
		Reply string `json:"reply"`
	}
	if err := c.postJSON("/ai/chat", map[string]string{"prompt": prompt}, &result); err != nil {
		return "", err
	}
	return result.Reply, nil
}

// Private functions

func (c *Client) postJSON(path string, fields any, out any) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("error JSON-encoding request body: %w", err)
	}

	resp, err := c.invokeWithPayload("POST", path, "application/json", strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBytes, err := validateResponse(resp)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("error JSON-decoding response body: %w", err)
	}
	return nil
}

func (c *Client) invoke(method string, path string) (*http.Response, error) {
	requestUrl, err := url.JoinPath(c.URL, path)
	if err != nil {
		return nil, fmt.Errorf("error building URL path: %w", err)
	}

	req, err := http.NewRequest(method, requestUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("error building API request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error invoking API: %w", err)
	}
	return resp, nil
}

func (c *Client) invokeWithPayload(method string, path string, contentType string, body io.Reader) (*http.Response, error) {
	requestUrl, err := url.JoinPath(c.URL, path)
	if err != nil {
		return nil, fmt.Errorf("error building URL path: %w", err)
	}

	req, err := http.NewRequest(method, requestUrl, body)
	if err != nil {
		return nil, fmt.Errorf("error building API request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error invoking API: %w", err)
	}
	return resp, nil
}

func validateResponse(resp *http.Response) ([]byte, error) {
	respBytes, err := utils.ReadToEnd(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		respStr := strings.TrimSpace(string(respBytes))
		return nil, fmt.Errorf("invalid status code: %d (response: %s)", resp.StatusCode, respStr)
	}

	return respBytes, nil
}
