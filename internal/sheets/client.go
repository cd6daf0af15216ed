// Package sheets talks to a spreadsheet web endpoint that stores household
// tasks as rows. A GET returns every row, header first; a POST appends one.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/hogar/internal/constants"
	"github.com/julianstephens/hogar/internal/models"
)

var (
	ErrNoEndpoint        = errors.New("sheets: no remote endpoint configured")
	ErrUnexpectedStatus  = errors.New("sheets: unexpected status")
	ErrMalformedResponse = errors.New("sheets: malformed response")
)

// Row is one task row, by column position: category, task, responsible,
// assigned day.
type Row struct {
	Category    string `json:"category"`
	Task        string `json:"task"`
	Responsible string `json:"responsible"`
	AssignedDay string `json:"assignedDay"`
}

// ToTask maps a row onto the task model. Unrecognised party or day values
// fall back to PartyA and unassigned.
func (r Row) ToTask(id string) models.Task {
	party, err := models.ParseParty(r.Responsible)
	if err != nil {
		party = models.PartyA
	}
	day, err := models.ParseWeekday(r.AssignedDay)
	if err != nil {
		day = models.NoDay
	}
	return models.Task{
		ID:          id,
		Category:    r.Category,
		Description: r.Task,
		Responsible: party,
		AssignedDay: day,
	}
}

type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
}

// NewClient returns a client for endpoint. A zero timeout leaves requests
// bounded only by the caller's context.
func NewClient(endpoint string, timeout time.Duration) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}
	return &Client{endpoint: endpoint, timeout: timeout, http: &http.Client{}}, nil
}

// FetchTasks returns every data row. The header row is dropped.
func (c *Client) FetchTasks(ctx context.Context) ([]Row, error) {
	body, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	var raw [][]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(raw) <= 1 {
		return []Row{}, nil
	}

	rows := make([]Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		rows = append(rows, Row{
			Category:    cell(cells, 0),
			Task:        cell(cells, 1),
			Responsible: cell(cells, 2),
			AssignedDay: cell(cells, 3),
		})
	}
	return rows, nil
}

// AddTask appends one row.
func (c *Client) AddTask(ctx context.Context, row Row) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("sheets: encoding row: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, payload)
	return err
}

func (c *Client) do(ctx context.Context, method string, payload []byte) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("sheets: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.AppName+"/"+constants.Version)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheets: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, constants.RemoteMaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("sheets: reading response: %w", err)
	}
	return data, nil
}

// cell renders column i as text. Spreadsheet cells arrive as strings,
// numbers or booleans; missing columns are empty.
func cell(cells []any, i int) string {
	if i >= len(cells) || cells[i] == nil {
		return ""
	}
	switch v := cells[i].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(cells[i])
}
