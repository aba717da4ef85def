package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"dinnermatch_server/models"

	"github.com/pkg/errors"
)

// listPageSize is the largest page the records endpoint accepts
const listPageSize = 500

// TokenSource supplies the bearer credential for bitable calls
type TokenSource interface {
	GetToken(ctx context.Context) (string, error)
}

// BitableService talks to the records API of one bitable app
type BitableService struct {
	BaseURL  string
	AppToken string
	Tokens   TokenSource
	Client   HTTPDoer
}

// NewBitableService creates a records client for the app identified by appToken
func NewBitableService(baseURL, appToken string, tokens TokenSource, client HTTPDoer) *BitableService {
	return &BitableService{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		AppToken: appToken,
		Tokens:   tokens,
		Client:   client,
	}
}

type bitableEnvelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type listRecordsData struct {
	Items     []models.Record `json:"items"`
	HasMore   bool            `json:"has_more"`
	PageToken string          `json:"page_token"`
	Total     int             `json:"total"`
}

type singleRecordData struct {
	Record models.Record `json:"record"`
}

func (bs *BitableService) recordsURL(tableID string) string {
	return fmt.Sprintf("%s/bitable/v1/apps/%s/tables/%s/records", bs.BaseURL, url.PathEscape(bs.AppToken), url.PathEscape(tableID))
}

// ListRecords reads every row of the table, following page tokens until exhausted.
// A page token seen twice is reported as an upstream failure.
func (bs *BitableService) ListRecords(ctx context.Context, tableID string) ([]models.Record, error) {
	var records []models.Record
	pageToken := ""
	seen := map[string]bool{}
	for {
		query := url.Values{}
		query.Set("page_size", fmt.Sprint(listPageSize))
		if pageToken != "" {
			query.Set("page_token", pageToken)
		}

		var page listRecordsData
		if err := bs.call(ctx, http.MethodGet, bs.recordsURL(tableID)+"?"+query.Encode(), nil, &page); err != nil {
			return nil, fmt.Errorf("failed to list records of table '%s': %w", tableID, err)
		}
		records = append(records, page.Items...)

		if !page.HasMore || page.PageToken == "" {
			break
		}
		if seen[page.PageToken] {
			return nil, asUpstream(errors.Errorf("table '%s' repeated page token %q", tableID, page.PageToken))
		}
		seen[page.PageToken] = true
		pageToken = page.PageToken
	}

	slog.Debug("listed bitable records", "table", tableID, "count", len(records))
	return records, nil
}

// GetRecord fetches a single row by id
func (bs *BitableService) GetRecord(ctx context.Context, tableID, recordID string) (*models.Record, error) {
	var out singleRecordData
	if err := bs.call(ctx, http.MethodGet, bs.recordsURL(tableID)+"/"+url.PathEscape(recordID), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get record '%s' from table '%s': %w", recordID, tableID, err)
	}
	return &out.Record, nil
}

// CreateRecord inserts a row and returns it with its store-assigned id
func (bs *BitableService) CreateRecord(ctx context.Context, tableID string, fields map[string]interface{}) (*models.Record, error) {
	var out singleRecordData
	payload := map[string]interface{}{"fields": fields}
	if err := bs.call(ctx, http.MethodPost, bs.recordsURL(tableID), payload, &out); err != nil {
		return nil, fmt.Errorf("failed to create record in table '%s': %w", tableID, err)
	}
	if out.Record.RecordID == "" {
		return nil, asUpstream(errors.Errorf("create in table '%s' returned no record id", tableID))
	}
	return &out.Record, nil
}

// UpdateRecord overwrites the given fields of a row; other fields are left alone.
// There is no version check, so the last writer wins.
func (bs *BitableService) UpdateRecord(ctx context.Context, tableID, recordID string, fields map[string]interface{}) (*models.Record, error) {
	var out singleRecordData
	payload := map[string]interface{}{"fields": fields}
	if err := bs.call(ctx, http.MethodPut, bs.recordsURL(tableID)+"/"+url.PathEscape(recordID), payload, &out); err != nil {
		return nil, fmt.Errorf("failed to update record '%s' in table '%s': %w", recordID, tableID, err)
	}
	return &out.Record, nil
}

// call performs one authenticated request and decodes the data member of the envelope
func (bs *BitableService) call(ctx context.Context, method, target string, payload interface{}, out interface{}) error {
	token, err := bs.Tokens.GetToken(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "encode bitable request")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return asUpstream(errors.Wrap(err, "build bitable request"))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := bs.Client.Do(req)
	if err != nil {
		return asUpstream(errors.Wrapf(err, "%s %s", method, req.URL.Path))
	}
	defer resp.Body.Close()

	var env bitableEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return asUpstream(errors.Wrapf(err, "decode bitable response (status %d)", resp.StatusCode))
	}
	if env.Code != 0 {
		return asUpstream(errors.Errorf("bitable error code %d: %s", env.Code, env.Msg))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return asUpstream(errors.Errorf("bitable status %d", resp.StatusCode))
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return asUpstream(errors.Wrap(err, "decode bitable data"))
	}
	return nil
}
