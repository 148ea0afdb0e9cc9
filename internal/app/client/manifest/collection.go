package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
)

type SortOrder string

const (
	Asc  SortOrder = "ASC"
	Desc SortOrder = "DESC"
)

// FindOptions mirrors the SDK find() arguments.
type FindOptions struct {
	Include []string
	OrderBy string
	Order   SortOrder
	Page    int
	PerPage int
}

func (o FindOptions) query() url.Values {
	q := url.Values{}
	if len(o.Include) > 0 {
		q.Set("relations", strings.Join(o.Include, ","))
	}
	if o.OrderBy != "" {
		q.Set("orderBy", o.OrderBy)
		order := o.Order
		if order == "" {
			order = Asc
		}
		q.Set("order", string(order))
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		q.Set("perPage", strconv.Itoa(o.PerPage))
	}
	return q
}

// Paginator is one page of a find() result.
type Paginator struct {
	Data        json.RawMessage `json:"data"`
	CurrentPage int             `json:"currentPage"`
	LastPage    int             `json:"lastPage"`
	From        int             `json:"from"`
	To          int             `json:"to"`
	Total       int             `json:"total"`
	PerPage     int             `json:"perPage"`
}

// HasMore reports whether pages remain after this one.
func (p *Paginator) HasMore() bool {
	return p.CurrentPage > 0 && p.CurrentPage < p.LastPage
}

// Decode unmarshals the page items into dest (a pointer to a slice).
func (p *Paginator) Decode(dest interface{}) error {
	if len(p.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(p.Data, dest); err != nil {
		return fmt.Errorf("decode page data: %w", err)
	}
	return nil
}

// File is an attachment sent with Upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Collection struct {
	client *Client
	slug   string
}

func (c *Collection) path() string {
	return "/api/collections/" + url.PathEscape(c.slug)
}

// Find fetches one page of the collection.
func (c *Collection) Find(ctx context.Context, opts FindOptions) (*Paginator, error) {
	path := c.path()
	if q := opts.query().Encode(); q != "" {
		path += "?" + q
	}

	resp, err := c.client.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var page Paginator
	if err := c.client.parseResponse(resp, &page); err != nil {
		return nil, fmt.Errorf("find %s: %w", c.slug, err)
	}
	return &page, nil
}

// Create posts payload and decodes the created record into dest.
func (c *Collection) Create(ctx context.Context, payload, dest interface{}) error {
	resp, err := c.client.doRequest(ctx, http.MethodPost, c.path(), payload)
	if err != nil {
		return err
	}
	if err := c.client.parseResponse(resp, dest); err != nil {
		return fmt.Errorf("create %s: %w", c.slug, err)
	}
	return nil
}

// Delete removes the record with the given id.
func (c *Collection) Delete(ctx context.Context, id int) error {
	resp, err := c.client.doRequest(ctx, http.MethodDelete, c.path()+"/"+strconv.Itoa(id), nil)
	if err != nil {
		return err
	}
	if err := c.client.parseResponse(resp, nil); err != nil {
		return fmt.Errorf("delete %s/%d: %w", c.slug, id, err)
	}
	return nil
}

// Upload sends an image for property and returns the generated URLs by size.
func (c *Collection) Upload(ctx context.Context, property string, f File) (map[string]string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("entity", c.slug); err != nil {
		return nil, fmt.Errorf("write entity field: %w", err)
	}
	if err := mw.WriteField("property", property); err != nil {
		return nil, fmt.Errorf("write property field: %w", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, f.Name))
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, fmt.Errorf("write image part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.client.baseURL+"/api/upload/image", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.send(req)
	if err != nil {
		return nil, err
	}

	urls := make(map[string]string)
	if err := c.client.parseResponse(resp, &urls); err != nil {
		return nil, fmt.Errorf("upload %s.%s: %w", c.slug, property, err)
	}
	return urls, nil
}
