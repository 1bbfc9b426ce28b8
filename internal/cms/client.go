package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Client talks to the customer management REST API. Construct one per
// backend and pass it to whatever needs it; there is no package-level
// singleton.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do performs a JSON request and unwraps the {success, data} envelope into
// out. Binary endpoints must use download instead; their payload is not
// enveloped and the response headers carry filename metadata.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().Str("method", method).Str("path", path).Msg("cms API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cms API request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return apiError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// download fetches a binary payload. It returns the raw bytes plus the
// filename from the Content-Disposition header, or "" when the header is
// absent or unparseable.
func (c *Client) download(ctx context.Context, path string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("cms API request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, "", apiError(resp.StatusCode, data)
	}

	return data, filenameFromHeader(resp.Header.Get("Content-Disposition")), nil
}

// upload posts r as a multipart file field and decodes the response body
// directly into out (the import endpoint does not wrap its result).
func (c *Client) upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cms API request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return apiError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError builds an *APIError from an error response body, preferring the
// backend's structured message when one is present.
func apiError(status int, body []byte) error {
	var env envelope
	if json.Unmarshal(body, &env) == nil && env.Message != "" {
		return &APIError{Status: status, Message: env.Message}
	}
	return &APIError{Status: status}
}

func filenameFromHeader(cd string) string {
	if cd == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	return params["filename"]
}

func checkPaging(page, size int) error {
	if page < 0 {
		return fmt.Errorf("page must be >= 0, got %d", page)
	}
	if size <= 0 {
		return fmt.Errorf("size must be > 0, got %d", size)
	}
	return nil
}

// ListCustomers returns one page of customers.
func (c *Client) ListCustomers(ctx context.Context, page, size int, sortBy, sortDir string) (*Page[Customer], error) {
	if err := checkPaging(page, size); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if sortBy != "" {
		q.Set("sortBy", sortBy)
	}
	if sortDir != "" {
		q.Set("sortDir", sortDir)
	}

	var p Page[Customer]
	if err := c.do(ctx, http.MethodGet, "/customers", q, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchCustomers returns one page of customers matching keyword. A blank
// keyword falls back to the unfiltered listing.
func (c *Client) SearchCustomers(ctx context.Context, keyword string, page, size int) (*Page[Customer], error) {
	if strings.TrimSpace(keyword) == "" {
		return c.ListCustomers(ctx, page, size, "", "")
	}
	if err := checkPaging(page, size); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("keyword", keyword)
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var p Page[Customer]
	if err := c.do(ctx, http.MethodGet, "/customers/search", q, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetCustomer returns a single customer with addresses and phone numbers.
func (c *Client) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	var cust Customer
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/customers/%d", id), nil, nil, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

// CreateCustomer creates a customer and returns the stored record.
func (c *Client) CreateCustomer(ctx context.Context, cust *Customer) (*Customer, error) {
	var created Customer
	if err := c.do(ctx, http.MethodPost, "/customers", nil, cust, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCustomer replaces a customer, including both nested collections.
func (c *Client) UpdateCustomer(ctx context.Context, id int64, cust *Customer) (*Customer, error) {
	var updated Customer
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/customers/%d", id), nil, cust, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCustomer deletes a customer.
func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/customers/%d", id), nil, nil, nil)
}

// ImportCustomers uploads a spreadsheet as multipart field "file".
func (c *Client) ImportCustomers(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	var result ImportResult
	if err := c.upload(ctx, "/customers/import", "file", filename, r, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExportCustomers downloads the customer spreadsheet. The returned filename
// is "" when the backend did not send a Content-Disposition header.
func (c *Client) ExportCustomers(ctx context.Context) ([]byte, string, error) {
	return c.download(ctx, "/customers/export")
}

// AddFamilyMember links another customer as a family member.
func (c *Client) AddFamilyMember(ctx context.Context, customerID, familyMemberID int64) error {
	return c.do(ctx, http.MethodPost,
		fmt.Sprintf("/customers/%d/family-members/%d", customerID, familyMemberID), nil, nil, nil)
}

// RemoveFamilyMember removes a family member link.
func (c *Client) RemoveFamilyMember(ctx context.Context, customerID, familyMemberID int64) error {
	return c.do(ctx, http.MethodDelete,
		fmt.Sprintf("/customers/%d/family-members/%d", customerID, familyMemberID), nil, nil, nil)
}

// Countries returns all countries.
func (c *Client) Countries(ctx context.Context) ([]Country, error) {
	var countries []Country
	if err := c.do(ctx, http.MethodGet, "/countries", nil, nil, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

// Cities returns all cities.
func (c *Client) Cities(ctx context.Context) ([]City, error) {
	var cities []City
	if err := c.do(ctx, http.MethodGet, "/cities", nil, nil, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

// CitiesByCountry returns the cities of one country.
func (c *Client) CitiesByCountry(ctx context.Context, countryID int64) ([]City, error) {
	var cities []City
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/cities/country/%d", countryID), nil, nil, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}
