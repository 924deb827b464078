package testutil

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// Client is a browser-like test client: it keeps cookies but does not follow
// redirects, so tests can assert on each hop.
type Client struct {
	t    testing.TB
	base string
	http *http.Client
}

// NewClient returns a client bound to the test server base URL.
func NewClient(t testing.TB, baseURL string) *Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &Client{
		t:    t,
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Response is a fully read response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Doc parses the body as HTML.
func (r *Response) Doc(t testing.TB) *goquery.Document {
	t.Helper()
	return ParseHTML(t, r.Body)
}

// Get issues a GET request. Extra headers are given as key/value pairs.
func (c *Client) Get(path string, headers ...string) *Response {
	c.t.Helper()
	return c.do(http.MethodGet, path, nil, headers)
}

// PostForm submits form values as application/x-www-form-urlencoded.
func (c *Client) PostForm(path string, values url.Values, headers ...string) *Response {
	c.t.Helper()
	headers = append(headers, "Content-Type", "application/x-www-form-urlencoded")
	return c.do(http.MethodPost, path, strings.NewReader(values.Encode()), headers)
}

// CSRFToken loads page and returns the token from its hidden _csrf field.
func (c *Client) CSRFToken(page string) string {
	c.t.Helper()
	resp := c.Get(page)
	token := resp.Doc(c.t).Find(`input[name="_csrf"]`).First().AttrOr("value", "")
	if token == "" {
		c.t.Fatalf("no csrf token on %s (status %d)", page, resp.StatusCode)
	}
	return token
}

// Login submits credentials through the login form.
func (c *Client) Login(email, password string) *Response {
	c.t.Helper()
	token := c.CSRFToken("/login")
	return c.PostForm("/login", url.Values{
		"_csrf":    {token},
		"email":    {email},
		"password": {password},
	})
}

func (c *Client) do(method, path string, body io.Reader, headers []string) *Response {
	c.t.Helper()
	req, err := http.NewRequest(method, c.base+path, body)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("read body: %v", err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}
}
