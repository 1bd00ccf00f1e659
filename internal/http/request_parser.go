// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing request data. The JSON API
// accepts form-encoded, multipart and JSON bodies alike, and a DELETE may
// carry its index either in the body or in the query string.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// maxBodyBytes caps how much of a request body the parser reads.
const maxBodyBytes = 1 << 20

var errMissingIndex = errors.New("missing index")

// ExpenseInput holds the raw create fields. Values are sanitized but not
// validated; amount coercion and date normalisation happen in core.
type ExpenseInput struct {
	Description string
	Amount      string
	Date        string
	Category    string
}

// RequestBodyParser handles different content types for request body parsing.
// It supports JSON, form-encoded and multipart/form-data bodies.
type RequestBodyParser struct {
	body        []byte
	contentType string
	query       url.Values
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
		query:       r.URL.Query(),
	}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	}
	return p
}

// Parse attempts to parse the body as multipart, JSON or form data.
// Multipart is chosen by Content-Type; otherwise a body starting with '{'
// is JSON and anything else is form-encoded.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if mediaType, params, err := mime.ParseMediaType(p.contentType); err == nil && mediaType == "multipart/form-data" {
		p.formData, p.err = parseMultipart(p.body, params["boundary"])
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal([]byte(trimmed), &p.jsonData); err != nil {
			p.jsonData = nil
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	return p.err
}

// parseMultipart keeps the text fields of a multipart body. File parts are
// not used by any endpoint and are discarded.
func parseMultipart(body []byte, boundary string) (url.Values, error) {
	if boundary == "" {
		return nil, errors.New("multipart body without boundary")
	}
	form, err := multipart.NewReader(bytes.NewReader(body), boundary).ReadForm(maxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("read multipart form: %w", err)
	}
	defer form.RemoveAll()
	return url.Values(form.Value), nil
}

// Get returns a sanitized value from the body (JSON or form), falling back
// to the query string when the body does not carry the key.
func (p *RequestBodyParser) Get(key string) string {
	if v, ok := p.lookup(key); ok {
		return strings.TrimSpace(sanitizeInput(v))
	}
	return ""
}

func (p *RequestBodyParser) lookup(key string) (string, bool) {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return stringValue(val), true
		}
	}
	if p.formData != nil {
		if _, ok := p.formData[key]; ok {
			return p.formData.Get(key), true
		}
	}
	if _, ok := p.query[key]; ok {
		return p.query.Get(key), true
	}
	return "", false
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// ExpenseInput collects the four create fields.
func (p *RequestBodyParser) ExpenseInput() ExpenseInput {
	return ExpenseInput{
		Description: p.Get("description"),
		Amount:      p.Get("amount"),
		Date:        p.Get("date"),
		Category:    p.Get("category"),
	}
}

// Index returns the delete index. Anything that is not a plain base-10
// integer is an error; range checking is left to the service.
func (p *RequestBodyParser) Index() (int, error) {
	raw, ok := p.lookup("index")
	if !ok {
		return 0, errMissingIndex
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

// stringValue converts an interface{} to string.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseLimit reads a positive integer limit from the query. Missing or
// malformed values yield 0, which the service maps to its default.
func ParseLimit(query url.Values) int {
	v := strings.TrimSpace(query.Get("limit"))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
