package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"
)

var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Builder assembles an outgoing request from a method and a URL template with
// {name} placeholders. Errors are collected and reported by Build.
type Builder struct {
	method      string
	template    string
	baseURL     string
	pathParams  map[string]string
	query       url.Values
	headers     http.Header
	body        []byte
	hasBody     bool
	contentType string
	errs        []error
}

func NewBuilder(method, template string) *Builder {
	return &Builder{
		method:     method,
		template:   template,
		pathParams: make(map[string]string),
		query:      url.Values{},
		headers:    http.Header{},
	}
}

func (b *Builder) SetBaseURL(baseURL string) *Builder {
	b.baseURL = baseURL
	return b
}

// SetPathParameter fills the {name} placeholder. Path parameters are
// mandatory, an empty value is a build error.
func (b *Builder) SetPathParameter(name, value string) *Builder {
	if value == "" {
		b.errs = append(b.errs, fmt.Errorf("path parameter %q is required", name))
		return b
	}

	b.pathParams[name] = value
	return b
}

// SetOptionalQueryParameter appends name=value unless value is nil or a nil
// pointer.
func (b *Builder) SetOptionalQueryParameter(name string, value any) *Builder {
	s, ok := formatValue(value)
	if !ok {
		return b
	}

	b.query.Add(name, s)
	return b
}

// SetQueryParameters encodes an options struct using its `url` tags. A nil
// options pointer adds nothing.
func (b *Builder) SetQueryParameters(opts any) *Builder {
	if opts == nil {
		return b
	}

	values, err := query.Values(opts)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("failed to encode query parameters: %w", err))
		return b
	}

	for k, vs := range values {
		for _, v := range vs {
			b.query.Add(k, v)
		}
	}

	return b
}

func (b *Builder) SetHeader(key, value string) *Builder {
	b.headers.Set(key, value)
	return b
}

// SetContentAsJSON encodes body with its json tags; omitempty fields that are
// nil are left out of the document.
func (b *Builder) SetContentAsJSON(body any) *Builder {
	data, err := json.Marshal(body)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("failed to encode json body: %w", err))
		return b
	}

	b.body = data
	b.hasBody = true
	b.contentType = "application/json"
	return b
}

// SetContentAsMultipartFormData writes one part per non-nil `form` tagged
// field. FormFile values become file parts, everything else a text part.
func (b *Builder) SetContentAsMultipartFormData(body any) *Builder {
	data, contentType, err := encodeMultipart(body)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("failed to encode multipart body: %w", err))
		return b
	}

	b.body = data
	b.hasBody = true
	b.contentType = contentType
	return b
}

// URL resolves the template against the base URL.
func (b *Builder) URL() (*url.URL, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	var missing []string
	path := placeholderRe.ReplaceAllStringFunc(b.template, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := b.pathParams[name]
		if !ok {
			missing = append(missing, name)
			return m
		}

		return url.PathEscape(v)
	})

	if len(missing) > 0 {
		return nil, fmt.Errorf("unresolved path parameters: %s", strings.Join(missing, ", "))
	}

	base, err := url.Parse(ensureTrailingSlash(b.baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	rel, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}

	u := base.ResolveReference(rel)
	if len(b.query) > 0 {
		u.RawQuery = b.query.Encode()
	}

	return u, nil
}

// Build returns the finalized request bound to ctx. The body is replayable.
func (b *Builder) Build(ctx context.Context) (*http.Request, error) {
	u, err := b.URL()
	if err != nil {
		return nil, err
	}

	var req *http.Request
	if b.hasBody {
		req, err = http.NewRequestWithContext(ctx, b.method, u.String(), bytes.NewReader(b.body))
	} else {
		req, err = http.NewRequestWithContext(ctx, b.method, u.String(), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, vs := range b.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if b.contentType != "" {
		req.Header.Set("Content-Type", b.contentType)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	return req, nil
}

func ensureTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}

	return s + "/"
}

func formatValue(value any) (string, bool) {
	if value == nil {
		return "", false
	}

	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), true
	case reflect.Slice:
		if v.IsNil() {
			return "", false
		}

		parts := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			if s, ok := formatValue(v.Index(i).Interface()); ok {
				parts = append(parts, s)
			}
		}

		return strings.Join(parts, ","), true
	}

	return fmt.Sprint(v.Interface()), true
}
