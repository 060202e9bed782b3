package torbox

import (
	"context"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/dylanmazurek/torbox-go/internal/request"
)

type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyJSON
	bodyMultipart
)

type pathParam struct {
	name  string
	value string
}

type queryParam struct {
	name  string
	value any
}

// endpoint describes one API call. Templates containing {api_version} are
// filled from the client; every path parameter is required.
type endpoint struct {
	method   string
	template string
	path     []pathParam
	query    []queryParam
	options  any
	body     any
	bodyKind bodyKind

	// required values that are sent elsewhere than the path
	required []pathParam
}

func (c *core) builder(ep endpoint) (*request.Builder, error) {
	version := c.getAPIVersion()

	v := &request.Validator{}
	if strings.Contains(ep.template, "{api_version}") {
		v.Required("api_version", version)
	}
	for _, p := range ep.path {
		v.Required(p.name, p.value)
	}
	for _, p := range ep.required {
		v.Required(p.name, p.value)
	}
	if ep.bodyKind != bodyNone {
		v.RequiredBody("body", !isNil(ep.body))
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	b := request.NewBuilder(ep.method, ep.template).SetBaseURL(c.getBaseURL())
	if strings.Contains(ep.template, "{api_version}") {
		b.SetPathParameter("api_version", version)
	}
	for _, p := range ep.path {
		b.SetPathParameter(p.name, p.value)
	}

	b.SetQueryParameters(ep.options)
	for _, q := range ep.query {
		b.SetOptionalQueryParameter(q.name, q.value)
	}

	switch ep.bodyKind {
	case bodyJSON:
		b.SetContentAsJSON(ep.body)
	case bodyMultipart:
		b.SetContentAsMultipartFormData(ep.body)
	}

	return b, nil
}

func (c *core) send(ctx context.Context, ep endpoint) (*http.Response, error) {
	b, err := c.builder(ep)
	if err != nil {
		return nil, err
	}

	req, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}

	c.logger.Trace().
		Str("method", req.Method).
		Str("path", ep.template).
		Msg("sending request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	return request.EnsureSuccess(resp)
}

// execute is for endpoints without a declared response body.
func execute(ctx context.Context, c *core, ep endpoint) error {
	resp, err := c.send(ctx, ep)
	if err != nil {
		return err
	}

	request.Discard(resp)
	return nil
}

func decode[T any](ctx context.Context, c *core, ep endpoint) (*T, error) {
	resp, err := c.send(ctx, ep)
	if err != nil {
		return nil, err
	}

	return request.DecodeJSON[T](resp)
}

func text(ctx context.Context, c *core, ep endpoint) (string, error) {
	resp, err := c.send(ctx, ep)
	if err != nil {
		return "", err
	}

	return request.ReadString(resp)
}

// permalink builds a GET URL that authenticates with the token query
// parameter, so it can be opened directly by a browser or player.
func (c *core) permalink(ep endpoint) (string, error) {
	b, err := c.builder(ep)
	if err != nil {
		return "", err
	}

	u, err := b.URL()
	if err != nil {
		return "", err
	}

	return u.String(), nil
}

func formatID(v int64) string {
	if v <= 0 {
		return ""
	}

	return strconv.FormatInt(v, 10)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}

	return false
}
