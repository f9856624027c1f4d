package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/rentflow/rentflow/pkg/crypto"
	"github.com/rentflow/rentflow/pkg/proto"
)

var ErrNoSecretKey = errors.New("no secret key provided")

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	BaseUrl string
	Client  Doer
	// SecretKey signs state changing requests, read only requests work without it.
	SecretKey *crypto.SecretKey
	// Now returns the timestamp put into signed requests.
	Now func() time.Time
}

var defaultOptions = Options{
	BaseUrl: "http://127.0.0.1:6870",
	Client:  &http.Client{Timeout: 3 * time.Second},
	Now:     time.Now,
}

type Client struct {
	options Options
	Leases  *Leases
}

type Response struct {
	*http.Response
}

// NewClient creates new client instance.
// If no options provided will use default.
func NewClient(options ...Options) (*Client, error) {
	if len(options) > 1 {
		return nil, errors.New("too many options provided. Expects no or just one item")
	}

	opts := defaultOptions

	if len(options) == 1 {
		option := options[0]
		if option.BaseUrl != "" {
			opts.BaseUrl = option.BaseUrl
		}
		if option.Client != nil {
			opts.Client = option.Client
		}
		if option.SecretKey != nil {
			opts.SecretKey = option.SecretKey
		}
		if option.Now != nil {
			opts.Now = option.Now
		}
	}

	c := &Client{
		options: opts,
		Leases:  NewLeases(opts),
	}

	return c, nil
}

func (a *Client) GetOptions() Options {
	return a.options
}

// PublicKey returns the key the client signs requests for.
func (a *Client) PublicKey() (crypto.PublicKey, error) {
	if a.options.SecretKey == nil {
		return crypto.PublicKey{}, ErrNoSecretKey
	}
	return crypto.GeneratePublicKey(*a.options.SecretKey), nil
}

func withContext(ctx context.Context, req *http.Request) *http.Request {
	return req.WithContext(ctx)
}

func newResponse(response *http.Response) *Response {
	return &Response{
		Response: response,
	}
}

func (a *Client) Do(ctx context.Context, req *http.Request, v any) (*Response, error) {
	return doHTTP(ctx, a.options, req, v)
}

func newRequest(options Options, method, path string, body any) (*http.Request, error) {
	u, err := joinUrl(options.BaseUrl, path)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return http.NewRequest(method, u.String(), nil)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}
	return http.NewRequest(method, u.String(), bytes.NewReader(data))
}

// newSignedRequest creates a request carrying the signature of the configured key over its
// method, path, timestamp and body.
func newSignedRequest(options Options, method, path string, body any) (*http.Request, error) {
	if options.SecretKey == nil {
		return nil, ErrNoSecretKey
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}
	u, err := joinUrl(options.BaseUrl, path)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(method, u.String(), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	ts := options.Now().UnixMilli()
	sig, err := proto.SignRequest(*options.SecretKey, method, req.URL.Path, ts, data)
	if err != nil {
		return nil, err
	}
	req.Header.Set(proto.SignerHeader, crypto.GeneratePublicKey(*options.SecretKey).String())
	req.Header.Set(proto.TimestampHeader, strconv.FormatInt(ts, 10))
	req.Header.Set(proto.SignatureHeader, sig.String())
	return req, nil
}

func doHTTP(ctx context.Context, options Options, req *http.Request, v any) (*Response, error) {
	req = withContext(ctx, req)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := options.Client.Do(req)
	if err != nil {
		return nil, newRequestError(err, "")
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close() // No error handling intentionally
	}(resp.Body)

	response := newResponse(resp)

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(response.Body)
		return response, newRequestError(newApiError(response.StatusCode, body), string(body))
	}

	select {
	case <-ctx.Done():
		return response, ctx.Err()
	default:
	}

	if v != nil {
		if w, ok := v.(io.Writer); ok {
			if _, err := io.Copy(w, resp.Body); err != nil {
				return nil, err
			}
		} else {
			if err = json.NewDecoder(resp.Body).Decode(v); err != nil {
				return response, newParseError(err)
			}
		}
	}

	return response, err
}

func joinUrl(baseRaw string, pathRaw string) (*url.URL, error) {
	base, err := url.Parse(baseRaw)
	if err != nil {
		return nil, err
	}

	rel, err := url.Parse(pathRaw)
	if err != nil {
		return nil, err
	}
	if rel.IsAbs() {
		return nil, errors.New("path must be relative URL")
	}
	if base.Path == "" {
		base.Path = "/"
	}
	res := base.JoinPath(rel.EscapedPath())

	q := res.Query()
	for k, vals := range rel.Query() {
		for _, v := range vals {
			q.Add(k, v)
		}
	}
	res.RawQuery = q.Encode()

	return res, nil
}
