package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/sjson"
	"go.uber.org/zap/zaptest"

	apiErrs "github.com/rentflow/rentflow/pkg/api/errors"
	apiTypes "github.com/rentflow/rentflow/pkg/api/types"
	"github.com/rentflow/rentflow/pkg/crypto"
	"github.com/rentflow/rentflow/pkg/errs"
	"github.com/rentflow/rentflow/pkg/keyvalue"
	"github.com/rentflow/rentflow/pkg/lease"
	"github.com/rentflow/rentflow/pkg/ledger"
	"github.com/rentflow/rentflow/pkg/mock"
	"github.com/rentflow/rentflow/pkg/proto"
)

var (
	testNow       = time.UnixMilli(1_700_000_000_000)
	testProgramID = proto.ProgramID(crypto.MustFastHash([]byte("rentflow-api-test")))
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() (time.Time, error) {
	return c.now, nil
}

type party struct {
	sk crypto.SecretKey
	pk crypto.PublicKey
}

func newParty(seed string) party {
	sk, pk := crypto.GenerateKeyPair([]byte(seed))
	return party{sk: sk, pk: pk}
}

type testServer struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestOptions() *RunOptions {
	opts := DefaultRunOptions()
	opts.RateLimiterOpts = nil
	opts.MaxBodySize = 1024
	return opts
}

func newTestServerWith(t *testing.T, service LeaseService, opts *RunOptions) *testServer {
	a := NewLeaseApi(service, fixedClock{now: testNow}, zaptest.NewLogger(t))
	routes, err := a.routes(opts)
	require.NoError(t, err)
	srv := httptest.NewServer(routes)
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv}
}

func newTestServer(t *testing.T) *testServer {
	kv, err := keyvalue.NewMemKeyVal(keyvalue.BloomFilterParams{N: 1000, FalsePositiveProbability: 0.01})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, kv.Close())
	})
	store := ledger.NewStore(testProgramID, kv, 0, zaptest.NewLogger(t))
	return newTestServerWith(t, lease.NewProgram(store, zaptest.NewLogger(t)), newTestOptions())
}

func (s *testServer) do(method, path string, body []byte, header http.Header) (int, []byte) {
	req, err := http.NewRequest(method, s.srv.URL+path, bytes.NewReader(body))
	require.NoError(s.t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := s.srv.Client().Do(req)
	require.NoError(s.t, err)
	defer func() {
		require.NoError(s.t, resp.Body.Close())
	}()
	data, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp.StatusCode, data
}

func signedHeader(t *testing.T, p party, method, path string, ts time.Time, body []byte) http.Header {
	sig, err := proto.SignRequest(p.sk, method, path, ts.UnixMilli(), body)
	require.NoError(t, err)
	h := http.Header{}
	h.Set(proto.SignerHeader, p.pk.String())
	h.Set(proto.TimestampHeader, strconv.FormatInt(ts.UnixMilli(), 10))
	h.Set(proto.SignatureHeader, sig.String())
	return h
}

func (s *testServer) signed(p party, method, path string, body []byte) (int, []byte) {
	unescaped, err := url.PathUnescape(path)
	require.NoError(s.t, err)
	return s.do(method, path, body, signedHeader(s.t, p, method, unescaped, testNow, body))
}

func initializeBody(t *testing.T, id string, tenant crypto.PublicKey, start, end int64) []byte {
	var err error
	body := []byte(`{}`)
	body, err = sjson.SetBytes(body, "lease_id", id)
	require.NoError(t, err)
	body, err = sjson.SetBytes(body, "content_hash", crypto.MustFastHash([]byte(id)).String())
	require.NoError(t, err)
	body, err = sjson.SetBytes(body, "tenant", tenant.String())
	require.NoError(t, err)
	body, err = sjson.SetBytes(body, "monthly_rent", 1000)
	require.NoError(t, err)
	body, err = sjson.SetBytes(body, "security_deposit", 500)
	require.NoError(t, err)
	body, err = sjson.SetBytes(body, "start_date", start)
	require.NoError(t, err)
	body, err = sjson.SetBytes(body, "end_date", end)
	require.NoError(t, err)
	return body
}

func signBody(t *testing.T, d crypto.Digest) []byte {
	body, err := sjson.SetBytes([]byte(`{}`), "signature_hash", d.String())
	require.NoError(t, err)
	return body
}

func statusBody(t *testing.T, s string) []byte {
	body, err := sjson.SetBytes([]byte(`{}`), "status", s)
	require.NoError(t, err)
	return body
}

func apiErrorID(t *testing.T, data []byte) apiErrs.ErrorID {
	var e struct {
		ID apiErrs.ErrorID `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &e), string(data))
	return e.ID
}

func TestLeaseLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	manager, tenant := newParty("manager"), newParty("tenant")
	now := testNow.Unix()

	code, data := s.signed(manager, http.MethodPost, "/leases", initializeBody(t, "L1", tenant.pk, now-1000, now+1000))
	require.Equal(t, http.StatusCreated, code, string(data))
	var created apiTypes.AddressResponse
	require.NoError(t, json.Unmarshal(data, &created))
	code, data = s.do(http.MethodGet, "/addresses/L1", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var derived apiTypes.AddressResponse
	require.NoError(t, json.Unmarshal(data, &derived))
	assert.Equal(t, created, derived)

	code, data = s.do(http.MethodGet, "/leases/L1/verify", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"lease_id":"L1","valid":false}`, string(data))

	code, data = s.signed(manager, http.MethodPost, "/leases/L1/sign", signBody(t, crypto.MustFastHash([]byte("m"))))
	require.Equal(t, http.StatusOK, code, string(data))
	code, data = s.signed(tenant, http.MethodPost, "/leases/L1/sign", signBody(t, crypto.MustFastHash([]byte("t"))))
	require.Equal(t, http.StatusOK, code, string(data))
	var l proto.Lease
	require.NoError(t, json.Unmarshal(data, &l))
	assert.Equal(t, proto.LeaseStatusActive, l.Status)
	assert.Equal(t, now, l.ActivatedAt)
	assert.Equal(t, manager.pk, l.Manager)

	code, data = s.do(http.MethodGet, "/leases/L1/verify", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"lease_id":"L1","valid":true}`, string(data))

	code, data = s.signed(tenant, http.MethodPost, "/leases/L1/status", statusBody(t, "Completed"))
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, apiErrs.ErrorID(errs.LeaseNotEnded), apiErrorID(t, data))

	code, data = s.signed(tenant, http.MethodPost, "/leases/L1/status", statusBody(t, "Terminated"))
	require.Equal(t, http.StatusOK, code, string(data))

	code, data = s.do(http.MethodGet, "/leases/L1/events", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var events apiTypes.EventsResponse
	require.NoError(t, json.Unmarshal(data, &events))
	types := make([]proto.EventType, len(events.Events))
	for i, e := range events.Events {
		types[i] = e.Type
	}
	assert.Equal(t, []proto.EventType{
		proto.EventLeaseCreated,
		proto.EventLeaseSigned,
		proto.EventLeaseSigned,
		proto.EventLeaseActivated,
		proto.EventLeaseStatusChanged,
	}, types)

	code, data = s.do(http.MethodGet, "/leases", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var leases apiTypes.LeasesResponse
	require.NoError(t, json.Unmarshal(data, &leases))
	require.Len(t, leases.Leases, 1)
	assert.Equal(t, proto.LeaseStatusTerminated, leases.Leases[0].Status)
}

func TestLeaseErrorsOverHTTP(t *testing.T) {
	s := newTestServer(t)
	manager, tenant, stranger := newParty("manager"), newParty("tenant"), newParty("stranger")
	now := testNow.Unix()

	code, _ := s.signed(manager, http.MethodPost, "/leases", initializeBody(t, "L", tenant.pk, now, now+10))
	require.Equal(t, http.StatusCreated, code)

	for _, test := range []struct {
		name   string
		status int
		id     apiErrs.ErrorID
		call   func() (int, []byte)
	}{
		{"duplicate", http.StatusConflict, apiErrs.LeaseAlreadyExistsErrorID, func() (int, []byte) {
			return s.signed(stranger, http.MethodPost, "/leases", initializeBody(t, "L", tenant.pk, now, now+10))
		}},
		{"zero rent", http.StatusBadRequest, apiErrs.ErrorID(errs.InvalidRentAmount), func() (int, []byte) {
			body, err := sjson.SetBytes(initializeBody(t, "Z", tenant.pk, now, now+10), "monthly_rent", 0)
			require.NoError(t, err)
			return s.signed(manager, http.MethodPost, "/leases", body)
		}},
		{"bad dates", http.StatusBadRequest, apiErrs.ErrorID(errs.InvalidDateRange), func() (int, []byte) {
			return s.signed(manager, http.MethodPost, "/leases", initializeBody(t, "D", tenant.pk, now, now))
		}},
		{"stranger signs", http.StatusForbidden, apiErrs.ErrorID(errs.UnauthorizedSigner), func() (int, []byte) {
			return s.signed(stranger, http.MethodPost, "/leases/L/sign", signBody(t, crypto.MustFastHash([]byte("s"))))
		}},
		{"zero hash", http.StatusBadRequest, apiErrs.InvalidDigestErrorID, func() (int, []byte) {
			return s.signed(manager, http.MethodPost, "/leases/L/sign", signBody(t, crypto.Digest{}))
		}},
		{"pending to terminated", http.StatusConflict, apiErrs.ErrorID(errs.InvalidStatusTransition), func() (int, []byte) {
			return s.signed(manager, http.MethodPost, "/leases/L/status", statusBody(t, "Terminated"))
		}},
		{"unknown status", http.StatusBadRequest, apiErrs.InvalidJSONErrorID, func() (int, []byte) {
			return s.signed(manager, http.MethodPost, "/leases/L/status", statusBody(t, "Paused"))
		}},
		{"unknown field", http.StatusBadRequest, apiErrs.InvalidJSONErrorID, func() (int, []byte) {
			return s.signed(manager, http.MethodPost, "/leases/L/status", []byte(`{"state":"Active"}`))
		}},
		{"missing lease", http.StatusNotFound, apiErrs.LeaseNotFoundErrorID, func() (int, []byte) {
			return s.do(http.MethodGet, "/leases/nope", nil, nil)
		}},
		{"missing lease verify", http.StatusNotFound, apiErrs.LeaseNotFoundErrorID, func() (int, []byte) {
			return s.do(http.MethodGet, "/leases/nope/verify", nil, nil)
		}},
		{"missing lease events", http.StatusNotFound, apiErrs.LeaseNotFoundErrorID, func() (int, []byte) {
			return s.do(http.MethodGet, "/leases/nope/events", nil, nil)
		}},
		{"body too large", http.StatusRequestEntityTooLarge, apiErrs.BodyTooLargeErrorID, func() (int, []byte) {
			return s.signed(manager, http.MethodPost, "/leases/L/sign", bytes.Repeat([]byte(" "), 2048))
		}},
	} {
		t.Run(test.name, func(t *testing.T) {
			code, data := test.call()
			assert.Equal(t, test.status, code, string(data))
			assert.Equal(t, test.id, apiErrorID(t, data))
		})
	}

	code, data := s.do(http.MethodGet, "/leases/L", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var l proto.Lease
	require.NoError(t, json.Unmarshal(data, &l))
	assert.Equal(t, proto.LeaseStatusPending, l.Status)
	assert.False(t, l.ManagerSigned)
	assert.False(t, l.TenantSigned)
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t)
	manager, tenant := newParty("manager"), newParty("tenant")
	body := initializeBody(t, "A", tenant.pk, 1, 2)

	valid := func() http.Header {
		return signedHeader(t, manager, http.MethodPost, "/leases", testNow, body)
	}
	for _, test := range []struct {
		name   string
		header func() http.Header
		status int
		id     apiErrs.ErrorID
	}{
		{"no headers", func() http.Header { return http.Header{} }, http.StatusForbidden, apiErrs.MissingAuthErrorID},
		{"no signature", func() http.Header {
			h := valid()
			h.Del(proto.SignatureHeader)
			return h
		}, http.StatusForbidden, apiErrs.MissingAuthErrorID},
		{"bad signer", func() http.Header {
			h := valid()
			h.Set(proto.SignerHeader, "0OIl")
			return h
		}, http.StatusBadRequest, apiErrs.MalformedAuthErrorID},
		{"bad timestamp", func() http.Header {
			h := valid()
			h.Set(proto.TimestampHeader, "yesterday")
			return h
		}, http.StatusBadRequest, apiErrs.MalformedAuthErrorID},
		{"foreign signature", func() http.Header {
			h := valid()
			h.Set(proto.SignerHeader, tenant.pk.String())
			return h
		}, http.StatusForbidden, apiErrs.InvalidRequestSignatureErrorID},
		{"stale", func() http.Header {
			return signedHeader(t, manager, http.MethodPost, "/leases", testNow.Add(-time.Hour), body)
		}, http.StatusForbidden, apiErrs.RequestExpiredErrorID},
		{"future", func() http.Header {
			return signedHeader(t, manager, http.MethodPost, "/leases", testNow.Add(time.Hour), body)
		}, http.StatusForbidden, apiErrs.RequestExpiredErrorID},
		{"other path", func() http.Header {
			return signedHeader(t, manager, http.MethodPost, "/leases/A/sign", testNow, body)
		}, http.StatusForbidden, apiErrs.InvalidRequestSignatureErrorID},
	} {
		t.Run(test.name, func(t *testing.T) {
			code, data := s.do(http.MethodPost, "/leases", body, test.header())
			assert.Equal(t, test.status, code, string(data))
			assert.Equal(t, test.id, apiErrorID(t, data))
		})
	}

	code, data := s.do(http.MethodPost, "/leases", body, valid())
	assert.Equal(t, http.StatusCreated, code, string(data))
}

func TestEscapedLeaseID(t *testing.T) {
	s := newTestServer(t)
	manager, tenant := newParty("manager"), newParty("tenant")
	id := "flat 4/b 100%"
	code, data := s.signed(manager, http.MethodPost, "/leases", initializeBody(t, id, tenant.pk, 1, 2))
	require.Equal(t, http.StatusCreated, code, string(data))

	path := "/leases/" + url.PathEscape(id) + "/sign"
	code, data = s.signed(manager, http.MethodPost, path, signBody(t, crypto.MustFastHash([]byte("m"))))
	require.Equal(t, http.StatusOK, code, string(data))
	var l proto.Lease
	require.NoError(t, json.Unmarshal(data, &l))
	assert.Equal(t, id, l.LeaseID)
	assert.True(t, l.ManagerSigned)
}

func TestUnexpectedServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mock.NewMockLeaseService(ctrl)
	service.EXPECT().Leases().Return(nil, errors.New("storage is broken"))
	service.EXPECT().Verify("L").Return(false, errors.New("storage is broken"))

	s := newTestServerWith(t, service, newTestOptions())
	code, data := s.do(http.MethodGet, "/leases", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, apiErrs.UnknownErrorID, apiErrorID(t, data))
	code, data = s.do(http.MethodGet, "/leases/L/verify", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, apiErrs.UnknownErrorID, apiErrorID(t, data))
}

func TestInvocationCarriesTrustedTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	manager := newParty("manager")
	digest := crypto.MustFastHash([]byte("doc"))
	service := mock.NewMockLeaseService(ctrl)
	service.EXPECT().Sign(gomock.Any(), "L", digest).DoAndReturn(
		func(inv lease.Invocation, _ string, _ crypto.Digest) error {
			assert.Equal(t, manager.pk, inv.Signer())
			assert.Equal(t, testNow.Unix(), inv.Now())
			return nil
		})
	service.EXPECT().Lease("L").Return(&proto.Lease{LeaseID: "L"}, nil)

	s := newTestServerWith(t, service, newTestOptions())
	code, data := s.signed(manager, http.MethodPost, "/leases/L/sign", signBody(t, digest))
	assert.Equal(t, http.StatusOK, code, string(data))
}

func TestRateLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	opts := newTestOptions()
	opts.RateLimiterOpts = &RateLimiterOptions{
		MemoryCacheSize:      DefaultRateLimiterStorageSize,
		MaxRequestsPerSecond: 1,
		MaxBurst:             1,
	}
	s := newTestServerWith(t, mock.NewMockLeaseService(ctrl), opts)
	as := func(p party) http.Header {
		return http.Header{signerHeader: []string{p.pk.String()}}
	}
	manager, tenant := newParty("manager"), newParty("tenant")
	limited := false
	for range 5 {
		if code, _ := s.do(http.MethodGet, "/healthz", nil, as(manager)); code == http.StatusTooManyRequests {
			limited = true
		}
	}
	assert.True(t, limited)
	code, _ := s.do(http.MethodGet, "/healthz", nil, as(tenant))
	assert.Equal(t, http.StatusOK, code)
}

func TestRateLimiterOptions(t *testing.T) {
	_, err := newRateLimiter(&RateLimiterOptions{MemoryCacheSize: 16, MaxRequestsPerSecond: 0})
	assert.Error(t, err)
	_, err = newRateLimiter(&RateLimiterOptions{MemoryCacheSize: 16, MaxRequestsPerSecond: 1, MaxBurst: 1})
	assert.NoError(t, err)
}

func TestHealthz(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := newTestServerWith(t, mock.NewMockLeaseService(ctrl), newTestOptions())
	code, data := s.do(http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", string(data))
	code, _ = s.do(http.MethodGet, "/unknown", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
