package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	consumerdomain "github.com/stackhpc/coral-credits/internal/consumer/domain"
	"github.com/stackhpc/coral-credits/internal/observability"
	providerdomain "github.com/stackhpc/coral-credits/internal/provider/domain"
	"github.com/stackhpc/coral-credits/internal/quota"
)

type stubConsumerService struct {
	err     error
	lastReq consumerdomain.ConsumerRequest
}

func (s *stubConsumerService) Create(_ context.Context, req consumerdomain.ConsumerRequest) error {
	s.lastReq = req
	return s.err
}

func (s *stubConsumerService) Update(_ context.Context, req consumerdomain.ConsumerRequest) error {
	s.lastReq = req
	return s.err
}

func (s *stubConsumerService) Delete(_ context.Context, req consumerdomain.ConsumerRequest) error {
	s.lastReq = req
	return s.err
}

func (s *stubConsumerService) CheckCreate(_ context.Context, req consumerdomain.ConsumerRequest) error {
	s.lastReq = req
	return s.err
}

func (s *stubConsumerService) CheckUpdate(_ context.Context, req consumerdomain.ConsumerRequest) error {
	s.lastReq = req
	return s.err
}

func newTestServer(t *testing.T, consumerSvc consumerdomain.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := NewEngine(observability.Config{})
	NewServer(ServerParams{
		Gin:         engine,
		ConsumerSvc: consumerSvc,
	})
	return engine
}

const admissionBody = `{
	"context": {
		"user_id": "3aa27b9b-07dc-4a45-9e97-f3e99d172dcb",
		"project_id": "8e0adb3c-97f9-4dca-a4c9-a0b5a1b646f9",
		"auth_url": "https://keystone.example.org",
		"region_name": "RegionOne"
	},
	"lease": {
		"lease_id": "0ae8efe5-b3bd-4d84-a0c6-3b94b8e22cdb",
		"lease_name": "my-lease",
		"start_date": "2024-03-15T12:00:00Z",
		"end_time": "2024-03-16T12:00:00Z",
		"reservations": [{
			"resource_type": "physical:host",
			"min": 1,
			"max": 1,
			"resource_requests": {"VCPU": 4, "MEMORY_MB": "1000", "DISK_GB": {"total": 35}}
		}]
	}
}`

func doRequest(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCreateResourceRequestSuccess(t *testing.T) {
	stub := &stubConsumerService{}
	engine := newTestServer(t, stub)

	rec := doRequest(engine, http.MethodPost, "/v1/resource-requests", admissionBody)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "my-lease", stub.lastReq.Lease.LeaseName)
	require.Len(t, stub.lastReq.Lease.Reservations, 1)

	amounts, err := stub.lastReq.Lease.Reservations[0].ResourceRequests.Canonical()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"VCPU": 4, "MEMORY_MB": 1000, "DISK_GB": 35}, amounts)
}

func TestCreateResourceRequestMalformedBody(t *testing.T) {
	engine := newTestServer(t, &stubConsumerService{})

	rec := doRequest(engine, http.MethodPost, "/v1/resource-requests", `{"context": [`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestAdmissionRefusalsMapToForbidden(t *testing.T) {
	for _, err := range []error{
		providerdomain.ErrNoMatchingAccount,
		quota.ErrInsufficientCredits,
		quota.ErrQuotaExceeded,
		quota.ErrNoCreditForResourceClass,
		consumerdomain.ErrNoMatchingPriorLease,
	} {
		engine := newTestServer(t, &stubConsumerService{err: err})

		rec := doRequest(engine, http.MethodPost, "/v1/resource-requests", admissionBody)

		assert.Equal(t, http.StatusForbidden, rec.Code, err.Error())
		assert.Contains(t, rec.Body.String(), "admission_refused", err.Error())
	}
}

func TestDuplicateLeaseMapsToConflict(t *testing.T) {
	engine := newTestServer(t, &stubConsumerService{err: consumerdomain.ErrDuplicateLease})

	rec := doRequest(engine, http.MethodPost, "/v1/resource-requests", admissionBody)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFormatErrorMapsToBadRequest(t *testing.T) {
	engine := newTestServer(t, &stubConsumerService{err: consumerdomain.ErrInvalidRequestFormat})

	rec := doRequest(engine, http.MethodPut, "/v1/resource-requests", admissionBody)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckCreateReturnsAdmissible(t *testing.T) {
	engine := newTestServer(t, &stubConsumerService{})

	rec := doRequest(engine, http.MethodPost, "/v1/resource-requests/check-create", admissionBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admissible")
}
