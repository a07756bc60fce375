package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/littlesprouts/preschool-api/internal/models"
	"github.com/littlesprouts/preschool-api/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

type doFunc func(*http.Request) (*http.Response, error)

func (f doFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func emptyResponse(code int) *http.Response {
	return &http.Response{StatusCode: code, Body: io.NopCloser(strings.NewReader(""))}
}

func failingClient(t *testing.T) httpclient.Client {
	return doFunc(func(*http.Request) (*http.Response, error) {
		t.Fatal("no network call expected")
		return nil, nil
	})
}

// recorder is a webhook stand-in that keeps every body it receives
type recorder struct {
	mu      sync.Mutex
	bodies  []map[string]any
	headers []http.Header
	status  int
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(req.Body).Decode(&body)

	r.mu.Lock()
	r.bodies = append(r.bodies, body)
	r.headers = append(r.headers, req.Header.Clone())
	status := r.status
	r.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"status":"duplicate"}`))
}

func (r *recorder) received() ([]map[string]any, []http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]map[string]any(nil), r.bodies...), append([]http.Header(nil), r.headers...)
}

func newLiveClient(t *testing.T, rec *recorder) *Client {
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)

	hc := httpclient.NewStandardClient(2 * time.Second)
	t.Cleanup(hc.CloseIdleConnections)

	return NewClient(Config{Endpoint: srv.URL}, hc)
}

func visitRequest() *models.VisitRequest {
	return &models.VisitRequest{
		ParentName: "Asha Rao",
		Phone:      "+91 9876543210",
		Email:      "asha@example.com",
		ChildName:  "Kiran",
		Program:    "Inquirers (Nursery)",
		VisitDate:  "2026-11-02",
		VisitTime:  models.VisitSlotMorning,
	}
}

func admissionInquiry() *models.AdmissionInquiry {
	return &models.AdmissionInquiry{
		ParentName: "Vikram Shah",
		Phone:      "9876543210",
		Email:      "x@y.com",
		ChildName:  "Meera",
		ChildAge:   "3",
		Program:    "Collaborators (K.G)",
		Message:    "Is there a bus service?",
	}
}

func TestSubmit_DemoModeSkipsNetwork(t *testing.T) {
	c := NewClient(Config{}, failingClient(t))
	c.now = func() time.Time { return time.UnixMilli(1760000000000) }

	assert.True(t, c.DemoMode())

	first := c.SubmitVisitRequest(context.Background(), visitRequest())
	second := c.SubmitAdmissionInquiry(context.Background(), admissionInquiry())

	for _, res := range []models.SubmissionResult{first, second} {
		assert.Equal(t, models.StatusSuccess, res.Status)
		assert.False(t, res.EmailSent)
		assert.Equal(t, models.MessageDemoSubmitted, res.Message)
		assert.True(t, strings.HasPrefix(res.SubmissionID, "DEMO-1760000000000-"), res.SubmissionID)
	}
	assert.NotEqual(t, first.SubmissionID, second.SubmissionID)
}

func TestSubmitVisitRequest_PostsPayload(t *testing.T) {
	rec := &recorder{}
	c := newLiveClient(t, rec)
	assert.False(t, c.DemoMode())

	res := c.SubmitVisitRequest(context.Background(), visitRequest())

	assert.Equal(t, models.SubmissionResult{
		Status:    models.StatusSuccess,
		Message:   models.MessageVisitSubmitted,
		EmailSent: true,
	}, res)

	bodies, headers := rec.received()
	require.Len(t, bodies, 1)
	want := map[string]any{
		"formType":   "visit_request",
		"parentName": "Asha Rao",
		"phone":      "+91 9876543210",
		"email":      "asha@example.com",
		"childName":  "Kiran",
		"program":    "Inquirers (Nursery)",
		"visitDate":  "2026-11-02",
		"visitTime":  "Morning (9-11)",
	}
	if diff := cmp.Diff(want, bodies[0]); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "application/json", headers[0].Get("Content-Type"))
	assert.Empty(t, headers[0].Get("Authorization"))
	assert.Empty(t, headers[0].Get("Traceparent"))
}

func TestSubmitAdmissionInquiry_EmailSentHeuristic(t *testing.T) {
	rec := &recorder{}
	c := newLiveClient(t, rec)

	withEmail := c.SubmitAdmissionInquiry(context.Background(), admissionInquiry())
	assert.Equal(t, models.StatusSuccess, withEmail.Status)
	assert.True(t, withEmail.EmailSent)
	assert.Equal(t, models.MessageInquirySubmitted, withEmail.Message)

	noEmail := admissionInquiry()
	noEmail.Email = ""
	noEmail.Message = ""
	without := c.SubmitAdmissionInquiry(context.Background(), noEmail)
	assert.Equal(t, models.StatusSuccess, without.Status)
	assert.False(t, without.EmailSent)

	bodies, _ := rec.received()
	require.Len(t, bodies, 2)
	assert.Equal(t, "admission_inquiry", bodies[1]["formType"])
	assert.NotContains(t, bodies[1], "email")
	assert.NotContains(t, bodies[1], "message")
	assert.Equal(t, "3", bodies[1]["childAge"])
}

func TestSubmit_ResponseIsOpaque(t *testing.T) {
	// Neither the status code nor a body claiming "duplicate" changes the outcome
	rec := &recorder{status: http.StatusInternalServerError}
	c := newLiveClient(t, rec)

	res := c.SubmitVisitRequest(context.Background(), visitRequest())

	bodies, _ := rec.received()
	assert.Equal(t, models.StatusSuccess, res.Status)
	assert.Len(t, bodies, 1)
}

func TestSubmit_TransportFaultBecomesErrorResult(t *testing.T) {
	hc := doFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("network is unreachable")
	})
	c := NewClient(Config{Endpoint: "https://script.example/exec"}, hc)

	visit := c.SubmitVisitRequest(context.Background(), visitRequest())
	inquiry := c.SubmitAdmissionInquiry(context.Background(), admissionInquiry())

	for _, res := range []models.SubmissionResult{visit, inquiry} {
		assert.Equal(t, models.StatusError, res.Status)
		assert.Equal(t, models.MessageSubmitFailed, res.Message)
		assert.False(t, res.EmailSent)
		assert.Empty(t, res.SubmissionID)
	}
}

func TestSubmit_UnreachableHost(t *testing.T) {
	// Grab a free port and close it so the dial is refused
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	hc := httpclient.NewStandardClient(time.Second)
	c := NewClient(Config{Endpoint: "http://" + addr + "/exec", MaxRetries: 1, RetryDelay: time.Millisecond}, hc)

	res := c.SubmitVisitRequest(context.Background(), visitRequest())

	assert.Equal(t, models.StatusError, res.Status)
	assert.Equal(t, models.MessageSubmitFailed, res.Message)
}

func TestSubmit_RetriesDialFailures(t *testing.T) {
	var calls atomic.Int32
	hc := doFunc(func(*http.Request) (*http.Response, error) {
		if calls.Add(1) < 3 {
			return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
		}
		return emptyResponse(http.StatusFound), nil
	})
	c := NewClient(Config{Endpoint: "https://script.example/exec", MaxRetries: 2, RetryDelay: time.Millisecond}, hc)

	res := c.SubmitVisitRequest(context.Background(), visitRequest())

	assert.Equal(t, models.StatusSuccess, res.Status)
	assert.EqualValues(t, 3, calls.Load())
}

func TestSubmit_DoesNotRetryAfterRequestWasSent(t *testing.T) {
	var calls atomic.Int32
	hc := doFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, context.DeadlineExceeded
	})
	c := NewClient(Config{Endpoint: "https://script.example/exec", MaxRetries: 3, RetryDelay: time.Millisecond}, hc)

	res := c.SubmitAdmissionInquiry(context.Background(), admissionInquiry())

	assert.Equal(t, models.StatusError, res.Status)
	assert.EqualValues(t, 1, calls.Load())
}

func TestSubmit_OpenBreakerSkipsDispatch(t *testing.T) {
	var calls atomic.Int32
	hc := doFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, errors.New("connection reset by peer")
	})
	c := NewClient(Config{Endpoint: "https://script.example/exec"}, hc)

	for i := 0; i < 3; i++ {
		assert.Equal(t, models.StatusError, c.SubmitVisitRequest(context.Background(), visitRequest()).Status)
	}
	assert.Equal(t, "open", c.BreakerState())

	res := c.SubmitVisitRequest(context.Background(), visitRequest())

	assert.Equal(t, models.StatusError, res.Status)
	assert.Equal(t, models.MessageSubmitFailed, res.Message)
	assert.EqualValues(t, 3, calls.Load())
}

func TestSubmit_IdenticalRequestsAreNotDeduplicated(t *testing.T) {
	rec := &recorder{}
	c := newLiveClient(t, rec)

	req := visitRequest()
	first := c.SubmitVisitRequest(context.Background(), req)
	second := c.SubmitVisitRequest(context.Background(), req)

	assert.Equal(t, models.StatusSuccess, first.Status)
	assert.Equal(t, models.StatusSuccess, second.Status)
	assert.Equal(t, first, second)
	bodies, _ := rec.received()
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
}

func TestSubmit_CallerCancellationDoesNotAbortDispatch(t *testing.T) {
	rec := &recorder{}
	c := newLiveClient(t, rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := c.SubmitVisitRequest(ctx, visitRequest())

	bodies, _ := rec.received()
	assert.Equal(t, models.StatusSuccess, res.Status)
	assert.Len(t, bodies, 1)
}

func TestSubmit_DoesNotMutateRequest(t *testing.T) {
	rec := &recorder{}
	c := newLiveClient(t, rec)

	req := admissionInquiry()
	before := *req
	c.SubmitAdmissionInquiry(context.Background(), req)

	assert.Equal(t, before, *req)
}
