package http_test

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	perr "searchvol/internal/platform/errors"
	phttp "searchvol/internal/platform/net/http"
	"searchvol/internal/services/api/volume/domain"
	volhttp "searchvol/internal/services/api/volume/http"
)

type fakeService struct {
	gotInput domain.QueryInput
	results  []domain.KeywordResult
	err      error
}

func (f *fakeService) Query(_ context.Context, in domain.QueryInput) ([]domain.KeywordResult, error) {
	f.gotInput = in
	return f.results, f.err
}

func newRouter(s *fakeService) stdhttp.Handler {
	mux := chi.NewRouter()
	volhttp.Register(phttp.AdaptChi(mux), s)
	return mux
}

func TestQuery_BindsQueryParams(t *testing.T) {
	fake := &fakeService{results: []domain.KeywordResult{}}
	h := newRouter(fake)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/query?user_id=1&keywords_id=1,2&timing=HOURLY&start_time=1735689600&end_time=1736467200", nil)
	h.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	want := domain.QueryInput{
		UserID:     "1",
		KeywordsID: "1,2",
		Timing:     "HOURLY",
		StartTime:  "1735689600",
		EndTime:    "1736467200",
	}
	if fake.gotInput != want {
		t.Fatalf("service input mismatch: got %+v want %+v", fake.gotInput, want)
	}
}

func TestQuery_SuccessEnvelope(t *testing.T) {
	fake := &fakeService{results: []domain.KeywordResult{
		{
			KeywordID:   1,
			KeywordName: "floating shelves",
			Status:      "Successful",
			Data: []domain.DataPoint{
				{Timestamp: "2025-01-01T00:00:00", SearchVolume: 1200},
			},
		},
	}}
	h := newRouter(fake)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/query?user_id=1&keywords_id=1&timing=HOURLY&start_time=1735689600&end_time=1736467200", nil)
	h.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	items, ok := env.Data.([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one result, got %#v", env.Data)
	}
	first, _ := items[0].(map[string]any)
	if first["keyword_id"].(float64) != 1 || first["status"] != "Successful" {
		t.Fatalf("bad result shape: %#v", first)
	}
}

func TestQuery_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", perr.Validationf("Missing required fields timing."), stdhttp.StatusBadRequest},
		{"forbidden", perr.Forbiddenf("User doesn't have any subscriptions with keywords_id 9"), stdhttp.StatusForbidden},
		{"db", perr.DBf("query failed"), stdhttp.StatusInternalServerError},
		{"internal", perr.Internalf("Internal Server Error. Details: boom"), stdhttp.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := newRouter(&fakeService{err: c.err})
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/query?user_id=1", nil)
			h.ServeHTTP(rec, req)
			if rec.Code != c.want {
				t.Fatalf("expected %d, got %d", c.want, rec.Code)
			}
			var env phttp.Envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("unmarshal envelope: %v", err)
			}
			if env.Error == "" || env.StatusCode != c.want {
				t.Fatalf("bad error envelope: %+v", env)
			}
		})
	}
}
