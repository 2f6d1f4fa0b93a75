package http_test

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	phttp "searchvol/internal/platform/net/http"
	"searchvol/internal/services/api/subscriptions/domain"
	subshttp "searchvol/internal/services/api/subscriptions/http"
)

type fakeService struct {
	gotInput domain.ListInput
	out      domain.ListOutput
	err      error
}

func (f *fakeService) List(_ context.Context, in domain.ListInput) (domain.ListOutput, error) {
	f.gotInput = in
	return f.out, f.err
}

func newRouter(s *fakeService) stdhttp.Handler {
	mux := chi.NewRouter()
	subshttp.Register(phttp.AdaptChi(mux), s)
	return mux
}

func postList(h stdhttp.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/list", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

func TestList_BindsAndReturnsEnvelope(t *testing.T) {
	fake := &fakeService{out: domain.ListOutput{
		Subscriptions: []domain.SubscriptionRow{
			{KeywordID: 2, Type: "HOURLY", StartDate: "2025-01-01", EndDate: "2025-01-12"},
		},
	}}
	h := newRouter(fake)

	rec := postList(h, `{"user_id":6,"keywords_id":"2,3"}`)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if fake.gotInput.UserID != 6 || fake.gotInput.KeywordsID != "2,3" {
		t.Fatalf("service input mismatch: %+v", fake.gotInput)
	}

	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %#v", env.Data)
	}
	subs, ok := data["subscriptions"].([]any)
	if !ok || len(subs) != 1 {
		t.Fatalf("bad payload: %#v", data)
	}
	first, _ := subs[0].(map[string]any)
	if first["subscription_type"] != "HOURLY" || first["keyword_id"].(float64) != 2 {
		t.Fatalf("bad row shape: %#v", first)
	}
}

func TestList_ValidationRejectedBeforeService(t *testing.T) {
	fake := &fakeService{}
	h := newRouter(fake)

	cases := []struct {
		name string
		body string
	}{
		{"missing user_id", `{"keywords_id":"1"}`},
		{"bad keyword filter", `{"user_id":1,"keywords_id":"1,x"}`},
		{"invalid json", `{`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := postList(h, c.body)
			if rec.Code != stdhttp.StatusBadRequest {
				t.Fatalf("expected 400, got %d (%s)", rec.Code, rec.Body.String())
			}
		})
	}

	if fake.gotInput != (domain.ListInput{}) {
		t.Fatalf("service should not be reached on bind failure: %+v", fake.gotInput)
	}
}
