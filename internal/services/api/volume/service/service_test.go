package service

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"searchvol/internal/core/entitle"
	"searchvol/internal/core/interval"
	"searchvol/internal/modkit/repokit"
	perr "searchvol/internal/platform/errors"
	"searchvol/internal/services/api/volume/domain"
	"searchvol/internal/services/api/volume/repo"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

// epoch returns the string epoch seconds for a date at UTC midnight
func epoch(s string) string {
	return strconv.FormatInt(d(s).Unix(), 10)
}

type fakeRepo struct {
	subs    []entitle.Subscription
	subsErr error
	names   map[int64]string
	nameErr error
}

func (f *fakeRepo) SubscriptionsFor(_ context.Context, userID int64, keywordIDs []int64) ([]entitle.Subscription, error) {
	if f.subsErr != nil {
		return nil, f.subsErr
	}
	var out []entitle.Subscription
	for _, s := range f.subs {
		if s.UserID != userID {
			continue
		}
		for _, kw := range keywordIDs {
			if s.KeywordID == kw {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) KeywordName(_ context.Context, keywordID int64) (string, error) {
	if f.nameErr != nil {
		return "", f.nameErr
	}
	return f.names[keywordID], nil
}

type fakeBinder struct{ r repo.Repo }

func (b fakeBinder) Bind(repokit.Queryer) repo.Repo { return b.r }

type fakeSeries struct {
	points map[int64][]domain.DataPoint
	err    error
	calls  []int64
}

func (f *fakeSeries) Series(
	_ context.Context, keywordID int64, _ interval.Range, _ entitle.Granularity,
) ([]domain.DataPoint, error) {
	f.calls = append(f.calls, keywordID)
	if f.err != nil {
		return nil, f.err
	}
	return f.points[keywordID], nil
}

// noopTx satisfies repokit.TxRunner for wiring, fakes never touch it
type noopTx struct{}

func (noopTx) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (noopTx) Query(context.Context, string, ...any) (repokit.Rows, error)     { return nil, nil }
func (noopTx) QueryRow(context.Context, string, ...any) repokit.Row            { return nil }
func (noopTx) Tx(_ context.Context, fn func(q repokit.Queryer) error) error    { return fn(noopTx{}) }

func newSvc(r *fakeRepo, series *fakeSeries) *Svc {
	return New(noopTx{}, fakeBinder{r: r}, series)
}

func hourlySub(user, kw int64, start, end string) entitle.Subscription {
	return entitle.Subscription{
		UserID: user, KeywordID: kw, Type: entitle.Hourly,
		Range: interval.Range{Start: d(start), End: d(end)},
	}
}

func dailySub(user, kw int64, start, end string) entitle.Subscription {
	return entitle.Subscription{
		UserID: user, KeywordID: kw, Type: entitle.Daily,
		Range: interval.Range{Start: d(start), End: d(end)},
	}
}

func TestQuery_MergedHourlyWindowsAllowed(t *testing.T) {
	t.Parallel()

	// two overlapping hourly windows merge into 01-01..01-20
	r := &fakeRepo{
		subs: []entitle.Subscription{
			hourlySub(1, 1, "2025-01-01", "2025-01-10"),
			hourlySub(1, 1, "2025-01-07", "2025-01-20"),
		},
		names: map[int64]string{1: "floating shelves"},
	}
	series := &fakeSeries{points: map[int64][]domain.DataPoint{
		1: {{Timestamp: "2025-01-08T09:00:00", SearchVolume: 3417}},
	}}
	s := newSvc(r, series)

	got, err := s.Query(context.Background(), domain.QueryInput{
		UserID:     "1",
		KeywordsID: "1",
		Timing:     "HOURLY",
		StartTime:  epoch("2025-01-08"),
		EndTime:    epoch("2025-01-16"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.KeywordResult{{
		KeywordID:   1,
		KeywordName: "floating shelves",
		Error:       false,
		Status:      "Successful",
		Data:        []domain.DataPoint{{Timestamp: "2025-01-08T09:00:00", SearchVolume: 3417}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result (-want +got):\n%s", diff)
	}
}

func TestQuery_OutOfRangeDeniedInsidePayload(t *testing.T) {
	t.Parallel()

	r := &fakeRepo{
		subs: []entitle.Subscription{
			hourlySub(1, 1, "2025-01-01", "2025-01-10"),
			hourlySub(1, 1, "2025-01-07", "2025-01-20"),
		},
		names: map[int64]string{1: "floating shelves"},
	}
	series := &fakeSeries{}
	s := newSvc(r, series)

	got, err := s.Query(context.Background(), domain.QueryInput{
		UserID:     "1",
		KeywordsID: "1",
		Timing:     "HOURLY",
		StartTime:  epoch("2025-01-16"),
		EndTime:    epoch("2025-01-25"),
	})
	if err != nil {
		t.Fatalf("denial must not be a transport error, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 entry, got %d", len(got))
	}
	if !got[0].Error {
		t.Fatal("entry must be flagged as error")
	}
	wantStatus := "HOURLY query time range is out of subscription time range."
	if got[0].Status != wantStatus {
		t.Fatalf("status = %q, want %q", got[0].Status, wantStatus)
	}
	if len(got[0].Data) != 0 {
		t.Fatalf("denied entry must carry no data, got %v", got[0].Data)
	}
	if len(series.calls) != 0 {
		t.Fatalf("series must not be fetched for denied keywords, calls %v", series.calls)
	}
}

func TestQuery_EmptyBatchIsForbidden(t *testing.T) {
	t.Parallel()

	s := newSvc(&fakeRepo{}, &fakeSeries{})

	_, err := s.Query(context.Background(), domain.QueryInput{
		UserID:     "9",
		KeywordsID: "3,2",
		Timing:     "HOURLY",
		StartTime:  epoch("2025-01-01"),
		EndTime:    epoch("2025-01-05"),
	})
	if err == nil {
		t.Fatal("want forbidden error")
	}
	if perr.CodeOf(err) != perr.ErrorCodeForbidden {
		t.Fatalf("code = %v, want Forbidden", perr.CodeOf(err))
	}
	want := "User doesn't have any subscriptions with keywords_id 3,2"
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}

func TestQuery_MissingFieldsMessage(t *testing.T) {
	t.Parallel()

	s := newSvc(&fakeRepo{}, &fakeSeries{})

	_, err := s.Query(context.Background(), domain.QueryInput{
		UserID:     "1",
		KeywordsID: "1",
	})
	if err == nil {
		t.Fatal("want validation error")
	}
	if perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("code = %v, want Validation", perr.CodeOf(err))
	}
	want := "Missing required fields timing, start_time, end_time."
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}

func TestQuery_UnsupportedTiming(t *testing.T) {
	t.Parallel()

	s := newSvc(&fakeRepo{}, &fakeSeries{})

	_, err := s.Query(context.Background(), domain.QueryInput{
		UserID:     "1",
		KeywordsID: "1",
		Timing:     "WEEKLY",
		StartTime:  epoch("2025-01-01"),
		EndTime:    epoch("2025-01-05"),
	})
	if err == nil || perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("err = %v, want Validation", err)
	}
	want := "Only support 'HOURLY' and 'DAILY' timing."
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}

func TestQuery_ParseFailureIsInternal(t *testing.T) {
	t.Parallel()

	s := newSvc(&fakeRepo{}, &fakeSeries{})

	// shape is complete but keywords_id does not parse, 500 not 400
	_, err := s.Query(context.Background(), domain.QueryInput{
		UserID:     "1",
		KeywordsID: "1,abc",
		Timing:     "HOURLY",
		StartTime:  epoch("2025-01-01"),
		EndTime:    epoch("2025-01-05"),
	})
	if err == nil || perr.CodeOf(err) != perr.ErrorCodeUnknown {
		t.Fatalf("err = %v, want Unknown coded internal error", err)
	}
}

func TestQuery_OrderAndDuplicatesPreserved(t *testing.T) {
	t.Parallel()

	r := &fakeRepo{
		subs: []entitle.Subscription{
			hourlySub(6, 2, "2025-01-01", "2025-01-12"),
		},
		names: map[int64]string{2: "fireplace mantel"},
	}
	s := newSvc(r, &fakeSeries{points: map[int64][]domain.DataPoint{}})

	got, err := s.Query(context.Background(), domain.QueryInput{
		UserID:     "6",
		KeywordsID: "99,2,99",
		Timing:     "HOURLY",
		StartTime:  epoch("2025-01-02"),
		EndTime:    epoch("2025-01-10"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 entries, got %d", len(got))
	}
	wantIDs := []int64{99, 2, 99}
	for i, want := range wantIDs {
		if got[i].KeywordID != want {
			t.Fatalf("entry %d keyword = %d, want %d", i, got[i].KeywordID, want)
		}
	}
	wantMissing := fmt.Sprintf("No subscriptions found for the keyword_id %d", 99)
	if !got[0].Error || got[0].Status != wantMissing {
		t.Fatalf("entry 0 = %+v, want missing-subscription error %q", got[0], wantMissing)
	}
	if diff := cmp.Diff(got[0], got[2]); diff != "" {
		t.Fatalf("duplicate ids must produce identical entries (-first +second):\n%s", diff)
	}
	if got[1].Error || got[1].Status != "Successful" {
		t.Fatalf("entry 1 = %+v, want successful", got[1])
	}
}

func TestQuery_GranularityAsymmetry(t *testing.T) {
	t.Parallel()

	r := &fakeRepo{
		subs:  []entitle.Subscription{dailySub(2, 5, "2025-01-01", "2025-01-25")},
		names: map[int64]string{5: "fireplace surround"},
	}
	s := newSvc(r, &fakeSeries{points: map[int64][]domain.DataPoint{}})

	// hourly over a daily-only subscription is denied with the strict reason
	got, err := s.Query(context.Background(), domain.QueryInput{
		UserID:     "2",
		KeywordsID: "5",
		Timing:     "HOURLY",
		StartTime:  epoch("2025-01-02"),
		EndTime:    epoch("2025-01-10"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got[0].Error || got[0].Status != entitle.ReasonHourlyRequired {
		t.Fatalf("hourly entry = %+v, want %q", got[0], entitle.ReasonHourlyRequired)
	}

	// the same window queried daily is allowed
	got, err = s.Query(context.Background(), domain.QueryInput{
		UserID:     "2",
		KeywordsID: "5",
		Timing:     "DAILY",
		StartTime:  epoch("2025-01-02"),
		EndTime:    epoch("2025-01-10"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Error || got[0].Status != "Successful" {
		t.Fatalf("daily entry = %+v, want successful", got[0])
	}
}

func TestQuery_StorageFailureIsDBError(t *testing.T) {
	t.Parallel()

	r := &fakeRepo{subsErr: fmt.Errorf("connection reset")}
	s := newSvc(r, &fakeSeries{})

	_, err := s.Query(context.Background(), domain.QueryInput{
		UserID:     "1",
		KeywordsID: "1",
		Timing:     "DAILY",
		StartTime:  epoch("2025-01-01"),
		EndTime:    epoch("2025-01-05"),
	})
	if err == nil || perr.CodeOf(err) != perr.ErrorCodeDB {
		t.Fatalf("err = %v, want DB coded error", err)
	}
}

func TestQuery_EpochSecondsBecomeUTCCalendarDates(t *testing.T) {
	t.Parallel()

	// 1735689600 is 2025-01-01T00:00:00Z, 1736467200 is 2025-01-10T00:00:00Z
	q, err := parseQuery(domain.QueryInput{
		UserID:     "6",
		KeywordsID: "2,4",
		Timing:     "HOURLY",
		StartTime:  "1735689600",
		EndTime:    "1736467200",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.Range.Start.Equal(d("2025-01-01")) || !q.Range.End.Equal(d("2025-01-10")) {
		t.Fatalf("range = %v..%v", q.Range.Start, q.Range.End)
	}
	if q.UserID != 6 {
		t.Fatalf("user = %d", q.UserID)
	}
	if diff := cmp.Diff([]int64{2, 4}, q.KeywordIDs); diff != "" {
		t.Fatalf("ids (-want +got):\n%s", diff)
	}
	// mid-day epoch truncates to the date midnight
	q2, err := parseQuery(domain.QueryInput{
		UserID:     "6",
		KeywordsID: "2",
		Timing:     "DAILY",
		StartTime:  "1735736400", // 2025-01-01T13:00:00Z
		EndTime:    "1736467200",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q2.Range.Start.Equal(d("2025-01-01")) {
		t.Fatalf("truncated start = %v, want 2025-01-01 midnight", q2.Range.Start)
	}
}
