package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/hobbyseeds/internal/adapters/http/api"
	"github.com/okian/hobbyseeds/internal/adapters/mq/queue"
	"github.com/okian/hobbyseeds/internal/domain/dedupe"
	"github.com/okian/hobbyseeds/internal/domain/diagnosis"
	"github.com/okian/hobbyseeds/internal/domain/hobbylog"
	"github.com/okian/hobbyseeds/internal/domain/model"
	"github.com/okian/hobbyseeds/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

var hobbies = []model.Hobby{
	{ID: 1, Name: "空を見る", Category: model.CategoryContemplative, Energy: model.EnergyLow, Location: model.LocationAnywhere, Indoor: true, Tags: []string{"自然", "リラックス", "観察"}},
	{ID: 2, Name: "散歩", Category: model.CategoryActive, Energy: model.EnergyMedium, Location: model.LocationOutside, Tags: []string{"自然", "運動"}},
}

var stepUps = []model.StepUpHobby{
	{ID: 4, Name: "バードウォッチング", MatchTags: []string{"自然", "観察", "発見"}},
}

// fakeDeps applies mutations synchronously on an in-memory log.
type fakeDeps struct {
	dedupe.Deduper
	log        model.HobbyLog
	full       bool
	stopped    bool
	enqueued   int
	lastAnswer model.DiagnosisAnswer
	lastShown  []int
	lastCount  int
	lastPrefer bool
}

func newFakeDeps() *fakeDeps {
	return &fakeDeps{Deduper: dedupe.NewInMemoryDeduper(), log: model.EmptyLog()}
}

func (f *fakeDeps) GetStats() map[string]any { return map[string]any{"entries": len(f.log.Entries)} }

func (f *fakeDeps) Questions() []diagnosis.Question { return diagnosis.Questions() }

func (f *fakeDeps) Recommend(_ context.Context, a model.DiagnosisAnswer, count int, prefer bool) types.DiagnosisResult {
	f.lastAnswer, f.lastCount, f.lastPrefer = a, count, prefer
	matched := diagnosis.Filter(hobbies, a)
	return types.DiagnosisResult{Hobbies: matched, Candidates: len(matched)}
}

func (f *fakeDeps) More(_ context.Context, a model.DiagnosisAnswer, shown []int, count int) types.DiagnosisResult {
	f.lastAnswer, f.lastShown, f.lastCount = a, shown, count
	return types.DiagnosisResult{Hobbies: []model.Hobby{}, Candidates: 0}
}

func (f *fakeDeps) Hobby(id int) (model.Hobby, bool) {
	for _, h := range hobbies {
		if h.ID == id {
			return h, true
		}
	}
	return model.Hobby{}, false
}

func (f *fakeDeps) StepUp(id int) (model.StepUpHobby, bool) {
	for _, h := range stepUps {
		if h.ID == id {
			return h, true
		}
	}
	return model.StepUpHobby{}, false
}

func (f *fakeDeps) Enqueue(_ context.Context, m queue.Mutation) bool {
	if f.full {
		return false
	}
	f.enqueued++
	if f.stopped {
		m.Reply <- queue.Result{Err: queue.ErrStopped}
		return true
	}
	var err error
	switch m.Kind {
	case queue.KindAppend:
		f.log = hobbylog.Append(f.log, model.LogEntry{HobbyID: m.HobbyID, Rating: m.Rating, LoggedAt: time.Now()}, hobbies)
	case queue.KindDelete:
		var next model.HobbyLog
		next, err = hobbylog.DeleteAt(f.log, m.Index, hobbies)
		if err == nil {
			f.log = next
		}
	case queue.KindClear:
		f.log = model.EmptyLog()
	}
	m.Reply <- queue.Result{Log: f.log, Err: err}
	return true
}

func (f *fakeDeps) Log(context.Context) model.HobbyLog { return f.log }

func (f *fakeDeps) Tags(context.Context) types.TagBreakdown {
	return types.TagBreakdown{Frequency: map[string]int{"自然": 1}, Scores: map[string]int{"自然": 3}}
}

func (f *fakeDeps) StepUps(context.Context) types.StepUpRecommendations {
	return types.StepUpRecommendations{TopTags: f.log.TopTags, Recommendations: []model.MatchResult{}, RemainingToUnlock: 3}
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder, v any) {
	So(json.Unmarshal(w.Body.Bytes(), v), ShouldBeNil)
}

type errBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type logBody struct {
	Log     model.HobbyLog   `json:"log"`
	Summary types.LogSummary `json:"summary"`
}

func TestDiagnosisRoutes(t *testing.T) {
	Convey("Given the API router", t, func() {
		deps := newFakeDeps()
		h := api.NewServer(deps, api.WithPerPage(4)).Router()

		Convey("When questions are requested", func() {
			w := do(h, http.MethodGet, "/diagnosis/questions", "")
			var qs []diagnosis.Question
			decode(w, &qs)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(qs, ShouldHaveLength, 3)
		})

		Convey("When a valid diagnosis is posted", func() {
			w := do(h, http.MethodPost, "/diagnosis", `{"energy":"low","goOut":false,"activityType":"passive"}`)

			Convey("Then the default page size is used and answers are passed through", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastCount, ShouldEqual, 4)
				So(deps.lastAnswer, ShouldResemble, model.DiagnosisAnswer{Energy: model.EnergyLow, GoOut: false, Activity: model.ActivityPassive})
				var res types.DiagnosisResult
				decode(w, &res)
				So(res.Candidates, ShouldEqual, 1)
				So(res.Hobbies[0].ID, ShouldEqual, 1)
			})
		})

		Convey("When count and outdoor preference are given", func() {
			w := do(h, http.MethodPost, "/diagnosis", `{"energy":"high","goOut":true,"activityType":"active","count":2,"preferOutdoor":true}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastCount, ShouldEqual, 2)
			So(deps.lastPrefer, ShouldBeTrue)
		})

		Convey("When goOut is missing", func() {
			w := do(h, http.MethodPost, "/diagnosis", `{"energy":"low","activityType":"passive"}`)
			var e errBody
			decode(w, &e)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(e.Code, ShouldEqual, "bad_request")
			So(e.Message, ShouldContainSubstring, "goOut")
		})

		Convey("When the energy is unknown", func() {
			w := do(h, http.MethodPost, "/diagnosis", `{"energy":"extreme","goOut":true,"activityType":"passive"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the body is not JSON", func() {
			So(do(h, http.MethodPost, "/diagnosis", `{`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodPost, "/diagnosis", ``).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When more results are requested", func() {
			w := do(h, http.MethodPost, "/diagnosis/more", `{"answer":{"energy":"medium","goOut":true,"activityType":"active"},"shownIds":[2,3]}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastShown, ShouldResemble, []int{2, 3})
			So(deps.lastCount, ShouldEqual, 4)
		})

		Convey("When more results are requested without an answer", func() {
			w := do(h, http.MethodPost, "/diagnosis/more", `{"shownIds":[1]}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestCatalogRoutes(t *testing.T) {
	Convey("Given the API router", t, func() {
		h := api.NewServer(newFakeDeps()).Router()

		So(do(h, http.MethodGet, "/hobbies/2", "").Code, ShouldEqual, http.StatusOK)
		So(do(h, http.MethodGet, "/hobbies/99", "").Code, ShouldEqual, http.StatusNotFound)
		So(do(h, http.MethodGet, "/hobbies/abc", "").Code, ShouldEqual, http.StatusBadRequest)
		So(do(h, http.MethodGet, "/stepups/4", "").Code, ShouldEqual, http.StatusOK)
		So(do(h, http.MethodGet, "/stepups/5", "").Code, ShouldEqual, http.StatusNotFound)
		So(do(h, http.MethodGet, "/nowhere", "").Code, ShouldEqual, http.StatusNotFound)
	})
}

func TestLogRoutes(t *testing.T) {
	Convey("Given the API router with an empty log", t, func() {
		deps := newFakeDeps()
		h := api.NewServer(deps).Router()

		Convey("When the log is read", func() {
			w := do(h, http.MethodGet, "/log", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"entries":[]`)
			So(w.Body.String(), ShouldContainSubstring, `"remainingToUnlock":3`)
		})

		Convey("When an entry is appended", func() {
			w := do(h, http.MethodPost, "/log/entries", `{"hobbyId":1,"rating":"great"}`)
			var body logBody
			decode(w, &body)

			Convey("Then it is created", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(body.Log.Entries, ShouldHaveLength, 1)
				So(body.Summary.GreatCount, ShouldEqual, 1)
				So(body.Summary.RemainingToUnlock, ShouldEqual, 2)
			})
		})

		Convey("When the same request id is sent twice", func() {
			first := do(h, http.MethodPost, "/log/entries", `{"hobbyId":1,"rating":"good","requestId":"tap-1"}`)
			second := do(h, http.MethodPost, "/log/entries", `{"hobbyId":1,"rating":"good","requestId":"tap-1"}`)

			Convey("Then the second is acknowledged as a duplicate", func() {
				So(first.Code, ShouldEqual, http.StatusCreated)
				So(second.Code, ShouldEqual, http.StatusOK)
				So(second.Body.String(), ShouldContainSubstring, `"duplicate":true`)
				So(deps.log.Entries, ShouldHaveLength, 1)
			})
		})

		Convey("When the hobby is unknown", func() {
			w := do(h, http.MethodPost, "/log/entries", `{"hobbyId":99,"rating":"good"}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(deps.enqueued, ShouldEqual, 0)
		})

		Convey("When the rating is invalid", func() {
			w := do(h, http.MethodPost, "/log/entries", `{"hobbyId":1,"rating":"wow"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the queue is full", func() {
			deps.full = true
			w := do(h, http.MethodPost, "/log/entries", `{"hobbyId":1,"rating":"good","requestId":"tap-2"}`)

			Convey("Then backpressure is reported and the request id released", func() {
				var e errBody
				decode(w, &e)
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(e.Code, ShouldEqual, "backpressure")
				So(deps.SeenAndRecord(context.Background(), "tap-2"), ShouldBeFalse)
			})
		})

		Convey("When the writer stops before applying", func() {
			deps.stopped = true
			w := do(h, http.MethodPost, "/log/entries", `{"hobbyId":1,"rating":"good","requestId":"tap-3"}`)

			Convey("Then the service is unavailable and the request id released", func() {
				var e errBody
				decode(w, &e)
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(e.Code, ShouldEqual, "unavailable")
				So(deps.SeenAndRecord(context.Background(), "tap-3"), ShouldBeFalse)
			})
		})

		Convey("When entries are deleted", func() {
			do(h, http.MethodPost, "/log/entries", `{"hobbyId":1,"rating":"great"}`)
			do(h, http.MethodPost, "/log/entries", `{"hobbyId":2,"rating":"meh"}`)

			w := do(h, http.MethodDelete, "/log/entries/0", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.log.Entries, ShouldHaveLength, 1)
			So(deps.log.Entries[0].HobbyID, ShouldEqual, 2)

			So(do(h, http.MethodDelete, "/log/entries/5", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(h, http.MethodDelete, "/log/entries/x", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the log is cleared", func() {
			do(h, http.MethodPost, "/log/entries", `{"hobbyId":1,"rating":"great"}`)
			w := do(h, http.MethodDelete, "/log", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.log.Entries, ShouldBeEmpty)
		})

		Convey("When tags are requested", func() {
			w := do(h, http.MethodGet, "/log/tags", "")
			var body types.TagBreakdown
			decode(w, &body)
			So(body.Scores["自然"], ShouldEqual, 3)
		})

		Convey("When step-ups are requested", func() {
			w := do(h, http.MethodGet, "/stepups", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"recommendations":[]`)
		})
	})
}

func TestMiddleware(t *testing.T) {
	Convey("Given the API router", t, func() {
		h := api.NewServer(newFakeDeps()).Router()

		Convey("Then a request id is generated when missing", func() {
			w := do(h, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
		})

		Convey("Then a client request id is echoed", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
		})

		Convey("Then metrics are exposed on healthz", func() {
			do(h, http.MethodGet, "/stats", "")
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "hobbyseeds_engine_http_requests_total")
		})

		Convey("Then a wrong method is rejected", func() {
			So(do(h, http.MethodPut, "/stats", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})

	Convey("Given a handler that panics", t, func() {
		h := api.Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
		w := do(h, http.MethodGet, "/", "")
		So(w.Code, ShouldEqual, http.StatusInternalServerError)
	})
}

func TestErrors(t *testing.T) {
	Convey("Given API errors", t, func() {
		cause := hobbylog.ErrEntryNotFound
		err := api.WrapKind("api.delete_entry", api.ErrNotFound, cause)
		So(err.Error(), ShouldEqual, "api.delete_entry: not found: hobbylog: entry not found")
		So(errors.Is(err, api.ErrNotFound), ShouldBeTrue)
		So(errors.Is(err, cause), ShouldBeTrue)

		So(api.NewKind("op", api.ErrBackpressure).Error(), ShouldEqual, "op: backpressure")
		So(api.Wrap("op", nil), ShouldBeNil)
		So(errors.Is(api.Wrap("op", cause), cause), ShouldBeTrue)
	})
}
