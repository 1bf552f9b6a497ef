package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/okian/hobbyseeds/internal/adapters/http/api"
	"github.com/okian/hobbyseeds/internal/adapters/logstore"
	service "github.com/okian/hobbyseeds/internal/app"
	"github.com/okian/hobbyseeds/internal/domain/model"
	"github.com/okian/hobbyseeds/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

var _ api.Dependencies = (*service.Service)(nil)

type logBody struct {
	Log     model.HobbyLog   `json:"log"`
	Summary types.LogSummary `json:"summary"`
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	return w
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service persisting to sqlite behind the HTTP API", t, func() {
		ctx := context.Background()
		storeCfg := logstore.Config{
			Backend:    logstore.BackendSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "hobbyseeds.db"),
		}
		svc := newService(service.WithStoreConfig(storeCfg))
		So(svc.Start(ctx), ShouldBeNil)
		h := api.NewServer(svc).Router()

		Convey("When three great attempts are logged", func() {
			for range 3 {
				So(post(h, "/log/entries", `{"hobbyId":1,"rating":"great"}`).Code, ShouldEqual, http.StatusCreated)
			}

			Convey("Then the summary reports the unlock", func() {
				var body logBody
				w := get(h, "/log")
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Summary.Total, ShouldEqual, 3)
				So(body.Summary.GreatCount, ShouldEqual, 3)
				So(body.Summary.Unlocked, ShouldBeTrue)
				So(body.Summary.RemainingToUnlock, ShouldEqual, 0)
			})

			Convey("And the step-up list is ranked", func() {
				var rec types.StepUpRecommendations
				w := get(h, "/stepups")
				So(json.Unmarshal(w.Body.Bytes(), &rec), ShouldBeNil)
				So(rec.Recommendations, ShouldHaveLength, 2)
				So(rec.Recommendations[0].Hobby.Name, ShouldEqual, "camping")
				So(rec.Recommendations[0].MatchScore, ShouldEqual, 67)
			})

			Convey("And the log survives a restart", func() {
				So(svc.Stop(ctx), ShouldBeNil)

				restarted := newService(service.WithStoreConfig(storeCfg))
				So(restarted.Start(ctx), ShouldBeNil)
				defer func() { _ = restarted.Stop(ctx) }()

				l := restarted.Log(ctx)
				So(l.Entries, ShouldHaveLength, 3)
				So(l.GreatCount, ShouldEqual, 3)
				So(l.TopTags, ShouldResemble, []string{"nature", "relax", "observe"})
			})
		})

		Convey("When the same tap is sent concurrently", func() {
			var wg sync.WaitGroup
			codes := make(chan int, 10)
			for range 10 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					codes <- post(h, "/log/entries", `{"hobbyId":5,"rating":"good","requestId":"double-tap"}`).Code
				}()
			}
			wg.Wait()
			close(codes)

			Convey("Then exactly one entry is written", func() {
				created := 0
				for code := range codes {
					if code == http.StatusCreated {
						created++
					} else {
						So(code, ShouldEqual, http.StatusOK)
					}
				}
				So(created, ShouldEqual, 1)
				So(svc.Log(ctx).Entries, ShouldHaveLength, 1)
			})
		})

		Convey("When concurrent appends race", func() {
			var wg sync.WaitGroup
			for i := range 20 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					rating := model.RatingGood
					if i%2 == 0 {
						rating = model.RatingGreat
					}
					_ = post(h, "/log/entries", `{"hobbyId":1,"rating":"`+string(rating)+`"}`)
				}()
			}
			wg.Wait()

			Convey("Then no update is lost", func() {
				l := svc.Log(ctx)
				So(l.Entries, ShouldHaveLength, 20)
				So(l.GreatCount, ShouldEqual, 10)
			})
		})

		Reset(func() { _ = svc.Stop(ctx) })
	})
}
