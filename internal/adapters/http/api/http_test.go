package api_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/okian/realm/internal/adapters/http/api"
	service "github.com/okian/realm/internal/app"
	"github.com/okian/realm/internal/domain/history"
	"github.com/okian/realm/internal/domain/model"
	"github.com/okian/realm/internal/domain/realm"
	"github.com/okian/realm/internal/domain/recommend"
	"github.com/okian/realm/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDependencies applies actions with the real reducer, without a queue.
type mockDependencies struct {
	state    realm.State
	seen     map[string]bool
	failWith error
	nextID   int
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{state: realm.New(nil), seen: map[string]bool{}}
}

func (m *mockDependencies) apply(a realm.Action) (realm.State, error) {
	if m.failWith != nil {
		return m.state, m.failWith
	}
	next, err := realm.Reduce(m.state, a)
	if err != nil {
		return m.state, err
	}
	m.state = next
	return next, nil
}

func (m *mockDependencies) SetScoreText(_ context.Context, dim, raw string) (realm.State, error) {
	d, err := model.ParseDimension(dim)
	if err != nil {
		return m.state, err
	}
	v, err := model.ParseScore(raw)
	if err != nil {
		return m.state, err
	}
	return m.apply(realm.SetScore{Dimension: d, Value: v})
}

func (m *mockDependencies) SaveSnapshot(_ context.Context, requestID string) (model.Snapshot, bool, error) {
	if requestID != "" && m.seen[requestID] {
		return model.Snapshot{}, true, nil
	}
	st, err := m.apply(realm.SaveSnapshot{Date: "3/5/2024"})
	if err != nil {
		return model.Snapshot{}, false, err
	}
	m.seen[requestID] = true
	return st.History[len(st.History)-1], false, nil
}

func (m *mockDependencies) AddOpportunity(_ context.Context, requestID string, d model.Draft) (model.Opportunity, bool, error) {
	if requestID != "" && m.seen[requestID] {
		return model.Opportunity{}, true, nil
	}
	m.nextID++
	st, err := m.apply(realm.AddOpportunity{ID: fmt.Sprintf("opp-%d", m.nextID), Draft: d})
	if err != nil {
		return model.Opportunity{}, false, err
	}
	m.seen[requestID] = true
	return st.Opportunities[len(st.Opportunities)-1], false, nil
}

func (m *mockDependencies) History() []model.Snapshot { return m.state.History }
func (m *mockDependencies) Summary() history.Summary  { return history.Summarize(m.state.History) }
func (m *mockDependencies) View() types.StateView     { return types.View(m.state) }

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any {
	return m.stats
}

func serve(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func newMux(deps *mockDependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, &mockStatsProvider{stats: map[string]any{"started": true}}).Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(newMockDependencies())

		Convey("Then the health endpoint serves metrics", func() {
			w := serve(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then the stats endpoint serves JSON", func() {
			w := serve(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Then the state endpoint returns the initial state", func() {
			w := serve(mux, http.MethodGet, "/api/state", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var view types.StateView
			So(json.Unmarshal(w.Body.Bytes(), &view), ShouldBeNil)
			So(view.Scores, ShouldResemble, model.NewScoreSet())
			So(view.Chart, ShouldHaveLength, 5)
			So(view.Recommendations, ShouldBeEmpty)
		})

		Convey("Then the wrong method is refused", func() {
			w := serve(mux, http.MethodDelete, "/api/state", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestScoresHandler(t *testing.T) {
	Convey("Given a scores handler", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When a score arrives as slider text", func() {
			w := serve(mux, http.MethodPut, "/api/scores/R", `{"value":"30"}`)

			Convey("Then the new state comes back with a recommendation", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var view types.StateView
				So(json.Unmarshal(w.Body.Bytes(), &view), ShouldBeNil)
				So(view.Scores.R, ShouldEqual, 30)
				So(view.Recommendations, ShouldResemble, []string{recommend.Advice(model.Rhythm)})
			})
		})

		Convey("When a score arrives as a number", func() {
			w := serve(mux, http.MethodPut, "/api/scores/m", `{"value":88}`)

			Convey("Then it is applied", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.state.Scores.M, ShouldEqual, 88)
			})
		})

		Convey("When the value is out of range", func() {
			w := serve(mux, http.MethodPut, "/api/scores/E", `{"value":"101"}`)

			Convey("Then it is a bad request and the state is unchanged", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, `"code":"bad_request"`)
				So(deps.state.Scores.E, ShouldEqual, model.InitialScore)
			})
		})

		Convey("When the value is missing", func() {
			w := serve(mux, http.MethodPut, "/api/scores/E", `{}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the body is not JSON", func() {
			w := serve(mux, http.MethodPut, "/api/scores/E", `nope`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the dimension is unknown", func() {
			w := serve(mux, http.MethodPut, "/api/scores/X", `{"value":"10"}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the method is not PUT", func() {
			w := serve(mux, http.MethodGet, "/api/scores/R", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("When the dispatcher is saturated", func() {
			deps.failWith = service.ErrBackpressure
			w := serve(mux, http.MethodPut, "/api/scores/R", `{"value":"10"}`)
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
		})
	})
}

func TestSnapshotsHandler(t *testing.T) {
	Convey("Given a snapshots handler", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When a snapshot is posted without a body", func() {
			w := serve(mux, http.MethodPost, "/api/snapshots", "")

			Convey("Then it is created", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var snap model.Snapshot
				So(json.Unmarshal(w.Body.Bytes(), &snap), ShouldBeNil)
				So(snap.Date, ShouldEqual, "3/5/2024")
				So(snap.Scores, ShouldResemble, model.NewScoreSet())
			})

			Convey("And the history lists it", func() {
				w := serve(mux, http.MethodGet, "/api/history", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				var hist []model.Snapshot
				So(json.Unmarshal(w.Body.Bytes(), &hist), ShouldBeNil)
				So(hist, ShouldHaveLength, 1)
			})

			Convey("And the summary counts it", func() {
				w := serve(mux, http.MethodGet, "/api/history/summary", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				var sum history.Summary
				So(json.Unmarshal(w.Body.Bytes(), &sum), ShouldBeNil)
				So(sum.Count, ShouldEqual, 1)
				So(sum.Dimensions, ShouldHaveLength, 5)
			})
		})

		Convey("When a request id is replayed", func() {
			first := serve(mux, http.MethodPost, "/api/snapshots", `{"request_id":"abc"}`)
			second := serve(mux, http.MethodPost, "/api/snapshots", `{"request_id":"abc"}`)

			Convey("Then the replay is acknowledged as a duplicate", func() {
				So(first.Code, ShouldEqual, http.StatusCreated)
				So(second.Code, ShouldEqual, http.StatusOK)
				So(second.Body.String(), ShouldContainSubstring, `"duplicate":true`)
				So(deps.state.History, ShouldHaveLength, 1)
			})
		})

		Convey("When the body is malformed", func() {
			w := serve(mux, http.MethodPost, "/api/snapshots", `{"request_id":`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the service is not running", func() {
			deps.failWith = service.ErrNotStarted
			w := serve(mux, http.MethodPost, "/api/snapshots", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When the caller gives up after the snapshot was queued", func() {
			deps.failWith = fmt.Errorf("%w: %w", service.ErrPending, context.DeadlineExceeded)
			w := serve(mux, http.MethodPost, "/api/snapshots", `{"request_id":"slow"}`)
			So(w.Code, ShouldEqual, http.StatusGatewayTimeout)
			So(w.Body.String(), ShouldContainSubstring, `"pending"`)
		})
	})
}

func TestOpportunitiesHandler(t *testing.T) {
	Convey("Given an opportunities handler", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When an idea body exceeds the size limit", func() {
			huge := `{"idea":"` + strings.Repeat("x", 64<<10) + `","impact":8}`
			w := serve(mux, http.MethodPost, "/api/opportunities", huge)

			Convey("Then it is refused before reaching the service", func() {
				So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
				So(w.Body.String(), ShouldContainSubstring, "too_large")
				So(deps.state.Opportunities, ShouldBeEmpty)
			})
		})

		Convey("When a snapshot body exceeds the size limit", func() {
			w := serve(mux, http.MethodPost, "/api/snapshots", `{"request_id":"`+strings.Repeat("r", 64<<10)+`"}`)
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			So(deps.state.History, ShouldBeEmpty)
		})

		Convey("When two ideas are posted", func() {
			a := serve(mux, http.MethodPost, "/api/opportunities", `{"idea":"Y","impact":3,"novelty":9,"alignment":9}`)
			b := serve(mux, http.MethodPost, "/api/opportunities", `{"idea":"X","impact":8,"novelty":6,"alignment":4}`)

			Convey("Then both are created with their scores", func() {
				So(a.Code, ShouldEqual, http.StatusCreated)
				So(b.Code, ShouldEqual, http.StatusCreated)
				var opp model.Opportunity
				So(json.Unmarshal(b.Body.Bytes(), &opp), ShouldBeNil)
				So(opp.Score, ShouldAlmostEqual, 6.6, 1e-9)
			})

			Convey("Then the list comes back ranked", func() {
				w := serve(mux, http.MethodGet, "/api/opportunities", "")
				var opps []model.Opportunity
				So(json.Unmarshal(w.Body.Bytes(), &opps), ShouldBeNil)
				So(opps[0].Idea, ShouldEqual, "X")
				So(opps[1].Idea, ShouldEqual, "Y")
				So(deps.state.Opportunities[0].Idea, ShouldEqual, "Y")
			})
		})

		Convey("When ratings are omitted", func() {
			w := serve(mux, http.MethodPost, "/api/opportunities", `{"idea":"defaults"}`)

			Convey("Then they default to five", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var opp model.Opportunity
				So(json.Unmarshal(w.Body.Bytes(), &opp), ShouldBeNil)
				So(opp.Score, ShouldAlmostEqual, 5.0, 1e-9)
			})
		})

		Convey("When a rating is out of range", func() {
			w := serve(mux, http.MethodPost, "/api/opportunities", `{"idea":"big","impact":12}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a request id is replayed", func() {
			serve(mux, http.MethodPost, "/api/opportunities", `{"request_id":"r1","idea":"once"}`)
			w := serve(mux, http.MethodPost, "/api/opportunities", `{"request_id":"r1","idea":"once"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.state.Opportunities, ShouldHaveLength, 1)
		})

		Convey("When the method is unsupported", func() {
			w := serve(mux, http.MethodPatch, "/api/opportunities", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Header().Values("Allow"), ShouldResemble, []string{http.MethodGet, http.MethodPost})
		})
	})
}

func TestRecommendationsHandler(t *testing.T) {
	Convey("Given scores from the worked example", t, func() {
		deps := newMockDependencies()
		deps.state.Scores = model.ScoreSet{R: 30, E: 50, A: 50, L: 35, M: 80}
		mux := newMux(deps)

		Convey("Then the R and L sentences come back in order", func() {
			w := serve(mux, http.MethodGet, "/api/recommendations", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var recs []string
			So(json.Unmarshal(w.Body.Bytes(), &recs), ShouldBeNil)
			So(recs, ShouldResemble, []string{
				"Increase brand rhythm: revisit strategy more often, scan cultural signals.",
				"Improve literacy: simplify messages, make brand easier to grasp.",
			})
		})
	})
}

func TestChartHandler(t *testing.T) {
	Convey("Given a chart handler", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When the chart is requested", func() {
			w := serve(mux, http.MethodGet, "/api/chart.svg", "")

			Convey("Then an SVG of the current scores comes back", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "image/svg+xml")
				So(w.Body.String(), ShouldContainSubstring, "<svg")
				So(w.Body.String(), ShouldContainSubstring, "R 50")
			})
		})

		Convey("When scores are overridden in the query", func() {
			w := serve(mux, http.MethodGet, "/api/chart.svg?R=12&labels=full", "")

			Convey("Then the override is drawn but not stored", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "Rhythm 12")
				So(deps.state.Scores.R, ShouldEqual, model.InitialScore)
			})
		})

		Convey("When an override is invalid", func() {
			w := serve(mux, http.MethodGet, "/api/chart.svg?E=abc", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		h := api.NewStatsHandler(&mockStatsProvider{stats: map[string]any{"snapshots": 3}})

		Convey("When handling a GET request", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", http.NoBody)
			w := httptest.NewRecorder()
			h.HandleStats(w, req)

			Convey("Then it should return the stats", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"snapshots":3`)
			})
		})

		Convey("When handling a POST request", func() {
			req := httptest.NewRequest(http.MethodPost, "/stats", http.NoBody)
			w := httptest.NewRecorder()
			h.HandleStats(w, req)

			Convey("Then it should reject the method", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldEqual, http.MethodGet)
			})
		})
	})
}
