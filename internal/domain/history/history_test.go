package history_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/realm/internal/domain/history"
	"github.com/okian/realm/internal/domain/model"
	"github.com/okian/realm/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type mapStore struct {
	data   map[string]string
	getErr error
	setErr error
}

func (m *mapStore) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapStore) Set(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.data == nil {
		m.data = map[string]string{}
	}
	m.data[key] = value
	return nil
}

func TestLoad(t *testing.T) {
	Convey("Given a key-value store", t, func() {
		ctx := context.Background()
		log := logger.Get()
		store := &mapStore{data: map[string]string{}}

		Convey("When nothing was ever saved", func() {
			snaps := history.Load(ctx, store, history.DefaultKey, log)

			Convey("Then the log is empty", func() {
				So(snaps, ShouldNotBeNil)
				So(snaps, ShouldBeEmpty)
			})
		})

		Convey("When the stored text is corrupt", func() {
			store.data[history.DefaultKey] = `[{"date":`
			snaps := history.Load(ctx, store, history.DefaultKey, log)

			Convey("Then the log is empty instead of failing", func() {
				So(snaps, ShouldBeEmpty)
			})
		})

		Convey("When the stored text has the wrong shape", func() {
			store.data[history.DefaultKey] = `{"date":"1/1/2026"}`
			So(history.Load(ctx, store, history.DefaultKey, nil), ShouldBeEmpty)
		})

		Convey("When the stored text is a JSON null", func() {
			store.data[history.DefaultKey] = `null`
			snaps := history.Load(ctx, store, history.DefaultKey, log)
			So(snaps, ShouldNotBeNil)
			So(snaps, ShouldBeEmpty)
		})

		Convey("When the store cannot be read", func() {
			store.getErr = errors.New("disk gone")
			So(history.Load(ctx, store, history.DefaultKey, log), ShouldBeEmpty)
		})

		Convey("When a snapshot is persisted and reloaded", func() {
			saved := model.Snapshot{Date: "10/19/2026", Scores: model.ScoreSet{R: 30, E: 50, A: 50, L: 35, M: 80}}
			earlier := model.Snapshot{Date: "10/18/2026", Scores: model.NewScoreSet()}
			err := history.Persist(ctx, store, history.DefaultKey, []model.Snapshot{earlier, saved})
			So(err, ShouldBeNil)

			snaps := history.Load(ctx, store, history.DefaultKey, log)

			Convey("Then the last element equals the saved snapshot", func() {
				So(len(snaps), ShouldEqual, 2)
				So(snaps[len(snaps)-1], ShouldResemble, saved)
			})

			Convey("And the text uses the documented shape", func() {
				So(store.data[history.DefaultKey], ShouldContainSubstring, `"date":"10/19/2026"`)
				So(store.data[history.DefaultKey], ShouldContainSubstring, `"scores":{"R":30,"E":50,"A":50,"L":35,"M":80}`)
			})
		})

		Convey("When the store rejects the write", func() {
			store.setErr = errors.New("read-only")
			err := history.Persist(ctx, store, history.DefaultKey, nil)

			Convey("Then a persist error is returned", func() {
				So(errors.Is(err, history.ErrPersist), ShouldBeTrue)
			})
		})
	})
}

func TestEncode(t *testing.T) {
	Convey("Given an empty log", t, func() {
		text, err := history.Encode(nil)

		Convey("Then it encodes as an empty array", func() {
			So(err, ShouldBeNil)
			So(text, ShouldEqual, "[]")
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given a snapshot log", t, func() {
		Convey("When it is empty", func() {
			sum := history.Summarize(nil)
			So(sum.Count, ShouldEqual, 0)
			So(sum.Dimensions, ShouldBeEmpty)
		})

		Convey("When it has one snapshot", func() {
			sum := history.Summarize([]model.Snapshot{{Date: "1/1/2026", Scores: model.NewScoreSet()}})

			Convey("Then spread is zero", func() {
				So(sum.Count, ShouldEqual, 1)
				So(len(sum.Dimensions), ShouldEqual, 5)
				So(sum.Dimensions[0].Mean, ShouldEqual, 50)
				So(sum.Dimensions[0].StdDev, ShouldEqual, 0)
				So(sum.Dimensions[0].Delta, ShouldEqual, 0)
			})
		})

		Convey("When it has several snapshots", func() {
			snaps := []model.Snapshot{
				{Date: "1/1/2026", Scores: model.ScoreSet{R: 20, E: 50, A: 50, L: 50, M: 50}},
				{Date: "2/1/2026", Scores: model.ScoreSet{R: 40, E: 50, A: 50, L: 50, M: 50}},
				{Date: "3/1/2026", Scores: model.ScoreSet{R: 60, E: 50, A: 50, L: 50, M: 10}},
			}
			sum := history.Summarize(snaps)

			Convey("Then each dimension is aggregated in order", func() {
				So(sum.First, ShouldEqual, "1/1/2026")
				So(sum.Latest, ShouldEqual, "3/1/2026")
				r := sum.Dimensions[0]
				So(r.Dimension, ShouldEqual, model.Rhythm)
				So(r.Mean, ShouldAlmostEqual, 40, 1e-9)
				So(r.StdDev, ShouldAlmostEqual, 20, 1e-9)
				So(r.Min, ShouldEqual, 20)
				So(r.Max, ShouldEqual, 60)
				So(r.Delta, ShouldEqual, 40)
				m := sum.Dimensions[4]
				So(m.Delta, ShouldEqual, -40)
			})
		})
	})
}
