package archive_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/lineupdesk/internal/adapters/archive"
	"github.com/okian/lineupdesk/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func lineup() model.Lineup {
	return model.Lineup{
		{Name: "Aaron Judge", Team: "NYY", Position: model.Position{Primary: "OF"}, Salary: 6200, Points: 12.5},
		{Name: "Gerrit Cole", Team: "NYY", Position: model.Position{Primary: "SP"}, Salary: 9800, Points: 20.25},
	}
}

func openMemory(t *testing.T) *archive.Archive {
	t.Helper()
	a, err := archive.Open(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestArchive(t *testing.T) {
	Convey("Given an empty in-memory archive", t, func() {
		ctx := context.Background()
		a := openMemory(t)

		Convey("When a lineup is saved", func() {
			rec, err := a.Save(ctx, archive.Record{SessionID: "s1", Label: "cash", Sport: "MLB", Lineup: lineup()})

			Convey("Then it is assigned an id and derived totals", func() {
				So(err, ShouldBeNil)
				So(rec.ID, ShouldNotBeEmpty)
				So(rec.Salary, ShouldEqual, 16000)
				So(rec.Points, ShouldEqual, 32.75)
				So(rec.Players, ShouldEqual, 2)
				So(rec.CreatedAt.IsZero(), ShouldBeFalse)
			})

			Convey("Then it can be read back with its players", func() {
				got, err := a.Get(ctx, rec.ID)
				So(err, ShouldBeNil)
				So(got.SessionID, ShouldEqual, "s1")
				So(got.Label, ShouldEqual, "cash")
				So(got.Lineup, ShouldHaveLength, 2)
				So(got.Lineup[1].Name, ShouldEqual, "Gerrit Cole")
				So(got.Lineup[1].Points, ShouldEqual, 20.25)
				So(got.CreatedAt.Equal(rec.CreatedAt), ShouldBeTrue)
			})

			Convey("Then it is listed without its players", func() {
				list, err := a.List(ctx, 10)
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 1)
				So(list[0].ID, ShouldEqual, rec.ID)
				So(list[0].Lineup, ShouldBeEmpty)
			})
		})

		Convey("When several lineups are saved", func() {
			for _, label := range []string{"a", "b", "c"} {
				_, err := a.Save(ctx, archive.Record{Label: label, Lineup: lineup()})
				So(err, ShouldBeNil)
			}

			Convey("Then List honours the limit", func() {
				list, err := a.List(ctx, 2)
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 2)
			})
		})

		Convey("Then an unknown id is not found", func() {
			_, err := a.Get(ctx, "missing")
			So(errors.Is(err, archive.ErrNotFound), ShouldBeTrue)
		})

		Convey("Then an empty lineup is rejected", func() {
			_, err := a.Save(ctx, archive.Record{})
			So(errors.Is(err, archive.ErrEmptyLineup), ShouldBeTrue)
		})

		Convey("Then out of range limits are rejected", func() {
			_, err := a.List(ctx, 0)
			So(errors.Is(err, archive.ErrInvalidLimit), ShouldBeTrue)
			_, err = a.List(ctx, archive.MaxListLimit+1)
			So(errors.Is(err, archive.ErrInvalidLimit), ShouldBeTrue)
		})

		Convey("Then creating the schema again is harmless", func() {
			So(a.CreateSchema(ctx), ShouldBeNil)
		})
	})

	Convey("Given an unknown driver", t, func() {
		_, err := archive.Open(context.Background(), "oracle", "dsn")
		So(errors.Is(err, archive.ErrUnsupportedDriver), ShouldBeTrue)
	})
}
