package results_test

import (
	"testing"

	"github.com/okian/lineupdesk/internal/domain/model"
	"github.com/okian/lineupdesk/internal/domain/results"
	. "github.com/smartystreets/goconvey/convey"
)

func lineup(salary int, points float64, names ...string) model.Lineup {
	var l model.Lineup
	for _, n := range names {
		l = append(l, model.PlayerRecord{Name: n, Salary: salary, Points: points})
	}
	return l
}

func threeLineups() []model.Lineup {
	return []model.Lineup{
		lineup(5000, 10, "a", "b"),
		lineup(6000, 8, "c", "d"),
		lineup(4000, 12, "e", "f"),
	}
}

func TestCursor(t *testing.T) {
	Convey("Given an empty set", t, func() {
		var s results.Set

		Convey("Then there is no current lineup and navigation is a no-op", func() {
			_, ok := s.Current()
			So(ok, ShouldBeFalse)
			So(s.Next(), ShouldBeFalse)
			So(s.Previous(), ShouldBeFalse)
			So(s.Select(0), ShouldBeFalse)
		})
	})

	Convey("Given three installed lineups", t, func() {
		var s results.Set
		s.Install(threeLineups())

		Convey("Then the cursor starts at the first", func() {
			v, ok := s.Current()
			So(ok, ShouldBeTrue)
			So(v.Index, ShouldEqual, 0)
			So(v.Total, ShouldEqual, 3)
			So(v.HasPrev, ShouldBeFalse)
			So(v.HasNext, ShouldBeTrue)
		})

		Convey("When next is pressed three times", func() {
			s.Next()
			s.Next()
			moved := s.Next()

			Convey("Then the cursor rests on the last lineup", func() {
				So(moved, ShouldBeFalse)
				So(s.Cursor(), ShouldEqual, 2)
				v, _ := s.Current()
				So(v.HasNext, ShouldBeFalse)
			})

			Convey("Then a fourth next changes nothing", func() {
				So(s.Next(), ShouldBeFalse)
				So(s.Cursor(), ShouldEqual, 2)
			})
		})

		Convey("When previous is pressed at the first lineup", func() {
			Convey("Then it is a no-op", func() {
				So(s.Previous(), ShouldBeFalse)
				So(s.Cursor(), ShouldEqual, 0)
			})
		})

		Convey("When selecting directly", func() {
			So(s.Select(1), ShouldBeTrue)
			So(s.Select(3), ShouldBeFalse)
			So(s.Select(-1), ShouldBeFalse)

			Convey("Then only the valid index sticks", func() {
				So(s.Cursor(), ShouldEqual, 1)
			})
		})

		Convey("When a new batch is installed", func() {
			s.Select(2)
			s.Install([]model.Lineup{lineup(1, 1, "z")})

			Convey("Then it replaces the old one and resets the cursor", func() {
				v, _ := s.Current()
				So(v.Index, ShouldEqual, 0)
				So(v.Total, ShouldEqual, 1)
				So(v.Lineup[0].Name, ShouldEqual, "z")
			})
		})

		Convey("When an empty batch is installed", func() {
			s.Install(nil)

			Convey("Then nothing is selected", func() {
				_, ok := s.Current()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the current view is modified", func() {
			v, _ := s.Current()
			v.Lineup[0].Name = "mutated"

			Convey("Then the set keeps its own copy", func() {
				l, _ := s.Lineup(0)
				So(l[0].Name, ShouldEqual, "a")
			})
		})
	})
}

func TestCurrentTotals(t *testing.T) {
	Convey("Given a lineup", t, func() {
		var s results.Set
		s.Install(threeLineups())
		v, _ := s.Current()

		Convey("Then salary and points are summed from its players", func() {
			So(v.Salary, ShouldEqual, 10000)
			So(v.Points, ShouldEqual, 20)
		})
	})
}

func TestSummaries(t *testing.T) {
	Convey("Given three lineups", t, func() {
		var s results.Set
		s.Install(threeLineups())

		indexes := func(sum []results.Summary) []int {
			out := make([]int, len(sum))
			for i, x := range sum {
				out[i] = x.Index
			}
			return out
		}

		Convey("Then they order by points, salary or value", func() {
			So(indexes(s.Summaries("Points")), ShouldResemble, []int{2, 0, 1})
			So(indexes(s.Summaries("Salary")), ShouldResemble, []int{1, 0, 2})
			So(indexes(s.Summaries("Value")), ShouldResemble, []int{2, 0, 1})
		})

		Convey("Then an unknown method keeps backend order", func() {
			So(indexes(s.Summaries("")), ShouldResemble, []int{0, 1, 2})
		})

		Convey("Then sorting never moves the cursor", func() {
			s.Summaries("Salary")
			So(s.Cursor(), ShouldEqual, 0)
		})
	})
}
