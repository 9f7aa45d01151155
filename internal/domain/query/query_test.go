package query_test

import (
	"testing"

	"github.com/okian/lineupdesk/internal/domain/model"
	"github.com/okian/lineupdesk/internal/domain/query"
	. "github.com/smartystreets/goconvey/convey"
)

func samplePool() model.Pool {
	return model.Pool{
		{Name: "Shohei Ohtani", Team: "LAD", Position: model.Position{Primary: "P", Eligible: "P/OF"}, Salary: 6500, Points: 14},
		{Name: "Mookie Betts", Team: "LAD", Position: model.Position{Primary: "SS", Eligible: "2B/SS"}, Salary: 5600, Points: 10},
		{Name: "Aaron Judge", Team: "NYY", Position: model.Position{Primary: "OF"}, Salary: 6200, Points: 12},
		{Name: "Juan Soto", Team: "NYM", Position: model.Position{Primary: "OF"}, Salary: 5900, Points: 11},
		{Name: "Gerrit Cole", Team: "NYY", Position: model.Position{Primary: "P"}, Salary: 9000, Points: 18},
	}
}

func names(players []model.PlayerRecord) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}

func TestFilter(t *testing.T) {
	Convey("Given a player pool", t, func() {
		pool := samplePool()

		Convey("When no predicate is set", func() {
			got := query.Filter(pool, query.Criteria{})

			Convey("Then every player is returned in pool order", func() {
				So(names(got), ShouldResemble, names(pool))
			})
		})

		Convey("When searching case-insensitively", func() {
			Convey("Then names match", func() {
				So(names(query.Filter(pool, query.Criteria{Search: "JUDGE"})), ShouldResemble, []string{"Aaron Judge"})
			})
			Convey("Then teams match", func() {
				So(names(query.Filter(pool, query.Criteria{Search: "ny"})), ShouldResemble,
					[]string{"Aaron Judge", "Juan Soto", "Gerrit Cole"})
			})
		})

		Convey("When the search matches nobody", func() {
			got := query.Filter(pool, query.Criteria{Search: "zzz"})
			page := query.Paginate(got, 1, 50)

			Convey("Then the page is empty without error", func() {
				So(got, ShouldBeEmpty)
				So(page.Items, ShouldBeEmpty)
				So(page.Total, ShouldEqual, 0)
				So(page.TotalPages, ShouldEqual, 1)
			})
		})

		Convey("When filtering by position", func() {
			Convey("Then the primary slot and eligibility slots both count", func() {
				So(names(query.Filter(pool, query.Criteria{Position: "OF"})), ShouldResemble,
					[]string{"Shohei Ohtani", "Aaron Judge", "Juan Soto"})
				So(names(query.Filter(pool, query.Criteria{Position: "2b"})), ShouldResemble, []string{"Mookie Betts"})
			})
			Convey("Then All disables the predicate", func() {
				So(query.Filter(pool, query.Criteria{Position: query.AnyValue}), ShouldHaveLength, 5)
			})
		})

		Convey("When combining team and position", func() {
			got := query.Filter(pool, query.Criteria{Team: "nyy", Position: "P"})

			Convey("Then both predicates apply", func() {
				So(names(got), ShouldResemble, []string{"Gerrit Cole"})
			})
		})

		Convey("When an explicit sort is requested", func() {
			Convey("Then salary descending is honoured", func() {
				got := query.Filter(pool, query.Criteria{Sort: query.SortSalary, Desc: true})
				So(names(got), ShouldResemble,
					[]string{"Gerrit Cole", "Shohei Ohtani", "Aaron Judge", "Juan Soto", "Mookie Betts"})
			})
			Convey("Then ties keep pool order", func() {
				got := query.Filter(pool, query.Criteria{Sort: query.SortTeam})
				So(names(got), ShouldResemble,
					[]string{"Shohei Ohtani", "Mookie Betts", "Juan Soto", "Aaron Judge", "Gerrit Cole"})
			})
			Convey("Then an unknown key falls back to pool order", func() {
				got := query.Filter(pool, query.Criteria{Sort: "bogus"})
				So(names(got), ShouldResemble, names(pool))
			})
		})

		Convey("When filtering", func() {
			before := names(pool)
			_ = query.Filter(pool, query.Criteria{Search: "o", Sort: query.SortPoints})

			Convey("Then the source pool is untouched", func() {
				So(names(pool), ShouldResemble, before)
			})
		})
	})
}

func TestPaginate(t *testing.T) {
	Convey("Given seven players and a page size of three", t, func() {
		var players []model.PlayerRecord
		for _, n := range []string{"a", "b", "c", "d", "e", "f", "g"} {
			players = append(players, model.PlayerRecord{Name: n})
		}

		Convey("Then pages slice in order", func() {
			So(names(query.Paginate(players, 1, 3).Items), ShouldResemble, []string{"a", "b", "c"})
			So(names(query.Paginate(players, 3, 3).Items), ShouldResemble, []string{"g"})
			So(query.Paginate(players, 2, 3).TotalPages, ShouldEqual, 3)
		})

		Convey("Then out-of-range pages are empty", func() {
			So(query.Paginate(players, 4, 3).Items, ShouldBeEmpty)
			So(query.Paginate(players, 0, 3).Items, ShouldBeEmpty)
			So(query.Paginate(players, 1, 0).Items, ShouldBeEmpty)
		})

		Convey("Then ClampPage bounds the index", func() {
			So(query.ClampPage(0, 7, 3), ShouldEqual, 1)
			So(query.ClampPage(9, 7, 3), ShouldEqual, 3)
			So(query.ClampPage(2, 7, 3), ShouldEqual, 2)
			So(query.ClampPage(5, 0, 3), ShouldEqual, 1)
		})
	})
}

func TestVocabulary(t *testing.T) {
	Convey("Given a pool", t, func() {
		Convey("Then Teams lists distinct teams in first-seen order", func() {
			So(query.Teams(samplePool()), ShouldResemble, []string{"LAD", "NYY", "NYM"})
		})
	})

	Convey("Given a sport", t, func() {
		Convey("Then Positions leads with All", func() {
			So(query.Positions("nba"), ShouldResemble, []string{"All", "PG", "SG", "SF", "PF", "C"})
			So(query.Positions("cricket"), ShouldResemble, []string{"All"})
		})
	})
}
