package ingest_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/okian/lineupdesk/internal/domain/ingest"
	"github.com/smartystreets/goconvey/convey"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestParse_Basics(t *testing.T) {
	convey.Convey("Given a file with a quoted name containing the delimiter", t, func() {
		res, err := ingest.Parse([]byte("Name,Salary,Predicted_DK_Points\n\"O'Neill, Tyler\",5000,12.5\n"))

		convey.Convey("Then it ingests one typed record", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.Players, convey.ShouldHaveLength, 1)
			convey.So(res.Players[0].Name, convey.ShouldEqual, "O'Neill, Tyler")
			convey.So(res.Players[0].Salary, convey.ShouldEqual, 5000)
			convey.So(res.Players[0].Points, convey.ShouldEqual, 12.5)
			convey.So(res.Skipped, convey.ShouldEqual, 0)
		})
	})

	convey.Convey("Given N well-formed rows", t, func() {
		var b strings.Builder
		b.WriteString("Name,Team,position,Salary,Predicted_DK_Points\n")
		for i := 0; i < 25; i++ {
			fmt.Fprintf(&b, "Player %02d,T%d,OF,%d,%d.5\n", i, i%4, 3000+i*100, i)
		}
		b.WriteString("\n")

		res, err := ingest.Parse([]byte(b.String()))

		convey.Convey("Then exactly N records come back in row order", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.Players, convey.ShouldHaveLength, 25)
			for i, p := range res.Players {
				convey.So(p.Name, convey.ShouldEqual, fmt.Sprintf("Player %02d", i))
				convey.So(p.Salary, convey.ShouldEqual, 3000+i*100)
			}
		})
	})

	convey.Convey("Given empty input", t, func() {
		res, err := ingest.Parse(nil)

		convey.Convey("Then the pool is empty and no error is returned", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.Players, convey.ShouldBeEmpty)
		})
	})

	convey.Convey("Given a header only", t, func() {
		res, err := ingest.Parse([]byte("Name,Salary\n"))

		convey.Convey("Then the pool is empty and the header is kept", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.Players, convey.ShouldBeEmpty)
			convey.So(res.Header, convey.ShouldResemble, []string{"Name", "Salary"})
		})
	})
}

func TestParse_Tolerance(t *testing.T) {
	convey.Convey("Given headers wrapped in stray quotes and whitespace", t, func() {
		res, err := ingest.Parse([]byte("\ufeff \"Name\" ,\"Salary\",'Team'\r\nAaron Judge,6200,NYY\r\n"))

		convey.Convey("Then the headers are recognised", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.Players, convey.ShouldHaveLength, 1)
			convey.So(res.Players[0].Name, convey.ShouldEqual, "Aaron Judge")
			convey.So(res.Players[0].Salary, convey.ShouldEqual, 6200)
			convey.So(res.Players[0].Team, convey.ShouldEqual, "NYY")
		})
	})

	convey.Convey("Given whitespace-only and empty-name rows", t, func() {
		res, err := ingest.Parse([]byte("Name,Salary\nA,1000\n   \n,2000\nB,3000\n\n"))

		convey.Convey("Then blank rows are skipped silently and nameless rows are dropped with a warning", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.Players, convey.ShouldHaveLength, 2)
			convey.So(res.Players[0].Name, convey.ShouldEqual, "A")
			convey.So(res.Players[1].Name, convey.ShouldEqual, "B")
			convey.So(res.Skipped, convey.ShouldEqual, 1)
			convey.So(res.Warnings, convey.ShouldHaveLength, 1)
			convey.So(res.Warnings[0].Line, convey.ShouldEqual, 4)
		})
	})

	convey.Convey("Given unparsable numeric values", t, func() {
		res, err := ingest.Parse([]byte("Name,Salary,Predicted_DK_Points\nA,abc,\nB,-5,NaN\nC,4000,x1\n"))

		convey.Convey("Then they become zero instead of failing", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.Players, convey.ShouldHaveLength, 3)
			for _, p := range res.Players {
				convey.So(p.Points, convey.ShouldEqual, 0.0)
			}
			convey.So(res.Players[0].Salary, convey.ShouldEqual, 0)
			convey.So(res.Players[1].Salary, convey.ShouldEqual, 0)
			convey.So(res.Players[2].Salary, convey.ShouldEqual, 4000)
		})
	})

	convey.Convey("Given passthrough columns and a short row", t, func() {
		res, err := ingest.Parse([]byte("Name,Opponent,Salary,Ownership\nA,BOS,5000,12%\nB,TOR\n"))

		convey.Convey("Then passthrough values are kept and missing columns stay absent", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.Players, convey.ShouldHaveLength, 2)
			convey.So(res.Players[0].Attributes, convey.ShouldResemble, map[string]string{"Opponent": "BOS", "Ownership": "12%"})
			convey.So(res.Players[1].Attributes, convey.ShouldResemble, map[string]string{"Opponent": "TOR"})
			convey.So(res.Players[1].Salary, convey.ShouldEqual, 0)
		})
	})

	convey.Convey("Given a file missing expected columns", t, func() {
		res, err := ingest.Parse([]byte("Name,Notes\nA,\"likes \"\"big\"\" games\"\n"))

		convey.Convey("Then ingestion still succeeds", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.Players, convey.ShouldHaveLength, 1)
			convey.So(res.Players[0].Salary, convey.ShouldEqual, 0)
			convey.So(res.Players[0].Team, convey.ShouldEqual, "")
			convey.So(res.Players[0].Attributes["Notes"], convey.ShouldEqual, `likes "big" games`)
		})
	})

	convey.Convey("Given both position columns", t, func() {
		res, err := ingest.Parse([]byte("Name,position,position_primary\nA,2B/SS,2B\nB,,C\n"))

		convey.Convey("Then primary and eligibility are both kept", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.Players[0].Position.Primary, convey.ShouldEqual, "2B")
			convey.So(res.Players[0].Position.Label(), convey.ShouldEqual, "2B/SS")
			convey.So(res.Players[1].Position.Label(), convey.ShouldEqual, "C")
		})
	})
}

func TestParse_Failures(t *testing.T) {
	convey.Convey("Given binary input", t, func() {
		_, err := ingest.Parse([]byte{0xff, 0xfe, 'N', 0x00, 'a', 0x00})

		convey.Convey("Then ingestion fails as not text", func() {
			convey.So(errors.Is(err, ingest.ErrNotText), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a reader that fails", t, func() {
		_, err := ingest.Read(failingReader{})

		convey.Convey("Then the read failure is reported", func() {
			convey.So(errors.Is(err, ingest.ErrRead), convey.ShouldBeTrue)
		})
	})
}

func TestParse_Options(t *testing.T) {
	convey.Convey("Given a tab-delimited file", t, func() {
		res, err := ingest.Parse([]byte("Name\tSalary\nA, Jr.\t4100\n"), ingest.WithDelimiter('\t'))

		convey.Convey("Then the delimiter option is honoured", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.Players, convey.ShouldHaveLength, 1)
			convey.So(res.Players[0].Name, convey.ShouldEqual, "A, Jr.")
			convey.So(res.Players[0].Salary, convey.ShouldEqual, 4100)
		})
	})

	convey.Convey("Given many nameless rows and a warning cap", t, func() {
		res, err := ingest.Read(strings.NewReader("Name,Salary\n,1\n,2\n,3\nA,4\n"), ingest.WithMaxWarnings(2))

		convey.Convey("Then every drop is counted but only the cap is retained", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.Players, convey.ShouldHaveLength, 1)
			convey.So(res.Skipped, convey.ShouldEqual, 3)
			convey.So(res.Warnings, convey.ShouldHaveLength, 2)
		})
	})
}
