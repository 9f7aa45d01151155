// Package export renders lineups as CSV for download.
package export

import (
	"io"
	"strconv"
	"strings"

	"github.com/okian/lineupdesk/internal/domain/model"
)

// Filename is the suggested download name.
const Filename = "lineup.csv"

// ContentType is the MIME type of the rendered document.
const ContentType = "text/csv; charset=utf-8"

// Header lists the exported columns. Every name is also a recognised
// ingest header, so an export can be uploaded again as a pool.
var Header = []string{"Player", "Position", "Team", "Salary", "Projected Points"}

// CSV renders l with one row per player in lineup order. Every field is
// quoted, embedded quotes are doubled and rows are joined by "\n" with no
// trailing newline.
func CSV(l model.Lineup) string {
	var b strings.Builder
	writeRow(&b, Header)
	for _, p := range l {
		b.WriteByte('\n')
		writeRow(&b, []string{
			p.Name,
			p.Position.Label(),
			p.Team,
			strconv.Itoa(p.Salary),
			strconv.FormatFloat(p.Points, 'f', -1, 64),
		})
	}
	return b.String()
}

// Write streams CSV(l) to w.
func Write(w io.Writer, l model.Lineup) error {
	_, err := io.WriteString(w, CSV(l))
	return err
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}
