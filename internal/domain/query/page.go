package query

import "github.com/okian/lineupdesk/internal/domain/model"

// Page is one window over a filtered player list. Index is 1-based.
type Page struct {
	Items      []model.PlayerRecord `json:"items"`
	Index      int                  `json:"page"`
	Size       int                  `json:"pageSize"`
	Total      int                  `json:"total"`
	TotalPages int                  `json:"totalPages"`
}

// TotalPages returns how many pages of size hold total items. Zero items
// still yield one (empty) page.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Paginate slices players into the page at index. An index outside the
// available range returns an empty page rather than an error.
func Paginate(players []model.PlayerRecord, index, size int) Page {
	p := Page{
		Items:      []model.PlayerRecord{},
		Index:      index,
		Size:       size,
		Total:      len(players),
		TotalPages: TotalPages(len(players), size),
	}
	if size <= 0 || index < 1 {
		return p
	}
	start := (index - 1) * size
	if start >= len(players) {
		return p
	}
	end := min(start+size, len(players))
	p.Items = players[start:end:end]
	return p
}

// ClampPage bounds index into [1, TotalPages(total, size)].
func ClampPage(index, total, size int) int {
	last := TotalPages(total, size)
	switch {
	case index < 1:
		return 1
	case index > last:
		return last
	default:
		return index
	}
}
