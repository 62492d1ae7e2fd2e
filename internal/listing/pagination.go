package listing

import "math"

// Summary is the pagination block returned with every list response.
type Summary struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

type Page struct {
	Skip    int
	Take    int
	Summary Summary
}

// Paginate converts page/limit into offsets. Values below 1 are clamped to 1;
// HTTP input never gets here unvalidated (see ParseQuery). Current is echoed
// unclamped, so a page past the end yields an empty, valid result. An offset
// that would overflow int saturates at math.MaxInt, which is past any total.
func Paginate(page, limit int, total int64) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	skip := math.MaxInt
	if page-1 <= math.MaxInt/limit {
		skip = (page - 1) * limit
	}
	return Page{
		Skip: skip,
		Take: limit,
		Summary: Summary{
			Current: page,
			Pages:   TotalPages(total, limit),
			Total:   total,
		},
	}
}

// TotalPages is ceil(total/limit), 0 when total is 0.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit < 1 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
