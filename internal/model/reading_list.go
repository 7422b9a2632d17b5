package model

// MaxReadingListsPerUser caps how many lists one account may own.
const MaxReadingListsPerUser = 2

// ReadingList is a named collection of series owned by a user.
type ReadingList struct {
	ID     int64             `json:"id"`
	UserID int64             `json:"-"`
	Name   string            `json:"name"`
	Items  []ReadingListItem `json:"items"`
}

// ReadingListItem references one series inside a list.
type ReadingListItem struct {
	SeriesID int64 `json:"series_id"`
}
