package model

import (
	"fmt"
	"strings"
)

// SeriesType is the publication origin of a series.
type SeriesType string

const (
	SeriesManga  SeriesType = "MANGA"
	SeriesManhwa SeriesType = "MANHWA"
	SeriesManhua SeriesType = "MANHUA"
)

// ParseSeriesType accepts the enum name in any case.
func ParseSeriesType(s string) (SeriesType, error) {
	switch t := SeriesType(strings.ToUpper(strings.TrimSpace(s))); t {
	case SeriesManga, SeriesManhwa, SeriesManhua:
		return t, nil
	}
	return "", fmt.Errorf("invalid series type %q", s)
}

// SeriesStatus is the publication status of a series.
type SeriesStatus string

const (
	StatusOngoing  SeriesStatus = "ONGOING"
	StatusComplete SeriesStatus = "COMPLETE"
	StatusHiatus   SeriesStatus = "HIATUS"
	StatusUnknown  SeriesStatus = "UNKNOWN"
)

// ParseSeriesStatus accepts the enum name in any case.
func ParseSeriesStatus(s string) (SeriesStatus, error) {
	switch st := SeriesStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusOngoing, StatusComplete, StatusHiatus, StatusUnknown:
		return st, nil
	}
	return "", fmt.Errorf("invalid series status %q", s)
}

// Series is a ranked title.
type Series struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Genre     string        `json:"genre"`
	Type      SeriesType    `json:"type"`
	Author    string        `json:"author"`
	Artist    string        `json:"artist"`
	Status    *SeriesStatus `json:"status"`
	CoverURL  string        `json:"cover_url"`
	VoteCount int           `json:"vote_count"`
}

// RankedSeries is a series annotated with its computed score. Rank is nil for
// series without any votes.
type RankedSeries struct {
	Series
	FinalScore float64 `json:"final_score"`
	Rank       *int    `json:"rank"`
}
