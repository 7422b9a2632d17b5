package model

import "fmt"

// Category is one of the five axes a series is voted on.
type Category string

const (
	CategoryStory         Category = "Story"
	CategoryCharacters    Category = "Characters"
	CategoryWorldBuilding Category = "World Building"
	CategoryArt           Category = "Art"
	CategoryDramaOrFight  Category = "Drama / Fighting"
)

// Categories lists every voting category in display order.
var Categories = []Category{
	CategoryStory,
	CategoryCharacters,
	CategoryWorldBuilding,
	CategoryArt,
	CategoryDramaOrFight,
}

// ParseCategory matches the display label exactly.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", s)
}

// Score bounds for a single vote.
const (
	MinScore = 1
	MaxScore = 10
)

// SeriesDetail carries the synopsis, the detail cover and the running vote
// tallies of a series.
type SeriesDetail struct {
	ID                 int64  `json:"id"`
	SeriesID           int64  `json:"series_id"`
	Synopsis           string `json:"synopsis"`
	CoverURL           string `json:"series_cover_url"`
	StoryTotal         int    `json:"story_total"`
	StoryCount         int    `json:"story_count"`
	CharactersTotal    int    `json:"characters_total"`
	CharactersCount    int    `json:"characters_count"`
	WorldBuildingTotal int    `json:"worldbuilding_total"`
	WorldBuildingCount int    `json:"worldbuilding_count"`
	ArtTotal           int    `json:"art_total"`
	ArtCount           int    `json:"art_count"`
	DramaOrFightTotal  int    `json:"drama_or_fight_total"`
	DramaOrFightCount  int    `json:"drama_or_fight_count"`
}

// Tally returns the running total and vote count for a category.
func (d *SeriesDetail) Tally(c Category) (total, count int) {
	switch c {
	case CategoryStory:
		return d.StoryTotal, d.StoryCount
	case CategoryCharacters:
		return d.CharactersTotal, d.CharactersCount
	case CategoryWorldBuilding:
		return d.WorldBuildingTotal, d.WorldBuildingCount
	case CategoryArt:
		return d.ArtTotal, d.ArtCount
	case CategoryDramaOrFight:
		return d.DramaOrFightTotal, d.DramaOrFightCount
	}
	return 0, 0
}

// Vote is a single user's score for one category of one series.
type Vote struct {
	UserID   int64
	SeriesID int64
	Category Category
	Score    int
}

// SeriesDetailView is the public detail payload: the stored detail plus the
// series credits and vote statistics.
type SeriesDetailView struct {
	SeriesDetail
	Author     string           `json:"author"`
	Artist     string           `json:"artist"`
	VoteScores map[Category]int `json:"vote_scores"`
	VoteCounts map[Category]int `json:"vote_counts"`
}
