package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"toonranks/internal/http/middleware"
	"toonranks/internal/service"
)

// UpsertSeriesDetail stores the synopsis and detail cover of a series.
func UpsertSeriesDetail(svc service.SeriesDetailService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		seriesID, err := formInt(c, "series_id")
		if err != nil {
			return writeServiceError(c, err)
		}
		file, closeFile, err := formUpload(c, "file")
		if err != nil {
			return writeServiceError(c, err)
		}
		defer closeFile()

		d, err := svc.Upsert(c.UserContext(), seriesID, c.FormValue("synopsis"), file)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(d)
	}
}

// VoteSeries records the caller's score for one category.
//
// @Summary Vote on a series
// @Tags series-details
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param series_id path int true "series id"
// @Param category formData string true "Story, Characters, World Building, Art or Drama / Fighting"
// @Param score formData int true "1..10"
// @Success 200 {object} model.SeriesDetail
// @Failure 403 {object} errorPayload
// @Router /series-details/{series_id}/vote [post]
func VoteSeries(svc service.SeriesDetailService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		seriesID, err := paramID(c, "series_id")
		if err != nil {
			return writeServiceError(c, err)
		}
		score, err := strconv.Atoi(c.FormValue("score"))
		if err != nil {
			return writeServiceError(c, unprocessable("invalid score"))
		}
		user := middleware.CurrentUser(c)
		d, err := svc.Vote(c.UserContext(), user.ID, seriesID, c.FormValue("category"), score)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(d)
	}
}

// GetSeriesDetail returns the public detail view, personalised when the
// caller is signed in.
func GetSeriesDetail(svc service.SeriesDetailService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		seriesID, err := paramID(c, "series_id")
		if err != nil {
			return writeServiceError(c, err)
		}
		v, err := svc.Get(c.UserContext(), seriesID, middleware.CurrentUser(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(v)
	}
}
