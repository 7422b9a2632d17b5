package handler

import (
	"github.com/gofiber/fiber/v2"

	"toonranks/internal/service"
)

// CreateSeries accepts a multipart form with the series fields and a cover.
//
// @Summary Create series
// @Tags series
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Series
// @Router /series/ [post]
func CreateSeries(svc service.SeriesService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cover, closeCover, err := formUpload(c, "cover")
		if err != nil {
			return writeServiceError(c, err)
		}
		defer closeCover()

		s, err := svc.Create(c.UserContext(), service.CreateSeriesInput{
			Title:  c.FormValue("title"),
			Genre:  c.FormValue("genre"),
			Type:   c.FormValue("type"),
			Author: c.FormValue("author"),
			Artist: c.FormValue("artist"),
			Status: c.FormValue("status"),
			Cover:  cover,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(s)
	}
}

// ListSeries returns every series.
func ListSeries(svc service.SeriesService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(list)
	}
}

// UpdateSeries applies a partial JSON update.
func UpdateSeries(svc service.SeriesService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return writeServiceError(c, err)
		}
		var patch service.SeriesPatch
		if err := bindJSON(c, &patch); err != nil {
			return writeServiceError(c, err)
		}
		s, err := svc.Update(c.UserContext(), id, patch)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(s)
	}
}

// DeleteSeries removes a series and its cover.
func DeleteSeries(svc service.SeriesService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return writeServiceError(c, err)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Rankings returns one page of the leaderboard.
//
// @Summary Series rankings
// @Tags series
// @Produce json
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(12)
// @Param type query string false "MANGA, MANHWA or MANHUA"
// @Success 200 {array} model.RankedSeries
// @Failure 422 {object} errorPayload
// @Router /series/rankings [get]
func Rankings(svc service.SeriesService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := queryInt(c, "page", 1)
		if err != nil {
			return writeServiceError(c, err)
		}
		size, err := queryInt(c, "page_size", service.DefaultRankingPageSize)
		if err != nil {
			return writeServiceError(c, err)
		}
		list, err := svc.Rankings(c.UserContext(), page, size, c.Query("type"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(list)
	}
}

// SeriesSummary returns one series' place in the global leaderboard.
func SeriesSummary(svc service.SeriesService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return writeServiceError(c, err)
		}
		s, err := svc.Summary(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(s)
	}
}

// SearchSeries ranks the series matching ?query= among themselves.
func SearchSeries(svc service.SeriesService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.Search(c.UserContext(), c.Query("query"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(list)
	}
}
