package handler

import (
	"github.com/gofiber/fiber/v2"

	"toonranks/internal/http/middleware"
	"toonranks/internal/service"
)

type createListRequest struct {
	Name string `json:"name"`
}

type addSeriesRequest struct {
	SeriesID int64 `json:"series_id"`
}

// MyReadingLists returns the caller's lists, newest first.
func MyReadingLists(svc service.ReadingListService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lists, err := svc.Mine(c.UserContext(), middleware.CurrentUser(c).ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(lists)
	}
}

// CreateReadingList creates a named list for the caller.
func CreateReadingList(svc service.ReadingListService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createListRequest
		if err := bindJSON(c, &req); err != nil {
			return writeServiceError(c, err)
		}
		l, err := svc.Create(c.UserContext(), middleware.CurrentUser(c).ID, req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(l)
	}
}

// AddToReadingList adds a series to one of the caller's lists.
func AddToReadingList(svc service.ReadingListService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		listID, err := paramID(c, "id")
		if err != nil {
			return writeServiceError(c, err)
		}
		var req addSeriesRequest
		if err := bindJSON(c, &req); err != nil {
			return writeServiceError(c, err)
		}
		l, err := svc.AddSeries(c.UserContext(), middleware.CurrentUser(c).ID, listID, req.SeriesID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(l)
	}
}

// RemoveFromReadingList drops a series from one of the caller's lists.
func RemoveFromReadingList(svc service.ReadingListService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		listID, err := paramID(c, "id")
		if err != nil {
			return writeServiceError(c, err)
		}
		seriesID, err := paramID(c, "series_id")
		if err != nil {
			return writeServiceError(c, err)
		}
		l, err := svc.RemoveSeries(c.UserContext(), middleware.CurrentUser(c).ID, listID, seriesID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(l)
	}
}

// DeleteReadingList removes one of the caller's lists.
func DeleteReadingList(svc service.ReadingListService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		listID, err := paramID(c, "id")
		if err != nil {
			return writeServiceError(c, err)
		}
		if err := svc.Delete(c.UserContext(), middleware.CurrentUser(c).ID, listID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
