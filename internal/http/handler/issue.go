package handler

import (
	"github.com/gofiber/fiber/v2"

	"toonranks/internal/service"
)

type issueStatusRequest struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"admin_notes"`
}

// ReportIssue takes an anonymous report with an optional screenshot.
//
// @Summary Report an issue
// @Tags issues
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} model.Issue
// @Failure 422 {object} errorPayload
// @Router /issues/report [post]
func ReportIssue(svc service.IssueService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shot, closeShot, err := formUpload(c, "screenshot")
		if err != nil {
			return writeServiceError(c, err)
		}
		defer closeShot()

		is, err := svc.Report(c.UserContext(), service.ReportIssueInput{
			Type:        c.FormValue("type"),
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			PageURL:     c.FormValue("page_url"),
			Email:       c.FormValue("email"),
			UserAgent:   c.Get(fiber.HeaderUserAgent),
			Screenshot:  shot,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(is)
	}
}

// ListIssues filters and pages reported issues. It is public, like reporting.
func ListIssues(svc service.IssueService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := queryInt(c, "page", 1)
		if err != nil {
			return writeServiceError(c, err)
		}
		size, err := queryInt(c, "page_size", service.DefaultIssuePageSize)
		if err != nil {
			return writeServiceError(c, err)
		}
		items, err := svc.List(c.UserContext(), service.IssueQuery{
			Q:        c.Query("q"),
			Type:     c.Query("type"),
			Status:   c.Query("status"),
			Page:     page,
			PageSize: size,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(items)
	}
}

// UpdateIssueStatus moves an issue through triage.
func UpdateIssueStatus(svc service.IssueService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return writeServiceError(c, err)
		}
		var req issueStatusRequest
		if err := bindJSON(c, &req); err != nil {
			return writeServiceError(c, err)
		}
		is, err := svc.UpdateStatus(c.UserContext(), id, req.Status, req.AdminNotes)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(is)
	}
}

// DeleteIssue removes an issue.
func DeleteIssue(svc service.IssueService) fiber.Handler {
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
