package handler

import (
	"github.com/gofiber/fiber/v2"

	"toonranks/internal/http/middleware"
	"toonranks/internal/service"
)

type threadSettingsRequest struct {
	LatestFirst *bool `json:"latest_first"`
}

type threadLockRequest struct {
	Locked bool `json:"locked"`
}

// ListThreads pages through threads, most recently active first.
//
// @Summary List forum threads
// @Tags forum
// @Produce json
// @Param q query string false "title filter"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {array} model.ForumThread
// @Router /forum/threads [get]
func ListThreads(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := queryInt(c, "page", 1)
		if err != nil {
			return writeServiceError(c, err)
		}
		size, err := queryInt(c, "page_size", service.DefaultThreadPageSize)
		if err != nil {
			return writeServiceError(c, err)
		}
		threads, err := svc.ListThreads(c.UserContext(), c.Query("q"), page, size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(threads)
	}
}

// CreateThread opens a thread with its first post.
func CreateThread(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateThreadInput
		if err := bindJSON(c, &in); err != nil {
			return writeServiceError(c, err)
		}
		t, err := svc.CreateThread(c.UserContext(), middleware.CurrentUser(c), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	}
}

// GetThread returns a thread with all of its posts.
func GetThread(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return writeServiceError(c, err)
		}
		v, err := svc.GetThread(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(v)
	}
}

// CreatePost replies in a thread.
func CreatePost(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return writeServiceError(c, err)
		}
		var in service.CreatePostInput
		if err := bindJSON(c, &in); err != nil {
			return writeServiceError(c, err)
		}
		p, err := svc.CreatePost(c.UserContext(), middleware.CurrentUser(c), id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// UpdatePost replaces a post's content and series refs.
func UpdatePost(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		threadID, err := paramID(c, "id")
		if err != nil {
			return writeServiceError(c, err)
		}
		postID, err := paramID(c, "post_id")
		if err != nil {
			return writeServiceError(c, err)
		}
		var in service.UpdatePostInput
		if err := bindJSON(c, &in); err != nil {
			return writeServiceError(c, err)
		}
		p, err := svc.UpdatePost(c.UserContext(), middleware.CurrentUser(c), threadID, postID, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// UpdateThread changes the provided thread fields only.
func UpdateThread(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return writeServiceError(c, err)
		}
		var patch service.ThreadPatch
		if err := bindJSON(c, &patch); err != nil {
			return writeServiceError(c, err)
		}
		t, err := svc.UpdateThread(c.UserContext(), middleware.CurrentUser(c), id, patch)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	}
}

// UpdateThreadSettings toggles post ordering.
func UpdateThreadSettings(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return writeServiceError(c, err)
		}
		var req threadSettingsRequest
		if err := bindJSON(c, &req); err != nil {
			return writeServiceError(c, err)
		}
		t, err := svc.UpdateSettings(c.UserContext(), middleware.CurrentUser(c), id, req.LatestFirst)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	}
}

// LockThread is admin only.
func LockThread(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return writeServiceError(c, err)
		}
		var req threadLockRequest
		if err := bindJSON(c, &req); err != nil {
			return writeServiceError(c, err)
		}
		t, err := svc.SetLocked(c.UserContext(), middleware.CurrentUser(c), id, req.Locked)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	}
}

// DeletePost serves both the plain and the /mine route.
func DeletePost(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		threadID, err := paramID(c, "id")
		if err != nil {
			return writeServiceError(c, err)
		}
		postID, err := paramID(c, "post_id")
		if err != nil {
			return writeServiceError(c, err)
		}
		if err := svc.DeletePost(c.UserContext(), middleware.CurrentUser(c), threadID, postID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DeleteThread removes a thread with its posts.
func DeleteThread(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return writeServiceError(c, err)
		}
		if err := svc.DeleteThread(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ForumSeriesSearch suggests series to reference in a post.
func ForumSeriesSearch(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := queryInt(c, "limit", service.DefaultSeriesRefLimit)
		if err != nil {
			return writeServiceError(c, err)
		}
		refs, err := svc.SearchSeries(c.UserContext(), c.Query("q"), limit)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(refs)
	}
}
