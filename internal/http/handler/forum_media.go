package handler

import (
	"github.com/gofiber/fiber/v2"

	"toonranks/internal/http/middleware"
	"toonranks/internal/service"
)

// UploadForumMedia stores an image for embedding in a post.
func UploadForumMedia(svc service.ForumMediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		threadID, err := formInt(c, "thread_id")
		if err != nil {
			return writeServiceError(c, err)
		}
		var postID *int64
		if c.FormValue("post_id") != "" {
			id, err := formInt(c, "post_id")
			if err != nil {
				return writeServiceError(c, err)
			}
			postID = &id
		}
		file, closeFile, err := formUpload(c, "file")
		if err != nil {
			return writeServiceError(c, err)
		}
		defer closeFile()
		if file == nil {
			return writeError(c, fiber.StatusUnprocessableEntity, "FILE_REQUIRED", "file is required")
		}

		m, err := svc.Upload(c.UserContext(), middleware.CurrentUser(c), threadID, postID, file)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(m)
	}
}
