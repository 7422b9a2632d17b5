package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"toonranks/internal/service"
)

const sitemapCacheControl = "public, max-age=3600, s-maxage=3600"

func sendXML(c *fiber.Ctx, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, sitemapCacheControl)
	return c.Send(body)
}

// SitemapIndex serves /sitemap.xml.
func SitemapIndex(svc service.SitemapService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := svc.Index(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return sendXML(c, body)
	}
}

// ForumSitemap serves /sitemaps/forum-N.xml.
func ForumSitemap(svc service.SitemapService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := strconv.Atoi(strings.TrimSuffix(c.Params("page"), ".xml"))
		if err != nil {
			return c.SendStatus(fiber.StatusNotFound)
		}
		body, err := svc.ForumPage(c.UserContext(), page)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return c.SendStatus(fiber.StatusNotFound)
			}
			return writeServiceError(c, err)
		}
		return sendXML(c, body)
	}
}

// StaticSitemap serves /sitemap-static.xml.
func StaticSitemap(svc service.SitemapService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := svc.Static(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return sendXML(c, body)
	}
}
