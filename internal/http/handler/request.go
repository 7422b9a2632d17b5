package handler

import (
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"toonranks/internal/service"
)

var errInvalidBody = &service.Error{Kind: service.ErrUnprocessable, Msg: "invalid request body"}

func unprocessable(msg string) error {
	return &service.Error{Kind: service.ErrUnprocessable, Msg: msg}
}

// paramID parses a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id < 1 {
		return 0, unprocessable("invalid " + name)
	}
	return id, nil
}

// queryInt reads an integer query parameter, falling back to def when absent.
func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, unprocessable("invalid " + name)
	}
	return n, nil
}

// formInt reads a required integer form field.
func formInt(c *fiber.Ctx, name string) (int64, error) {
	n, err := strconv.ParseInt(c.FormValue(name), 10, 64)
	if err != nil {
		return 0, unprocessable("invalid " + name)
	}
	return n, nil
}

// bindJSON decodes the request body into dst.
func bindJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return errInvalidBody
	}
	return nil
}

// formUpload opens the multipart file field. A missing field yields a nil
// upload; the caller decides whether that is acceptable.
func formUpload(c *fiber.Ctx, field string) (*service.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, func() {}, nil
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (*service.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, unprocessable("cannot open uploaded file")
	}
	return &service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, func() { f.Close() }, nil
}
