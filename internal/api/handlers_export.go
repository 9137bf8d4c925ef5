package api

import (
	"bytes"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fasttrack/internal/services"
)

const mimePDF = "application/pdf"

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	entries, err := handler.exportService.BuildEntries(user.ID, handler.location)
	if err != nil {
		return respondServiceError(c, err, "fetch sessions")
	}
	return handler.sendExport(c, "text/csv", "csv", func(w io.Writer) error {
		return services.WriteExportCSV(w, entries)
	})
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	document, err := handler.exportService.BuildDocument(user.ID, handler.currentTime(), handler.location)
	if err != nil {
		return respondServiceError(c, err, "fetch sessions")
	}
	return handler.sendExport(c, fiber.MIMEApplicationJSON, "json", func(w io.Writer) error {
		return services.WriteExportJSON(w, document)
	})
}

func (handler *Handler) ExportPDF(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	document, err := handler.exportService.BuildDocument(user.ID, handler.currentTime(), handler.location)
	if err != nil {
		return respondServiceError(c, err, "fetch sessions")
	}
	return handler.sendExport(c, mimePDF, "pdf", func(w io.Writer) error {
		return services.WriteExportPDF(w, document)
	})
}

func (handler *Handler) sendExport(c *fiber.Ctx, contentType string, extension string, write func(io.Writer) error) error {
	var output bytes.Buffer
	if err := write(&output); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	filename := services.BuildExportFilename(handler.currentTime().In(handler.location), extension)
	setExportAttachmentHeaders(c, contentType, filename)
	return c.Send(output.Bytes())
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	if strings.HasPrefix(contentType, "text/") {
		contentType += "; charset=utf-8"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Set(fiber.HeaderCacheControl, "no-store")
}
