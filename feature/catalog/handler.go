package catalog

import (
	"cache-service/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// Handler handles the HTTP admin and lookup routes of the catalog.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/vintages/:id", h.HandleGetVintage)
	app.Get("/wines/:id/vintages", h.HandleGetWineVintages)
	app.Get("/wines/:id/best", h.HandleGetBestVintage)

	app.Delete("/cache", h.HandleClear)
	group := app.Group("/cache")
	group.Get("/stats", h.HandleStats)
	group.Delete("/vintages/:id", h.HandleInvalidateVintage)
	group.Delete("/wines/:id", h.HandleInvalidateWine)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	logger.WithRayID(h.logger, c).Error("Catalog lookup failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// idParam returns a copy of :id that outlives the request.
func idParam(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}

// HandleGetVintage returns a vintage record, {} when it does not exist.
func (h *Handler) HandleGetVintage(c *fiber.Ctx) error {
	raw, err := h.service.GetVintageByID(c.UserContext(), idParam(c))
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}

// HandleGetWineVintages lists the vintages of a wine.
func (h *Handler) HandleGetWineVintages(c *fiber.Ctx) error {
	ids, err := h.service.GetVintageIDsByWineID(c.UserContext(), idParam(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"vintage_ids": ids})
}

// HandleGetBestVintage returns the best vintage of a wine.
func (h *Handler) HandleGetBestVintage(c *fiber.Ctx) error {
	id, err := h.service.GetBestVintageIDByWineID(c.UserContext(), idParam(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"vintage_id": id})
}

// HandleStats reports the size of both caches and their loads in flight.
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"caches": h.service.Stats()})
}

// HandleClear drops every cached entry.
func (h *Handler) HandleClear(c *fiber.Ctx) error {
	h.service.Clear()
	logger.WithRayID(h.logger, c).Info("Caches cleared")
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleInvalidateVintage drops a cached vintage so the next lookup reloads it.
func (h *Handler) HandleInvalidateVintage(c *fiber.Ctx) error {
	id := idParam(c)
	removed := h.service.InvalidateVintage(id)
	logger.WithRayID(h.logger, c).Info("Vintage invalidated", zap.String("vintage_id", id), zap.Bool("removed", removed))
	return c.JSON(fiber.Map{"removed": removed})
}

// HandleInvalidateWine drops a cached wine index so the next lookup reloads it.
func (h *Handler) HandleInvalidateWine(c *fiber.Ctx) error {
	id := idParam(c)
	removed := h.service.InvalidateWine(id)
	logger.WithRayID(h.logger, c).Info("Wine index invalidated", zap.String("wine_id", id), zap.Bool("removed", removed))
	return c.JSON(fiber.Map{"removed": removed})
}
