package main

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/studyplan"
)

type scheduleRequest struct {
	Records []studyplan.Record `json:"records"`
}

type prerequisiteRequest struct {
	Module       string `json:"module"`
	Prerequisite string `json:"prerequisite"`
}

// newApp wires the HTTP routes onto store.
func newApp(store studyplan.Store, logger *slog.Logger) *fiber.App {
	app := fiber.New()

	app.Use(func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
		)
		return err
	})

	// ── Schema ────────────────────────────────────────────────────────
	app.Post("/schema", func(c fiber.Ctx) error {
		if err := store.CreateSchema(c.Context()); err != nil {
			return writeError(c, logger, err)
		}
		return c.JSON(fiber.Map{"message": "schema created"})
	})

	app.Delete("/schema", func(c fiber.Ctx) error {
		if err := store.DropSchema(c.Context()); err != nil {
			return writeError(c, logger, err)
		}
		return c.JSON(fiber.Map{"message": "schema dropped"})
	})

	// ── Stateless scheduling ──────────────────────────────────────────
	app.Post("/schedule", func(c fiber.Ctx) error {
		var req scheduleRequest
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		cat := studyplan.Catalogue{Records: req.Records}
		sched, err := cat.Schedule()
		if err != nil {
			return writeError(c, logger, err)
		}
		return c.JSON(sched)
	})

	// ── Catalogues ────────────────────────────────────────────────────
	app.Post("/catalogues", func(c fiber.Ctx) error {
		var cat studyplan.Catalogue
		if err := c.Bind().JSON(&cat); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		saved, err := store.SaveCatalogue(c.Context(), &cat)
		if err != nil {
			return writeError(c, logger, err)
		}
		return c.Status(fiber.StatusCreated).JSON(saved)
	})

	app.Get("/catalogues", func(c fiber.Ctx) error {
		ids, err := store.ListCatalogues(c.Context())
		if err != nil {
			return writeError(c, logger, err)
		}
		return c.JSON(ids)
	})

	app.Get("/catalogues/:id", func(c fiber.Ctx) error {
		cat, err := store.GetCatalogue(c.Context(), c.Params("id"))
		if err != nil {
			return writeError(c, logger, err)
		}
		if cat == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "catalogue not found"})
		}
		return c.JSON(cat)
	})

	app.Delete("/catalogues/:id", func(c fiber.Ctx) error {
		if err := store.DeleteCatalogue(c.Context(), c.Params("id")); err != nil {
			return writeError(c, logger, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// ── Prerequisites ─────────────────────────────────────────────────
	app.Post("/catalogues/:id/prerequisites", func(c fiber.Ctx) error {
		var req prerequisiteRequest
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if err := store.AddPrerequisite(c.Context(), c.Params("id"), req.Module, req.Prerequisite); err != nil {
			return writeError(c, logger, err)
		}
		return c.Status(fiber.StatusCreated).JSON(req)
	})

	app.Delete("/catalogues/:id/modules/:module/prerequisites/:prerequisite", func(c fiber.Ctx) error {
		err := store.RemovePrerequisite(c.Context(), c.Params("id"), c.Params("module"), c.Params("prerequisite"))
		if err != nil {
			return writeError(c, logger, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// ── Schedules ─────────────────────────────────────────────────────
	app.Post("/catalogues/:id/schedule", func(c fiber.Ctx) error {
		id := c.Params("id")
		cat, err := store.GetCatalogue(c.Context(), id)
		if err != nil {
			return writeError(c, logger, err)
		}
		if cat == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "catalogue not found"})
		}
		sched, err := cat.Schedule()
		if err != nil {
			return writeError(c, logger, err)
		}
		if err := store.SaveSchedule(c.Context(), id, sched); err != nil {
			return writeError(c, logger, err)
		}
		return c.Status(fiber.StatusCreated).JSON(sched)
	})

	app.Get("/catalogues/:id/schedule", func(c fiber.Ctx) error {
		sched, err := store.GetSchedule(c.Context(), c.Params("id"))
		if err != nil {
			return writeError(c, logger, err)
		}
		if sched == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "schedule not found"})
		}
		return c.JSON(sched)
	})

	return app
}

// writeError maps studyplan errors onto HTTP statuses.
func writeError(c fiber.Ctx, logger *slog.Logger, err error) error {
	var (
		malformed *studyplan.MalformedRecordError
		cycle     *studyplan.CycleDetectedError
	)
	switch {
	case errors.As(err, &malformed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "malformed record",
			"record": malformed.Record,
		})
	case errors.As(err, &cycle):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":     "cycle detected",
			"remaining": cycle.Remaining,
		})
	case errors.Is(err, studyplan.ErrCatalogueNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "catalogue not found"})
	default:
		logger.Error("request failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
