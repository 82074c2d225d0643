// handlers/duel_routes.go
package handlers

import (
	"errors"
	"log"

	"word-duel-service/middleware"
	"word-duel-service/models"
	"word-duel-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupDuelRoutes(app *fiber.App, duelService *services.DuelService) {
	secured := app.Group("/duel", middleware.UserContextMiddleware())

	secured.Post("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		game, err := duelService.Create(userID)
		if err != nil {
			log.Printf("DB Error creating duel: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create game"})
		}
		return c.Status(fiber.StatusCreated).JSON(game)
	})

	secured.Post("/:id/join", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		game, err := duelService.Join(c.Params("id"), userID)
		if err != nil {
			return duelError(c, err)
		}
		return c.JSON(game)
	})

	secured.Get("/:id", func(c *fiber.Ctx) error {
		game, err := duelService.GetState(c.Params("id"))
		if err != nil {
			return duelError(c, err)
		}
		return c.JSON(game)
	})

	secured.Post("/:id/answer", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			Kind          models.AnswerKind `json:"kind"`
			SelectedIndex int               `json:"selected_index"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		game, err := duelService.SubmitAnswer(c.Params("id"), userID, req.Kind, req.SelectedIndex)
		if err != nil {
			return duelError(c, err)
		}
		return c.JSON(game)
	})

	secured.Post("/:id/powerup", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			PowerUp models.PowerUp `json:"power_up"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		game, err := duelService.UsePowerUp(c.Params("id"), userID, req.PowerUp)
		if err != nil {
			return duelError(c, err)
		}
		return c.JSON(game)
	})
}

// duelError maps service outcomes to HTTP responses
func duelError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrGameNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Game not found"})
	case errors.Is(err, services.ErrGameFull):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Game already has two players"})
	case errors.Is(err, services.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Game is not active"})
	case errors.Is(err, services.ErrInvalidParticipant):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not seated in this game"})
	case errors.Is(err, services.ErrInvalidAnswerKind):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown answer kind"})
	case errors.Is(err, services.ErrUnknownPowerUp):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown power-up"})
	case errors.Is(err, services.ErrInsufficientPowerUp):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "No charges left for this power-up"})
	default:
		log.Printf("DB Error in duel route: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal error"})
	}
}
