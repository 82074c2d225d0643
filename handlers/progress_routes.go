// handlers/progress_routes.go
package handlers

import (
	"errors"
	"log"

	"word-duel-service/middleware"
	"word-duel-service/models"
	"word-duel-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App, progressService *services.ProgressService, claimService *services.ClaimService, syncService *services.SyncService) {
	secured := app.Group("/user", middleware.UserContextMiddleware())

	// Game outcome report: flat payout + achievement accumulation
	secured.Post("/game-action", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			GameName string            `json:"game_name"`
			Action   models.GameAction `json:"action"`
			Score    *int              `json:"score"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.GameName == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "game_name is required"})
		}
		newlyCompleted, err := progressService.RecordGameAction(userID, req.GameName, req.Action, req.Score)
		if err != nil {
			return progressError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":         "Game action recorded",
			"newly_completed": newlyCompleted,
		})
	})

	// Catalog with the caller's progress; "claimable" is derived here by
	// comparing progress to requirement, since accumulation never flips
	// the completed flag.
	secured.Get("/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var achievements []models.Achievement
		if err := progressService.DB.Where("is_active = ?", true).Find(&achievements).Error; err != nil {
			log.Printf("DB Error fetching achievements: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch achievements"})
		}

		var records []models.UserAchievement
		if err := progressService.DB.Where("user_id = ?", userID).Find(&records).Error; err != nil {
			log.Printf("DB Error fetching progress: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch progress"})
		}
		byAchievement := make(map[string]models.UserAchievement, len(records))
		for _, r := range records {
			byAchievement[r.AchievementID] = r
		}

		response := make([]fiber.Map, 0, len(achievements))
		for _, a := range achievements {
			ua := byAchievement[a.ID]
			response = append(response, fiber.Map{
				"id":           a.ID,
				"name":         a.Name,
				"description":  a.Description,
				"category":     a.Category,
				"requirement":  a.Requirement,
				"reward":       a.Reward,
				"xp_reward":    a.XPReward,
				"progress":     ua.Progress,
				"is_completed": ua.IsCompleted,
				"completed_at": ua.CompletedAt,
				"claimable":    !ua.IsCompleted && ua.Progress >= a.Requirement,
			})
		}
		return c.JSON(response)
	})

	secured.Post("/achievements/:id/claim", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		result, err := claimService.Claim(userID, c.Params("id"))
		if err != nil {
			return progressError(c, err)
		}
		return c.JSON(result)
	})

	secured.Post("/achievements/sync", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		corrected, err := syncService.SyncAchievements(userID)
		if err != nil {
			return progressError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Achievements synced", "corrected": corrected})
	})
}

func progressError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, services.ErrAchievementNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Achievement not found"})
	case errors.Is(err, services.ErrProgressNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No progress recorded for this achievement"})
	case errors.Is(err, services.ErrNotReady):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Achievement requirement not yet met"})
	case errors.Is(err, services.ErrAlreadyClaimed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Achievement reward already claimed"})
	default:
		log.Printf("DB Error in progress route: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal error"})
	}
}
