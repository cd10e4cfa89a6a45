package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nutrilog/nutrilog-backend/internal/config"
	"github.com/nutrilog/nutrilog-backend/internal/dto"
	"github.com/nutrilog/nutrilog-backend/internal/middleware"
	"github.com/nutrilog/nutrilog-backend/internal/services"
)

type AnalysisHandler struct {
	vision    *services.VisionService
	cache     *services.AnalysisCache
	ledger    *services.LedgerService
	goals     *services.GoalService
	uploadDir string
}

func NewAnalysisHandler(cfg *config.Config, vision *services.VisionService, cache *services.AnalysisCache, ledger *services.LedgerService, goals *services.GoalService) *AnalysisHandler {
	return &AnalysisHandler{vision: vision, cache: cache, ledger: ledger, goals: goals, uploadDir: cfg.UploadDir}
}

// AnalyzeFood accepts a food photo as a multipart "image" part or a JSON
// body with image_base64, runs the vision analysis and caches the result
// under a fresh analysis id for later confirmation.
func (h *AnalysisHandler) AnalyzeFood(c *fiber.Ctx) error {
	if _, err := middleware.GetUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	imageBase64, err := h.extractImage(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	analysis, err := h.vision.AnalyzeFoodImage(imageBase64)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Food analysis failed, please try again or enter values manually",
		})
	}

	// Persist the analyzed photo so the confirmed entry can reference it.
	// A failed write keeps the analysis usable, just without an image.
	if url, err := h.saveUpload(imageBase64); err != nil {
		slog.Warn("failed to store analyzed image", "error", err)
	} else {
		analysis.ImageURL = url
	}

	id := h.cache.Store(*analysis)
	return c.JSON(dto.AnalyzeFoodResponse{AnalysisID: id, Analysis: *analysis})
}

// GetAnalysis returns a cached analysis so the client can re-render the
// review screen before confirming.
func (h *AnalysisHandler) GetAnalysis(c *fiber.Ctx) error {
	if _, err := middleware.GetUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id := c.Params("id")
	analysis, ok := h.cache.Retrieve(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: services.ErrAnalysisNotFound.Error(),
		})
	}
	return c.JSON(dto.AnalyzeFoodResponse{AnalysisID: id, Analysis: analysis})
}

// PersonalizedTip builds an AI tip from the user's goals and recent entries,
// falling back to a canned tip when the provider is unavailable.
func (h *AnalysisHandler) PersonalizedTip(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	goals, err := h.goals.Goals(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	}

	recent, err := h.ledger.GetRecentEntries(userID, 10)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load recent entries",
		})
	}

	tip, aiGenerated := h.vision.GenerateTip(goals, recent)
	return c.JSON(dto.TipResponse{
		TipText:       tip,
		Category:      "general",
		IsAIGenerated: aiGenerated,
	})
}

// saveUpload writes the decoded image under a unique name in the upload
// directory and returns the public path it is served from.
func (h *AnalysisHandler) saveUpload(imageBase64 string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return "", errors.New("invalid base64 image data")
	}

	ext := ".jpg"
	if http.DetectContentType(data) == "image/png" {
		ext = ".png"
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(h.uploadDir, name), data, 0o644); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

func (h *AnalysisHandler) extractImage(c *fiber.Ctx) (string, error) {
	if file, err := c.FormFile("image"); err == nil {
		contentType := file.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/jpeg") && !strings.HasPrefix(contentType, "image/png") {
			return "", errors.New("only JPEG and PNG images are supported")
		}
		if file.Size > 4*1024*1024 {
			return "", errors.New("image too large, maximum 4MB")
		}

		f, err := file.Open()
		if err != nil {
			return "", errors.New("failed to read image")
		}
		defer f.Close()

		fileBytes, err := io.ReadAll(f)
		if err != nil {
			return "", errors.New("failed to read image data")
		}
		return base64.StdEncoding.EncodeToString(fileBytes), nil
	}

	var req dto.AnalyzeFoodRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.ImageBase64) == "" {
		return "", errors.New("an image file or image_base64 is required")
	}
	if len(req.ImageBase64) > 6*1024*1024 {
		return "", errors.New("image data too large, maximum 6MB base64")
	}
	return req.ImageBase64, nil
}
