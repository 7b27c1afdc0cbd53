package handlers

import (
	"io"

	"media-orchestrator/internal/domain/mapper"
	"media-orchestrator/internal/usecases"
	apperrors "media-orchestrator/pkg/errors"

	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	uploadService usecases.UploadService
}

func NewUploadHandler(uploadService usecases.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload
//
// @Summary      Upload media files
// @Description  Validates and stores a batch of audio/video files. One invalid file rejects the whole batch.
// @Tags         Upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        files  formData  file  true  "Media files (repeat the field for several files)"
// @Success      201    {array}   dto.AssetResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      500    {object}  dto.ErrorResponse
// @Router       /uploads [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.HandleError(c, apperrors.ErrValidation("multipart form with a files field is required"))
	}

	headers := form.File["files"]
	files := make([]usecases.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, usecases.UploadFile{
			Filename: fh.Filename,
			Size:     fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}

	assets, err := h.uploadService.RegisterBatch(c.UserContext(), files)
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mapper.AssetsToDTO(assets))
}

// ListAssets
//
// @Summary      List registered assets
// @Tags         Upload
// @Produce      json
// @Success      200  {array}  dto.AssetResponse
// @Router       /uploads [get]
func (h *UploadHandler) ListAssets(c *fiber.Ctx) error {
	return c.JSON(mapper.AssetsToDTO(h.uploadService.List()))
}

// GetAsset
//
// @Summary      Get a registered asset
// @Tags         Upload
// @Produce      json
// @Param        id   path      string  true  "Asset ID"
// @Success      200  {object}  dto.AssetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /uploads/{id} [get]
func (h *UploadHandler) GetAsset(c *fiber.Ctx) error {
	asset, err := h.uploadService.Lookup(c.Params("id"))
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	return c.JSON(mapper.AssetToDTO(asset))
}
