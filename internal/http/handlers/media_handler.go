package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/founderbridge/backend/internal/dto"
	"github.com/founderbridge/backend/internal/http/handlers/common"
	"github.com/founderbridge/backend/internal/logger"
	"github.com/founderbridge/backend/internal/models"
	"github.com/founderbridge/backend/internal/service"
)

// Разрешённые типы файлов для загрузки
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Разрешённые расширения файлов
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MediaPrefix — URL, под которым раздаётся хранилище фотографий.
const MediaPrefix = "/media/"

// PhotoStore сохраняет и удаляет файлы фотографий.
type PhotoStore interface {
	Save(ctx context.Context, uid, originalName string, r io.Reader) (string, int64, error)
	Delete(ctx context.Context, relativePath string) error
}

// PhotoProfiles записывает адрес фотографии в профиль роли.
type PhotoProfiles interface {
	SetPhotoURL(ctx context.Context, role models.Role, uid, photoURL string) service.Result
}

// MediaHandler управляет загрузкой фотографий профиля.
type MediaHandler struct {
	storage  PhotoStore
	profiles PhotoProfiles
}

func NewMediaHandler(storage PhotoStore, profiles PhotoProfiles) *MediaHandler {
	return &MediaHandler{storage: storage, profiles: profiles}
}

// UploadProfilePhoto обрабатывает POST /api/profile/photo.
func (h *MediaHandler) UploadProfilePhoto(c *gin.Context) {
	uid, err := common.CurrentUID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role := common.CurrentRole(c)
	if role == models.RoleNone {
		common.RespondBadRequest(c, "token does not carry a role")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.RespondBadRequest(c, "file field is required")
		return
	}
	if file.Size == 0 {
		common.RespondBadRequest(c, "file must not be empty")
		return
	}

	// Валидация расширения файла
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		common.RespondBadRequest(c, fmt.Sprintf("unsupported file format. Allowed: %s", strings.Join(keys(allowedExtensions), ", ")))
		return
	}

	src, err := file.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer src.Close()

	// Магические байты определяют реальный тип файла
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		common.RespondBadRequest(c, "failed to read file")
		return
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown || !allowedMimeTypes[kind.MIME.Value] {
		common.RespondBadRequest(c, fmt.Sprintf("only images are allowed: %s", strings.Join(keys(allowedMimeTypes), ", ")))
		return
	}

	// .jpg и .jpeg - это одно и то же
	expectedExt := "." + kind.Extension
	if ext != expectedExt && !(ext == ".jpeg" && expectedExt == ".jpg") {
		common.RespondBadRequest(c, fmt.Sprintf("file extension (%s) does not match its content (%s)", ext, expectedExt))
		return
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		_ = c.Error(fmt.Errorf("media: не удалось сбросить позицию файла: %w", err))
		return
	}

	relativePath, size, err := h.storage.Save(c.Request.Context(), uid, file.Filename, src)
	if err != nil {
		common.RespondBadRequest(c, "failed to store file")
		logger.Get().WithError(err).WithField("uid", uid).Warn("media: файл не сохранён")
		return
	}

	photoURL := MediaPrefix + relativePath
	res := h.profiles.SetPhotoURL(c.Request.Context(), role, uid, photoURL)
	if !res.Success {
		if err := h.storage.Delete(c.Request.Context(), relativePath); err != nil {
			logger.Get().WithError(err).WithField("path", relativePath).Warn("media: не удалось удалить файл")
		}
		c.JSON(http.StatusBadRequest, dto.PhotoResponse{Result: res})
		return
	}

	c.JSON(http.StatusCreated, dto.PhotoResponse{Result: res, PhotoURL: photoURL, Size: size})
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
