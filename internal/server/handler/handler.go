// Package handler implements the HTTP API: photo ingestion plus the login
// and registration endpoints.
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gontarzpawel/photo-pigeon-send/internal/analytics"
	"github.com/gontarzpawel/photo-pigeon-send/internal/common"
	"github.com/gontarzpawel/photo-pigeon-send/internal/logging"
	"github.com/gontarzpawel/photo-pigeon-send/internal/server/exif"
	"github.com/gontarzpawel/photo-pigeon-send/internal/server/middleware"
	"github.com/gontarzpawel/photo-pigeon-send/internal/server/storage"
	"github.com/gontarzpawel/photo-pigeon-send/internal/server/users"
)

// FormField is the multipart field the photo arrives in.
const FormField = "image"

type Handler struct {
	store          *storage.Store
	users          *users.Service
	log            logging.Logger
	sink           analytics.Sink
	maxUploadBytes int64
}

func New(store *storage.Store, userService *users.Service, maxUploadBytes int64, log logging.Logger, sink analytics.Sink) *Handler {
	if sink == nil {
		sink = analytics.Noop{}
	}
	return &Handler{
		store:          store,
		users:          userService,
		log:            log,
		sink:           sink,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload accepts one photo per request. Identical content is rejected with
// 409 and the path of the already stored copy. Photos without a usable EXIF
// date are bucketed under the upload time.
func (h *Handler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	file, header, err := c.Request.FormFile(FormField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File too large (max %dMB)", h.maxUploadBytes>>20),
		})
		return
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error", "message": err.Error()})
		return
	}

	imageDate, err := exif.ExtractImageDate(buffer)
	if err != nil {
		h.log.Debug(ctx, "no usable image date, using upload time", "file", header.Filename, "error", err.Error())
		imageDate = time.Now()
	}

	relPath, err := h.store.Save(buffer, header.Filename, imageDate)
	if err != nil {
		var dup *storage.DuplicateError
		if errors.As(err, &dup) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Image already uploaded",
				"message": "This exact image has already been uploaded previously.",
				"path":    dup.Path,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error", "message": err.Error()})
		return
	}

	username := c.GetString(middleware.UsernameKey)
	h.log.Info(ctx, "photo stored", "path", relPath, "uploader", username)

	go func() {
		_ = h.sink.Track(context.Background(), username, "photo_uploaded", analytics.Properties{
			"path": relPath,
			"size": header.Size,
		})
	}()

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Image uploaded successfully",
		"path":     relPath,
		"date":     imageDate,
		"uploader": username,
	})
}

// Login authenticates a user and returns a bearer token together with the
// identity the client caches.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	token, user, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrBadCredential) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"identity": gin.H{"username": user.UserName, "role": user.Role},
	})
}

// Register creates a new account.
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Email    string `json:"email" binding:"required"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "success": false})
		return
	}

	if _, err := h.users.Register(c.Request.Context(), req.Username, req.Password, req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User registered successfully",
	})
}
