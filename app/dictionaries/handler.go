// Package dictionaries serves the two flat lookup dictionaries (operation
// statuses and operation types). One handler covers both: the instances
// differ only in the repository they are given.
package dictionaries

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"cashflow/app/httpx"
	"cashflow/models"
)

type Provider interface {
	List(ctx context.Context, search string) ([]models.DictionaryEntry, error)
	Get(ctx context.Context, id uint) (*models.DictionaryEntry, error)
	Create(ctx context.Context, name string) (*models.DictionaryEntry, error)
	Update(ctx context.Context, id uint, name string) (*models.DictionaryEntry, error)
	Delete(ctx context.Context, id uint) error
}

type Handler struct {
	repo Provider
}

func NewHandler(repo Provider) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

type input struct {
	Name string `json:"name"`
}

func (h *Handler) List(c *gin.Context) {
	entries, err := h.repo.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if entries == nil {
		entries = make([]models.DictionaryEntry, 0)
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := httpx.ParseID(c)
	if !ok {
		return
	}
	entry, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) Create(c *gin.Context) {
	var in input
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.InvalidBody(c)
		return
	}
	if in.Name == "" {
		httpx.BadRequest(c, models.ValidationErrors{{Field: "name", Message: "Обязательное поле."}})
		return
	}

	entry, err := h.repo.Create(c.Request.Context(), in.Name)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := httpx.ParseID(c)
	if !ok {
		return
	}

	var in input
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.InvalidBody(c)
		return
	}
	if in.Name == "" {
		httpx.BadRequest(c, models.ValidationErrors{{Field: "name", Message: "Обязательное поле."}})
		return
	}

	entry, err := h.repo.Update(c.Request.Context(), id, in.Name)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := httpx.ParseID(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		httpx.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
