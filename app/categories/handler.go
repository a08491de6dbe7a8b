// Package categories serves the middle level of the type to category to
// subcategory hierarchy. Reads embed the parent type; writes reference it by
// type_id.
package categories

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cashflow/app/httpx"
	"cashflow/models"
)

type Provider interface {
	List(ctx context.Context, search string, typeID uint) ([]models.Category, error)
	Get(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, name string, typeID uint) (*models.Category, error)
	Update(ctx context.Context, id uint, name *string, typeID *uint) (*models.Category, error)
	Delete(ctx context.Context, id uint) error
}

type TypeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CategoryResponse struct {
	ID   uint         `json:"id"`
	Name string       `json:"name"`
	Type TypeResponse `json:"type"`
}

func toResponse(cat *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:   cat.ID,
		Name: cat.Name,
		Type: TypeResponse{ID: cat.Type.ID, Name: cat.Type.Name},
	}
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

func (h *Handler) List(c *gin.Context) {
	var typeID uint
	if raw := c.Query("type"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httpx.BadRequest(c, models.ValidationErrors{{Field: "type", Message: "Введите число."}})
			return
		}
		typeID = uint(parsed)
	}

	categories, err := h.repo.List(c.Request.Context(), c.Query("search"), typeID)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i := range categories {
		response[i] = toResponse(&categories[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := httpx.ParseID(c)
	if !ok {
		return
	}
	category, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(category))
}

func (h *Handler) Create(c *gin.Context) {
	var in struct {
		Name   string `json:"name"`
		TypeID uint   `json:"type_id"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.InvalidBody(c)
		return
	}

	var verrs models.ValidationErrors
	if in.Name == "" {
		verrs.Add("name", "Обязательное поле.")
	}
	if in.TypeID == 0 {
		verrs.Add("type_id", "Обязательное поле.")
	}
	if len(verrs) > 0 {
		httpx.BadRequest(c, verrs)
		return
	}

	category, err := h.repo.Create(c.Request.Context(), in.Name, in.TypeID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(category))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := httpx.ParseID(c)
	if !ok {
		return
	}

	var in struct {
		Name   *string `json:"name"`
		TypeID *uint   `json:"type_id"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.InvalidBody(c)
		return
	}
	if in.Name != nil && *in.Name == "" {
		httpx.BadRequest(c, models.ValidationErrors{{Field: "name", Message: "Обязательное поле."}})
		return
	}

	category, err := h.repo.Update(c.Request.Context(), id, in.Name, in.TypeID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(category))
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
