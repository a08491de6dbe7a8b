// Package subcategories serves the leaf level of the dictionary hierarchy.
// Reads embed the parent category (with its type); writes reference it by
// category_id.
package subcategories

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cashflow/app/categories"
	"cashflow/app/httpx"
	"cashflow/models"
)

type Provider interface {
	List(ctx context.Context, search string, categoryID uint) ([]models.Subcategory, error)
	Get(ctx context.Context, id uint) (*models.Subcategory, error)
	Create(ctx context.Context, name string, categoryID uint) (*models.Subcategory, error)
	Update(ctx context.Context, id uint, name *string, categoryID *uint) (*models.Subcategory, error)
	Delete(ctx context.Context, id uint) error
}

type SubcategoryResponse struct {
	ID       uint                        `json:"id"`
	Name     string                      `json:"name"`
	Category categories.CategoryResponse `json:"category"`
}

func toResponse(sub *models.Subcategory) SubcategoryResponse {
	return SubcategoryResponse{
		ID:   sub.ID,
		Name: sub.Name,
		Category: categories.CategoryResponse{
			ID:   sub.Category.ID,
			Name: sub.Category.Name,
			Type: categories.TypeResponse{ID: sub.Category.Type.ID, Name: sub.Category.Type.Name},
		},
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
	var categoryID uint
	if raw := c.Query("category"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httpx.BadRequest(c, models.ValidationErrors{{Field: "category", Message: "Введите число."}})
			return
		}
		categoryID = uint(parsed)
	}

	subcategories, err := h.repo.List(c.Request.Context(), c.Query("search"), categoryID)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	response := make([]SubcategoryResponse, len(subcategories))
	for i := range subcategories {
		response[i] = toResponse(&subcategories[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := httpx.ParseID(c)
	if !ok {
		return
	}
	subcategory, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(subcategory))
}

func (h *Handler) Create(c *gin.Context) {
	var in struct {
		Name       string `json:"name"`
		CategoryID uint   `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.InvalidBody(c)
		return
	}

	var verrs models.ValidationErrors
	if in.Name == "" {
		verrs.Add("name", "Обязательное поле.")
	}
	if in.CategoryID == 0 {
		verrs.Add("category_id", "Обязательное поле.")
	}
	if len(verrs) > 0 {
		httpx.BadRequest(c, verrs)
		return
	}

	subcategory, err := h.repo.Create(c.Request.Context(), in.Name, in.CategoryID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(subcategory))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := httpx.ParseID(c)
	if !ok {
		return
	}

	var in struct {
		Name       *string `json:"name"`
		CategoryID *uint   `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.InvalidBody(c)
		return
	}
	if in.Name != nil && *in.Name == "" {
		httpx.BadRequest(c, models.ValidationErrors{{Field: "name", Message: "Обязательное поле."}})
		return
	}

	subcategory, err := h.repo.Update(c.Request.Context(), id, in.Name, in.CategoryID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(subcategory))
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
