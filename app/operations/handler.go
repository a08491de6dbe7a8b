// Package operations serves the cash-flow ledger. Reads come back with every
// reference resolved to a nested object; writes carry bare *_id foreign keys.
package operations

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"cashflow/app/categories"
	"cashflow/app/httpx"
	"cashflow/app/subcategories"
	"cashflow/models"
)

const dateLayout = "2006-01-02"

type Provider interface {
	List(ctx context.Context, offset, limit int, filters models.OperationFilters) ([]models.Operation, int64, error)
	Get(ctx context.Context, id uint) (*models.Operation, error)
	Create(ctx context.Context, in models.OperationInput) (*models.Operation, error)
	Update(ctx context.Context, id uint, in models.OperationInput) (*models.Operation, error)
	Delete(ctx context.Context, id uint) error
}

type DictResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type OperationResponse struct {
	ID          uint                              `json:"id"`
	Date        string                            `json:"date"`
	Status      DictResponse                      `json:"status"`
	Type        DictResponse                      `json:"type"`
	Category    categories.CategoryResponse       `json:"category"`
	Subcategory subcategories.SubcategoryResponse `json:"subcategory"`
	Amount      string                            `json:"amount"`
	Comment     string                            `json:"comment"`
	CreatedAt   time.Time                         `json:"created_at"`
	UpdatedAt   time.Time                         `json:"updated_at"`
}

func toResponse(op *models.Operation) OperationResponse {
	return OperationResponse{
		ID:     op.ID,
		Date:   op.Date.Format(dateLayout),
		Status: DictResponse{ID: op.Status.ID, Name: op.Status.Name},
		Type:   DictResponse{ID: op.Type.ID, Name: op.Type.Name},
		Category: categories.CategoryResponse{
			ID:   op.Category.ID,
			Name: op.Category.Name,
			Type: categories.TypeResponse{ID: op.Category.Type.ID, Name: op.Category.Type.Name},
		},
		Subcategory: subcategories.SubcategoryResponse{
			ID:   op.Subcategory.ID,
			Name: op.Subcategory.Name,
			Category: categories.CategoryResponse{
				ID:   op.Subcategory.Category.ID,
				Name: op.Subcategory.Category.Name,
				Type: categories.TypeResponse{
					ID:   op.Subcategory.Category.Type.ID,
					Name: op.Subcategory.Category.Type.Name,
				},
			},
		},
		Amount:    op.Amount.StringFixed(2),
		Comment:   op.Comment,
		CreatedAt: op.CreatedAt,
		UpdatedAt: op.UpdatedAt,
	}
}

type Handler struct {
	repo     Provider
	pageSize int
}

// NewHandler builds the ledger handler; pageSize is the configured default
// page size for listings.
func NewHandler(repo Provider, pageSize int) *Handler {
	return &Handler{repo: repo, pageSize: pageSize}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// request is the write payload. Every field is optional at the JSON level;
// what is actually required is decided by the validation engine against the
// full candidate record.
type request struct {
	Date          *string `json:"date"`
	StatusID      *uint   `json:"status_id"`
	TypeID        *uint   `json:"type_id"`
	CategoryID    *uint   `json:"category_id"`
	SubcategoryID *uint   `json:"subcategory_id"`
	Amount        *string `json:"amount"`
	Comment       *string `json:"comment"`
}

// toInput converts the payload, collecting format errors per field.
func (r request) toInput() (models.OperationInput, models.ValidationErrors) {
	var verrs models.ValidationErrors
	in := models.OperationInput{
		StatusID:      r.StatusID,
		TypeID:        r.TypeID,
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		Comment:       r.Comment,
	}

	if r.Date != nil {
		parsed, err := time.Parse(dateLayout, *r.Date)
		if err != nil {
			verrs.Add("date", "Введите правильную дату.")
		} else {
			in.Date = &parsed
		}
	}

	if r.Amount != nil {
		parsed, err := decimal.NewFromString(*r.Amount)
		if err != nil {
			verrs.Add("amount", "Требуется численное значение.")
		} else {
			in.Amount = &parsed
		}
	}

	return in, verrs
}

func parseFilters(c *gin.Context) (models.OperationFilters, models.ValidationErrors) {
	var verrs models.ValidationErrors
	filters := models.OperationFilters{Search: c.Query("search")}

	parseDate := func(field string) *time.Time {
		raw := c.Query(field)
		if raw == "" {
			return nil
		}
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			verrs.Add(field, "Введите правильную дату.")
			return nil
		}
		return &parsed
	}
	filters.DateFrom = parseDate("date_from")
	filters.DateTo = parseDate("date_to")

	parseRef := func(field string) uint {
		raw := c.Query(field)
		if raw == "" {
			return 0
		}
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			verrs.Add(field, "Введите число.")
			return 0
		}
		return uint(parsed)
	}
	filters.StatusID = parseRef("status")
	filters.TypeID = parseRef("type")
	filters.CategoryID = parseRef("category")
	filters.SubcategoryID = parseRef("subcategory")

	return filters, verrs
}

func (h *Handler) List(c *gin.Context) {
	filters, verrs := parseFilters(c)
	if len(verrs) > 0 {
		httpx.BadRequest(c, verrs)
		return
	}

	page, size := pageParams(c, h.pageSize)
	offset := (page - 1) * size

	ops, total, err := h.repo.List(c.Request.Context(), offset, size, filters)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	response := make([]OperationResponse, len(ops))
	for i := range ops {
		response[i] = toResponse(&ops[i])
	}
	c.JSON(http.StatusOK, newPaginatedResponse(response, total, page, size))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := httpx.ParseID(c)
	if !ok {
		return
	}
	op, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(op))
}

func (h *Handler) Create(c *gin.Context) {
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.InvalidBody(c)
		return
	}

	in, verrs := req.toInput()
	if len(verrs) > 0 {
		httpx.BadRequest(c, verrs)
		return
	}

	op, err := h.repo.Create(c.Request.Context(), in)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(op))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := httpx.ParseID(c)
	if !ok {
		return
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.InvalidBody(c)
		return
	}

	in, verrs := req.toInput()
	if len(verrs) > 0 {
		httpx.BadRequest(c, verrs)
		return
	}

	op, err := h.repo.Update(c.Request.Context(), id, in)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(op))
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
