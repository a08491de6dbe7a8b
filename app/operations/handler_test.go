package operations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"cashflow/models"
)

// --- Mock Repo ---

type MockOperationRepo struct {
	Operations []models.Operation
	Err        error

	lastOffset  int
	lastLimit   int
	lastFilters models.OperationFilters
	lastInput   models.OperationInput
	lastID      uint
}

func (m *MockOperationRepo) List(_ context.Context, offset, limit int, filters models.OperationFilters) ([]models.Operation, int64, error) {
	m.lastOffset = offset
	m.lastLimit = limit
	m.lastFilters = filters

	if m.Err != nil {
		return nil, 0, m.Err
	}

	// Simulate filtering and ordering the way the store does.
	var filtered []models.Operation
	for _, op := range m.Operations {
		if filters.DateFrom != nil && op.Date.Before(*filters.DateFrom) {
			continue
		}
		if filters.DateTo != nil && op.Date.After(*filters.DateTo) {
			continue
		}
		if filters.StatusID != 0 && op.StatusID != filters.StatusID {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(op.Comment), strings.ToLower(filters.Search)) {
			continue
		}
		filtered = append(filtered, op)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if !filtered[i].Date.Equal(filtered[j].Date) {
			return filtered[i].Date.After(filtered[j].Date)
		}
		return filtered[i].ID > filtered[j].ID
	})

	total := int64(len(filtered))
	start := offset
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total, nil
}

func (m *MockOperationRepo) Get(_ context.Context, id uint) (*models.Operation, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, op := range m.Operations {
		if op.ID == id {
			found := op
			return &found, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MockOperationRepo) Create(_ context.Context, in models.OperationInput) (*models.Operation, error) {
	m.lastInput = in
	if m.Err != nil {
		return nil, m.Err
	}
	op := newTestOperation(uint(len(m.Operations)+1), "2024-01-15", "1000.00", "")
	in.Apply(&op)
	return &op, nil
}

func (m *MockOperationRepo) Update(_ context.Context, id uint, in models.OperationInput) (*models.Operation, error) {
	m.lastID = id
	m.lastInput = in
	if m.Err != nil {
		return nil, m.Err
	}
	for _, op := range m.Operations {
		if op.ID == id {
			merged := op
			in.Apply(&merged)
			return &merged, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MockOperationRepo) Delete(_ context.Context, id uint) error {
	m.lastID = id
	return m.Err
}

// --- Helpers ---

func newTestOperation(id uint, date, amount, comment string) models.Operation {
	day, _ := time.Parse(dateLayout, date)
	typeIn := models.OperationType{ID: 1, Name: "Пополнение"}
	catInf := models.Category{ID: 1, Name: "Инфраструктура", TypeID: 1, Type: typeIn}

	return models.Operation{
		ID:            id,
		Date:          day,
		StatusID:      1,
		Status:        models.OperationStatus{ID: 1, Name: "Бизнес"},
		TypeID:        1,
		Type:          typeIn,
		CategoryID:    1,
		Category:      catInf,
		SubcategoryID: 1,
		Subcategory:   models.Subcategory{ID: 1, Name: "VPS", CategoryID: 1, Category: catInf},
		Amount:        decimal.RequireFromString(amount),
		Comment:       comment,
	}
}

func newTestRouter(repo Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(repo, 20).Register(r.Group("/api/operations"))
	return r
}

func doRequest(r *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type errorsResponse struct {
	Errors map[string][]string `json:"errors"`
}

// --- Tests ---

func TestOperationList(t *testing.T) {
	allOps := []models.Operation{
		newTestOperation(1, "2023-12-31", "500.00", "прошлый год"),
		newTestOperation(2, "2024-01-01", "1000.00", "оплата VPS"),
		newTestOperation(3, "2024-01-31", "250.50", "продление домена"),
		newTestOperation(4, "2024-02-01", "99.90", "реклама"),
		newTestOperation(5, "2024-01-31", "10.00", "кофе"),
	}

	t.Run("Default pagination uses the configured page size", func(t *testing.T) {
		repo := &MockOperationRepo{Operations: allOps}
		rec := doRequest(newTestRouter(repo), http.MethodGet, "/api/operations", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, repo.lastOffset)
		assert.Equal(t, 20, repo.lastLimit)
	})

	t.Run("Inclusive date range, newest first", func(t *testing.T) {
		repo := &MockOperationRepo{Operations: allOps}
		rec := doRequest(newTestRouter(repo), http.MethodGet,
			"/api/operations?date_from=2024-01-01&date_to=2024-01-31", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data      []OperationResponse `json:"data"`
			TotalRows int64               `json:"totalRows"`
		}
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, int64(3), resp.TotalRows)
		assert.Len(t, resp.Data, 3)
		// Both boundary dates included; same-date tie broken by id descending.
		assert.Equal(t, uint(5), resp.Data[0].ID)
		assert.Equal(t, uint(3), resp.Data[1].ID)
		assert.Equal(t, uint(2), resp.Data[2].ID)
	})

	t.Run("Comment search is case-insensitive", func(t *testing.T) {
		repo := &MockOperationRepo{Operations: allOps}
		rec := doRequest(newTestRouter(repo), http.MethodGet, "/api/operations?search=vps", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "vps", repo.lastFilters.Search)

		var resp struct {
			Data []OperationResponse `json:"data"`
		}
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Len(t, resp.Data, 1)
		assert.Equal(t, "оплата VPS", resp.Data[0].Comment)
	})

	t.Run("Reference filters are passed through", func(t *testing.T) {
		repo := &MockOperationRepo{Operations: allOps}
		rec := doRequest(newTestRouter(repo), http.MethodGet,
			"/api/operations?status=1&type=2&category=3&subcategory=4", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uint(1), repo.lastFilters.StatusID)
		assert.Equal(t, uint(2), repo.lastFilters.TypeID)
		assert.Equal(t, uint(3), repo.lastFilters.CategoryID)
		assert.Equal(t, uint(4), repo.lastFilters.SubcategoryID)
	})

	t.Run("Malformed date filter is a field-scoped client error", func(t *testing.T) {
		rec := doRequest(newTestRouter(&MockOperationRepo{}), http.MethodGet,
			"/api/operations?date_from=31-01-2024", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp errorsResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Contains(t, resp.Errors, "date_from")
	})

	t.Run("Reads are denormalized down to the type of the subcategory's category", func(t *testing.T) {
		repo := &MockOperationRepo{Operations: allOps[:1]}
		rec := doRequest(newTestRouter(repo), http.MethodGet, "/api/operations", "")

		var resp struct {
			Data []OperationResponse `json:"data"`
		}
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Бизнес", resp.Data[0].Status.Name)
		assert.Equal(t, "Пополнение", resp.Data[0].Type.Name)
		assert.Equal(t, "Инфраструктура", resp.Data[0].Category.Name)
		assert.Equal(t, "VPS", resp.Data[0].Subcategory.Name)
		assert.Equal(t, "Пополнение", resp.Data[0].Subcategory.Category.Type.Name)
		assert.Equal(t, "500.00", resp.Data[0].Amount)
	})
}

func TestOperationCreate(t *testing.T) {
	testCases := []struct {
		name               string
		body               string
		mockRepoSetup      func() *MockOperationRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkRepoCall      func(t *testing.T, repo *MockOperationRepo)
	}{
		{
			name: "Success",
			body: `{"date":"2024-01-15","status_id":1,"type_id":1,"category_id":1,"subcategory_id":1,"amount":"1000.00","comment":"оплата VPS"}`,
			mockRepoSetup: func() *MockOperationRepo {
				return &MockOperationRepo{}
			},
			expectedStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp OperationResponse
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "2024-01-15", resp.Date)
				assert.Equal(t, "1000.00", resp.Amount)
				assert.Equal(t, "оплата VPS", resp.Comment)
			},
			checkRepoCall: func(t *testing.T, repo *MockOperationRepo) {
				assert.NotNil(t, repo.lastInput.Amount)
				assert.True(t, repo.lastInput.Amount.Equal(decimal.RequireFromString("1000.00")))
				assert.Equal(t, uint(1), *repo.lastInput.StatusID)
			},
		},
		{
			name: "Date may be omitted, the store defaults it to today",
			body: `{"status_id":1,"type_id":1,"category_id":1,"subcategory_id":1,"amount":"10.00"}`,
			mockRepoSetup: func() *MockOperationRepo {
				return &MockOperationRepo{}
			},
			expectedStatusCode: http.StatusCreated,
			checkRepoCall: func(t *testing.T, repo *MockOperationRepo) {
				assert.Nil(t, repo.lastInput.Date)
			},
		},
		{
			name: "Non-numeric amount is a field error",
			body: `{"status_id":1,"type_id":1,"category_id":1,"subcategory_id":1,"amount":"сто"}`,
			mockRepoSetup: func() *MockOperationRepo {
				return &MockOperationRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp errorsResponse
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Contains(t, resp.Errors, "amount")
			},
		},
		{
			name: "Validation failures from the store surface per field",
			body: `{"status_id":1,"type_id":1,"category_id":2,"subcategory_id":2,"amount":"-1"}`,
			mockRepoSetup: func() *MockOperationRepo {
				return &MockOperationRepo{Err: models.ValidationErrors{
					{Field: "amount", Message: "Сумма должна быть положительной."},
					{Field: "category", Message: "Категория должна соответствовать выбранному типу."},
				}}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp errorsResponse
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Contains(t, resp.Errors, "amount")
				assert.Contains(t, resp.Errors, "category")
			},
		},
		{
			name: "Invalid JSON body",
			body: `{invalid`,
			mockRepoSetup: func() *MockOperationRepo {
				return &MockOperationRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := tc.mockRepoSetup()
			rec := doRequest(newTestRouter(repo), http.MethodPost, "/api/operations", tc.body)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, repo)
			}
		})
	}
}

func TestOperationUpdate(t *testing.T) {
	seed := []models.Operation{newTestOperation(1, "2024-01-15", "1000.00", "старый комментарий")}

	t.Run("Patching only the comment leaves every other field untouched", func(t *testing.T) {
		repo := &MockOperationRepo{Operations: seed}
		rec := doRequest(newTestRouter(repo), http.MethodPatch, "/api/operations/1", `{"comment":"новый комментарий"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, uint(1), repo.lastID)
		assert.NotNil(t, repo.lastInput.Comment)
		assert.Nil(t, repo.lastInput.Amount)
		assert.Nil(t, repo.lastInput.StatusID)
		assert.Nil(t, repo.lastInput.TypeID)
		assert.Nil(t, repo.lastInput.CategoryID)
		assert.Nil(t, repo.lastInput.SubcategoryID)
		assert.Nil(t, repo.lastInput.Date)

		var resp OperationResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "новый комментарий", resp.Comment)
		assert.Equal(t, "1000.00", resp.Amount)
		assert.Equal(t, "2024-01-15", resp.Date)
	})

	t.Run("Updating a missing operation answers 404", func(t *testing.T) {
		rec := doRequest(newTestRouter(&MockOperationRepo{}), http.MethodPatch, "/api/operations/99", `{"comment":"x"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestOperationDelete(t *testing.T) {
	t.Run("Existing operation answers 204", func(t *testing.T) {
		repo := &MockOperationRepo{}
		rec := doRequest(newTestRouter(repo), http.MethodDelete, "/api/operations/5", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, uint(5), repo.lastID)
	})

	t.Run("Missing operation answers 404", func(t *testing.T) {
		repo := &MockOperationRepo{Err: models.ErrNotFound}
		rec := doRequest(newTestRouter(repo), http.MethodDelete, "/api/operations/5", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
