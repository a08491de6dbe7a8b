// Package httpx maps repository errors onto the API's response contract.
package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cashflow/models"
)

// ParseID reads the numeric :id path parameter. A malformed id answers 404
// like a missing record would.
func ParseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Не найдено."})
		return 0, false
	}
	return uint(id), true
}

// Error writes the response for a failed repository call. Validation and
// duplicate-name failures are client errors with per-field messages; blocked
// deletes answer 409; anything unexpected is a 500.
func Error(c *gin.Context, err error) {
	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verrs.Fields()})
	case errors.Is(err, models.ErrDuplicateName):
		c.JSON(http.StatusBadRequest, gin.H{"errors": map[string][]string{
			"name": {"Запись с таким именем уже существует."},
		}})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Не найдено."})
	case errors.Is(err, models.ErrInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "Удаление невозможно: запись используется."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Внутренняя ошибка сервера."})
	}
}

// BadRequest writes a field-scoped 400 without going through a repository.
func BadRequest(c *gin.Context, verrs models.ValidationErrors) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": verrs.Fields()})
}

// InvalidBody answers requests whose JSON payload could not be decoded.
func InvalidBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса."})
}
