package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/http/middleware"
	"fleetflow/internal/services"
)

// GET /api/expenses
func GetExpenses(c *gin.Context) {
	list, err := fleetService(c).ListExpenses(middleware.Principal(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/expenses
func CreateExpense(c *gin.Context) {
	var in services.CreateExpenseInput
	if !BindJSONOrError(c, &in) {
		return
	}
	e, err := fleetService(c).CreateExpense(middleware.Principal(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}
