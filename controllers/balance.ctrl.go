package controllers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/voicebridge/payhub/lib/responses"
	"github.com/voicebridge/payhub/lib/service"
)

// BalanceController : BalanceController struct
type BalanceController struct {
	svc *service.PayhubService
}

func NewBalanceController(svc *service.PayhubService) *BalanceController {
	return &BalanceController{svc: svc}
}

type BalanceResponse struct {
	UserID  int64 `json:"user_id"`
	Balance int64 `json:"balance"`
}

// Balance : Balance Controller
func (controller *BalanceController) Balance(c echo.Context) error {
	userId, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	balance, err := controller.svc.CurrentUserBalance(c.Request().Context(), userId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, responses.UserNotFoundError)
		}
		return err
	}
	return c.JSON(http.StatusOK, &BalanceResponse{
		UserID:  userId,
		Balance: balance,
	})
}
