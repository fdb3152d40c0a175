package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/voicebridge/payhub/lib/responses"
	"github.com/voicebridge/payhub/lib/service"
)

// PaymentController : PaymentRecord audit lookups, mainly for reconciling
// records stuck mid-credit.
type PaymentController struct {
	svc *service.PayhubService
}

func NewPaymentController(svc *service.PayhubService) *PaymentController {
	return &PaymentController{svc: svc}
}

// GetPayment : Fetch the tracking record for an order reference
func (controller *PaymentController) GetPayment(c echo.Context) error {
	orderId := c.Param("order_id")
	if _, _, err := service.DecodeOrderRef(orderId); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	record, err := controller.svc.FindPaymentRecord(c.Request().Context(), orderId)
	if err != nil {
		return err
	}
	if record == nil {
		return c.JSON(http.StatusNotFound, responses.PaymentNotFoundError)
	}
	return c.JSON(http.StatusOK, record)
}
