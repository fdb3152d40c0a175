package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/voicebridge/payhub/lib/responses"
	"github.com/voicebridge/payhub/lib/service"
)

// PaylinkController : Payment link Controller struct
type PaylinkController struct {
	svc *service.PayhubService
}

func NewPaylinkController(svc *service.PayhubService) *PaylinkController {
	return &PaylinkController{svc: svc}
}

type CreatePaylinkRequestBody struct {
	UserID   int64  `json:"user_id" validate:"required,gt=0"`
	Amount   int64  `json:"amount" validate:"required,gt=0"`
	Currency string `json:"currency"`
}

type CreatePaylinkResponseBody struct {
	Url       string `json:"url"`
	OrderId   string `json:"order_id"`
	InvoiceId int64  `json:"invoice_id"`
}

// CreatePaylink : Issues a provider payment link for a user top-up
func (controller *PaylinkController) CreatePaylink(c echo.Context) error {
	var body CreatePaylinkRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create paylink request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid create paylink request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	result, err := controller.svc.IssuePaymentLink(c.Request().Context(), body.UserID, body.Amount, body.Currency)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			return c.JSON(http.StatusBadRequest, responses.InvalidAmountError)
		case errors.Is(err, service.ErrLinkCreationFailed):
			return c.JSON(http.StatusBadGateway, responses.LinkCreationFailedError)
		}
		return err
	}

	return c.JSON(http.StatusOK, &CreatePaylinkResponseBody{
		Url:       result.Url,
		OrderId:   result.OrderId,
		InvoiceId: result.InvoiceId,
	})
}
