package responses

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var BadAuthError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "bad auth",
	HttpStatusCode: 401,
}

var InvalidAmountError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "amount is outside the allowed range",
	HttpStatusCode: 400,
}

var LinkCreationFailedError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "could not create a payment link. Please try again later",
	HttpStatusCode: 502,
}

var UserNotFoundError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "user not found",
	HttpStatusCode: 404,
}

var PaymentNotFoundError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "payment not found",
	HttpStatusCode: 404,
}

const badAuthErrorCode = 1

func isErrAllowedForSentry(err error) bool {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		return true
	}
	body, ok := he.Message.(echo.Map)
	if !ok {
		return true
	}
	code, ok := body["code"].(int)
	if !ok {
		return true
	}
	return code != badAuthErrorCode
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil && isErrAllowedForSentry(err) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("UserID", c.Get("UserID"))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, he.Message)
	} else {
		c.JSON(http.StatusInternalServerError, GeneralServerError)
	}
}
