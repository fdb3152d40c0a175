package transport

import (
	"github.com/labstack/echo/v4"
	"github.com/voicebridge/payhub/controllers"
	"github.com/voicebridge/payhub/lib/service"
)

func RegisterEndpoints(svc *service.PayhubService, e *echo.Echo, admin *echo.Group, strictRateLimitMiddleware echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	webhookCtrl := controllers.NewWebhookController(svc)
	paylinkCtrl := controllers.NewPaylinkController(svc)
	balanceCtrl := controllers.NewBalanceController(svc)
	paymentCtrl := controllers.NewPaymentController(svc)

	// the provider calls this; auth is the payload signature, not a token
	e.POST("/v2/webhooks/payments", webhookCtrl.HandleWebhook, logMw)

	admin.POST("/v2/paylinks", paylinkCtrl.CreatePaylink, strictRateLimitMiddleware)
	admin.GET("/v2/balance/:user_id", balanceCtrl.Balance)
	admin.GET("/v2/payments/:order_id", paymentCtrl.GetPayment)
}
