package router

import (
	"github.com/gin-gonic/gin"
	"github.com/hirepurchase/backend/internal/domain/identity"
	"github.com/hirepurchase/backend/internal/interfaces/http/handler"
	"github.com/hirepurchase/backend/internal/interfaces/http/middleware"
)

// Handlers are the endpoints mounted by LeasingRoutes
type Handlers struct {
	Contracts       *handler.ContractHandler
	Payments        *handler.PaymentHandler
	Proofs          *handler.ProofHandler
	Receipts        *handler.ReceiptHandler
	Assets          *handler.AssetHandler
	Customers       *handler.CustomerHandler
	PaymentChannels *handler.PaymentChannelHandler
	Portal          *handler.PortalHandler
	Dashboard       *handler.DashboardHandler
	System          *handler.SystemHandler

	// PaymentIdempotency guards POST /payments; nil disables it
	PaymentIdempotency gin.HandlerFunc
	// UploadRateLimit throttles the image upload routes; nil disables it
	UploadRateLimit gin.HandlerFunc
}

// upload prepends the upload limiter when one is configured
func (h Handlers) upload(next gin.HandlerFunc) []gin.HandlerFunc {
	if h.UploadRateLimit == nil {
		return []gin.HandlerFunc{next}
	}
	return []gin.HandlerFunc{h.UploadRateLimit, next}
}

// LeasingRoutes builds the authenticated API. Every group expects the JWT
// middleware to have run; role checks happen per route.
func LeasingRoutes(h Handlers) []RouteRegistrar {
	owner := middleware.RequireRoles(identity.RoleOwner)
	customer := middleware.RequireRoles(identity.RoleCustomer)

	contracts := NewDomainGroup("contracts", "/contracts").
		POST("/preview", middleware.RequireRoles(identity.RoleOwner, identity.RoleAdmin), h.Contracts.Preview).
		POST("", owner, h.Contracts.Create).
		GET("", h.Contracts.List).
		GET("/:id", h.Contracts.Get).
		POST("/:id/cancel", owner, h.Contracts.Cancel).
		GET("/:id/schedule.xlsx", middleware.RequireRoles(identity.RoleOwner, identity.RoleCustomer), h.Contracts.ExportSchedule)

	recordPayment := []gin.HandlerFunc{owner}
	if h.PaymentIdempotency != nil {
		recordPayment = append(recordPayment, h.PaymentIdempotency)
	}
	payments := NewDomainGroup("payments", "/payments").
		POST("", append(recordPayment, h.Payments.Record)...)

	portal := NewDomainGroup("customer", "/customer").
		Use(customer).
		POST("/payments", h.upload(h.Proofs.Submit)...).
		GET("/payments", h.Proofs.ListMine).
		GET("/contracts", h.Portal.ListContracts).
		GET("/contracts/:id", h.Portal.GetContract).
		GET("/contracts/:id/payment-channel", h.Portal.GetPaymentChannel)

	ownerArea := NewDomainGroup("owner", "/owner").
		Use(owner).
		GET("/payments", h.Proofs.ListForOwner).
		PUT("/payments/:id/approve", h.Proofs.Approve).
		PUT("/payments/:id/reject", h.Proofs.Reject).
		GET("/payment-channel", h.PaymentChannels.Get).
		PUT("/payment-channel", h.PaymentChannels.Update).
		PUT("/payment-channel/qr", h.upload(h.PaymentChannels.UploadQRCode)...)

	receipts := NewDomainGroup("receipts", "/receipts").
		GET("/:id", h.Receipts.Get).
		GET("/:id/pdf", h.Receipts.PDF)

	assets := NewDomainGroup("assets", "/assets").
		Use(owner).
		POST("", h.Assets.Create).
		GET("", h.Assets.List).
		GET("/:id", h.Assets.Get)

	customers := NewDomainGroup("customers", "/customers").
		Use(owner).
		POST("", h.Customers.Create).
		GET("", h.Customers.List).
		GET("/:id", h.Customers.Get)

	dashboard := NewDomainGroup("dashboard", "/dashboard").
		GET("/owner", owner, h.Dashboard.Owner)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo)

	return []RouteRegistrar{contracts, payments, portal, ownerArea, receipts, assets, customers, dashboard, system}
}
