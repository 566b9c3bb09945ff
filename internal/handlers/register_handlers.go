package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/hostbooks/host_books_app/internal/core/ports/services"
	"github.com/hostbooks/host_books_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	// All data is scoped to an owner's portfolio.
	owners := v1.Group("/owners/:ownerID")

	registerImportRoutes(owners, services.Import)
	registerAllocationRoutes(owners, services.Allocation)
	registerLedgerRoutes(owners, services.Ledger)
	registerPropertyRoutes(owners, services.Property, services.Resolver)
}
