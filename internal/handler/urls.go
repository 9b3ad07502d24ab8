package handler

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/covox/callaudit/pkg/middleware"
	stores "github.com/covox/callaudit/pkg/storage"
	"github.com/covox/callaudit/pkg/transcriber"
)

// Handlers bundles the shared dependencies every route needs.
type Handlers struct {
	db    *gorm.DB
	store stores.Store
	asr   transcriber.Service
}

func NewHandlers(db *gorm.DB, store stores.Store, asr transcriber.Service) *Handlers {
	return &Handlers{db: db, store: store, asr: asr}
}

// Register mounts the API under the given prefix. Health lives at the root
// so probes don't depend on the API prefix.
func (h *Handlers) Register(r *gin.Engine, prefix string) {
	api := r.Group(prefix)
	api.Use(middleware.InjectDB(h.db))

	h.registerUserRoutes(api)
	h.registerAgentRoutes(api)
	h.registerCallRoutes(api)
	h.registerKnowledgeRoutes(api)

	r.GET("/health", h.Health)
}
