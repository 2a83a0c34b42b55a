package api

import "github.com/gin-gonic/gin"

// Middleware lets callers attach optional middleware to route groups.
// Nil entries are skipped.
type Middleware struct {
	UploadLimit gin.HandlerFunc
	Clinician   gin.HandlerFunc
}

// RegisterRoutes mounts the screening routes under /screening
func (h *Handler) RegisterRoutes(r gin.IRouter, mw Middleware) {
	g := r.Group("/screening")

	g.POST("/predict", h.Predict)
	g.POST("/video", chain(mw.UploadLimit, h.AnalyzeVideo)...)
	g.POST("/multimodal", chain(mw.UploadLimit, h.Multimodal)...)
	g.POST("/gamified", chain(mw.UploadLimit, h.Gamified)...)
	g.GET("/history", chain(mw.Clinician, h.History)...)
}

// RegisterRoutes mounts /, /health and /metrics
func (h *SystemHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/metrics", h.Metrics)
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
