package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"report-assistant/api/handler"
)

func RegisterRoutes(r *gin.Engine, reportH *handler.ReportHandler) {
	r.GET("/", reportH.Root)
	r.GET("/health", reportH.Health)
	r.GET("/demo", reportH.Demo)
	r.POST("/analyze", reportH.Analyze)

	analyses := r.Group("/analyses")
	{
		analyses.GET("", reportH.ListAnalyses)
		analyses.GET("/:id", reportH.GetAnalysis)
	}
}

// New 组装 gin 引擎和中间件，外层包一层 CORS
func New(reportH *handler.ReportHandler, corsOrigins []string, maxUploadMB int) http.Handler {
	r := gin.New()
	r.MaxMultipartMemory = int64(maxUploadMB) << 20
	r.Use(handler.RequestID(), handler.AccessLog(), handler.Recovery())
	RegisterRoutes(r, reportH)

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
			http.MethodHead,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{handler.HeaderRequestID},
		AllowCredentials: true,
	})
	return c.Handler(r)
}
