package main

import (
	"context"
	"net/http"

	"member-heatmap/docs"
	"member-heatmap/internal/app"
	"member-heatmap/internal/config"
	"member-heatmap/internal/export"
	"member-heatmap/internal/handler"
	"member-heatmap/internal/logger"
	"member-heatmap/internal/metrics"
	"member-heatmap/internal/models"
	"member-heatmap/internal/roster"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title        Member Heatmap API
// @version      1.0
// @description  Geocodes member rosters and renders weighted heatmaps.
// @BasePath     /
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logger.Setup(config.LogLevel, config.LogFormat)

	// Initialize layers
	heatmapService, err := app.NewHeatmapService(context.Background(), config)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot build heatmap service")
	}

	pages, err := export.NewRenderer(config.MapStyleURL)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load templates")
	}

	rosterReader := roster.NewReader(config.RosterEncoding)
	heatmapHandler := handler.NewHeatmapHandler(heatmapService, rosterReader)
	filterHandler := handler.NewFilterHandler(heatmapService, rosterReader)
	pageHandler := handler.NewPageHandler(heatmapHandler, pages, models.DefaultFilterColumns())

	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(), handler.LimitBody(config.MaxUploadBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/", pageHandler.Index)
	r.POST("/heatmap", pageHandler.Heatmap)

	api := r.Group("/api")
	api.POST("/filters", filterHandler.Filters)
	api.POST("/heatmap", heatmapHandler.Heatmap)
	api.POST("/heatmap/csv", heatmapHandler.CSV)
	api.POST("/heatmap/geojson", heatmapHandler.GeoJSON)

	log.Info().Str("addr", config.ServerAddress).Msg("starting server")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
