// Package api registers the HTTP control surface for pipeline runs.
package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	"orders-revenue-pipeline/internal/api/handler"
	"orders-revenue-pipeline/pkg/router"
)

// RegisterRoutes wires all run endpoints and the swagger UI onto r.
func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/runs", handler.CreateRun)
	r.GET("/api/v1/runs", handler.ListRuns)

	r.GET("/api/v1/runs/*/report", handler.GetRunReport)
	r.GET("/api/v1/runs/*/errors", handler.GetRunErrors)
	r.GET("/api/v1/runs/*/logs", handler.GetRunLogs)
	r.GET("/api/v1/runs/*/files/*", handler.DownloadRunFile)

	// Generic run lookup last so the sub-resource routes match first.
	r.GET("/api/v1/runs/*", handler.GetRun)

	r.Mount("/swagger/", httpSwagger.WrapHandler)
}
