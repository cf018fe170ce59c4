package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	applog "github.com/Sriram-PR/storylens/pkg/log"
	"github.com/Sriram-PR/storylens/pkg/models"
)

// Service is what the routes need from the pipeline.
type Service interface {
	Run(ctx context.Context, articleURL string) (*models.StoryRecord, error)
	Health() models.Health
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(svc Service, log *logrus.Entry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(applog.GinMiddleware(log.WithField("component", "http")))

	RegisterSummarizeRoutes(r, svc, log)
	RegisterHealthRoutes(r, svc)
	return r
}
