package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	applog "github.com/Sriram-PR/storylens/pkg/log"
	"github.com/Sriram-PR/storylens/pkg/utils"
)

// SummarizeRequest is the POST /api/summarize body.
type SummarizeRequest struct {
	ArticleURL string `json:"articleUrl"`
}

// RegisterSummarizeRoutes registers the summarize endpoint.
func RegisterSummarizeRoutes(r *gin.Engine, svc Service, log *logrus.Entry) {
	handlerLog := log.WithField("component", "summarize_handler")

	r.POST("/api/summarize", func(c *gin.Context) {
		var req SummarizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be JSON with an articleUrl field."})
			return
		}

		record, err := svc.Run(c.Request.Context(), req.ArticleURL)
		if err != nil {
			status := utils.HTTPStatus(err)
			applog.FromContext(c.Request.Context(), handlerLog).WithFields(logrus.Fields{
				"status":   status,
				"category": utils.CategorizeError(err),
			}).WithError(err).Warn("Summarize request failed")
			c.JSON(status, gin.H{"error": utils.PublicMessage(err)})
			return
		}

		c.JSON(http.StatusOK, record)
	})
}
