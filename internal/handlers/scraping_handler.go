package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/lankaevents/internal/models"
	"github.com/joshua-takyi/lankaevents/internal/services"
)

const (
	MsgScrapingStarted     = "Scraping started in background"
	MsgScrapingInProgress  = "Scraping already in progress"
	MsgScrapingStatusError = "Failed to get scraping status"
)

// RunScraping fires an ingestion run and answers without waiting for it.
func RunScraping(ss *services.ScrapingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		message := MsgScrapingStarted
		if ss.TriggerAsync(c.Request.Context()) {
			message = MsgScrapingInProgress
		}
		c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: message})
	}
}

func GetScrapingStatus(ss *services.ScrapingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := ss.GetStatus(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, models.MessageResponse{Success: false, Message: MsgScrapingStatusError})
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(status))
	}
}
