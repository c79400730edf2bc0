package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/lankaevents/internal/helpers"
	"github.com/joshua-takyi/lankaevents/internal/models"
	"github.com/joshua-takyi/lankaevents/internal/services"
)

const MsgEventNotFound = "Event not found"

// searchQuery is the query string accepted by GET /events. Every field is
// optional and malformed bounds are dropped rather than rejected.
type searchQuery struct {
	Search     string `form:"search"`
	Categories string `form:"categories"`
	Bounds     string `form:"bounds"`
}

func (q searchQuery) filters() models.EventFilters {
	return models.EventFilters{
		Categories:  models.ParseCategories(q.Categories),
		SearchQuery: q.Search,
		Bounds:      models.ParseBounds(q.Bounds),
	}
}

func SearchEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q searchQuery
		// string-only fields; binding only fails on a malformed query string,
		// which is treated as no filters
		_ = c.ShouldBindQuery(&q)

		res := es.SearchEvents(c.Request.Context(), q.filters())
		if !res.Success {
			c.JSON(http.StatusInternalServerError, res)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func GetEventByID(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := helpers.StringTrim(c.Param("id"))

		res := es.GetEventByID(c.Request.Context(), id)
		switch {
		case !res.Success:
			c.JSON(http.StatusInternalServerError, res)
		case res.Data == nil:
			c.JSON(http.StatusNotFound, models.ErrorResponse[*models.Event](nil, MsgEventNotFound))
		default:
			c.JSON(http.StatusOK, res)
		}
	}
}
