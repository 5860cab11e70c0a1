package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-channel/config"
	"hotel-channel/models"
)

// ----------------------------------------------------
// Room type catalogue (GET /api/room-types)
// ----------------------------------------------------

// GetRoomTypes lists the internal catalogue with external codes and unit
// counts, read-only. The booking/pricing collaborator uses it to know which
// codes remaining-units queries accept.
func GetRoomTypes(c *gin.Context) {
	var roomTypes []models.RoomType
	if err := config.DB.Find(&roomTypes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, roomTypes)
}
