package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jpelletier/card-binder/internal/database"
	"github.com/jpelletier/card-binder/internal/metrics"
	"github.com/jpelletier/card-binder/internal/models"
)

type WantedHandler struct{}

func NewWantedHandler() *WantedHandler {
	return &WantedHandler{}
}

func (h *WantedHandler) ListWanted(c *gin.Context) {
	user := currentUser(c)
	db := database.GetDB()
	page, perPage := pageParams(c, 20)

	query := db.Model(&models.WantedCard{}).Where("user_id = ?", user.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var wanted []models.WantedCard
	err := db.Preload("Card").
		Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&wanted).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, envelope(wanted, page, pageCount(total, perPage), total))
}

func (h *WantedHandler) AddWanted(c *gin.Context) {
	var req models.AddWantedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	db := database.GetDB()

	var card models.Card
	if err := db.First(&card, req.CardID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card not found"})
		return
	}

	var count int64
	db.Model(&models.WantedCard{}).
		Where("user_id = ? AND card_id = ?", user.ID, req.CardID).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "card already on want list"})
		return
	}

	wanted := models.WantedCard{
		UserID:    user.ID,
		CardID:    req.CardID,
		CreatedAt: time.Now(),
	}
	if req.Notes != nil {
		wanted.Notes = *req.Notes
	}

	if err := db.Create(&wanted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	db.Preload("Card").First(&wanted, wanted.ID)
	metrics.UpdateCollectionMetrics(db)
	c.JSON(http.StatusCreated, wanted)
}

func (h *WantedHandler) DeleteWanted(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	user := currentUser(c)
	db := database.GetDB()

	result := db.Delete(&models.WantedCard{}, "id = ? AND user_id = ?", id, user.ID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "wanted card not found"})
		return
	}

	metrics.UpdateCollectionMetrics(db)
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
