package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jpelletier/card-binder/internal/database"
	"github.com/jpelletier/card-binder/internal/models"
	"github.com/jpelletier/card-binder/internal/services"
)

type CardHandler struct {
	imageService *services.ImageService
	imageWorker  *services.ImageWorker
}

func NewCardHandler(imageService *services.ImageService, imageWorker *services.ImageWorker) *CardHandler {
	return &CardHandler{
		imageService: imageService,
		imageWorker:  imageWorker,
	}
}

func (h *CardHandler) ListCards(c *gin.Context) {
	db := database.GetDB()
	page, perPage := pageParams(c, 20)

	query := db.Model(&models.Card{})

	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where(
			"player_name LIKE ? OR team LIKE ? OR card_number LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if sport := c.Query("sport"); sport != "" {
		query = query.Where("sport = ?", sport)
	}
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		query = query.Where("year = ?", year)
	}
	if brand := c.Query("brand"); brand != "" {
		query = query.Where("brand = ?", brand)
	}
	if set := c.Query("set"); set != "" {
		query = query.Where("set_name = ?", set)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var cards []models.Card
	err := query.Order("year, brand, set_name, id").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&cards).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, envelope(cards, page, pageCount(total, perPage), total))
}

func (h *CardHandler) GetCard(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var card models.Card
	if err := database.GetDB().First(&card, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	c.JSON(http.StatusOK, card)
}

// AutoImage looks up an eBay image for the card right now. The card comes
// back updated when a listing matched and unchanged when nothing did; a
// card that already has an image is returned as is.
func (h *CardHandler) AutoImage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	db := database.GetDB()

	var card models.Card
	if err := db.First(&card, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	if models.HasImage(card.ImageURL) {
		c.JSON(http.StatusOK, card)
		return
	}

	updated, err := h.imageService.FillCardImage(c.Request.Context(), card)
	h.imageWorker.MarkAttempted(card.ID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if updated {
		db.First(&card, card.ID)
	}

	c.JSON(http.StatusOK, card)
}

func (h *CardHandler) GetPriceSnapshots(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var snapshots []models.PriceSnapshot
	err = database.GetDB().
		Where("card_id = ?", id).
		Order("recorded_at DESC").
		Limit(100).
		Find(&snapshots).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, snapshots)
}
