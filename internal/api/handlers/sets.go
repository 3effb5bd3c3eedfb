package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jpelletier/card-binder/internal/database"
	"github.com/jpelletier/card-binder/internal/models"
)

type SetHandler struct{}

func NewSetHandler() *SetHandler {
	return &SetHandler{}
}

func (h *SetHandler) ListSets(c *gin.Context) {
	db := database.GetDB()
	page, perPage := pageParams(c, 20)

	query := db.Model(&models.Set{})

	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("brand LIKE ? OR set_name LIKE ? OR sport LIKE ?", pattern, pattern, pattern)
	}
	if sport := c.Query("sport"); sport != "" {
		query = query.Where("sport = ?", sport)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var sets []models.Set
	err := query.Order("year DESC, brand, set_name").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&sets).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Fill card counts for the page of sets
	for i := range sets {
		var count int64
		db.Model(&models.Card{}).
			Where("year = ? AND brand = ? AND set_name = ?", sets[i].Year, sets[i].Brand, sets[i].SetName).
			Count(&count)
		sets[i].TotalCards = int(count)
	}

	c.JSON(http.StatusOK, envelope(sets, page, pageCount(total, perPage), total))
}

// GetSetCards lists the catalog cards belonging to a set. The default page
// size is large enough to show a whole checklist at once.
func (h *SetHandler) GetSetCards(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	db := database.GetDB()

	var set models.Set
	if err := db.First(&set, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "set not found"})
		return
	}

	page, perPage := pageParams(c, 500)

	query := db.Model(&models.Card{}).
		Where("year = ? AND brand = ? AND set_name = ?", set.Year, set.Brand, set.SetName)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var cards []models.Card
	err = query.Order("card_number, id").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&cards).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, envelope(cards, page, pageCount(total, perPage), total))
}
