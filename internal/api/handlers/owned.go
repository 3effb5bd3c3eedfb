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

// Maximum copies allowed per owned record
const maxQuantity = 9999

type OwnedHandler struct{}

func NewOwnedHandler() *OwnedHandler {
	return &OwnedHandler{}
}

func (h *OwnedHandler) ListOwned(c *gin.Context) {
	user := currentUser(c)
	db := database.GetDB()
	page, perPage := pageParams(c, 20)

	query := db.Model(&models.OwnedCard{}).Where("owner_id = ?", user.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var owned []models.OwnedCard
	err := db.Preload("Card").
		Where("owner_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&owned).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, envelope(owned, page, pageCount(total, perPage), total))
}

// AddOwned adds copies of a card to the user's collection. Rows left over
// from the per-copy era are merged into one before the quantity is bumped.
func (h *OwnedHandler) AddOwned(c *gin.Context) {
	var req models.AddOwnedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
		return
	}
	if quantity > maxQuantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity exceeds maximum allowed (9999)"})
		return
	}

	user := currentUser(c)
	db := database.GetDB()

	var card models.Card
	if err := db.First(&card, req.CardID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card not found"})
		return
	}

	existing, err := mergeOwnedRows(user.ID, req.CardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if existing != nil {
		existing.Quantity += quantity
		if existing.Quantity > maxQuantity {
			existing.Quantity = maxQuantity
		}
		if err := db.Save(existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		db.Preload("Card").First(existing, existing.ID)
		metrics.UpdateCollectionMetrics(db)
		c.JSON(http.StatusOK, existing)
		return
	}

	owned := models.OwnedCard{
		OwnerID:   user.ID,
		CardID:    req.CardID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}
	if err := db.Create(&owned).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	db.Preload("Card").First(&owned, owned.ID)
	metrics.UpdateCollectionMetrics(db)
	c.JSON(http.StatusCreated, owned)
}

// DeleteOwned removes count copies (default 1). When the last copy goes the
// row is deleted and the response says so; otherwise the surviving record
// comes back with its reduced quantity.
func (h *OwnedHandler) DeleteOwned(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	count := 1
	if countStr := c.Query("count"); countStr != "" {
		count, err = strconv.Atoi(countStr)
		if err != nil || count < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid count"})
			return
		}
	}

	user := currentUser(c)
	db := database.GetDB()

	var owned models.OwnedCard
	if err := db.First(&owned, "id = ? AND owner_id = ?", id, user.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "owned card not found"})
		return
	}

	// Fold any stray duplicate rows for the same card in first, so the
	// decrement applies to the true total.
	merged, err := mergeOwnedRows(user.ID, owned.CardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if merged != nil {
		owned = *merged
	}

	if count > owned.Quantity {
		count = owned.Quantity
	}
	owned.Quantity -= count

	if owned.Quantity <= 0 {
		if err := db.Delete(&models.OwnedCard{}, owned.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		metrics.UpdateCollectionMetrics(db)
		c.JSON(http.StatusOK, models.DeleteOwnedResponse{Deleted: true})
		return
	}

	if err := db.Save(&owned).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	db.Preload("Card").First(&owned, owned.ID)
	metrics.UpdateCollectionMetrics(db)
	c.JSON(http.StatusOK, models.DeleteOwnedResponse{Owned: &owned})
}

// mergeOwnedRows collapses all of a user's rows for one card into the
// newest row with the summed quantity. Returns the surviving row, or nil
// when the user has no rows for the card.
func mergeOwnedRows(ownerID, cardID uint) (*models.OwnedCard, error) {
	db := database.GetDB()

	var rows []models.OwnedCard
	err := db.Where("owner_id = ? AND card_id = ?", ownerID, cardID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows) == 1 {
		return &rows[0], nil
	}

	survivor := rows[len(rows)-1]
	for _, row := range rows[:len(rows)-1] {
		survivor.Quantity += row.Quantity
		if err := db.Delete(&models.OwnedCard{}, row.ID).Error; err != nil {
			return nil, err
		}
	}
	if err := db.Save(&survivor).Error; err != nil {
		return nil, err
	}

	return &survivor, nil
}
