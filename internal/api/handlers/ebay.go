package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpelletier/card-binder/internal/services"
)

type EbayHandler struct {
	ebayService *services.EbayService
	imageWorker *services.ImageWorker
}

func NewEbayHandler(ebayService *services.EbayService, imageWorker *services.ImageWorker) *EbayHandler {
	return &EbayHandler{
		ebayService: ebayService,
		imageWorker: imageWorker,
	}
}

// Search proxies an item summary search so the browser never sees the
// eBay token. Responses are served from the service's cache when possible.
func (h *EbayHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	if !h.ebayService.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "eBay search is not configured"})
		return
	}

	result, err := h.ebayService.Search(c.Request.Context(), query, 5)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *EbayHandler) GetImageStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.imageWorker.GetStatus())
}
