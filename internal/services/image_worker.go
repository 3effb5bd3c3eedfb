package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jpelletier/card-binder/internal/database"
	"github.com/jpelletier/card-binder/internal/metrics"
	"github.com/jpelletier/card-binder/internal/models"
)

const (
	// imageBatchSize is the number of cards to look up per batch,
	// sized to stay well inside the eBay quota at the default interval.
	imageBatchSize = 25
)

// ImageWorker backfills card images in the background. Cards the user is
// actively looking at go through the urgent queue; everything else is
// swept up by the periodic batch.
type ImageWorker struct {
	images         *ImageService
	ebay           *EbayService
	updateInterval time.Duration
	mu             sync.RWMutex

	batchSize int

	// Priority queue for user-requested fills
	urgentQueue []uint
	urgentMu    sync.Mutex

	// Cards already tried this process lifetime. A card that yielded no
	// image is not retried until restart, matching the client behavior.
	attempted map[uint]struct{}

	// Stats
	imagesFilledTotal int
	lastUpdateTime    time.Time
}

// ImageStatus is the worker state exposed on the status endpoint.
type ImageStatus struct {
	LastUpdateTime time.Time `json:"last_update_time"`
	NextUpdateTime time.Time `json:"next_update_time"`
	ImagesFilled   int       `json:"images_filled"`
	BatchSize      int       `json:"batch_size"`
	QueueSize      int       `json:"queue_size"`

	// eBay quota info
	DailyLimit int `json:"daily_limit"`
	Remaining  int `json:"remaining"`
}

func NewImageWorker(images *ImageService, ebay *EbayService) *ImageWorker {
	return &ImageWorker{
		images:         images,
		ebay:           ebay,
		batchSize:      imageBatchSize,
		updateInterval: 15 * time.Minute,
		attempted:      make(map[uint]struct{}),
	}
}

// QueueFill adds a card to the high-priority fill queue. Cards already
// attempted this session are skipped. Returns the queue position, or 0 if
// the card was not queued.
func (w *ImageWorker) QueueFill(cardID uint) int {
	w.mu.RLock()
	_, tried := w.attempted[cardID]
	w.mu.RUnlock()
	if tried {
		return 0
	}

	w.urgentMu.Lock()
	defer w.urgentMu.Unlock()

	for i, id := range w.urgentQueue {
		if id == cardID {
			return i + 1
		}
	}
	w.urgentQueue = append(w.urgentQueue, cardID)
	metrics.ImageQueueSize.Set(float64(len(w.urgentQueue)))
	return len(w.urgentQueue)
}

// GetQueueSize returns current urgent queue size
func (w *ImageWorker) GetQueueSize() int {
	w.urgentMu.Lock()
	defer w.urgentMu.Unlock()
	return len(w.urgentQueue)
}

// MarkAttempted records that a card was tried this session.
func (w *ImageWorker) MarkAttempted(cardID uint) {
	w.mu.Lock()
	w.attempted[cardID] = struct{}{}
	w.mu.Unlock()
}

// Attempted reports whether a card was already tried this session.
func (w *ImageWorker) Attempted(cardID uint) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.attempted[cardID]
	return ok
}

// attemptedIDs snapshots the attempted set so batch queries can skip
// cards that already yielded nothing and reach the rest of the catalog.
func (w *ImageWorker) attemptedIDs() []uint {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]uint, 0, len(w.attempted))
	for id := range w.attempted {
		ids = append(ids, id)
	}
	return ids
}

// Start begins the background image backfill worker
func (w *ImageWorker) Start(ctx context.Context) {
	log.Printf("Image worker started: will fill up to %d cards every %v", w.batchSize, w.updateInterval)

	// Run immediately on startup
	if filled, err := w.FillBatch(ctx); err != nil {
		log.Printf("Image worker: initial batch failed: %v", err)
	} else {
		log.Printf("Image worker: initial batch filled %d images", filled)
	}

	ticker := time.NewTicker(w.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Image worker stopping...")
			return
		case <-ticker.C:
			if filled, err := w.FillBatch(ctx); err != nil {
				log.Printf("Image worker: batch failed: %v", err)
			} else if filled > 0 {
				log.Printf("Image worker: batch filled %d images", filled)
			}
		}
	}
}

// FillBatch fills a batch of card images with priority ordering:
// 1. User-requested fills
// 2. Owned cards without images
// 3. Any catalog card without an image
func (w *ImageWorker) FillBatch(ctx context.Context) (filled int, err error) {
	if !w.ebay.Configured() {
		return 0, nil
	}
	if w.ebay.GetRequestsRemaining() == 0 {
		log.Println("Image worker: eBay quota exhausted, skipping batch")
		return 0, nil
	}

	start := time.Now()
	db := database.GetDB()
	var cardsToFill []models.Card
	seen := make(map[uint]struct{})

	// Priority 1: User-requested fills
	w.urgentMu.Lock()
	urgentIDs := w.urgentQueue
	if len(urgentIDs) > w.batchSize {
		urgentIDs = urgentIDs[:w.batchSize]
		w.urgentQueue = w.urgentQueue[w.batchSize:]
	} else {
		w.urgentQueue = nil
	}
	metrics.ImageQueueSize.Set(float64(len(w.urgentQueue)))
	w.urgentMu.Unlock()

	if len(urgentIDs) > 0 {
		var urgentCards []models.Card
		db.Where("id IN ?", urgentIDs).Find(&urgentCards)
		for _, c := range urgentCards {
			cardsToFill = append(cardsToFill, c)
			seen[c.ID] = struct{}{}
		}
		log.Printf("Image worker: processing %d urgent fill requests", len(urgentCards))
	}

	remaining := w.batchSize - len(cardsToFill)
	tried := w.attemptedIDs()

	// Priority 2: Owned cards without images
	if remaining > 0 {
		var ownedCards []models.Card
		query := db.Table("cards").
			Select("DISTINCT cards.*").
			Joins("INNER JOIN owned_cards ON owned_cards.card_id = cards.id").
			Where("cards.image_url = ''")
		if len(tried) > 0 {
			query = query.Where("cards.id NOT IN ?", tried)
		}
		query.Limit(remaining).Scan(&ownedCards)
		for _, c := range ownedCards {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			cardsToFill = append(cardsToFill, c)
			seen[c.ID] = struct{}{}
			remaining--
		}
	}

	// Priority 3: Any catalog card without an image
	if remaining > 0 {
		var catalogCards []models.Card
		query := db.Where("image_url = ''")
		if len(tried) > 0 {
			query = query.Where("id NOT IN ?", tried)
		}
		query.Limit(remaining + len(seen)).Find(&catalogCards)
		for _, c := range catalogCards {
			if remaining == 0 {
				break
			}
			if _, ok := seen[c.ID]; ok {
				continue
			}
			cardsToFill = append(cardsToFill, c)
			seen[c.ID] = struct{}{}
			remaining--
		}
	}

	for _, card := range cardsToFill {
		if w.Attempted(card.ID) {
			continue
		}
		w.MarkAttempted(card.ID)

		updated, err := w.images.FillCardImage(ctx, card)
		if err != nil {
			log.Printf("Image worker: card %d: %v", card.ID, err)
			metrics.ImageFillFailures.Inc()
			continue
		}
		if updated {
			filled++
			metrics.ImageFillsTotal.Inc()
		} else {
			metrics.ImageFillFailures.Inc()
		}

		select {
		case <-ctx.Done():
			return filled, ctx.Err()
		default:
		}
	}

	w.mu.Lock()
	w.imagesFilledTotal += filled
	w.lastUpdateTime = time.Now()
	w.mu.Unlock()

	metrics.ImageBatchDuration.Observe(time.Since(start).Seconds())
	metrics.EbayQuotaRemaining.Set(float64(w.ebay.GetRequestsRemaining()))
	metrics.UpdateCollectionMetrics(db)

	return filled, nil
}

// GetStatus returns the current status
func (w *ImageWorker) GetStatus() ImageStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return ImageStatus{
		LastUpdateTime: w.lastUpdateTime,
		NextUpdateTime: w.lastUpdateTime.Add(w.updateInterval),
		ImagesFilled:   w.imagesFilledTotal,
		BatchSize:      w.batchSize,
		QueueSize:      w.GetQueueSize(),
		DailyLimit:     w.ebay.GetDailyLimit(),
		Remaining:      w.ebay.GetRequestsRemaining(),
	}
}
