package client

import (
	"context"
	"log"
	"sync"

	"github.com/jpelletier/card-binder/internal/models"
)

// ImageFiller dispatches background auto-image requests for cards that
// lack an image, remembering every card id it has tried so a card is
// requested at most once per session no matter how often the same list
// is fetched.
type ImageFiller struct {
	client *Client

	mu        sync.Mutex
	attempted map[uint]struct{}
}

func NewImageFiller(client *Client) *ImageFiller {
	return &ImageFiller{
		client:    client,
		attempted: make(map[uint]struct{}),
	}
}

// Attempted reports whether a card id was already dispatched this session.
func (f *ImageFiller) Attempted(cardID uint) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.attempted[cardID]
	return ok
}

// FillMissing fires an auto-image request for every card in the list that
// has no usable image and has not been tried before. Each request runs in
// its own goroutine and is not waited on; a successful fill hands the
// updated card to apply, a failure is logged and permanently settled.
func (f *ImageFiller) FillMissing(ctx context.Context, cards []models.Card, apply func(models.Card)) {
	for _, card := range cards {
		if models.HasImage(card.ImageURL) {
			continue
		}

		f.mu.Lock()
		if _, ok := f.attempted[card.ID]; ok {
			f.mu.Unlock()
			continue
		}
		f.attempted[card.ID] = struct{}{}
		f.mu.Unlock()

		go func(cardID uint) {
			updated, err := f.client.AutoFillCardImage(ctx, cardID)
			if err != nil {
				log.Printf("Auto image for card %d failed: %v", cardID, err)
				return
			}
			if !models.HasImage(updated.ImageURL) {
				return
			}
			if apply != nil {
				apply(updated)
			}
		}(card.ID)
	}
}
