package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shadow-boy/short-uri-project/internal/entities"
	"github.com/shadow-boy/short-uri-project/internal/store"
)

// ResolutionStatus is the terminal outcome of resolving a slug.
type ResolutionStatus int

const (
	ResolutionNotFound ResolutionStatus = iota
	ResolutionExpired
	ResolutionRedirect
)

// Resolution is the decision for one public slug request.
type Resolution struct {
	Status         ResolutionStatus
	DestinationURL string
}

// ResolverService maps a raw slug to a redirect decision and triggers click
// recording on success.
type ResolverService interface {
	Resolve(ctx context.Context, rawSlug string, visit Visit) (*Resolution, error)
}

type resolverService struct {
	store  store.Store
	clicks ClickService
	log    zerolog.Logger
}

// NewResolverService creates a new resolver service
func NewResolverService(st store.Store, clicks ClickService, log zerolog.Logger) ResolverService {
	return &resolverService{
		store:  st,
		clicks: clicks,
		log:    log,
	}
}

// recordTimeout bounds the detached click write.
const recordTimeout = 5 * time.Second

// Resolve walks the resolution state machine. Inactive links are reported as
// not found, indistinguishable from absent ones. Expiry is a distinct
// outcome. Click recording is fire-and-forget: it may complete after the
// redirect response has been sent and its failure is only logged.
func (s *resolverService) Resolve(ctx context.Context, rawSlug string, visit Visit) (*Resolution, error) {
	slug := NormalizeSlug(rawSlug)

	linkID, err := s.store.Get(ctx, slugKey(slug))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &Resolution{Status: ResolutionNotFound}, nil
		}
		return nil, fmt.Errorf("failed to resolve slug: %w", err)
	}

	data, err := s.store.Get(ctx, linkKey(linkID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Index entry without a record: a consistency anomaly worth noting
			s.log.Warn().Str("slug", slug).Str("link_id", linkID).Msg("dangling slug index entry")
			return &Resolution{Status: ResolutionNotFound}, nil
		}
		return nil, fmt.Errorf("failed to load link: %w", err)
	}

	var link entities.Link
	if err := json.Unmarshal([]byte(data), &link); err != nil {
		return nil, fmt.Errorf("failed to decode link %s: %w", linkID, err)
	}

	if !link.IsActive {
		return &Resolution{Status: ResolutionNotFound}, nil
	}
	if link.Expired(time.Now().UTC()) {
		return &Resolution{Status: ResolutionExpired}, nil
	}

	go s.recordClick(ctx, link.ID, visit)

	return &Resolution{
		Status:         ResolutionRedirect,
		DestinationURL: link.DestinationURL,
	}, nil
}

// recordClick runs detached from the request: the parent's cancellation is
// stripped so the write can finish after the response has gone out.
func (s *resolverService) recordClick(ctx context.Context, linkID string, visit Visit) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := s.clicks.Record(ctx, linkID, visit); err != nil {
		s.log.Warn().Err(err).Str("link_id", linkID).Msg("failed to record click")
	}
}
