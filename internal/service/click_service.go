package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/shadow-boy/short-uri-project/internal/entities"
	"github.com/shadow-boy/short-uri-project/internal/store"
)

// Visit carries the request attributes recorded with a click. All fields are
// attacker-controlled and are never used for authorization.
type Visit struct {
	IP        string
	UserAgent string
	Referrer  string
	Country   string
}

// ClickService appends immutable click events and serves analytics reads.
type ClickService interface {
	Record(ctx context.Context, linkID string, visit Visit) error
	CountForLink(ctx context.Context, linkID string) (int, error)
	RecentForLink(ctx context.Context, linkID string, limit int) ([]*entities.Click, error)
}

type clickService struct {
	store store.Store
}

// NewClickService creates a new click service
func NewClickService(st store.Store) ClickService {
	return &clickService{store: st}
}

// hashIP one-way digests the raw client IP. The raw IP is never persisted.
func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

// Record writes one click event for the link.
func (s *clickService) Record(ctx context.Context, linkID string, visit Visit) error {
	click := &entities.Click{
		ID:        uuid.NewString(),
		LinkID:    linkID,
		TS:        time.Now().UTC(),
		IPHash:    hashIP(visit.IP),
		UserAgent: visit.UserAgent,
		Referrer:  visit.Referrer,
		Country:   visit.Country,
	}

	data, err := json.Marshal(click)
	if err != nil {
		return fmt.Errorf("failed to encode click: %w", err)
	}
	if err := s.store.Put(ctx, clickKey(linkID, click.ID), string(data)); err != nil {
		return fmt.Errorf("failed to store click: %w", err)
	}
	return nil
}

// CountForLink returns the total number of recorded clicks for a link.
func (s *clickService) CountForLink(ctx context.Context, linkID string) (int, error) {
	keys, err := s.store.ListKeys(ctx, clickScanPrefix(linkID))
	if err != nil {
		return 0, fmt.Errorf("failed to count clicks: %w", err)
	}
	return len(keys), nil
}

// RecentForLink returns up to limit clicks for a link, newest first.
func (s *clickService) RecentForLink(ctx context.Context, linkID string, limit int) ([]*entities.Click, error) {
	keys, err := s.store.ListKeys(ctx, clickScanPrefix(linkID))
	if err != nil {
		return nil, fmt.Errorf("failed to list clicks: %w", err)
	}

	clicks := make([]*entities.Click, 0, len(keys))
	for _, key := range keys {
		data, err := s.store.Get(ctx, key)
		if err != nil {
			continue
		}
		var click entities.Click
		if err := json.Unmarshal([]byte(data), &click); err != nil {
			continue
		}
		clicks = append(clicks, &click)
	}

	sort.Slice(clicks, func(i, j int) bool {
		return clicks[i].TS.After(clicks[j].TS)
	})
	if limit > 0 && len(clicks) > limit {
		clicks = clicks[:limit]
	}
	return clicks, nil
}
