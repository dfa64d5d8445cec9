package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shadow-boy/short-uri-project/internal/entities"
	"github.com/shadow-boy/short-uri-project/internal/models"
	"github.com/shadow-boy/short-uri-project/internal/store"
)

// LinkService owns the slug-to-link mapping: registration, lookup, partial
// updates and deletion, with slug uniqueness enforced through the store's
// conditional-create primitive.
type LinkService interface {
	Create(ctx context.Context, req *models.CreateLinkRequest, ownerID string) (*entities.Link, error)
	Get(ctx context.Context, id string) (*entities.Link, error)
	List(ctx context.Context) ([]*entities.Link, error)
	Update(ctx context.Context, id string, req *models.UpdateLinkRequest) (*entities.Link, error)
	Delete(ctx context.Context, id string) error
}

type linkService struct {
	store store.Store
}

// NewLinkService creates a new link service
func NewLinkService(st store.Store) LinkService {
	return &linkService{store: st}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// Slugs that would collide with the service's own routes
var reservedSlugs = map[string]bool{
	"api":     true,
	"healthz": true,
	"assets":  true,
}

// NormalizeSlug lowercases a raw slug for lookup and storage.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

func validateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return invalidField("slug", "must be 1-64 characters of a-z, 0-9, hyphen or underscore")
	}
	if reservedSlugs[slug] {
		return invalidField("slug", fmt.Sprintf("%q is reserved", slug))
	}
	return nil
}

func validateDestinationURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return invalidField("destinationUrl", "must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalidField("destinationUrl", "only http(s) URLs are allowed")
	}
	return nil
}

// Create registers a new link. The slug index entry is written with a
// conditional put, so of two concurrent creates for the same slug exactly
// one wins and the loser observes ErrSlugTaken.
func (s *linkService) Create(ctx context.Context, req *models.CreateLinkRequest, ownerID string) (*entities.Link, error) {
	slug := NormalizeSlug(req.Slug)
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if err := validateDestinationURL(req.DestinationURL); err != nil {
		return nil, err
	}
	if req.ClickLimit != nil && *req.ClickLimit < 1 {
		return nil, invalidField("clickLimit", "must be a positive integer")
	}

	now := time.Now().UTC()
	link := &entities.Link{
		ID:             uuid.NewString(),
		Slug:           slug,
		DestinationURL: req.DestinationURL,
		OwnerID:        ownerID,
		IsActive:       true,
		ExpiresAt:      req.ExpiresAt,
		ClickLimit:     req.ClickLimit,
		Tags:           req.Tags,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.IsActive != nil {
		link.IsActive = *req.IsActive
	}

	// Reserve the slug first; the record write below only happens for the
	// winner of a same-slug race.
	if err := s.store.PutIfAbsent(ctx, slugKey(slug), link.ID); err != nil {
		if errors.Is(err, store.ErrKeyExists) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to reserve slug: %w", err)
	}

	if err := s.putLink(ctx, link); err != nil {
		// Release the reservation so the slug is not left dangling.
		_ = s.store.Delete(ctx, slugKey(slug))
		return nil, err
	}

	return link, nil
}

// Get retrieves a link by id
func (s *linkService) Get(ctx context.Context, id string) (*entities.Link, error) {
	data, err := s.store.Get(ctx, linkKey(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to load link: %w", err)
	}

	var link entities.Link
	if err := json.Unmarshal([]byte(data), &link); err != nil {
		return nil, fmt.Errorf("failed to decode link %s: %w", id, err)
	}
	return &link, nil
}

// List returns all registered links, in no guaranteed order
func (s *linkService) List(ctx context.Context) ([]*entities.Link, error) {
	keys, err := s.store.ListKeys(ctx, linkKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	links := make([]*entities.Link, 0, len(keys))
	for _, key := range keys {
		data, err := s.store.Get(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			// Deleted between the scan and the read
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load link: %w", err)
		}
		var link entities.Link
		if err := json.Unmarshal([]byte(data), &link); err != nil {
			return nil, fmt.Errorf("failed to decode link at %s: %w", key, err)
		}
		links = append(links, &link)
	}
	return links, nil
}

// Update merges the provided fields over the existing record. A slug change
// reserves the new index entry before the old one is retired, so after the
// call returns exactly the new slug resolves.
func (s *linkService) Update(ctx context.Context, id string, req *models.UpdateLinkRequest) (*entities.Link, error) {
	link, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DestinationURL != nil {
		if err := validateDestinationURL(*req.DestinationURL); err != nil {
			return nil, err
		}
	}
	if req.ClickLimit != nil && *req.ClickLimit < 1 {
		return nil, invalidField("clickLimit", "must be a positive integer")
	}

	oldSlug := ""
	if req.Slug != nil {
		newSlug := NormalizeSlug(*req.Slug)
		if err := validateSlug(newSlug); err != nil {
			return nil, err
		}
		if newSlug != link.Slug {
			if err := s.reserveSlug(ctx, newSlug, link.ID); err != nil {
				return nil, err
			}
			oldSlug = link.Slug
			link.Slug = newSlug
		}
	}

	if req.DestinationURL != nil {
		link.DestinationURL = *req.DestinationURL
	}
	if req.IsActive != nil {
		link.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		link.ExpiresAt = req.ExpiresAt
	}
	if req.ClickLimit != nil {
		link.ClickLimit = req.ClickLimit
	}
	if req.Tags != nil {
		link.Tags = *req.Tags
	}
	link.UpdatedAt = time.Now().UTC()

	if err := s.putLink(ctx, link); err != nil {
		if oldSlug != "" {
			// Roll back the new reservation; the record still carries oldSlug.
			_ = s.store.Delete(ctx, slugKey(link.Slug))
		}
		return nil, err
	}

	if oldSlug != "" {
		if err := s.store.Delete(ctx, slugKey(oldSlug)); err != nil {
			return nil, fmt.Errorf("failed to retire old slug %q: %w", oldSlug, err)
		}
	}

	return link, nil
}

// Delete removes a link and its slug index entry. Deleting an unknown id is
// not an error.
func (s *linkService) Delete(ctx context.Context, id string) error {
	link, err := s.Get(ctx, id)
	if errors.Is(err, ErrLinkNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	// Index entry first: once it is gone the slug stops resolving even if
	// the record delete below fails and leaves an orphaned record behind.
	if err := s.store.Delete(ctx, slugKey(link.Slug)); err != nil {
		return fmt.Errorf("failed to delete slug index: %w", err)
	}
	if err := s.store.Delete(ctx, linkKey(id)); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	return nil
}

func (s *linkService) putLink(ctx context.Context, link *entities.Link) error {
	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to encode link: %w", err)
	}
	if err := s.store.Put(ctx, linkKey(link.ID), string(data)); err != nil {
		return fmt.Errorf("failed to store link: %w", err)
	}
	return nil
}

// reserveSlug installs slug -> id, tolerating an entry that already points
// at the same link.
func (s *linkService) reserveSlug(ctx context.Context, slug, id string) error {
	err := s.store.PutIfAbsent(ctx, slugKey(slug), id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrKeyExists) {
		return fmt.Errorf("failed to reserve slug: %w", err)
	}
	holder, getErr := s.store.Get(ctx, slugKey(slug))
	if getErr == nil && holder == id {
		return nil
	}
	return ErrSlugTaken
}
