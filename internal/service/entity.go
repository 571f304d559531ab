package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/apidocs-boilerplate/internal/errs"
	"github.com/deppfellow/apidocs-boilerplate/internal/lib/utils"
	"github.com/deppfellow/apidocs-boilerplate/internal/model"
	"github.com/deppfellow/apidocs-boilerplate/internal/repository"
	"github.com/deppfellow/apidocs-boilerplate/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Hooks let an entity run its own rules after the generic checks and before the write.
type Hooks[T model.Record] interface {
	BeforeCreate(ctx context.Context, changes repository.Changes) error
	BeforeUpdate(ctx context.Context, existing *T, changes repository.Changes) error
}

type sluggable interface {
	RecordSlug() string
}

// EntityService implements the CRUD rules shared by every entity on top of a Repository.
type EntityService[T model.Record] struct {
	repo  repository.Repository[T]
	desc  repository.Descriptor
	hooks Hooks[T]
}

// NewEntityService wraps repo. hooks may be nil.
func NewEntityService[T model.Record](repo repository.Repository[T], hooks Hooks[T]) *EntityService[T] {
	return &EntityService[T]{
		repo:  repo,
		desc:  repo.Descriptor(),
		hooks: hooks,
	}
}

func (s *EntityService[T]) List(ctx context.Context, q repository.ListQuery) (*repository.Page[T], error) {
	page, err := s.repo.ListLive(ctx, q.Normalized())
	if err != nil {
		return nil, s.translate(ctx, err)
	}
	return page, nil
}

func (s *EntityService[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	record, err := s.repo.GetLiveByID(ctx, id)
	if err != nil {
		return nil, s.translate(ctx, err)
	}
	return record, nil
}

func (s *EntityService[T]) GetBySlug(ctx context.Context, slug string) (*T, error) {
	record, err := s.repo.GetLiveBySlug(ctx, slug)
	if err != nil {
		return nil, s.translate(ctx, err)
	}
	return record, nil
}

// Create derives the slug when none is given, rejects live slug collisions and persists.
func (s *EntityService[T]) Create(ctx context.Context, changes repository.Changes) (*T, error) {
	if s.desc.Sluggable() {
		slug, ok := changes.String(s.desc.SlugColumn)
		if !ok {
			derived, err := s.deriveSlug(changes)
			if err != nil {
				return nil, err
			}
			slug = derived
		}

		if err := s.ensureSlugAvailable(ctx, slug, uuid.Nil); err != nil {
			return nil, err
		}
	}

	if s.hooks != nil {
		if err := s.hooks.BeforeCreate(ctx, changes); err != nil {
			return nil, err
		}
	}

	record, err := s.repo.Create(ctx, changes)
	if err != nil {
		return nil, s.translate(ctx, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("entity", s.desc.Table).
		Str("id", (*record).RecordID().String()).
		Msg("record created")

	return record, nil
}

// Update re-derives the slug when the name changes without an explicit slug.
func (s *EntityService[T]) Update(ctx context.Context, id uuid.UUID, changes repository.Changes) (*T, error) {
	existing, err := s.repo.GetLiveByID(ctx, id)
	if err != nil {
		return nil, s.translate(ctx, err)
	}

	if s.desc.Sluggable() {
		slug, ok := changes.String(s.desc.SlugColumn)
		if !ok && changes.Has(s.desc.SlugSource) {
			if slug, err = s.deriveSlug(changes); err != nil {
				return nil, err
			}
			ok = true
		}

		current := ""
		if sl, isSluggable := any(*existing).(sluggable); isSluggable {
			current = sl.RecordSlug()
		}

		if ok && slug != current {
			if err := s.ensureSlugAvailable(ctx, slug, id); err != nil {
				return nil, err
			}
		}
	}

	if s.hooks != nil {
		if err := s.hooks.BeforeUpdate(ctx, existing, changes); err != nil {
			return nil, err
		}
	}

	record, err := s.repo.UpdateLive(ctx, id, changes)
	if err != nil {
		return nil, s.translate(ctx, err)
	}
	return record, nil
}

// Delete soft-deletes a live record.
func (s *EntityService[T]) Delete(ctx context.Context, id uuid.UUID) (*T, error) {
	record, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return nil, s.translate(ctx, err)
	}

	zerolog.Ctx(ctx).Info().Str("entity", s.desc.Table).Str("id", id.String()).Msg("record soft deleted")
	return record, nil
}

// Restore brings back a soft-deleted record. Live records are reported as not found.
func (s *EntityService[T]) Restore(ctx context.Context, id uuid.UUID) (*T, error) {
	record, err := s.repo.Restore(ctx, id)
	if err != nil {
		return nil, s.translate(ctx, err)
	}
	return record, nil
}

// Purge removes the row whatever its state.
func (s *EntityService[T]) Purge(ctx context.Context, id uuid.UUID) error {
	removed, err := s.repo.HardDelete(ctx, id)
	if err != nil {
		return s.translate(ctx, err)
	}
	if !removed {
		return s.notFound()
	}

	zerolog.Ctx(ctx).Warn().Str("entity", s.desc.Table).Str("id", id.String()).Msg("record permanently deleted")
	return nil
}

func (s *EntityService[T]) deriveSlug(changes repository.Changes) (string, error) {
	source, _ := changes.String(s.desc.SlugSource)
	slug := utils.Slugify(source)
	if slug == "" {
		return "", errs.NewBadRequestError(
			fmt.Sprintf("Unable to derive a %s from the %s", s.desc.SlugColumn, s.desc.SlugSource),
			true, nil,
			[]errs.FieldError{{Field: s.desc.SlugSource, Error: "must contain at least one letter or digit"}},
			nil,
		)
	}
	changes[s.desc.SlugColumn] = slug
	return slug, nil
}

// ensureSlugAvailable rejects a slug held by another live record. The partial unique
// index still catches concurrent writers that pass this check.
func (s *EntityService[T]) ensureSlugAvailable(ctx context.Context, slug string, self uuid.UUID) error {
	existing, err := s.repo.GetLiveBySlug(ctx, slug)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return s.translate(ctx, err)
	case (*existing).RecordID() == self:
		return nil
	}

	code := s.code("ALREADY_EXISTS")
	return errs.NewConflictError(
		fmt.Sprintf("A %s with this %s already exists", s.desc.Entity, humanize(s.desc.SlugColumn)),
		&code,
	)
}

func (s *EntityService[T]) notFound() error {
	code := s.code("NOT_FOUND")
	return errs.NewNotFoundError(s.desc.Entity+" not found", true, &code)
}

func (s *EntityService[T]) code(action string) string {
	return strings.ToUpper(s.desc.Entity) + "_" + action
}

// translate maps store errors onto errs variants. Anything unexpected is logged here
// since the returned 500 no longer carries the cause.
func (s *EntityService[T]) translate(ctx context.Context, err error) error {
	var httpErr *errs.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return err
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrNotSluggable):
		return s.notFound()
	case errors.Is(err, repository.ErrUnknownColumn):
		return errs.NewBadRequestError(err.Error(), true, nil, nil, nil)
	}

	mapped := sqlerr.HandleError(err)
	if errs.StatusOf(mapped) >= 500 {
		zerolog.Ctx(ctx).Error().Err(err).Str("entity", s.desc.Table).Msg("store operation failed")
	}
	return mapped
}

func humanize(column string) string {
	if column == "" {
		return ""
	}
	return strings.ToUpper(column[:1]) + strings.ReplaceAll(column[1:], "_", " ")
}
