// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/refsync/internal/store"
	"github.com/MKhiriev/refsync/internal/utils"
	"github.com/MKhiriev/refsync/models"
)

// EntityDefinition declares one replicated entity type. It carries no
// behaviour beyond decoding wire fields into T.
type EntityDefinition[T any] struct {
	Type       models.EntityType
	Endpoint   string
	IDEndpoint string
	// IDField names the wire field holding the record id.
	IDField string
	Decode  func(models.Fields) (T, error)
}

// TypedSpec binds an [EntityDefinition] to the local record store. It
// implements [EntitySpec] for the sync services and offers typed reads to
// the rest of the terminal.
type TypedSpec[T any] struct {
	def  EntityDefinition[T]
	repo store.EntityRepository
	now  func() time.Time
}

// NewTypedSpec constructs a [TypedSpec] for def backed by repo.
func NewTypedSpec[T any](def EntityDefinition[T], repo store.EntityRepository) *TypedSpec[T] {
	return &TypedSpec[T]{
		def:  def,
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *TypedSpec[T]) Type() models.EntityType { return s.def.Type }

func (s *TypedSpec[T]) Endpoint() string { return s.def.Endpoint }

func (s *TypedSpec[T]) IDEndpoint() string { return s.def.IDEndpoint }

// ExtractID returns the value of the definition's id field.
func (s *TypedSpec[T]) ExtractID(rec models.Record) (string, error) {
	id, err := rec.Fields.Require(s.def.IDField)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecodeRecord, err)
	}
	return id, nil
}

func (s *TypedSpec[T]) ExtractRevision(item models.Item) models.Revision {
	return item.ItemRevision()
}

// ComputeChangeHash hashes every payload field. The revision travels outside
// the field set and never influences the hash.
func (s *TypedSpec[T]) ComputeChangeHash(rec models.Record) string {
	return utils.ChangeHash(rec.Fields)
}

func (s *TypedSpec[T]) StoredHash(ctx context.Context, id string) (string, bool, error) {
	return s.repo.GetHash(ctx, s.def.Type, id)
}

// Apply decodes rec and upserts it with its change hash.
func (s *TypedSpec[T]) Apply(ctx context.Context, rec models.Record) error {
	id, err := s.ExtractID(rec)
	if err != nil {
		return err
	}

	value, err := s.def.Decode(rec.Fields)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrDecodeRecord, s.def.Type, id, err)
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: marshal %s %s: %w", ErrDecodeRecord, s.def.Type, id, err)
	}

	return s.repo.Upsert(ctx, models.StoredRecord{
		EntityType: s.def.Type,
		ID:         id,
		ChangeHash: s.ComputeChangeHash(rec),
		Revision:   rec.Revision,
		Payload:    payload,
		UpdatedAt:  s.now(),
	})
}

// Remove deletes id. Removing an absent id is not an error.
func (s *TypedSpec[T]) Remove(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, s.def.Type, id)
}

// RemoveMany deletes ids in one store transaction.
func (s *TypedSpec[T]) RemoveMany(ctx context.Context, ids []string) (int, error) {
	return s.repo.DeleteMany(ctx, s.def.Type, ids)
}

func (s *TypedSpec[T]) CurrentLocalIDs(ctx context.Context) (map[string]struct{}, error) {
	return s.repo.ListIDs(ctx, s.def.Type)
}

func (s *TypedSpec[T]) LocalCount(ctx context.Context) (int, error) {
	return s.repo.Count(ctx, s.def.Type)
}

// Get returns the decoded entity stored under id.
func (s *TypedSpec[T]) Get(ctx context.Context, id string) (T, error) {
	var value T

	rec, err := s.repo.Get(ctx, s.def.Type, id)
	if err != nil {
		return value, err
	}
	if err = json.Unmarshal(rec.Payload, &value); err != nil {
		return value, fmt.Errorf("unmarshal %s %s: %w", s.def.Type, id, err)
	}
	return value, nil
}

// List returns every stored entity of the type ordered by id.
func (s *TypedSpec[T]) List(ctx context.Context) ([]T, error) {
	recs, err := s.repo.List(ctx, s.def.Type)
	if err != nil {
		return nil, err
	}

	values := make([]T, 0, len(recs))
	var errs []error
	for _, rec := range recs {
		var value T
		if err = json.Unmarshal(rec.Payload, &value); err != nil {
			errs = append(errs, fmt.Errorf("unmarshal %s %s: %w", s.def.Type, rec.ID, err))
			continue
		}
		values = append(values, value)
	}
	return values, errors.Join(errs...)
}
