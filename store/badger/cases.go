// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/casekit/core"
	"github.com/poiesic/casekit/store"
)

// caseEnvelope is the stored form of one case. The sequence number ties
// the record to its entry in the insertion-order index.
type caseEnvelope struct {
	Seq   uint64     `json:"seq"`
	Value core.Value `json:"value"`
}

// CaseRepository persists cases in badger, preserving insertion order
// through a secondary index keyed by sequence number.
type CaseRepository struct {
	backend  *Backend
	orderSeq *badger.Sequence
}

var _ store.CaseRepository = (*CaseRepository)(nil)

// NewCaseRepository creates a new CaseRepository.
func NewCaseRepository(backend *Backend) (*CaseRepository, error) {
	orderSeq, err := backend.GetSequence(caseOrderSeq)
	if err != nil {
		return nil, err
	}

	return &CaseRepository{
		backend:  backend,
		orderSeq: orderSeq,
	}, nil
}

// Close releases the order sequence.
func (r *CaseRepository) Close() error {
	return r.orderSeq.Release()
}

// readEnvelope fetches and decodes a case record within a transaction.
// Returns nil without error when the key is absent.
func (r *CaseRepository) readEnvelope(tx *badger.Txn, key []byte) (*caseEnvelope, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var envelope caseEnvelope
	err = item.Value(func(data []byte) error {
		if err := json.Unmarshal(data, &envelope); err != nil {
			return fmt.Errorf("%w: %v", store.ErrSerializationFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &envelope, nil
}

// Put stores a case. Replacing an existing case reuses its sequence
// number so its position in the insertion order is kept.
func (r *CaseRepository) Put(ctx context.Context, id core.CaseID, value core.Value) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCaseKey(id)

		existing, err := r.readEnvelope(tx, key)
		if err != nil {
			return err
		}

		var seq uint64
		if existing != nil {
			seq = existing.Seq
		} else {
			seq, err = r.orderSeq.Next()
			if err != nil {
				return err
			}
			if err := tx.Set(makeOrderKey(seq), []byte(id)); err != nil {
				return err
			}
		}

		data, err := json.Marshal(caseEnvelope{Seq: seq, Value: value})
		if err != nil {
			return fmt.Errorf("%w: %v", store.ErrSerializationFailed, err)
		}
		if err := tx.Set(key, data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Get retrieves a single case by ID.
func (r *CaseRepository) Get(ctx context.Context, id core.CaseID) (core.Value, error) {
	var value core.Value

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		envelope, err := r.readEnvelope(tx, makeCaseKey(id))
		if err != nil {
			return err
		}
		if envelope == nil {
			return fmt.Errorf("case %q: %w", id, store.ErrNotFound)
		}
		value = envelope.Value
		return nil
	}, false)

	return value, err
}

// Delete removes a case and its order-index entry.
func (r *CaseRepository) Delete(ctx context.Context, id core.CaseID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCaseKey(id)

		envelope, err := r.readEnvelope(tx, key)
		if err != nil {
			return err
		}
		if envelope == nil {
			return fmt.Errorf("case %q: %w", id, store.ErrNotFound)
		}

		if err := tx.Delete(makeOrderKey(envelope.Seq)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// All materializes the stored cases as a case base in insertion order.
func (r *CaseRepository) All(ctx context.Context) (*core.CaseBase, error) {
	cb := core.NewCaseBase()

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(caseOrderPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			idBytes, err := iter.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			id := core.CaseID(idBytes)

			envelope, err := r.readEnvelope(tx, makeCaseKey(id))
			if err != nil {
				return err
			}
			if envelope == nil {
				return fmt.Errorf("order index points at missing case %q: %w", id, store.ErrNotFound)
			}
			cb.Add(id, envelope.Value)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return cb, nil
}

// Count returns the number of stored cases.
func (r *CaseRepository) Count(ctx context.Context) (int, error) {
	count := 0

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(caseOrderPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)

	return count, err
}
