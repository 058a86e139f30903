package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCollection keeps BSON-encoded documents in insertion order. It backs
// STORE_DRIVER=memory and the tests.
type MemoryCollection[T any, PT entityPtr[T]] struct {
	name   string
	unique []string

	mu    sync.RWMutex
	order []primitive.ObjectID
	docs  map[primitive.ObjectID][]byte
}

func NewMemoryCollection[T any, PT entityPtr[T]](name string, unique ...string) *MemoryCollection[T, PT] {
	return &MemoryCollection[T, PT]{
		name:   name,
		unique: unique,
		docs:   make(map[primitive.ObjectID][]byte),
	}
}

func (c *MemoryCollection[T, PT]) Name() string {
	return c.name
}

func (c *MemoryCollection[T, PT]) Find(ctx context.Context, filter Filter) ([]*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	docs := []*T{}
	for _, id := range c.order {
		raw := c.docs[id]
		ok, err := matches(raw, filter)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		doc, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *MemoryCollection[T, PT]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	docs, err := c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return docs[0], nil
}

func (c *MemoryCollection[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	c.mu.RLock()
	raw, ok := c.docs[objectID]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decode[T](raw)
}

func (c *MemoryCollection[T, PT]) Insert(ctx context.Context, doc *T) error {
	meta := PT(doc).Meta()
	if meta.ID.IsZero() {
		meta.ID = primitive.NewObjectID()
	}
	meta.CreatedAt = now()
	meta.UpdatedAt = meta.CreatedAt

	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", c.name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.docs[meta.ID]; exists {
		return &DuplicateKeyError{Field: "_id"}
	}
	if err := c.checkUnique(meta.ID, raw); err != nil {
		return err
	}
	c.docs[meta.ID] = raw
	c.order = append(c.order, meta.ID)
	return nil
}

func (c *MemoryCollection[T, PT]) Replace(ctx context.Context, doc *T) error {
	meta := PT(doc).Meta()
	meta.UpdatedAt = now()

	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", c.name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.docs[meta.ID]; !exists {
		return ErrNotFound
	}
	if err := c.checkUnique(meta.ID, raw); err != nil {
		return err
	}
	c.docs[meta.ID] = raw
	return nil
}

func (c *MemoryCollection[T, PT]) DeleteByID(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.docs[objectID]; !exists {
		return ErrNotFound
	}
	delete(c.docs, objectID)
	for i, existing := range c.order {
		if existing == objectID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *MemoryCollection[T, PT]) Count(ctx context.Context, filter Filter) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int64
	for _, id := range c.order {
		ok, err := matches(c.docs[id], filter)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// checkUnique must be called with the write lock held.
func (c *MemoryCollection[T, PT]) checkUnique(id primitive.ObjectID, raw []byte) error {
	if len(c.unique) == 0 {
		return nil
	}
	var incoming bson.M
	if err := bson.Unmarshal(raw, &incoming); err != nil {
		return err
	}
	for _, field := range c.unique {
		value, ok := incoming[field]
		if !ok {
			continue
		}
		for otherID, otherRaw := range c.docs {
			if otherID == id {
				continue
			}
			var other bson.M
			if err := bson.Unmarshal(otherRaw, &other); err != nil {
				return err
			}
			if reflect.DeepEqual(other[field], value) {
				return &DuplicateKeyError{Field: field}
			}
		}
	}
	return nil
}

func decode[T any](raw []byte) (*T, error) {
	doc := new(T)
	if err := bson.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

func matches(raw []byte, filter Filter) (bool, error) {
	if len(filter) == 0 {
		return true, nil
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return false, err
	}
	for field, want := range filter {
		got, ok := doc[field]
		if !ok {
			return false, nil
		}
		if !valueMatches(got, want) {
			return false, nil
		}
	}
	return true, nil
}

func valueMatches(got, want any) bool {
	want = normalize(want)
	if arr, ok := got.(bson.A); ok {
		for _, item := range arr {
			if reflect.DeepEqual(item, want) {
				return true
			}
		}
		return false
	}
	return reflect.DeepEqual(got, want)
}

// normalize turns named string types (statuses, roles) into plain strings,
// which is what BSON decoding yields.
func normalize(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String && rv.Type() != reflect.TypeOf("") {
		return rv.String()
	}
	return v
}
