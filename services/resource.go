package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"erp-project/backend/logging"
	"erp-project/backend/models"
	"erp-project/backend/store"
)

// managed fields are owned by the server and ignored in request bodies.
var managedFields = []string{"id", "_id", "createdAt", "updatedAt"}

// ResourceService implements find/create/update/delete for one collection.
// Documents that reference a project by name get the project id resolved on
// every write.
type ResourceService[T any, PT models.Document[T]] struct {
	label           string
	coll            store.Collection[T]
	projects        store.Collection[models.Project]
	conflictMessage string
	beforeSave      func(PT)
}

type ResourceOption[T any, PT models.Document[T]] func(*ResourceService[T, PT])

// WithProjectLookup enables project id resolution for ProjectLinked documents.
func WithProjectLookup[T any, PT models.Document[T]](projects store.Collection[models.Project]) ResourceOption[T, PT] {
	return func(s *ResourceService[T, PT]) { s.projects = projects }
}

func WithConflictMessage[T any, PT models.Document[T]](message string) ResourceOption[T, PT] {
	return func(s *ResourceService[T, PT]) { s.conflictMessage = message }
}

// WithBeforeSave registers a hook run after defaults and before validation.
func WithBeforeSave[T any, PT models.Document[T]](hook func(PT)) ResourceOption[T, PT] {
	return func(s *ResourceService[T, PT]) { s.beforeSave = hook }
}

func NewResourceService[T any, PT models.Document[T]](label string, coll store.Collection[T], opts ...ResourceOption[T, PT]) *ResourceService[T, PT] {
	s := &ResourceService[T, PT]{
		label:           label,
		coll:            coll,
		conflictMessage: label + " already exists",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ResourceService[T, PT]) Label() string {
	return s.label
}

func (s *ResourceService[T, PT]) List(ctx context.Context, filter store.Filter) ([]*T, error) {
	docs, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching %s: %w", s.coll.Name(), err)
	}
	return docs, nil
}

func (s *ResourceService[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	doc, err := s.coll.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(s.label)
		}
		return nil, err
	}
	return doc, nil
}

// Create decodes a request body into a new document and stores it.
func (s *ResourceService[T, PT]) Create(ctx context.Context, payload []byte) (*T, error) {
	doc, err := s.Decode(payload)
	if err != nil {
		return nil, err
	}
	return s.Insert(ctx, doc)
}

// Decode reads a request body into a fresh document.
func (s *ResourceService[T, PT]) Decode(payload []byte) (*T, error) {
	fields, err := payloadFields(payload)
	if err != nil {
		return nil, err
	}
	doc := new(T)
	if err := decodeFields(fields, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *ResourceService[T, PT]) Insert(ctx context.Context, doc *T) (*T, error) {
	if err := s.prepare(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.coll.Insert(ctx, doc); err != nil {
		return nil, classify(err, s.conflictMessage)
	}
	logging.Logger.Infof("Event ID: %s_CREATED, Description: %s %s created", s.eventName(), s.label, PT(doc).Meta().ID.Hex())
	return doc, nil
}

// Update applies a full-document PUT: top-level fields present in the body
// replace the stored values, absent fields keep them. id and createdAt never
// change.
func (s *ResourceService[T, PT]) Update(ctx context.Context, id string, payload []byte) (*T, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fields, err := payloadFields(payload)
	if err != nil {
		return nil, err
	}
	stored, err := json.Marshal(existing)
	if err != nil {
		return nil, err
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(stored, &merged); err != nil {
		return nil, err
	}
	for key, value := range fields {
		merged[key] = value
	}

	doc := new(T)
	if err := decodeFields(merged, doc); err != nil {
		return nil, err
	}
	meta := PT(existing).Meta()
	PT(doc).Meta().ID = meta.ID
	PT(doc).Meta().CreatedAt = meta.CreatedAt

	if err := s.prepare(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.coll.Replace(ctx, doc); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(s.label)
		}
		return nil, classify(err, s.conflictMessage)
	}
	logging.Logger.Infof("Event ID: %s_UPDATED, Description: %s %s updated", s.eventName(), s.label, id)
	return doc, nil
}

func (s *ResourceService[T, PT]) Delete(ctx context.Context, id string) error {
	if err := s.coll.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(s.label)
		}
		return err
	}
	logging.Logger.Infof("Event ID: %s_DELETED, Description: %s %s deleted", s.eventName(), s.label, id)
	return nil
}

func (s *ResourceService[T, PT]) Count(ctx context.Context) (int64, error) {
	return s.coll.Count(ctx, nil)
}

func (s *ResourceService[T, PT]) prepare(ctx context.Context, doc *T) error {
	PT(doc).ApplyDefaults()
	if s.beforeSave != nil {
		s.beforeSave(PT(doc))
	}
	if err := s.resolveProject(ctx, doc); err != nil {
		return err
	}
	return classify(PT(doc).Validate(), s.conflictMessage)
}

// resolveProject sets projectId from the project name. Names are not unique:
// the oldest project with the name wins. An unknown name leaves the id empty;
// the name is kept as entered.
func (s *ResourceService[T, PT]) resolveProject(ctx context.Context, doc *T) error {
	linked, ok := any(doc).(models.ProjectLinked)
	if !ok || s.projects == nil {
		return nil
	}
	name := linked.ProjectName()
	if name == "" {
		linked.SetProjectID("")
		return nil
	}
	project, err := s.projects.FindOne(ctx, store.Filter{"name": name})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logging.Logger.Debugf("Event ID: PROJECT_REFERENCE_UNRESOLVED, Description: %s references unknown project %q", s.label, name)
			linked.SetProjectID("")
			return nil
		}
		return fmt.Errorf("error resolving project %q: %w", name, err)
	}
	linked.SetProjectID(project.ID.Hex())
	return nil
}

func (s *ResourceService[T, PT]) eventName() string {
	return strings.ToUpper(s.coll.Name())
}

// payloadFields splits a request body into its top-level fields, dropping the
// server-managed ones.
func payloadFields(payload []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil || fields == nil {
		return nil, &ValidationError{Message: "Invalid request payload", Err: err}
	}
	for _, key := range managedFields {
		delete(fields, key)
	}
	return fields, nil
}

func decodeFields(fields map[string]json.RawMessage, target any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return &ValidationError{Message: "Invalid request payload: " + err.Error(), Err: err}
	}
	return nil
}
