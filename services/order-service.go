package services

import (
	"context"
	"errors"
	"strings"

	"erp-project/backend/logging"
	"erp-project/backend/models"
	"erp-project/backend/orders"
	"erp-project/backend/store"
)

// maxNumberAttempts bounds how often an auto-assigned order number is
// re-proposed after losing a race on the unique index.
const maxNumberAttempts = 5

type orderDocument[T any] interface {
	models.Document[T]
	models.Order
}

// OrderService handles sales and purchase orders. Line amounts and totals
// are recomputed on every write and an empty order number is auto-assigned.
type OrderService[T any, PT orderDocument[T]] struct {
	*ResourceService[T, PT]
}

func NewOrderService[T any, PT orderDocument[T]](label string, coll store.Collection[T], projects store.Collection[models.Project]) *OrderService[T, PT] {
	resource := NewResourceService[T, PT](label, coll,
		WithProjectLookup[T, PT](projects),
		WithConflictMessage[T, PT]("Order number already exists"),
		WithBeforeSave[T, PT](func(doc PT) { orders.Apply(doc) }),
	)
	return &OrderService[T, PT]{ResourceService: resource}
}

func (s *OrderService[T, PT]) Create(ctx context.Context, payload []byte) (*T, error) {
	doc, err := s.Decode(payload)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(PT(doc).GetOrderNumber()) != "" {
		return s.Insert(ctx, doc)
	}

	for attempt := 1; ; attempt++ {
		number, err := s.NextNumber(ctx)
		if err != nil {
			return nil, err
		}
		PT(doc).SetOrderNumber(number)

		created, err := s.Insert(ctx, doc)
		var conflict *ConflictError
		if errors.As(err, &conflict) && attempt < maxNumberAttempts {
			logging.Logger.Warnf("Event ID: ORDER_NUMBER_TAKEN, Description: %s number %s was taken, proposing again (attempt %d)", s.Label(), number, attempt)
			continue
		}
		return created, err
	}
}

// NextNumber proposes the next order number from the stored ones.
func (s *OrderService[T, PT]) NextNumber(ctx context.Context) (string, error) {
	docs, err := s.List(ctx, nil)
	if err != nil {
		return "", err
	}
	numbers := make([]string, 0, len(docs))
	for _, doc := range docs {
		numbers = append(numbers, PT(doc).GetOrderNumber())
	}
	return orders.NextNumber(numbers), nil
}
