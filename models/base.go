package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base carries the identity and timestamps every stored document has.
type Base struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (b *Base) Meta() *Base { return b }

// Entity is implemented by every document through its embedded Base.
type Entity interface {
	Meta() *Base
}

// Document is the pointer-constraint used by the generic store and services.
type Document[T any] interface {
	*T
	Entity
	ApplyDefaults()
	Validate() error
}

// ProjectLinked documents reference a project by name and carry the
// resolved project id next to it.
type ProjectLinked interface {
	ProjectName() string
	SetProjectID(id string)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}

// Rating is a 0-3 score. Form values arrive as numbers or numeric strings;
// an empty value or null is 0.
type Rating int

func (r *Rating) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	if raw == "" || raw == "null" {
		*r = 0
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return fmt.Errorf("rating must be a whole number, got %s", string(data))
	}
	*r = Rating(f)
	return nil
}

func validRating(rating Rating) error {
	if rating < 0 || rating > 3 {
		return &ValidationError{Field: "rating", Message: "rating must be between 0 and 3"}
	}
	return nil
}

// Number is a form number: it accepts JSON numbers and numeric strings and
// decodes anything else (including NaN and infinities) as 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	*n = Number(f)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(n))
}

func (n Number) Float() float64 { return float64(n) }
