package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{`12.5`, 12.5},
		{`"7"`, 7},
		{`" 3.25 "`, 3.25},
		{`""`, 0},
		{`"abc"`, 0},
		{`null`, 0},
		{`"NaN"`, 0},
		{`"Inf"`, 0},
		{`true`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.in), &n))
			assert.Equal(t, tt.want, n.Float())
		})
	}
}

func TestRatingUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    Rating
		wantErr bool
	}{
		{`2`, 2, false},
		{`"3"`, 3, false},
		{`" 1 "`, 1, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"5"`, 5, false},
		{`2.5`, 0, true},
		{`"two"`, 0, true},
		{`true`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var r Rating
			err := json.Unmarshal([]byte(tt.in), &r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r)
		})
	}
}

func TestNumberMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		Amount Number `json:"amount"`
	}{Amount: 4.5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":4.5}`, string(out))
}

func TestPermissions(t *testing.T) {
	p := Of(CanManageTasks, CanViewDashboard)
	assert.True(t, p.Has(CanManageTasks))
	assert.True(t, p.Has(CanViewDashboard))
	assert.False(t, p.Has(CanAccessAdmin))
	assert.False(t, p.Has(Capability("canFly")))

	assert.True(t, p.Set(CanManageTasks, false))
	assert.False(t, p.Has(CanManageTasks))
	assert.False(t, p.Set(Capability("canFly"), true))

	all := Of(Capabilities...)
	for _, c := range Capabilities {
		assert.True(t, all.Has(c), c)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name  string
		doc   interface {
			ApplyDefaults()
			Validate() error
		}
		field string
	}{
		{"project ok", &Project{Name: "Apollo"}, ""},
		{"project blank name", &Project{Name: "  "}, "name"},
		{"project bad priority", &Project{Name: "Apollo", Priority: "Urgent"}, "priority"},
		{"project rating", &Project{Name: "Apollo", Rating: 4}, "rating"},
		{"task ok", &Task{Name: "Design"}, ""},
		{"task bad status", &Task{Name: "Design", Status: "Blocked"}, "status"},
		{"task negative rating", &Task{Name: "Design", Rating: -1}, "rating"},
		{"user ok", &User{Email: "a@example.com"}, ""},
		{"user bad role", &User{Email: "a@example.com", Role: "owner"}, "role"},
		{"user blank email", &User{Email: " "}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.doc.ApplyDefaults()
			err := tt.doc.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestDefaults(t *testing.T) {
	task := &Task{Name: "Design"}
	task.ApplyDefaults()
	assert.Equal(t, StatusNew, task.Status)
	assert.Equal(t, PriorityLow, task.Priority)
	assert.NotNil(t, task.Assignees)
	assert.NotNil(t, task.Tags)

	user := &User{Email: " a@example.com "}
	user.ApplyDefaults()
	assert.Equal(t, "a@example.com", user.Email)
	assert.Equal(t, RoleUser, user.Role)
}
