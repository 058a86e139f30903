package store

import (
	"context"
	"errors"
	"testing"

	"erp-project/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryCollectionInsertAndFind(t *testing.T) {
	ctx := context.Background()
	tasks := NewMemoryCollection[models.Task](TasksCollection)

	first := &models.Task{Name: "Design", Project: "Apollo", Status: models.StatusDone, Assignees: []string{"ana", "marko"}}
	second := &models.Task{Name: "Build", Project: "Apollo", Status: models.StatusNew}
	third := &models.Task{Name: "Ship", Project: "Gemini", Status: models.StatusNew}
	for _, task := range []*models.Task{first, second, third} {
		require.NoError(t, tasks.Insert(ctx, task))
	}

	assert.False(t, first.ID.IsZero())
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	all, err := tasks.Find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Design", all[0].Name)
	assert.Equal(t, "Ship", all[2].Name)

	apollo, err := tasks.Find(ctx, Filter{"project": "Apollo"})
	require.NoError(t, err)
	assert.Len(t, apollo, 2)

	done, err := tasks.Count(ctx, Filter{"status": models.StatusDone})
	require.NoError(t, err)
	assert.Equal(t, int64(1), done)

	byAssignee, err := tasks.Find(ctx, Filter{"assignees": "marko"})
	require.NoError(t, err)
	require.Len(t, byAssignee, 1)
	assert.Equal(t, first.ID, byAssignee[0].ID)

	got, err := tasks.FindByID(ctx, second.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Build", got.Name)
}

func TestMemoryCollectionNotFound(t *testing.T) {
	ctx := context.Background()
	projects := NewMemoryCollection[models.Project](ProjectsCollection)

	_, err := projects.FindByID(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = projects.FindByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, projects.DeleteByID(ctx, primitive.NewObjectID().Hex()), ErrNotFound)
	assert.ErrorIs(t, projects.DeleteByID(ctx, "zzz"), ErrNotFound)

	missing := &models.Project{Name: "ghost"}
	missing.ID = primitive.NewObjectID()
	assert.ErrorIs(t, projects.Replace(ctx, missing), ErrNotFound)

	_, err = projects.FindOne(ctx, Filter{"name": "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCollectionUnique(t *testing.T) {
	ctx := context.Background()
	orders := NewMemoryCollection[models.SalesOrder](SalesOrdersCollection, "orderNumber")

	require.NoError(t, orders.Insert(ctx, &models.SalesOrder{OrderNumber: "SO001", Customer: "Acme"}))

	err := orders.Insert(ctx, &models.SalesOrder{OrderNumber: "SO001", Customer: "Other"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	var dup *DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "orderNumber", dup.Field)

	second := &models.SalesOrder{OrderNumber: "SO002", Customer: "Acme"}
	require.NoError(t, orders.Insert(ctx, second))

	second.OrderNumber = "SO001"
	assert.ErrorIs(t, orders.Replace(ctx, second), ErrDuplicateKey)

	// Replacing a document with its own value is not a conflict.
	second.OrderNumber = "SO002"
	second.Customer = "Acme Ltd"
	assert.NoError(t, orders.Replace(ctx, second))

	n, err := orders.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMemoryCollectionReplaceAndDelete(t *testing.T) {
	ctx := context.Background()
	expenses := NewMemoryCollection[models.Expense](ExpensesCollection)

	expense := &models.Expense{Name: "Hotel", Image: "data:image/png;base64,iVBORw0KGgo="}
	require.NoError(t, expenses.Insert(ctx, expense))
	createdAt := expense.CreatedAt

	expense.Name = "Hotel (2 nights)"
	require.NoError(t, expenses.Replace(ctx, expense))

	got, err := expenses.FindByID(ctx, expense.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Hotel (2 nights)", got.Name)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", got.Image)
	assert.True(t, got.CreatedAt.Equal(createdAt))
	assert.False(t, got.UpdatedAt.Before(createdAt))

	require.NoError(t, expenses.DeleteByID(ctx, expense.ID.Hex()))
	_, err = expenses.FindByID(ctx, expense.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := expenses.Find(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryCollectionReturnsCopies(t *testing.T) {
	ctx := context.Background()
	projects := NewMemoryCollection[models.Project](ProjectsCollection)

	project := &models.Project{Name: "Apollo", Tags: []string{"space"}}
	require.NoError(t, projects.Insert(ctx, project))

	project.Name = "changed without replace"
	got, err := projects.FindByID(ctx, project.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Apollo", got.Name)
}
