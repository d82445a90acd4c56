// Package testutil holds checks shared by the repository implementations.
package testutil

import (
	"context"
	"net/http"
	"testing"

	"booksbackend/internal/book"
	"booksbackend/internal/category"
	"booksbackend/internal/response"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCategory is a category fixture.
var TestCategory = category.Category{
	Name:        "Fiction",
	Description: "Fiction books",
}

// TestBook is a book fixture; CategoryID must be set by the caller.
var TestBook = book.Book{
	Name:        "Test Book Title",
	Description: "A test book description",
}

// Services builds both services over the given repositories with a silent logger.
func Services(categories category.Repository, books book.Repository) (*category.Service, *book.Service) {
	logger, _ := logtest.NewNullLogger()
	return category.NewService(categories, logger), book.NewService(books, logger)
}

func mustFirst[T any](t *testing.T, env *response.Envelope[T]) T {
	t.Helper()
	v, ok := env.First()
	require.True(t, ok, "expected a payload item, got detail %q", env.Metadata.Detail)
	return v
}

// RunCategoryScenario creates, reads, updates and deletes a category through the
// service and checks every envelope along the way.
func RunCategoryScenario(t *testing.T, repo category.Repository) {
	t.Helper()
	ctx := context.Background()
	svc, _ := Services(repo, nil)

	env, status := svc.Create(ctx, TestCategory)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, response.CodeOK, env.Metadata.Code)
	created := mustFirst(t, env)
	require.NotZero(t, created.ID)
	assert.Equal(t, TestCategory.Name, created.Name)
	assert.Equal(t, TestCategory.Description, created.Description)

	env, status = svc.GetByID(ctx, created.ID)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created, mustFirst(t, env))

	env, status = svc.Update(ctx, category.Category{Name: "Sci-Fi", Description: "Sci-Fi books"}, created.ID)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, response.CodeOK, env.Metadata.Code)

	env, status = svc.GetByID(ctx, created.ID)
	require.Equal(t, http.StatusOK, status)
	got := mustFirst(t, env)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Sci-Fi", got.Name)
	assert.Equal(t, "Sci-Fi books", got.Description)

	env, status = svc.List(ctx)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, env.Items(), got)

	env, status = svc.Delete(ctx, created.ID)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, response.CodeOK, env.Metadata.Code)

	env, status = svc.GetByID(ctx, created.ID)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, response.CodeFail, env.Metadata.Code)
	assert.Empty(t, env.Items())
}

// RunCategoryEdgeCases covers the absent-id paths.
func RunCategoryEdgeCases(t *testing.T, repo category.Repository) {
	t.Helper()
	ctx := context.Background()
	svc, _ := Services(repo, nil)

	env, status := svc.GetByID(ctx, 9999)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, response.CodeFail, env.Metadata.Code)
	assert.Empty(t, env.Items())

	before, _ := repo.FindAll(ctx)
	env, status = svc.Update(ctx, category.Category{Name: "Ghost"}, 9999)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Category not updated", env.Metadata.Detail)
	after, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "update of an absent id must not create a record")

	env, status = svc.Delete(ctx, 9999)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, response.CodeOK, env.Metadata.Code)

	env, status = svc.List(ctx)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, response.CodeOK, env.Metadata.Code)
}

// RunBookScenario exercises the book service, including the category reference.
func RunBookScenario(t *testing.T, categories category.Repository, books book.Repository) {
	t.Helper()
	ctx := context.Background()
	catSvc, bookSvc := Services(categories, books)

	env, status := catSvc.Create(ctx, TestCategory)
	require.Equal(t, http.StatusOK, status)
	fiction := mustFirst(t, env)
	env, status = catSvc.Create(ctx, category.Category{Name: "History", Description: "History books"})
	require.Equal(t, http.StatusOK, status)
	history := mustFirst(t, env)

	input := TestBook
	input.CategoryID = fiction.ID
	benv, status := bookSvc.Create(ctx, input)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Book created", benv.Metadata.Detail)
	created := mustFirst(t, benv)
	require.NotZero(t, created.ID)
	assert.Equal(t, fiction.ID, created.CategoryID)
	if assert.NotNil(t, created.Category) {
		assert.Equal(t, fiction.Name, created.Category.Name)
	}

	benv, status = bookSvc.GetByID(ctx, created.ID)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created, mustFirst(t, benv))

	benv, status = bookSvc.Update(ctx, book.Book{Name: "Renamed", Description: "Moved", CategoryID: history.ID}, created.ID)
	require.Equal(t, http.StatusOK, status)
	updated := mustFirst(t, benv)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, history.ID, updated.CategoryID)
	if assert.NotNil(t, updated.Category) {
		assert.Equal(t, "History", updated.Category.Name)
	}

	benv, status = bookSvc.GetByID(ctx, created.ID)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Renamed", mustFirst(t, benv).Name)

	benv, status = bookSvc.Create(ctx, book.Book{Name: "Orphan", CategoryID: 424242})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Book not saved", benv.Metadata.Detail)

	benv, status = bookSvc.Update(ctx, book.Book{Name: "Orphan", CategoryID: 424242}, created.ID)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Book not updated", benv.Metadata.Detail)

	benv, status = bookSvc.Update(ctx, book.Book{Name: "Ghost", CategoryID: fiction.ID}, 9999)
	assert.Equal(t, http.StatusNotFound, status)

	benv, status = bookSvc.List(ctx)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, benv.Items(), 1)

	_, status = catSvc.Delete(ctx, history.ID)
	assert.Equal(t, http.StatusInternalServerError, status, "a referenced category cannot be deleted")

	benv, status = bookSvc.Delete(ctx, created.ID)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Book deleted", benv.Metadata.Detail)

	_, status = bookSvc.GetByID(ctx, created.ID)
	assert.Equal(t, http.StatusNotFound, status)

	_, status = bookSvc.Delete(ctx, created.ID)
	assert.Equal(t, http.StatusOK, status)

	_, status = catSvc.Delete(ctx, history.ID)
	assert.Equal(t, http.StatusOK, status)
}
