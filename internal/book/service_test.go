package book

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"booksbackend/internal/category"
	"booksbackend/internal/response"

	"github.com/golang/mock/gomock"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStore = errors.New("database is closed")

var fiction = &category.Category{ID: 1, Name: "Fiction", Description: "Fiction books"}

func newTestService(t *testing.T) (*Service, *MockRepository) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	logger, _ := logtest.NewNullLogger()
	return NewService(mockRepo, logger), mockRepo
}

func assertFailure(t *testing.T, env *Envelope, detail string) {
	t.Helper()
	assert.False(t, env.Succeeded())
	assert.Equal(t, response.CodeFail, env.Metadata.Code)
	assert.Equal(t, detail, env.Metadata.Detail)
	assert.Empty(t, env.Items())
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, mockRepo := newTestService(t)
		mockRepo.EXPECT().FindAll(ctx).Return([]Book{{ID: 1, Name: "Dune", CategoryID: 1, Category: fiction}}, nil)

		env, status := svc.List(ctx)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, response.CodeOK, env.Metadata.Code)
		assert.Len(t, env.Items(), 1)
	})

	t.Run("success - empty store", func(t *testing.T) {
		svc, mockRepo := newTestService(t)
		mockRepo.EXPECT().FindAll(ctx).Return([]Book{}, nil)

		env, status := svc.List(ctx)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, response.CodeOK, env.Metadata.Code)
		assert.Equal(t, response.DetailOK, env.Metadata.Detail)
		assert.NotNil(t, env.Items())
		assert.Empty(t, env.Items())

		b, err := json.Marshal(env)
		require.NoError(t, err)
		assert.Contains(t, string(b), `"data":{"books":[]}`)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, mockRepo := newTestService(t)
		mockRepo.EXPECT().FindAll(ctx).Return(nil, errStore)

		env, status := svc.List(ctx)

		assert.Equal(t, http.StatusInternalServerError, status)
		assertFailure(t, env, "Error querying books")
	})
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		repoBook       *Book
		repoErr        error
		expectedStatus int
		expectedDetail string
	}{
		{"found", &Book{ID: 4, Name: "Dune", CategoryID: 1}, nil, http.StatusOK, response.DetailOK},
		{"not found", nil, nil, http.StatusNotFound, "Book not found"},
		{"store failure", nil, errStore, http.StatusInternalServerError, "Error querying book"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo := newTestService(t)
			mockRepo.EXPECT().FindByID(ctx, int64(4)).Return(tt.repoBook, tt.repoErr)

			env, status := svc.GetByID(ctx, 4)

			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedDetail, env.Metadata.Detail)
			if tt.repoBook != nil {
				assert.Equal(t, []Book{*tt.repoBook}, env.Items())
			} else {
				assert.Empty(t, env.Items())
			}
		})
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("created", func(t *testing.T) {
		svc, mockRepo := newTestService(t)
		mockRepo.EXPECT().Save(ctx, &Book{Name: "Dune", Description: "Desert planet", CategoryID: 1}).
			Return(&Book{ID: 9, Name: "Dune", Description: "Desert planet", CategoryID: 1, Category: fiction}, nil)

		env, status := svc.Create(ctx, Book{ID: 123, Name: "Dune", Description: "Desert planet", CategoryID: 1})

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Book created", env.Metadata.Detail)
		created, ok := env.First()
		require.True(t, ok)
		assert.Equal(t, int64(9), created.ID)
		assert.Equal(t, fiction, created.Category)
	})

	t.Run("rejected - unknown category", func(t *testing.T) {
		svc, mockRepo := newTestService(t)
		mockRepo.EXPECT().Save(ctx, gomock.Any()).Return(nil, nil)

		env, status := svc.Create(ctx, Book{Name: "Dune", CategoryID: 999})

		assert.Equal(t, http.StatusBadRequest, status)
		assertFailure(t, env, "Book not saved")
	})

	t.Run("store failure", func(t *testing.T) {
		svc, mockRepo := newTestService(t)
		mockRepo.EXPECT().Save(ctx, gomock.Any()).Return(nil, errStore)

		env, status := svc.Create(ctx, Book{Name: "Dune", CategoryID: 1})

		assert.Equal(t, http.StatusInternalServerError, status)
		assertFailure(t, env, "Error saving book")
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("merges fields and keeps id", func(t *testing.T) {
		svc, mockRepo := newTestService(t)
		mockRepo.EXPECT().FindByID(ctx, int64(9)).
			Return(&Book{ID: 9, Name: "Dune", Description: "old", CategoryID: 1, Category: fiction}, nil)
		mockRepo.EXPECT().Save(ctx, &Book{ID: 9, Name: "Dune Messiah", Description: "new", CategoryID: 2}).
			DoAndReturn(func(_ context.Context, b *Book) (*Book, error) {
				out := *b
				out.Category = &category.Category{ID: 2, Name: "Sci-Fi"}
				return &out, nil
			})

		env, status := svc.Update(ctx, Book{ID: 1, Name: "Dune Messiah", Description: "new", CategoryID: 2}, 9)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Book updated", env.Metadata.Detail)
		updated, ok := env.First()
		require.True(t, ok)
		assert.Equal(t, int64(9), updated.ID)
		assert.Equal(t, int64(2), updated.CategoryID)
		assert.Equal(t, "Sci-Fi", updated.Category.Name)
	})

	t.Run("same category keeps resolved category", func(t *testing.T) {
		svc, mockRepo := newTestService(t)
		mockRepo.EXPECT().FindByID(ctx, int64(9)).Return(&Book{ID: 9, CategoryID: 1, Category: fiction}, nil)
		mockRepo.EXPECT().Save(ctx, &Book{ID: 9, Name: "Dune", CategoryID: 1, Category: fiction}).
			DoAndReturn(func(_ context.Context, b *Book) (*Book, error) { return b, nil })

		_, status := svc.Update(ctx, Book{Name: "Dune", CategoryID: 1}, 9)

		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("not found", func(t *testing.T) {
		svc, mockRepo := newTestService(t)
		mockRepo.EXPECT().FindByID(ctx, int64(9)).Return(nil, nil)
		mockRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

		env, status := svc.Update(ctx, Book{Name: "x", CategoryID: 1}, 9)

		assert.Equal(t, http.StatusNotFound, status)
		assertFailure(t, env, "Book not updated")
	})

	t.Run("rejected", func(t *testing.T) {
		svc, mockRepo := newTestService(t)
		mockRepo.EXPECT().FindByID(ctx, int64(9)).Return(&Book{ID: 9, CategoryID: 1}, nil)
		mockRepo.EXPECT().Save(ctx, gomock.Any()).Return(nil, nil)

		env, status := svc.Update(ctx, Book{Name: "x", CategoryID: 404}, 9)

		assert.Equal(t, http.StatusBadRequest, status)
		assertFailure(t, env, "Book not updated")
	})

	t.Run("fetch failure", func(t *testing.T) {
		svc, mockRepo := newTestService(t)
		mockRepo.EXPECT().FindByID(ctx, int64(9)).Return(nil, errStore)

		env, status := svc.Update(ctx, Book{Name: "x", CategoryID: 1}, 9)

		assert.Equal(t, http.StatusInternalServerError, status)
		assertFailure(t, env, "Error updating book")
	})

	t.Run("save failure", func(t *testing.T) {
		svc, mockRepo := newTestService(t)
		mockRepo.EXPECT().FindByID(ctx, int64(9)).Return(&Book{ID: 9, CategoryID: 1}, nil)
		mockRepo.EXPECT().Save(ctx, gomock.Any()).Return(nil, errStore)

		env, status := svc.Update(ctx, Book{Name: "x", CategoryID: 1}, 9)

		assert.Equal(t, http.StatusInternalServerError, status)
		assertFailure(t, env, "Error updating book")
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		svc, mockRepo := newTestService(t)
		mockRepo.EXPECT().DeleteByID(ctx, int64(9)).Return(nil)

		env, status := svc.Delete(ctx, 9)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Book deleted", env.Metadata.Detail)
		assert.Empty(t, env.Items())
	})

	t.Run("store failure", func(t *testing.T) {
		svc, mockRepo := newTestService(t)
		mockRepo.EXPECT().DeleteByID(ctx, int64(9)).Return(errStore)

		env, status := svc.Delete(ctx, 9)

		assert.Equal(t, http.StatusInternalServerError, status)
		assertFailure(t, env, "Error deleting book")
	})
}
