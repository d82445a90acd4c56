package category

import (
	"context"
	"net/http"

	"booksbackend/internal/response"

	"github.com/sirupsen/logrus"
)

// Envelope is the response shape of every category operation.
type Envelope = response.Envelope[Category]

// Service provides the category operations. Every operation answers with an
// envelope and an HTTP status; store errors never escape it.
type Service struct {
	repo Repository
	log  logrus.FieldLogger
}

// NewService creates a new category service.
func NewService(repo Repository, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, log: log.WithField("component", "category_service")}
}

func newEnvelope() *Envelope {
	return response.New[Category](PayloadKey)
}

// List returns every category.
func (s *Service) List(ctx context.Context) (*Envelope, int) {
	log := s.log.WithField("op", "list")
	log.Info("listing categories")

	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		log.WithError(err).Error("error querying categories")
		return newEnvelope().Fail("Error querying categories"), http.StatusInternalServerError
	}
	return newEnvelope().OK(response.DetailOK, categories...), http.StatusOK
}

// GetByID returns the category with the given id.
func (s *Service) GetByID(ctx context.Context, id int64) (*Envelope, int) {
	log := s.log.WithFields(logrus.Fields{"op": "get_by_id", "id": id})
	log.Info("fetching category")

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("error querying category")
		return newEnvelope().Fail("Error querying category"), http.StatusInternalServerError
	}
	if c == nil {
		log.Warn("category not found")
		return newEnvelope().Fail("Category not found"), http.StatusNotFound
	}
	return newEnvelope().OK(response.DetailOK, *c), http.StatusOK
}

// Create stores a new category. Any id carried by c is ignored.
func (s *Service) Create(ctx context.Context, c Category) (*Envelope, int) {
	log := s.log.WithField("op", "create")
	log.Info("creating category")

	c.ID = 0
	saved, err := s.repo.Save(ctx, &c)
	if err != nil {
		log.WithError(err).Error("error saving category")
		return newEnvelope().Fail("Error saving category"), http.StatusInternalServerError
	}
	if saved == nil {
		log.Warn("category rejected by store")
		return newEnvelope().Fail("Category not saved"), http.StatusBadRequest
	}
	return newEnvelope().OK("Category created", *saved), http.StatusOK
}

// Update overwrites name and description of the category with the given id.
// The read and the write are not atomic: concurrent updates of the same id may
// lose one of the writes.
func (s *Service) Update(ctx context.Context, c Category, id int64) (*Envelope, int) {
	log := s.log.WithFields(logrus.Fields{"op": "update", "id": id})
	log.Info("updating category")

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("error loading category for update")
		return newEnvelope().Fail("Error updating category"), http.StatusInternalServerError
	}
	if existing == nil {
		log.Warn("category to update not found")
		return newEnvelope().Fail("Category not updated"), http.StatusNotFound
	}

	existing.Name = c.Name
	existing.Description = c.Description

	updated, err := s.repo.Save(ctx, existing)
	if err != nil {
		log.WithError(err).Error("error updating category")
		return newEnvelope().Fail("Error updating category"), http.StatusInternalServerError
	}
	if updated == nil {
		log.Warn("category update rejected by store")
		return newEnvelope().Fail("Category not updated"), http.StatusBadRequest
	}
	return newEnvelope().OK("Category updated", *updated), http.StatusOK
}

// Delete removes the category with the given id. Deleting an absent id succeeds.
func (s *Service) Delete(ctx context.Context, id int64) (*Envelope, int) {
	log := s.log.WithFields(logrus.Fields{"op": "delete", "id": id})
	log.Info("deleting category")

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		log.WithError(err).Error("error deleting category")
		return newEnvelope().Fail("Error deleting category"), http.StatusInternalServerError
	}
	return newEnvelope().OK("Category deleted"), http.StatusOK
}
