package book

import (
	"context"
	"net/http"

	"booksbackend/internal/response"

	"github.com/sirupsen/logrus"
)

// Envelope is the response shape of every book operation.
type Envelope = response.Envelope[Book]

// Service provides book operations. Every operation answers with an envelope and
// an HTTP status; store errors are logged and never returned.
type Service struct {
	repo Repository
	log  logrus.FieldLogger
}

// NewService creates a new book service.
func NewService(repo Repository, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, log: log.WithField("component", "book_service")}
}

func newEnvelope() *Envelope {
	return response.New[Book](PayloadKey)
}

// List returns every book.
func (s *Service) List(ctx context.Context) (*Envelope, int) {
	log := s.log.WithField("op", "list")
	log.Info("listing books")

	books, err := s.repo.FindAll(ctx)
	if err != nil {
		log.WithError(err).Error("error querying books")
		return newEnvelope().Fail("Error querying books"), http.StatusInternalServerError
	}
	return newEnvelope().OK(response.DetailOK, books...), http.StatusOK
}

// GetByID returns the book with the given id.
func (s *Service) GetByID(ctx context.Context, id int64) (*Envelope, int) {
	log := s.log.WithFields(logrus.Fields{"op": "get_by_id", "id": id})
	log.Info("fetching book")

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("error querying book")
		return newEnvelope().Fail("Error querying book"), http.StatusInternalServerError
	}
	if b == nil {
		log.Warn("book not found")
		return newEnvelope().Fail("Book not found"), http.StatusNotFound
	}
	return newEnvelope().OK(response.DetailOK, *b), http.StatusOK
}

// Create stores a new book. Any id carried by b is ignored.
func (s *Service) Create(ctx context.Context, b Book) (*Envelope, int) {
	log := s.log.WithFields(logrus.Fields{"op": "create", "category_id": b.CategoryID})
	log.Info("creating book")

	b.ID = 0
	b.Category = nil
	saved, err := s.repo.Save(ctx, &b)
	if err != nil {
		log.WithError(err).Error("error saving book")
		return newEnvelope().Fail("Error saving book"), http.StatusInternalServerError
	}
	if saved == nil {
		log.Warn("book rejected by store")
		return newEnvelope().Fail("Book not saved"), http.StatusBadRequest
	}
	return newEnvelope().OK("Book created", *saved), http.StatusOK
}

// Update overwrites name, description and category of the book with the given id.
// Fetch and save are separate store calls, so concurrent updates of one id race.
func (s *Service) Update(ctx context.Context, b Book, id int64) (*Envelope, int) {
	log := s.log.WithFields(logrus.Fields{"op": "update", "id": id})
	log.Info("updating book")

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("error loading book for update")
		return newEnvelope().Fail("Error updating book"), http.StatusInternalServerError
	}
	if existing == nil {
		log.Warn("book to update not found")
		return newEnvelope().Fail("Book not updated"), http.StatusNotFound
	}

	existing.Name = b.Name
	existing.Description = b.Description
	if existing.CategoryID != b.CategoryID {
		existing.CategoryID = b.CategoryID
		existing.Category = nil
	}

	updated, err := s.repo.Save(ctx, existing)
	if err != nil {
		log.WithError(err).Error("error updating book")
		return newEnvelope().Fail("Error updating book"), http.StatusInternalServerError
	}
	if updated == nil {
		log.Warn("book update rejected by store")
		return newEnvelope().Fail("Book not updated"), http.StatusBadRequest
	}
	return newEnvelope().OK("Book updated", *updated), http.StatusOK
}

// Delete removes the book with the given id. Deleting an absent id succeeds.
func (s *Service) Delete(ctx context.Context, id int64) (*Envelope, int) {
	log := s.log.WithFields(logrus.Fields{"op": "delete", "id": id})
	log.Info("deleting book")

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		log.WithError(err).Error("error deleting book")
		return newEnvelope().Fail("Error deleting book"), http.StatusInternalServerError
	}
	return newEnvelope().OK("Book deleted"), http.StatusOK
}
