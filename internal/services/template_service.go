package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/wyhuang/go-repurpose-backend/internal/domain"
	"github.com/wyhuang/go-repurpose-backend/internal/repo"
)

// TemplateService manages the user's rewrite templates. Templates are plain
// prompt carriers; validation against a generation request happens in
// GenerationService, strictly before quota.
type TemplateService struct {
	DB *gorm.DB
}

// Create stores a new rewrite template for the user.
func (s *TemplateService) Create(ctx context.Context, userID, name, prompt string) (*domain.Template, error) {
	name = strings.TrimSpace(name)
	prompt = strings.TrimSpace(prompt)
	if name == "" || prompt == "" {
		return nil, ErrInvalidTemplate
	}
	return repo.CreateTemplate(ctx, s.DB, userID, name, prompt)
}

// List returns the user's templates, newest first.
func (s *TemplateService) List(ctx context.Context, userID string) ([]domain.Template, error) {
	return repo.ListTemplates(ctx, s.DB, userID)
}
