package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/repository"
	"github.com/nyahub/nya-api/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errTemplateNotFound = apperror.NotFound("template_not_found", "Template not found")

// MentorEmailTemplateService manages the per-mentor overrides of the
// mentorship email templates. Content comes from the mentor's stored
// override when present, otherwise from the embedded default.
type MentorEmailTemplateService struct {
	overrides repository.MentorEmailTemplateDataSource
}

// NewMentorEmailTemplateService creates a new mentor email template service.
func NewMentorEmailTemplateService(overrides repository.MentorEmailTemplateDataSource) *MentorEmailTemplateService {
	return &MentorEmailTemplateService{overrides: overrides}
}

func (s *MentorEmailTemplateService) ListTemplates() []models.EmailTemplateInfo {
	infos := make([]models.EmailTemplateInfo, 0, len(mentorTemplates))
	for _, meta := range mentorTemplates {
		infos = append(infos, models.EmailTemplateInfo{
			ID:           meta.ID,
			Name:         meta.Name,
			Placeholders: meta.Placeholders,
		})
	}
	return infos
}

func (s *MentorEmailTemplateService) GetTemplate(ctx context.Context, mentorID primitive.ObjectID, templateID string) (*models.EmailTemplate, error) {
	meta, ok := findTemplate(mentorTemplates, templateID)
	if !ok {
		return nil, errTemplateNotFound
	}
	content, err := s.content(ctx, mentorID, meta)
	if err != nil {
		return nil, err
	}
	return &models.EmailTemplate{
		ID:           meta.ID,
		Name:         meta.Name,
		Placeholders: meta.Placeholders,
		Content:      content,
	}, nil
}

func (s *MentorEmailTemplateService) UpdateTemplate(ctx context.Context, mentorID primitive.ObjectID, templateID, content string) error {
	if _, ok := findTemplate(mentorTemplates, templateID); !ok {
		return errTemplateNotFound
	}
	if err := s.overrides.Upsert(ctx, mentorID, templateID, content); err != nil {
		return fmt.Errorf("failed to save template override: %w", err)
	}
	return nil
}

// RenderPreview renders the template against its sample context. When
// content is non-nil it previews that unsaved content instead.
func (s *MentorEmailTemplateService) RenderPreview(ctx context.Context, mentorID primitive.ObjectID, templateID string, content *string) (string, error) {
	meta, ok := findTemplate(mentorTemplates, templateID)
	if !ok {
		return "", errTemplateNotFound
	}
	template := ""
	if content != nil {
		template = *content
	} else {
		stored, err := s.content(ctx, mentorID, meta)
		if err != nil {
			return "", err
		}
		template = stored
	}
	return renderTemplate(template, meta.Sample), nil
}

// RenderWithContext renders the mentor's current template with real values.
func (s *MentorEmailTemplateService) RenderWithContext(ctx context.Context, mentorID primitive.ObjectID, templateID string, context map[string]string) (string, error) {
	meta, ok := findTemplate(mentorTemplates, templateID)
	if !ok {
		return "", errTemplateNotFound
	}
	template, err := s.content(ctx, mentorID, meta)
	if err != nil {
		return "", err
	}
	return renderTemplate(template, context), nil
}

func (s *MentorEmailTemplateService) content(ctx context.Context, mentorID primitive.ObjectID, meta templateMeta) (string, error) {
	override, err := s.overrides.Find(ctx, mentorID, meta.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("failed to load template override: %w", err)
	}
	if override != nil && override.Content != "" {
		return override.Content, nil
	}
	return readDefaultTemplate(meta.File)
}

// GlobalEmailTemplateService manages the admin-editable team request
// templates, stored as a single override per template id.
type GlobalEmailTemplateService struct {
	overrides repository.GlobalEmailTemplateDataSource
}

// NewGlobalEmailTemplateService creates a new global email template service.
func NewGlobalEmailTemplateService(overrides repository.GlobalEmailTemplateDataSource) *GlobalEmailTemplateService {
	return &GlobalEmailTemplateService{overrides: overrides}
}

func (s *GlobalEmailTemplateService) ListTemplates() []models.EmailTemplateInfo {
	infos := make([]models.EmailTemplateInfo, 0, len(globalTemplates))
	for _, meta := range globalTemplates {
		infos = append(infos, models.EmailTemplateInfo{
			ID:           meta.ID,
			Name:         meta.Name,
			Placeholders: meta.Placeholders,
		})
	}
	return infos
}

func (s *GlobalEmailTemplateService) GetTemplate(ctx context.Context, templateID string) (*models.EmailTemplate, error) {
	meta, ok := findTemplate(globalTemplates, templateID)
	if !ok {
		return nil, errTemplateNotFound
	}
	content, err := s.content(ctx, meta)
	if err != nil {
		return nil, err
	}
	return &models.EmailTemplate{
		ID:           meta.ID,
		Name:         meta.Name,
		Placeholders: meta.Placeholders,
		Content:      content,
	}, nil
}

func (s *GlobalEmailTemplateService) UpdateTemplate(ctx context.Context, templateID, content string) error {
	if _, ok := findTemplate(globalTemplates, templateID); !ok {
		return errTemplateNotFound
	}
	if err := s.overrides.Upsert(ctx, templateID, content); err != nil {
		return fmt.Errorf("failed to save template override: %w", err)
	}
	return nil
}

func (s *GlobalEmailTemplateService) RenderPreview(ctx context.Context, templateID string, content *string) (string, error) {
	meta, ok := findTemplate(globalTemplates, templateID)
	if !ok {
		return "", errTemplateNotFound
	}
	template := ""
	if content != nil {
		template = *content
	} else {
		stored, err := s.content(ctx, meta)
		if err != nil {
			return "", err
		}
		template = stored
	}
	return renderTemplate(template, meta.Sample), nil
}

// RenderWithContext renders the current template with real values.
func (s *GlobalEmailTemplateService) RenderWithContext(ctx context.Context, templateID string, context map[string]string) (string, error) {
	meta, ok := findTemplate(globalTemplates, templateID)
	if !ok {
		return "", errTemplateNotFound
	}
	template, err := s.content(ctx, meta)
	if err != nil {
		return "", err
	}
	return renderTemplate(template, context), nil
}

func (s *GlobalEmailTemplateService) content(ctx context.Context, meta templateMeta) (string, error) {
	override, err := s.overrides.Find(ctx, meta.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("failed to load template override: %w", err)
	}
	if override != nil && override.Content != "" {
		return override.Content, nil
	}
	return readDefaultTemplate(meta.File)
}
