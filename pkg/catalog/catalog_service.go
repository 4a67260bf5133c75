package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"foodgram/domain"
	"foodgram/entities"

	"gorm.io/gorm"
)

var hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type (
	CatalogService interface {
		CreateIngredient(ctx context.Context, req domain.CreateIngredientRequest) (domain.IngredientResponse, error)
		GetIngredients(ctx context.Context, search string) ([]domain.IngredientResponse, error)
		GetIngredientByID(ctx context.Context, id uint) (domain.IngredientResponse, error)
		DeleteIngredient(ctx context.Context, id uint) error
		ImportIngredientsCSV(ctx context.Context, reader io.Reader) (domain.ImportReport, error)

		CreateTag(ctx context.Context, req domain.CreateTagRequest) (domain.TagResponse, error)
		GetTags(ctx context.Context) ([]domain.TagResponse, error)
		GetTagByID(ctx context.Context, id uint) (domain.TagResponse, error)
		DeleteTag(ctx context.Context, id uint) error
	}

	catalogService struct {
		catalogRepository CatalogRepository
	}
)

func NewCatalogService(catalogRepository CatalogRepository) CatalogService {
	return &catalogService{catalogRepository: catalogRepository}
}

// NormalizeHexColor expands 3-digit shorthand (#abc) into the stored
// 6-digit form (#aabbcc).
func NormalizeHexColor(color string) (string, error) {
	if !hexColorPattern.MatchString(color) {
		return "", domain.ErrInvalidColor
	}
	if len(color) == 4 {
		color = fmt.Sprintf(
			"#%c%c%c%c%c%c",
			color[1], color[1], color[2], color[2], color[3], color[3],
		)
	}
	return color, nil
}

func (s *catalogService) CreateIngredient(ctx context.Context, req domain.CreateIngredientRequest) (domain.IngredientResponse, error) {
	name := strings.ToLower(strings.TrimSpace(req.Name))
	if !entities.IsValidUnit(req.MeasurementUnit) {
		return domain.IngredientResponse{}, domain.ErrInvalidUnit
	}

	exists, err := s.catalogRepository.IngredientExists(ctx, name, req.MeasurementUnit)
	if err != nil {
		return domain.IngredientResponse{}, err
	}
	if exists {
		return domain.IngredientResponse{}, domain.ErrIngredientExists
	}

	ingredient := &entities.Ingredient{
		Name:            name,
		MeasurementUnit: req.MeasurementUnit,
	}
	if err := s.catalogRepository.CreateIngredient(ctx, ingredient); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.IngredientResponse{}, domain.ErrIngredientExists
		}
		return domain.IngredientResponse{}, err
	}

	return domain.IngredientResponse{
		ID:              ingredient.ID,
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}, nil
}

func (s *catalogService) GetIngredients(ctx context.Context, search string) ([]domain.IngredientResponse, error) {
	ingredients, err := s.catalogRepository.GetIngredients(ctx, strings.ToLower(search))
	if err != nil {
		return nil, err
	}

	result := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		result = append(result, domain.IngredientResponse{
			ID:              ingredient.ID,
			Name:            ingredient.Name,
			MeasurementUnit: ingredient.MeasurementUnit,
		})
	}
	return result, nil
}

func (s *catalogService) GetIngredientByID(ctx context.Context, id uint) (domain.IngredientResponse, error) {
	ingredient, err := s.catalogRepository.GetIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.IngredientResponse{}, domain.ErrIngredientNotFound
		}
		return domain.IngredientResponse{}, err
	}

	return domain.IngredientResponse{
		ID:              ingredient.ID,
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}, nil
}

// DeleteIngredient refuses to remove an ingredient that any recipe still
// references; the recipes must be dereferenced first.
func (s *catalogService) DeleteIngredient(ctx context.Context, id uint) error {
	if _, err := s.GetIngredientByID(ctx, id); err != nil {
		return err
	}

	refs, err := s.catalogRepository.CountIngredientReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.ErrIngredientReferenced
	}

	return s.catalogRepository.DeleteIngredient(ctx, id)
}

// ImportIngredientsCSV bulk-loads "name,measurement_unit" rows. Bad rows are
// collected into the report instead of aborting the whole import.
func (s *catalogService) ImportIngredientsCSV(ctx context.Context, reader io.Reader) (domain.ImportReport, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = 2

	report := domain.ImportReport{}
	line := 0
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		name := strings.ToLower(strings.TrimSpace(record[0]))
		unit := strings.TrimSpace(record[1])
		if line == 1 && name == "name" && unit == "measurement_unit" {
			continue
		}

		if name == "" {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: empty name", line))
			continue
		}
		if !entities.IsValidUnit(unit) {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: unit %q is not allowed", line, unit))
			continue
		}

		exists, err := s.catalogRepository.IngredientExists(ctx, name, unit)
		if err != nil {
			return report, err
		}
		if exists {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: ingredient %q (%s) already exists", line, name, unit))
			continue
		}

		ingredient := &entities.Ingredient{Name: name, MeasurementUnit: unit}
		if err := s.catalogRepository.CreateIngredient(ctx, ingredient); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				report.Skipped++
				report.Errors = append(report.Errors, fmt.Sprintf("line %d: ingredient %q (%s) already exists", line, name, unit))
				continue
			}
			return report, err
		}
		report.Imported++
	}

	return report, nil
}

func (s *catalogService) CreateTag(ctx context.Context, req domain.CreateTagRequest) (domain.TagResponse, error) {
	color, err := NormalizeHexColor(req.Color)
	if err != nil {
		return domain.TagResponse{}, err
	}

	tag := &entities.Tag{
		Name:  req.Name,
		Color: color,
		Slug:  req.Slug,
	}
	if err := s.catalogRepository.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.TagResponse{}, domain.ErrTagExists
		}
		return domain.TagResponse{}, err
	}

	return domain.TagResponse{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}, nil
}

func (s *catalogService) GetTags(ctx context.Context) ([]domain.TagResponse, error) {
	tags, err := s.catalogRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.TagResponse, 0, len(tags))
	for _, tag := range tags {
		result = append(result, domain.TagResponse{
			ID:    tag.ID,
			Name:  tag.Name,
			Color: tag.Color,
			Slug:  tag.Slug,
		})
	}
	return result, nil
}

func (s *catalogService) GetTagByID(ctx context.Context, id uint) (domain.TagResponse, error) {
	tag, err := s.catalogRepository.GetTagByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TagResponse{}, domain.ErrTagNotFound
		}
		return domain.TagResponse{}, err
	}

	return domain.TagResponse{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}, nil
}

// DeleteTag follows the same policy as DeleteIngredient: a tag still applied
// to recipes cannot be removed.
func (s *catalogService) DeleteTag(ctx context.Context, id uint) error {
	if _, err := s.GetTagByID(ctx, id); err != nil {
		return err
	}

	refs, err := s.catalogRepository.CountTagReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.ErrTagReferenced
	}

	return s.catalogRepository.DeleteTag(ctx, id)
}
