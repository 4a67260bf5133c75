package shopping

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	"foodgram/domain"

	"github.com/google/uuid"
)

type (
	ShoppingService interface {
		Aggregate(ctx context.Context, userID string) ([]domain.ShoppingListRow, error)
		ExportCSV(ctx context.Context, userID string) ([]byte, error)
	}

	shoppingService struct {
		shoppingRepository ShoppingRepository
	}
)

func NewShoppingService(shoppingRepository ShoppingRepository) ShoppingService {
	return &shoppingService{shoppingRepository: shoppingRepository}
}

// Aggregate merges every cart recipe's ingredient list into one summed row
// per ingredient name. Rows come out in the order a name was first seen;
// the unit is taken from that first occurrence.
func (s *shoppingService) Aggregate(ctx context.Context, userID string) ([]domain.ShoppingListRow, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	recipeIDs, err := s.shoppingRepository.GetCartRecipeIDs(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	rows := make([]domain.ShoppingListRow, 0)
	for _, recipeID := range recipeIDs {
		ingredients, err := s.shoppingRepository.GetRecipeIngredients(ctx, recipeID)
		if err != nil {
			return nil, err
		}
		for _, row := range ingredients {
			if row.Ingredient == nil {
				continue
			}
			if at, ok := index[row.Ingredient.Name]; ok {
				rows[at].Amount += row.Amount
				continue
			}
			index[row.Ingredient.Name] = len(rows)
			rows = append(rows, domain.ShoppingListRow{
				Name:            row.Ingredient.Name,
				MeasurementUnit: row.Ingredient.MeasurementUnit,
				Amount:          row.Amount,
			})
		}
	}
	return rows, nil
}

// formatAmount always keeps at least one decimal, so whole amounts render
// as "500.0" rather than "500".
func formatAmount(amount float64) string {
	if amount == float64(int64(amount)) {
		return strconv.FormatFloat(amount, 'f', 1, 64)
	}
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func (s *shoppingService) ExportCSV(ctx context.Context, userID string) ([]byte, error) {
	rows, err := s.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.UseCRLF = true

	if err := writer.Write([]string{"name", "measurement_unit", "amount"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{row.Name, row.MeasurementUnit, formatAmount(row.Amount)}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
