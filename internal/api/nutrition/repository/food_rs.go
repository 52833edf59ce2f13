package nutritionRepository

import (
	"NutriVisionAI/internal/api/nutrition"
	"NutriVisionAI/internal/entity"
	contextPkg "NutriVisionAI/pkg/context"
	"context"
	"database/sql"
	"errors"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type FoodNutritionDB struct {
	FoodKey         sql.NullString  `db:"food_key"`
	CaloriesPer100g sql.NullFloat64 `db:"calories_per_100g"`
	ProteinG        sql.NullFloat64 `db:"protein_g"`
	CarbsG          sql.NullFloat64 `db:"carbs_g"`
	FatG            sql.NullFloat64 `db:"fat_g"`
	GlycemicIndex   sql.NullFloat64 `db:"glycemic_index"`
	GlycemicLoad    sql.NullFloat64 `db:"glycemic_load"`
	DefaultWeightG  sql.NullFloat64 `db:"default_weight_g"`
}

func (r *foodRepository) GetByKey(c context.Context, foodKey string) (entity.FoodNutrition, error) {
	requestID := contextPkg.GetRequestID(c)
	var food FoodNutritionDB

	argsKV := map[string]interface{}{
		"food_key": foodKey,
	}

	query, args, err := sqlx.Named(queryGetByKey, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for GetByKey")
		return entity.FoodNutrition{}, err
	}
	query = r.q.Rebind(query)

	if err := sqlx.GetContext(c, r.q, &food, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.FoodNutrition{}, nutrition.ErrFoodNotFound
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when fetching food nutrition")

		return entity.FoodNutrition{}, err
	}

	return entity.FoodNutrition{
		FoodKey:         food.FoodKey.String,
		CaloriesPer100g: food.CaloriesPer100g.Float64,
		ProteinG:        food.ProteinG.Float64,
		CarbsG:          food.CarbsG.Float64,
		FatG:            food.FatG.Float64,
		GlycemicIndex:   food.GlycemicIndex.Float64,
		GlycemicLoad:    food.GlycemicLoad.Float64,
		DefaultWeightG:  food.DefaultWeightG.Float64,
	}, nil
}

func (r *foodRepository) Upsert(c context.Context, food entity.FoodNutrition) error {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"food_key":          food.FoodKey,
		"calories_per_100g": food.CaloriesPer100g,
		"protein_g":         food.ProteinG,
		"carbs_g":           food.CarbsG,
		"fat_g":             food.FatG,
		"glycemic_index":    food.GlycemicIndex,
		"glycemic_load":     food.GlycemicLoad,
		"default_weight_g":  food.DefaultWeightG,
	}

	query, args, err := sqlx.Named(queryUpsert, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for Upsert")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when upserting food nutrition")
		return err
	}

	return nil
}
