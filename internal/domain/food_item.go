package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FoodItem is a nutrition library entry used by the provider when building diet plans.
type FoodItem struct {
	ID                 primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Name               string                 `bson:"name" json:"name"`
	Category           string                 `bson:"category" json:"category"` // meat, veg, fruit, rice, bread, sabzi, drink, snack, other
	CaloriesPer100g    *float64               `bson:"caloriesPer100g,omitempty" json:"caloriesPer100g,omitempty"`
	ProteinPer100g     *float64               `bson:"proteinPer100g,omitempty" json:"proteinPer100g,omitempty"`
	CarbsPer100g       *float64               `bson:"carbsPer100g,omitempty" json:"carbsPer100g,omitempty"`
	FatsPer100g        *float64               `bson:"fatsPer100g,omitempty" json:"fatsPer100g,omitempty"`
	Vitamins           map[string]interface{} `bson:"vitamins,omitempty" json:"vitamins,omitempty"`
	Minerals           map[string]interface{} `bson:"minerals,omitempty" json:"minerals,omitempty"`
	ServingDescription string                 `bson:"servingDescription,omitempty" json:"servingDescription,omitempty"`
	IsVeg              bool                   `bson:"isVeg" json:"isVeg"`
	Description        string                 `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt          time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time              `bson:"updatedAt" json:"updatedAt"`
}
