package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// The reference catalogs ship with the app. Seeding is idempotent so user
// additions survive restarts.
var seedExercises = []Exercise{
	{ID: "chest_1", Name: "Incline Dumbbell Press", MuscleGroup: "Chest"},
	{ID: "chest_2", Name: "Cable Fly", MuscleGroup: "Chest"},
	{ID: "chest_3", Name: "Push-Up", MuscleGroup: "Chest"},
	{ID: "chest_4", Name: "Bench Press", MuscleGroup: "Chest"},
	{ID: "back_1", Name: "Deadlift", MuscleGroup: "Back"},
	{ID: "back_2", Name: "Barbell Row", MuscleGroup: "Back"},
	{ID: "back_3", Name: "Lat Pulldown", MuscleGroup: "Back"},
	{ID: "back_4", Name: "Pull-Up", MuscleGroup: "Back"},
	{ID: "shoulders_1", Name: "Overhead Press", MuscleGroup: "Shoulders"},
	{ID: "shoulders_2", Name: "Lateral Raise", MuscleGroup: "Shoulders"},
	{ID: "legs_1", Name: "Squat", MuscleGroup: "Legs"},
	{ID: "legs_2", Name: "Leg Press", MuscleGroup: "Legs"},
	{ID: "legs_3", Name: "Romanian Deadlift", MuscleGroup: "Legs"},
	{ID: "legs_4", Name: "Calf Raise", MuscleGroup: "Legs"},
	{ID: "arms_1", Name: "Barbell Curl", MuscleGroup: "Arms"},
	{ID: "arms_2", Name: "Triceps Pushdown", MuscleGroup: "Arms"},
	{ID: "core_1", Name: "Plank", MuscleGroup: "Core"},
	{ID: "core_2", Name: "Hanging Leg Raise", MuscleGroup: "Core"},
}

var seedFoods = []FoodItem{
	{ID: "food_1", Name: "Chicken Breast", Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6, ServingSize: "100 g"},
	{ID: "food_2", Name: "White Rice", Calories: 206, Protein: 4.3, Carbs: 45, Fat: 0.4, ServingSize: "1 cup"},
	{ID: "food_3", Name: "Whole Egg", Calories: 78, Protein: 6, Carbs: 0.6, Fat: 5, ServingSize: "1 large"},
	{ID: "food_4", Name: "Oatmeal", Calories: 154, Protein: 5.3, Carbs: 27, Fat: 2.6, ServingSize: "1 cup"},
	{ID: "food_5", Name: "Banana", Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4, ServingSize: "1 medium"},
	{ID: "food_6", Name: "Whey Protein", Calories: 120, Protein: 24, Carbs: 3, Fat: 1.5, ServingSize: "1 scoop"},
	{ID: "food_7", Name: "Greek Yogurt", Calories: 100, Protein: 17, Carbs: 6, Fat: 0.7, ServingSize: "170 g"},
	{ID: "food_8", Name: "Almonds", Calories: 164, Protein: 6, Carbs: 6, Fat: 14, ServingSize: "28 g"},
	{ID: "food_9", Name: "Salmon", Calories: 208, Protein: 20, Carbs: 0, Fat: 13, ServingSize: "100 g"},
	{ID: "food_10", Name: "Broccoli", Calories: 55, Protein: 3.7, Carbs: 11, Fat: 0.6, ServingSize: "1 cup"},
	{ID: "food_11", Name: "Olive Oil", Calories: 119, Protein: 0, Carbs: 0, Fat: 13.5, ServingSize: "1 tbsp"},
	{ID: "food_12", Name: "Apple", Calories: 95, Protein: 0.5, Carbs: 25, Fat: 0.3, ServingSize: "1 medium"},
}

func (s *Store) seedCatalogs() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range seedExercises {
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO exercises (id, name, muscle_group) VALUES (?, ?, ?)`,
			e.ID, e.Name, e.MuscleGroup,
		)
		if err != nil {
			return fmt.Errorf("seed exercise %s: %w", e.ID, err)
		}
	}
	for _, f := range seedFoods {
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO foods (id, name, calories, protein, carbs, fat, serving_size, custom)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
			f.ID, f.Name, f.Calories, f.Protein, f.Carbs, f.Fat, f.ServingSize,
		)
		if err != nil {
			return fmt.Errorf("seed food %s: %w", f.ID, err)
		}
	}

	return tx.Commit()
}

// LookupExercise resolves a catalog exercise, nil when unknown. Callers fall
// back to placeholder metadata rather than failing.
func (s *Store) LookupExercise(id string) (*Exercise, error) {
	e := &Exercise{}
	err := s.db.QueryRow(
		`SELECT id, name, muscle_group FROM exercises WHERE id = ?`, id,
	).Scan(&e.ID, &e.Name, &e.MuscleGroup)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup exercise %s: %w", id, err)
	}
	return e, nil
}

// ListExercises returns the exercise catalog grouped by muscle, then name.
func (s *Store) ListExercises() ([]Exercise, error) {
	rows, err := s.db.Query(`SELECT id, name, muscle_group FROM exercises ORDER BY muscle_group, name`)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		var e Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup); err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// LookupFood resolves a catalog food, nil when unknown. A logged food whose
// id no longer resolves contributes zero to the rollups.
func (s *Store) LookupFood(id string) (*FoodItem, error) {
	f := &FoodItem{}
	var custom int
	err := s.db.QueryRow(
		`SELECT id, name, calories, protein, carbs, fat, serving_size, custom FROM foods WHERE id = ?`, id,
	).Scan(&f.ID, &f.Name, &f.Calories, &f.Protein, &f.Carbs, &f.Fat, &f.ServingSize, &custom)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup food %s: %w", id, err)
	}
	f.Custom = custom == 1
	return f, nil
}

func (s *Store) ListFoods() ([]FoodItem, error) {
	rows, err := s.db.Query(
		`SELECT id, name, calories, protein, carbs, fat, serving_size, custom FROM foods ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	defer rows.Close()

	var foods []FoodItem
	for rows.Next() {
		var f FoodItem
		var custom int
		if err := rows.Scan(&f.ID, &f.Name, &f.Calories, &f.Protein, &f.Carbs, &f.Fat, &f.ServingSize, &custom); err != nil {
			return nil, err
		}
		f.Custom = custom == 1
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

// AddCustomFood appends a user-entered food to the catalog. Append-only; no
// uniqueness check beyond the generated id.
func (s *Store) AddCustomFood(f FoodItem) (*FoodItem, error) {
	if f.ID == "" {
		f.ID = "custom_" + uuid.NewString()
	}
	f.Custom = true
	_, err := s.db.Exec(
		`INSERT INTO foods (id, name, calories, protein, carbs, fat, serving_size, custom)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		f.ID, f.Name, f.Calories, f.Protein, f.Carbs, f.Fat, f.ServingSize,
	)
	if err != nil {
		return nil, fmt.Errorf("add custom food: %w", err)
	}
	return &f, nil
}
