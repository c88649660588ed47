package store

import (
	"database/sql"
	"fmt"
)

// GetGoals returns the user's daily targets, falling back to the defaults
// until they are saved once.
func (s *Store) GetGoals() (UserGoals, error) {
	var g UserGoals
	err := s.db.QueryRow(
		`SELECT calorie_target, protein_target, fat_target, carbs_target,
		        step_target, miles_target, calories_burned_target, move_minutes_target
		 FROM goals WHERE user_key = ?`, s.user,
	).Scan(&g.CalorieTarget, &g.ProteinTarget, &g.FatTarget, &g.CarbsTarget,
		&g.StepTarget, &g.MilesTarget, &g.CaloriesBurnedTarget, &g.MoveMinutesTarget)
	if err == sql.ErrNoRows {
		return DefaultGoals(), nil
	}
	if err != nil {
		return UserGoals{}, fmt.Errorf("get goals: %w", err)
	}
	return g, nil
}

func (s *Store) SaveGoals(g UserGoals) error {
	_, err := s.db.Exec(
		`INSERT INTO goals (user_key, calorie_target, protein_target, fat_target, carbs_target,
		                    step_target, miles_target, calories_burned_target, move_minutes_target)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_key) DO UPDATE SET
			calorie_target = excluded.calorie_target,
			protein_target = excluded.protein_target,
			fat_target = excluded.fat_target,
			carbs_target = excluded.carbs_target,
			step_target = excluded.step_target,
			miles_target = excluded.miles_target,
			calories_burned_target = excluded.calories_burned_target,
			move_minutes_target = excluded.move_minutes_target`,
		s.user, g.CalorieTarget, g.ProteinTarget, g.FatTarget, g.CarbsTarget,
		g.StepTarget, g.MilesTarget, g.CaloriesBurnedTarget, g.MoveMinutesTarget,
	)
	if err != nil {
		return fmt.Errorf("save goals: %w", err)
	}
	return nil
}

// GetRatings returns the user's exercise ratings (exercise id -> 1..5).
func (s *Store) GetRatings() (map[string]float64, error) {
	rows, err := s.db.Query(`SELECT exercise_id, rating FROM ratings WHERE user_key = ?`, s.user)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	ratings := make(map[string]float64)
	for rows.Next() {
		var id string
		var rating float64
		if err := rows.Scan(&id, &rating); err != nil {
			return nil, err
		}
		ratings[id] = rating
	}
	return ratings, rows.Err()
}

func (s *Store) RateExercise(exerciseID string, rating float64) error {
	_, err := s.db.Exec(
		`INSERT INTO ratings (user_key, exercise_id, rating) VALUES (?, ?, ?)
		 ON CONFLICT(user_key, exercise_id) DO UPDATE SET rating = excluded.rating`,
		s.user, exerciseID, rating,
	)
	if err != nil {
		return fmt.Errorf("rate exercise %s: %w", exerciseID, err)
	}
	return nil
}
