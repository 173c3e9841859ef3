package config

import (
	"fmt"
	"hos-route-service/internal/domain"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// RulesFile is the YAML shape of an HOS rules override. Omitted fields keep
// their default values.
type RulesFile struct {
	FuelStopIntervalMiles  *float64           `yaml:"fuel_stop_interval_miles" validate:"omitempty,gt=0"`
	BreakThresholdHours    *float64           `yaml:"break_threshold_hours" validate:"omitempty,gt=0"`
	DailyDrivingLimitHours *float64           `yaml:"daily_driving_limit_hours" validate:"omitempty,gt=0"`
	ShiftStartHour         *int               `yaml:"shift_start_hour" validate:"omitempty,gte=0,lte=23"`
	DwellHours             map[string]float64 `yaml:"dwell_hours" validate:"dive,keys,oneof=start pickup dropoff fuel_stop rest_30m duty_break,endkeys,gte=0"`
}

// LoadRules reads an HOS rules override from path. An empty path yields the
// defaults.
func LoadRules(path string) (domain.Rules, error) {
	rules := domain.DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Rules{}, fmt.Errorf("load rules: read %q: %w", path, err)
	}

	return ParseRules(data)
}

func ParseRules(data []byte) (domain.Rules, error) {
	var f RulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.Rules{}, fmt.Errorf("load rules: parse yaml: %w", err)
	}

	if err := validator.New().Struct(f); err != nil {
		return domain.Rules{}, fmt.Errorf("load rules: validate: %w", err)
	}

	rules := domain.DefaultRules()
	if f.FuelStopIntervalMiles != nil {
		rules.FuelStopIntervalMeters = *f.FuelStopIntervalMiles * rules.MetersPerMile
	}
	if f.BreakThresholdHours != nil {
		rules.BreakThresholdHours = *f.BreakThresholdHours
	}
	if f.DailyDrivingLimitHours != nil {
		rules.DailyDrivingLimitHours = *f.DailyDrivingLimitHours
	}
	if f.ShiftStartHour != nil {
		rules.ShiftStartHour = *f.ShiftStartHour
	}
	for k, v := range f.DwellHours {
		rules.Dwell[domain.StopType(k)] = v
	}

	if err := rules.Validate(); err != nil {
		return domain.Rules{}, fmt.Errorf("load rules: %w", err)
	}

	return rules, nil
}
