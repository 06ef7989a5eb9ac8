package common

import (
	"encoding/json"
	"fmt"
	"time"

	"staffhub.io/staffhub/utils"
)

// DateOnly is a calendar day sent as "yyyy-mm-dd". An empty string decodes to the zero time.
type DateOnly struct {
	time.Time
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(utils.DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date format: %v", err)
	}
	d.Time = t
	return nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.Format(utils.DateLayout))
}

// QueryDate parses an optional "yyyy-mm-dd" query value as midnight in loc.
func QueryDate(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := utils.ParseDate(value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
