package internal

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// The profile formats hold a user's data in one document. Example (YAML):
//
//	profile:
//	  current_balance: "1,250.00"
//	  savings: 500
//	  weekly_spend_band: 2
//	cashflows:
//	  - direction: out
//	    title: Rent
//	    category: rent
//	    amount: 650
//	    recurrence: monthly
//	    scheduled_date: "2025-09-01"
//
// An "onboarding" section with questionnaire answers may be given instead of,
// or in addition to, profile and cashflows.

// ParseProfileYAML parses a YAML profile document
func ParseProfileYAML(path string) (UserData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return UserData{}, fmt.Errorf("reading file: %w", err)
	}

	var userData UserData
	if err := yaml.Unmarshal(data, &userData); err != nil {
		return UserData{}, fmt.Errorf("parsing YAML: %w", err)
	}
	return userData, nil
}

// ParseProfileJSON parses a JSON profile document with the same shape as the YAML one
func ParseProfileJSON(path string) (UserData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return UserData{}, fmt.Errorf("reading file: %w", err)
	}

	var userData UserData
	if err := json.Unmarshal(data, &userData); err != nil {
		return UserData{}, fmt.Errorf("parsing JSON: %w", err)
	}
	return userData, nil
}

func init() {
	RegisterParser("profile-yaml", ParserFunc(ParseProfileYAML), ".yaml", ".yml")
	RegisterParser("profile-json", ParserFunc(ParseProfileJSON), ".json")
}
