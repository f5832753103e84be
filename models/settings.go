// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"maps"

	"github.com/shopspring/decimal"
)

// Settings holds user preferences. Fields this build does not know about are
// kept verbatim in Extra so that a newer client's settings survive a round
// trip through an older one.
type Settings struct {
	Currency             string           `json:"currency"`
	Locale               string           `json:"locale,omitempty"`
	Theme                string           `json:"theme,omitempty"`
	MonthlyBudget        *decimal.Decimal `json:"monthlyBudget,omitempty"`
	FirstDayOfMonth      int              `json:"firstDayOfMonth,omitempty"`
	NotificationsEnabled bool             `json:"notificationsEnabled"`

	// Extra holds unknown keys as raw JSON. Ignorable metadata.
	Extra map[string]json.RawMessage `json:"-"`
}

// DefaultSettings is what a fresh installation starts with.
func DefaultSettings() Settings {
	return Settings{
		Currency:             "USD",
		Locale:               "en-US",
		Theme:                "system",
		FirstDayOfMonth:      1,
		NotificationsEnabled: true,
	}
}

// settingsFields is Settings without its custom (un)marshalers.
type settingsFields Settings

var knownSettingsKeys = map[string]struct{}{
	"currency":             {},
	"locale":               {},
	"theme":                {},
	"monthlyBudget":        {},
	"firstDayOfMonth":      {},
	"notificationsEnabled": {},
}

// MarshalJSON writes the known fields and merges Extra back in. Known keys
// always win over an Extra entry of the same name.
func (s Settings) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(settingsFields(s))
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return known, nil
	}

	merged := make(map[string]json.RawMessage, len(s.Extra)+len(knownSettingsKeys))
	for k, v := range s.Extra {
		if _, ok := knownSettingsKeys[k]; ok {
			continue
		}
		merged[k] = v
	}
	if err = json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}

	return json.Marshal(merged)
}

// UnmarshalJSON fills the known fields and stashes the rest in Extra.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var fields settingsFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var extra map[string]json.RawMessage
	for k, v := range raw {
		if _, ok := knownSettingsKeys[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}

	*s = Settings(fields)
	s.Extra = extra
	return nil
}

// Equal reports whether both settings carry the same values, including
// unknown keys.
func (s Settings) Equal(o Settings) bool {
	if s.Currency != o.Currency || s.Locale != o.Locale || s.Theme != o.Theme {
		return false
	}
	if s.FirstDayOfMonth != o.FirstDayOfMonth || s.NotificationsEnabled != o.NotificationsEnabled {
		return false
	}
	if (s.MonthlyBudget == nil) != (o.MonthlyBudget == nil) {
		return false
	}
	if s.MonthlyBudget != nil && !s.MonthlyBudget.Equal(*o.MonthlyBudget) {
		return false
	}
	return maps.EqualFunc(s.Extra, o.Extra, func(a, b json.RawMessage) bool {
		var ca, cb bytes.Buffer
		if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
			return bytes.Equal(a, b)
		}
		return bytes.Equal(ca.Bytes(), cb.Bytes())
	})
}
