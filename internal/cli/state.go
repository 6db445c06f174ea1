package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// LocalState remembers the last session the CLI talked to so
// follow-up commands can print a short delta instead of the full sheet.
type LocalState struct {
	APIBaseURL      string `json:"api_base_url,omitempty"`
	SessionID       string `json:"session_id,omitempty"`
	LastRound       int    `json:"last_round,omitempty"`
	LastCashMicros  int64  `json:"last_cash_micros,omitempty"`
	LastWorthMicros int64  `json:"last_worth_micros,omitempty"`
}

func statePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".rat", "state.json"), nil
}

func LoadState() (LocalState, error) {
	var st LocalState
	path, err := statePath()
	if err != nil {
		return st, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return st, err
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		return LocalState{}, err
	}
	return st, nil
}

func SaveState(st LocalState) error {
	path, err := statePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func ClearState() error {
	path, err := statePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
