package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CurrentSchemaVersion is the account record version written by this build
const CurrentSchemaVersion = 2

// Account is the per-user economy record
type Account struct {
	UserID        string `json:"-"`
	SchemaVersion int    `json:"schema_version"`

	Balance   int64            `json:"balance"`
	Bank      int64            `json:"bank"`
	Inventory map[string]int64 `json:"inventory"`

	Farm   Farm           `json:"farm"`
	Stats  AccountStats   `json:"stats"`
	Pets   map[string]any `json:"pets"`
	Level  int            `json:"level"`
	XP     int64          `json:"xp"`
	Job    *string        `json:"job"`
	Streak Streak         `json:"streak"`
	Perks  map[string]any `json:"perks"`

	LastDaily     *Timestamp `json:"last_daily"`
	LastWeekly    *Timestamp `json:"last_weekly"`
	LastMonthly   *Timestamp `json:"last_monthly"`
	LastWork      *Timestamp `json:"last_work"`
	LastRob       *Timestamp `json:"last_rob"`
	LastCrime     *Timestamp `json:"last_crime"`
	LastAdventure *Timestamp `json:"last_adventure"`
	LastFish      *Timestamp `json:"last_fish"`
	LastHunt      *Timestamp `json:"last_hunt"`
	LastInterest  *Timestamp `json:"last_interest"`

	Properties             map[string]OwnedProperty `json:"properties"`
	Loans                  []*Loan                  `json:"loans"`
	JobSkills              map[string]int64         `json:"job_skills"`
	Business               map[string]any           `json:"business"`
	LastPropertyCollection map[string]Timestamp     `json:"last_property_collection"`
}

// Farm holds the farming sub-record
type Farm struct {
	Plots       int              `json:"plots"`
	Crops       map[string]int64 `json:"crops"`
	LastWatered *Timestamp       `json:"last_watered"`
}

// AccountStats holds activity counters
type AccountStats struct {
	Worked          int64 `json:"worked"`
	CommandsUsed    int64 `json:"commands_used"`
	GamblesWon      int64 `json:"gambles_won"`
	GamblesLost     int64 `json:"gambles_lost"`
	Stolen          int64 `json:"stolen"`
	StolenFrom      int64 `json:"stolen_from"`
	CrimesSucceeded int64 `json:"crimes_succeeded"`
	CrimesFailed    int64 `json:"crimes_failed"`
}

// Streak tracks consecutive daily claims
type Streak struct {
	Daily     int        `json:"daily"`
	LastClaim *Timestamp `json:"last_claim"`
}

// OwnedProperty is the per-user ownership marker for a catalog property
type OwnedProperty struct {
	PurchasedAt Timestamp `json:"purchased_at"`
}

// NetWorth returns on-hand plus banked currency
func (a *Account) NetWorth() int64 {
	return a.Balance + a.Bank
}

// ItemCount returns how many of an inventory item the account holds
func (a *Account) ItemCount(itemID string) int64 {
	return a.Inventory[itemID]
}

// AddItem adjusts an inventory count, removing the entry when it reaches zero
func (a *Account) AddItem(itemID string, delta int64) {
	if a.Inventory == nil {
		a.Inventory = make(map[string]int64)
	}
	count := a.Inventory[itemID] + delta
	if count <= 0 {
		delete(a.Inventory, itemID)
		return
	}
	a.Inventory[itemID] = count
}

// OwnsProperty reports whether the account owns the property
func (a *Account) OwnsProperty(propertyID string) bool {
	_, ok := a.Properties[propertyID]
	return ok
}

// ActiveLoans returns loans that are still active, in storage order
func (a *Account) ActiveLoans() []*Loan {
	var active []*Loan
	for _, loan := range a.Loans {
		if loan.Status == LoanStatusActive {
			active = append(active, loan)
		}
	}
	return active
}

// UnmarshalJSON decodes an account record. It also reads records from the
// older economy cog, whose inventory is a list of purchased items and whose
// cooldowns are unix epochs with 0 for "never".
func (a *Account) UnmarshalJSON(data []byte) error {
	type plain Account
	aux := struct {
		*plain
		Inventory json.RawMessage `json:"inventory"`
	}{plain: (*plain)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	inventory, err := decodeInventory(aux.Inventory)
	if err != nil {
		return err
	}
	a.Inventory = inventory

	for _, ts := range []**Timestamp{
		&a.LastDaily, &a.LastWeekly, &a.LastMonthly, &a.LastWork, &a.LastRob,
		&a.LastCrime, &a.LastAdventure, &a.LastFish, &a.LastHunt, &a.LastInterest,
		&a.Farm.LastWatered, &a.Streak.LastClaim,
	} {
		*ts = (*ts).OrNil()
	}
	return nil
}

// decodeInventory accepts an item -> count object or a list of items, where
// each entry is an item id or an object with an "id" field
func decodeInventory(data json.RawMessage) (map[string]int64, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] != '[' {
		var counts map[string]int64
		if err := json.Unmarshal(trimmed, &counts); err != nil {
			return nil, fmt.Errorf("invalid inventory: %w", err)
		}
		return counts, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("invalid inventory: %w", err)
	}

	counts := make(map[string]int64, len(entries))
	for _, entry := range entries {
		var id string
		if err := json.Unmarshal(entry, &id); err != nil {
			var item struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(entry, &item); err != nil {
				return nil, fmt.Errorf("invalid inventory entry %s: %w", entry, err)
			}
			id = item.ID
		}
		if id != "" {
			counts[id]++
		}
	}
	return counts, nil
}
