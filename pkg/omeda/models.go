package omeda

import (
	"fmt"
	"time"
)

// TimeLayout is the fixed format used by the Omeda API for match start and
// end times, e.g. "2022-12-01 08:21:34". Times are UTC.
const TimeLayout = "2006-01-02 15:04:05"

// TimeParseError indicates a match timestamp string did not match TimeLayout.
// Cursor advancement depends on end times, so a window's pagination cannot
// safely continue past a record carrying one of these.
type TimeParseError struct {
	Value string
	Err   error
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("parse match time %q: %v", e.Value, e.Err)
}

func (e *TimeParseError) Unwrap() error {
	return e.Err
}

// ParseEpoch converts an API-formatted time string to a Unix epoch.
func ParseEpoch(value string) (uint64, error) {
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return 0, &TimeParseError{Value: value, Err: err}
	}
	return uint64(t.Unix()), nil
}

// Match is one completed match as returned by the get-matches-since endpoint.
// The backfill engine only reads EndTime; everything else passes through to
// storage untouched.
type Match struct {
	WinningTeam           int64                  `json:"winningTeam"`
	GameDuration          int64                  `json:"gameDuration"`
	GameMode              string                 `json:"gameMode"`
	MatchID               string                 `json:"matchId"`
	Region                string                 `json:"region"`
	StartTime             string                 `json:"startTime"`
	EndTime               string                 `json:"endTime"`
	MatchEndReason        string                 `json:"matchEndReason"`
	PlayerData            []PlayerData           `json:"playerData"`
	HeroKills             []HeroKill             `json:"heroKills"`
	StructureDestructions []StructureDestruction `json:"structureDestructions"`
	ObjectiveKills        []ObjectiveKill        `json:"objectiveKills"`
}

// EndEpoch returns the match end time as a Unix epoch.
func (m *Match) EndEpoch() (uint64, error) {
	return ParseEpoch(m.EndTime)
}

// StartEpoch returns the match start time as a Unix epoch.
func (m *Match) StartEpoch() (uint64, error) {
	return ParseEpoch(m.StartTime)
}

// PlayerData holds one player's per-match statistics.
type PlayerData struct {
	PlayerID      string          `json:"playerId"`
	TeamID        int64           `json:"teamId"`
	HeroName      string          `json:"heroName"`
	RoleName      *string         `json:"roleName"`
	PlayerName    *string         `json:"playerName"`
	MinionData    MinionData      `json:"minionData"`
	CombatData    CombatData      `json:"combatData"`
	DamageHeal    DamageHealData  `json:"damageHealData"`
	WardsData     WardsData       `json:"wardsData"`
	IncomeData    IncomeData      `json:"incomeData"`
	AbilityData   []AbilityData   `json:"abilityData"`
	InventoryData []InventoryData `json:"inventoryData"`
}

type MinionData struct {
	MinionsKilled             int64 `json:"minionsKilled"`
	LaneMinionsKilled         int64 `json:"laneMinionsKilled"`
	NeutralMinionsKilled      int64 `json:"neutralMinionsKilled"`
	NeutralMinionsTeamJungle  int64 `json:"neutralMinionsTeamJungle"`
	NeutralMinionsEnemyJungle int64 `json:"neutralMinionsEnemyJungle"`
}

type CombatData struct {
	Kills               int64 `json:"kills"`
	Deaths              int64 `json:"deaths"`
	Assists             int64 `json:"assists"`
	LargestKillingSpree int64 `json:"largestKillingSpree"`
	LargestMultiKill    int64 `json:"largestMultiKill"`
}

type DamageHealData struct {
	MagicalDamageTakenFromHeroes  int64  `json:"magicalDamageTakenFromHeroes"`
	TotalDamageTakenFromHeroes    int64  `json:"totalDamageTakenFromHeroes"`
	PhysicalDamageTakenFromHeroes int64  `json:"physicalDamageTakenFromHeroes"`
	PhysicalDamageDealt           int64  `json:"physicalDamageDealt"`
	PhysicalDamageTaken           int64  `json:"physicalDamageTaken"`
	TotalDamageDealtToHeroes      int64  `json:"totalDamageDealtToHeroes"`
	MagicalDamageDealtToHeroes    int64  `json:"magicalDamageDealtToHeroes"`
	TotalDamageDealtToStructures  int64  `json:"totalDamageDealtToStructures"`
	TrueDamageTakenFromHeroes     int64  `json:"trueDamageTakenFromHeroes"`
	TrueDamageDealt               int64  `json:"trueDamageDealt"`
	TotalDamageDealtToObjectives  int64  `json:"totalDamageDealtToObjectives"`
	TrueDamageTaken               int64  `json:"trueDamageTaken"`
	TotalDamageDealt              int64  `json:"totalDamageDealt"`
	MagicalDamageTaken            int64  `json:"magicalDamageTaken"`
	MagicalDamageDealt            int64  `json:"magicalDamageDealt"`
	TotalDamageTaken              int64  `json:"totalDamageTaken"`
	PhysicalDamageDealtToHeroes   int64  `json:"physicalDamageDealtToHeroes"`
	TotalDamageMitigated          int64  `json:"totalDamageMitigated"`
	TrueDamageDealtToHeroes       int64  `json:"trueDamageDealtToHeroes"`
	LargestCriticalStrike         *int64 `json:"largestCriticalStrike"`
	TotalHealingDone              *int64 `json:"totalHealingDone"`
	ItemHealingDone               *int64 `json:"itemHealingDone"`
	CrestHealingDone              *int64 `json:"crestHealingDone"`
	UtilityHealingDone            *int64 `json:"utilityHealingDone"`
	TotalShieldingReceived        *int64 `json:"totalShieldingReceived"`
}

type WardsData struct {
	WardsPlaced      int64      `json:"wardsPlaced"`
	WardsDestroyed   int64      `json:"wardsDestroyed"`
	WardDestructions []WardData `json:"wardDestructions"`
	WardPlacements   []WardData `json:"wardPlacements"`
}

type WardData struct {
	TypeID   int64    `json:"typeId"`
	GameTime int64    `json:"gameTime"`
	Location Location `json:"location"`
}

type Location struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type IncomeData struct {
	GoldEarned           int64         `json:"goldEarned"`
	GoldSpent            int64         `json:"goldSpent"`
	GoldEarnedAtInterval []int64       `json:"goldEarnedAtInterval"`
	Transactions         []Transaction `json:"transactions"`
}

type Transaction struct {
	ItemID          int64 `json:"itemId"`
	TransactionType int64 `json:"transactionType"`
	GameTime        int64 `json:"gameTime"`
}

type AbilityData struct {
	AbilityInputTag *string `json:"abilityInputTag"`
	AbilitySlot     *int64  `json:"abilitySlot"`
	GameTime        int64   `json:"gameTime"`
}

type InventoryData struct {
	ItemSlot int64 `json:"itemSlot"`
	ItemID   int64 `json:"itemId"`
}

type HeroKill struct {
	KilledPlayerID   string   `json:"killedPlayerId"`
	KilledHeroName   string   `json:"killedHeroName"`
	KillerPlayerID   string   `json:"killerPlayerId"`
	KillerHeroName   string   `json:"killerHeroName"`
	KillerEntityType string   `json:"killerEntityType"`
	IsFirstBlood     bool     `json:"isFirstBlood"`
	Location         Location `json:"location"`
	GameTime         int64    `json:"gameTime"`
}

type StructureDestruction struct {
	DestructionPlayerID string   `json:"destructionPlayerId"`
	DestructionHeroName string   `json:"destructionHeroName"`
	StructureEntityType string   `json:"structureEntityType"`
	Location            Location `json:"location"`
	TeamID              int64    `json:"teamId"`
	GameTime            int64    `json:"gameTime"`
}

type ObjectiveKill struct {
	KilledEntityType string   `json:"killedEntityType"`
	KillerPlayerID   string   `json:"killerPlayerId"`
	KillerHeroName   string   `json:"killerHeroName"`
	Location         Location `json:"location"`
	GameTime         int64    `json:"gameTime"`
}
