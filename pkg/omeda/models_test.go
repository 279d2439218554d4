package omeda

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseEpoch(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    uint64
		wantErr bool
	}{
		{
			name:  "first recorded match",
			value: "2022-12-01 08:21:34",
			want:  1669882894,
		},
		{
			name:  "midnight",
			value: "2023-01-01 00:00:00",
			want:  1672531200,
		},
		{
			name:    "iso 8601 is rejected",
			value:   "2022-12-01T08:21:34Z",
			wantErr: true,
		},
		{
			name:    "empty string",
			value:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			value:   "not a time",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEpoch(tt.value)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var parseErr *TimeParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("error %v is not a *TimeParseError", err)
				}
				if parseErr.Value != tt.value {
					t.Errorf("TimeParseError.Value = %q, want %q", parseErr.Value, tt.value)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseEpoch(%q) error = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("ParseEpoch(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestMatch_EndEpoch(t *testing.T) {
	m := Match{EndTime: "2022-12-01 09:21:34"}

	got, err := m.EndEpoch()
	if err != nil {
		t.Fatalf("EndEpoch() error = %v", err)
	}
	if want := uint64(1669886494); got != want {
		t.Errorf("EndEpoch() = %d, want %d", got, want)
	}

	bad := Match{EndTime: "soon"}
	if _, err := bad.EndEpoch(); err == nil {
		t.Error("EndEpoch() on unparseable time should fail")
	}
}

const sampleMatchJSON = `{
	"winningTeam": 1,
	"gameDuration": 2134,
	"gameMode": "pvp",
	"matchId": "9e2b8f1c",
	"region": "eu",
	"startTime": "2022-12-01 08:21:34",
	"endTime": "2022-12-01 08:57:08",
	"matchEndReason": "coredestroyed",
	"playerData": [
		{
			"playerId": "p1",
			"teamId": 1,
			"heroName": "Gideon",
			"roleName": "midlane",
			"playerName": null,
			"minionData": {"minionsKilled": 180, "laneMinionsKilled": 150, "neutralMinionsKilled": 30, "neutralMinionsTeamJungle": 22, "neutralMinionsEnemyJungle": 8},
			"combatData": {"kills": 7, "deaths": 2, "assists": 11, "largestKillingSpree": 4, "largestMultiKill": 2},
			"damageHealData": {"totalDamageDealt": 120345, "largestCriticalStrike": null, "totalHealingDone": 4210},
			"wardsData": {"wardsPlaced": 9, "wardsDestroyed": 3, "wardDestructions": [], "wardPlacements": [{"typeId": 0, "gameTime": 120, "location": {"x": 1.5, "y": -2.25, "z": 0}}]},
			"incomeData": {"goldEarned": 14230, "goldSpent": 13900, "goldEarnedAtInterval": [0, 820, 1900], "transactions": [{"itemId": 42, "transactionType": 0, "gameTime": 35}]},
			"abilityData": [{"abilityInputTag": "Primary", "abilitySlot": 1, "gameTime": 12}],
			"inventoryData": [{"itemSlot": 0, "itemId": 42}]
		}
	],
	"heroKills": [
		{"killedPlayerId": "p2", "killedHeroName": "Murdock", "killerPlayerId": "p1", "killerHeroName": "Gideon", "killerEntityType": "hero", "isFirstBlood": true, "location": {"x": 10, "y": 20, "z": 0}, "gameTime": 204}
	],
	"structureDestructions": [
		{"destructionPlayerId": "p1", "destructionHeroName": "Gideon", "structureEntityType": "tower", "location": {"x": 0, "y": 0, "z": 0}, "teamId": 1, "gameTime": 900}
	],
	"objectiveKills": [
		{"killedEntityType": "fangtooth", "killerPlayerId": "p1", "killerHeroName": "Gideon", "location": {"x": 5, "y": 5, "z": 0}, "gameTime": 1500}
	]
}`

func TestMatch_DecodeFullRecord(t *testing.T) {
	var m Match
	if err := json.Unmarshal([]byte(sampleMatchJSON), &m); err != nil {
		t.Fatalf("unmarshal sample match: %v", err)
	}

	if m.MatchID != "9e2b8f1c" {
		t.Errorf("MatchID = %q", m.MatchID)
	}
	if m.WinningTeam != 1 || m.GameDuration != 2134 {
		t.Errorf("summary fields = %d/%d", m.WinningTeam, m.GameDuration)
	}
	if len(m.PlayerData) != 1 {
		t.Fatalf("PlayerData len = %d", len(m.PlayerData))
	}

	p := m.PlayerData[0]
	if p.RoleName == nil || *p.RoleName != "midlane" {
		t.Errorf("RoleName = %v, want midlane", p.RoleName)
	}
	if p.PlayerName != nil {
		t.Errorf("PlayerName = %v, want nil", p.PlayerName)
	}
	if p.DamageHeal.LargestCriticalStrike != nil {
		t.Error("LargestCriticalStrike should be nil")
	}
	if p.DamageHeal.TotalHealingDone == nil || *p.DamageHeal.TotalHealingDone != 4210 {
		t.Errorf("TotalHealingDone = %v", p.DamageHeal.TotalHealingDone)
	}
	if len(p.WardsData.WardPlacements) != 1 || p.WardsData.WardPlacements[0].Location.Y != -2.25 {
		t.Errorf("WardPlacements = %+v", p.WardsData.WardPlacements)
	}

	if len(m.HeroKills) != 1 || !m.HeroKills[0].IsFirstBlood {
		t.Errorf("HeroKills = %+v", m.HeroKills)
	}
	if len(m.StructureDestructions) != 1 || m.StructureDestructions[0].StructureEntityType != "tower" {
		t.Errorf("StructureDestructions = %+v", m.StructureDestructions)
	}
	if len(m.ObjectiveKills) != 1 || m.ObjectiveKills[0].KilledEntityType != "fangtooth" {
		t.Errorf("ObjectiveKills = %+v", m.ObjectiveKills)
	}

	end, err := m.EndEpoch()
	if err != nil {
		t.Fatalf("EndEpoch() error = %v", err)
	}
	start, err := m.StartEpoch()
	if err != nil {
		t.Fatalf("StartEpoch() error = %v", err)
	}
	if end <= start {
		t.Errorf("end %d not after start %d", end, start)
	}
}

func TestMatch_RoundTripKeepsFieldNames(t *testing.T) {
	var m Match
	if err := json.Unmarshal([]byte(sampleMatchJSON), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out, err := json.Marshal(&m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if !json.Valid(out) {
		t.Fatal("marshal produced invalid JSON")
	}

	for _, field := range []string{
		`"matchId"`, `"endTime"`, `"playerData"`, `"damageHealData"`,
		`"wardPlacements"`, `"goldEarnedAtInterval"`, `"isFirstBlood"`,
	} {
		if !strings.Contains(string(out), field) {
			t.Errorf("encoded match missing %s", field)
		}
	}
}
