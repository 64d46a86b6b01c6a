// Package hoyolab models the slice of the HoYoLAB battle-chronicle API this
// gateway consumes. Field sets mirror the upstream JSON; anything the cards
// do not draw is omitted.
package hoyolab

// UserInfo is the basic chronicle profile returned by the role/basicInfo
// endpoint. It doubles as the credential-verification probe at exchange time.
type UserInfo struct {
	Nickname string `json:"nickname"`
	Server   string `json:"server"`
	Level    int    `json:"level"`
	AvatarID string `json:"avatar"`
}

// OverviewStats is the aggregate progress block of the chronicle index.
type OverviewStats struct {
	ActiveDays       int `json:"active_days"`
	AvatarNum        int `json:"avatar_num"`
	AchievementNum   int `json:"achievement_num"`
	ChestNum         int `json:"chest_num"`
	AbyssProcess     int `json:"abyss_process,omitempty"`
	SimulatedUnivers int `json:"su_num,omitempty"`
}

// Overview bundles the chronicle index response.
type Overview struct {
	Stats     *OverviewStats `json:"stats"`
	CurLevel  int            `json:"cur_level,omitempty"`
	WorldLevel int           `json:"world_level,omitempty"`
}

// UserOverview is the composite the overview card renders from: the index
// stats plus the basic profile. Either part may be missing when upstream
// returns a partial payload; orchestrators must treat that as incomplete data.
type UserOverview struct {
	Overview *Overview `json:"overview"`
	UserInfo *UserInfo `json:"user_info"`
}

// Notes is the real-time notes block (stamina, assignments).
type Notes struct {
	StaminaCurrent     int  `json:"current_stamina"`
	StaminaMax         int  `json:"max_stamina"`
	StaminaRecoverTime int  `json:"stamina_recover_time"`
	AcceptedExpedition int  `json:"accepted_expedition_num"`
	TotalExpedition    int  `json:"total_expedition_num"`
	TrainScore         int  `json:"current_train_score"`
	TrainScoreMax      int  `json:"max_train_score"`
	RogueScore         int  `json:"current_rogue_score"`
	RogueScoreMax      int  `json:"max_rogue_score"`
}

// Character is one roster entry from the chronicle avatar list.
type Character struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Element  string `json:"element"`
	Icon     string `json:"icon"`
	Rarity   int    `json:"rarity"`
	Rank     int    `json:"rank"`
	Level    int    `json:"level"`
	IsChosen bool   `json:"is_chosen"`
}

// Characters is the chronicle avatar list response.
type Characters struct {
	List []Character `json:"avatar_list"`
}

// SimUniverseRecord is a single simulated-universe run.
type SimUniverseRecord struct {
	Progress   int    `json:"progress"`
	FinishTime any    `json:"finish_time,omitempty"`
	Score      int    `json:"score"`
	WorldName  string `json:"name"`
	Difficulty int    `json:"difficulty"`
}

// SimUniverseDetail groups the runs of one season window.
type SimUniverseDetail struct {
	Records []SimUniverseRecord `json:"records"`
}

// SimUniverseBasic is the per-user aggregate shown on the card header.
type SimUniverseBasic struct {
	UnlockedWorlds int `json:"unlocked_progress"`
	MaxScore       int `json:"high_score,omitempty"`
}

// SimUniverse is the standard simulated-universe chronicle response with the
// current and previous season windows.
type SimUniverse struct {
	User     *UserInfo         `json:"role"`
	Basic    *SimUniverseBasic `json:"basic_info"`
	Current  SimUniverseDetail `json:"current_record"`
	Previous SimUniverseDetail `json:"last_record"`
}

// SwarmDestiny is the swarm-disaster path progression block.
type SwarmDestiny struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// SimUniverseSwarm is the swarm-disaster DLC response.
type SimUniverseSwarm struct {
	User     *UserInfo `json:"role"`
	Overview struct {
		Destiny []SwarmDestiny `json:"destiny"`
	} `json:"overview"`
	Details SimUniverseDetail `json:"details"`
}

// ForgottenHallNode is one half (first or second) of a floor clear.
type ForgottenHallNode struct {
	ChallengeTime any         `json:"challenge_time,omitempty"`
	Avatars       []Character `json:"avatars"`
}

// ForgottenHallFloor is one Memory of Chaos floor record. The upstream list
// is ordered newest-first; user-facing floor numbers count the other way.
type ForgottenHallFloor struct {
	Name       string             `json:"name"`
	RoundNum   int                `json:"round_num"`
	StarNum    int                `json:"star_num"`
	IsFast     bool               `json:"is_fast"`
	FirstHalf  *ForgottenHallNode `json:"node_1"`
	SecondHalf *ForgottenHallNode `json:"node_2"`
}

// ForgottenHall is the Memory of Chaos chronicle response.
type ForgottenHall struct {
	TotalStars   int                  `json:"star_num"`
	MaxFloor     string               `json:"max_floor"`
	TotalBattles int                  `json:"battle_num"`
	Floors       []ForgottenHallFloor `json:"all_floor_detail"`
}
