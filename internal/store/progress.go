package store

import (
	"encoding/json"
	"math"
)

// Defaults applied to missing or malformed progress fields.
const (
	DefaultView       = "home"
	DefaultTab        = "structure"
	DefaultFilter     = "all"
	DefaultSpeechRate = 1.0
)

// Upper bounds for persisted numbers. Larger values are treated as corrupt.
const (
	maxCount          = math.MaxInt32
	maxCooldownMillis = 1 << 53
)

// ProgressKey returns the record key for a program.
func ProgressKey(programID string) string {
	return "ewp_progress_" + programID
}

// ProgressData is the persisted study record of one program. Field names
// follow the record format used by earlier versions of the app so existing
// exports stay readable. Cooldowns are unix milliseconds.
type ProgressData struct {
	View              string              `json:"view"`
	CurrentPartID     string              `json:"currentPartId"`
	Index             int                 `json:"index"`
	StreakByID        map[string]int      `json:"streakById"`
	MasteredIDs       []string            `json:"masteredIds"`
	WrongCountByID    map[string]int      `json:"wrongCountById"`
	SummaryFilter     string              `json:"summaryFilter"`
	SpeechRate        float64             `json:"ttsRate"`
	CurrentTab        string              `json:"currentTab"`
	QuizDoneByPart    map[string][]string `json:"quizDoneByPart"`
	QuizAttemptLocked bool                `json:"quizAttemptLocked"`
	QuizCooldownByID  map[string]int64    `json:"quizCooldownById"`
	QuizCheckedForID  string              `json:"quizCheckedForId"`
}

// DefaultProgress returns an empty record with every field at its default.
func DefaultProgress() ProgressData {
	return ProgressData{
		View:             DefaultView,
		StreakByID:       map[string]int{},
		MasteredIDs:      []string{},
		WrongCountByID:   map[string]int{},
		SummaryFilter:    DefaultFilter,
		SpeechRate:       DefaultSpeechRate,
		CurrentTab:       DefaultTab,
		QuizDoneByPart:   map[string][]string{},
		QuizCooldownByID: map[string]int64{},
	}
}

// EncodeProgress serializes a record.
func EncodeProgress(p ProgressData) ([]byte, error) {
	return json.Marshal(p)
}

// DecodeProgress parses a stored record. It never fails: unparseable input
// yields DefaultProgress, and each field that is missing, null or of the
// wrong type keeps its default. Map entries with invalid values are dropped
// individually.
func DecodeProgress(raw []byte) ProgressData {
	p := DefaultProgress()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return p
	}

	decodeField(fields, "view", &p.View)
	decodeField(fields, "currentPartId", &p.CurrentPartID)
	decodeField(fields, "index", &p.Index)
	decodeField(fields, "summaryFilter", &p.SummaryFilter)
	decodeField(fields, "ttsRate", &p.SpeechRate)
	decodeField(fields, "currentTab", &p.CurrentTab)
	decodeField(fields, "quizAttemptLocked", &p.QuizAttemptLocked)
	decodeField(fields, "quizCheckedForId", &p.QuizCheckedForID)

	if m, ok := decodeCounts(fields["streakById"]); ok {
		p.StreakByID = m
	}
	if m, ok := decodeCounts(fields["wrongCountById"]); ok {
		p.WrongCountByID = m
	}
	if ids, ok := decodeStrings(fields["masteredIds"]); ok {
		p.MasteredIDs = ids
	}
	if m, ok := decodeCooldowns(fields["quizCooldownById"]); ok {
		p.QuizCooldownByID = m
	}
	if m, ok := decodeRounds(fields["quizDoneByPart"]); ok {
		p.QuizDoneByPart = m
	}

	if p.Index < 0 {
		p.Index = 0
	}
	if p.SpeechRate <= 0 || math.IsNaN(p.SpeechRate) {
		p.SpeechRate = DefaultSpeechRate
	}
	return p
}

func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// decodeCounts reads an object of integers in [0, maxCount].
func decodeCounts(raw json.RawMessage) (map[string]int, bool) {
	var entries map[string]json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &entries) != nil {
		return nil, false
	}
	out := make(map[string]int, len(entries))
	for id, v := range entries {
		var f float64
		if json.Unmarshal(v, &f) != nil || f < 0 || f > maxCount || f != math.Trunc(f) {
			continue
		}
		out[id] = int(f)
	}
	return out, true
}

// decodeCooldowns reads an object of positive unix-millisecond timestamps.
func decodeCooldowns(raw json.RawMessage) (map[string]int64, bool) {
	var entries map[string]json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &entries) != nil {
		return nil, false
	}
	out := make(map[string]int64, len(entries))
	for id, v := range entries {
		var f float64
		if json.Unmarshal(v, &f) != nil || f <= 0 || f > maxCooldownMillis {
			continue
		}
		out[id] = int64(f)
	}
	return out, true
}

// decodeStrings reads an array, keeping only its string elements.
func decodeStrings(raw json.RawMessage) ([]string, bool) {
	var elems []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &elems) != nil {
		return nil, false
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		var s string
		if json.Unmarshal(e, &s) == nil && s != "" {
			out = append(out, s)
		}
	}
	return out, true
}

// decodeRounds reads an object of string arrays.
func decodeRounds(raw json.RawMessage) (map[string][]string, bool) {
	var entries map[string]json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &entries) != nil {
		return nil, false
	}
	out := make(map[string][]string, len(entries))
	for part, v := range entries {
		if ids, ok := decodeStrings(v); ok {
			out[part] = ids
		}
	}
	return out, true
}
