// internal/model/difficulty.go
package model

import (
	"encoding/json"
	"fmt"
)

type DifficultyLevel int

// easy < medium < hard < extreme の全順序。後続・先行はこの範囲内でのみ定義される（循環しない）。
const (
	DifficultyEasy DifficultyLevel = iota + 1 // 1
	DifficultyMedium                          // 2
	DifficultyHard                            // 3
	DifficultyExtreme                         // 4
)

var difficultyNames = map[DifficultyLevel]string{
	DifficultyEasy:    "easy",
	DifficultyMedium:  "medium",
	DifficultyHard:    "hard",
	DifficultyExtreme: "extreme",
}

func (d DifficultyLevel) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(d))
}

func (d DifficultyLevel) IsValid() bool {
	_, ok := difficultyNames[d]
	return ok
}

// Next は一段階難しいレベルを返します。最上位(extreme)ではそのまま返します。
func (d DifficultyLevel) Next() DifficultyLevel {
	if d >= DifficultyExtreme {
		return DifficultyExtreme
	}
	return d + 1
}

// Prev は一段階易しいレベルを返します。最下位(easy)ではそのまま返します。
func (d DifficultyLevel) Prev() DifficultyLevel {
	if d <= DifficultyEasy {
		return DifficultyEasy
	}
	return d - 1
}

// ParseDifficulty は文字列表現からレベルを復元します。
func ParseDifficulty(s string) (DifficultyLevel, error) {
	for level, name := range difficultyNames {
		if name == s {
			return level, nil
		}
	}
	return 0, fmt.Errorf("invalid difficulty level: %q", s)
}

// JSON上は "easy" のような文字列で表現する（DBカラム上は整数のまま）。
func (d DifficultyLevel) MarshalJSON() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("cannot marshal invalid difficulty level %d", int(d))
	}
	return json.Marshal(d.String())
}

func (d *DifficultyLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	level, err := ParseDifficulty(s)
	if err != nil {
		return err
	}
	*d = level
	return nil
}
