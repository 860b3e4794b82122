package model

import (
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
)

// ItemGrant is one item entry inside a RewardContent.
type ItemGrant struct {
	TemplateID string `json:"template_id"`
	Count      int    `json:"count"`
	Level      int    `json:"level,omitempty"`
}

// RewardContent is the value expanded into ledger and inventory effects when
// a reward grant or mail attachment is claimed. It is embedded in grants and
// mail as a serialized payload, never stored as its own record.
type RewardContent struct {
	Gold       int64       `json:"gold,omitempty"`
	Diamond    int64       `json:"diamond,omitempty"`
	Experience int64       `json:"experience,omitempty"`
	Items      []ItemGrant `json:"items,omitempty"`
}

// Empty reports whether the content grants nothing at all.
func (c *RewardContent) Empty() bool {
	return c.Gold == 0 && c.Diamond == 0 && c.Experience == 0 && len(c.Items) == 0
}

// Encode serializes the content for embedding in a grant or mail record.
func (c *RewardContent) Encode() (datatypes.JSON, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// DecodeContent parses a serialized RewardContent payload.
func DecodeContent(raw datatypes.JSON) (*RewardContent, error) {
	if len(raw) == 0 {
		return nil, errors.New("model: empty reward content")
	}
	var c RewardContent
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
