package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartCommandParse(t *testing.T) {
	cmd := newStartCommand("@機器人")

	tests := []struct {
		name string
		text string
		role string
		ok   bool
	}{
		{"basic", "@機器人 開始新實驗 整合型AI", "整合型AI", true},
		{"role trimmed", "@機器人 開始新實驗  探究型AI ", "探究型AI", true},
		{"multi word role", "@機器人 開始新實驗 研究型 AI", "研究型 AI", true},
		{"missing role", "@機器人 開始新實驗", "", false},
		{"no mention", "開始新實驗 整合型AI", "", false},
		{"ordinary message", "大家好", "", false},
		{"mention mid-text", "早安 @機器人 開始新實驗 整合型AI", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, ok := cmd.Parse(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.role, role)
		})
	}
}
