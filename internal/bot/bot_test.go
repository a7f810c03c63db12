package bot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	p := NewCommandParser()

	tests := []struct {
		name      string
		text      string
		wantCmd   string
		wantArgs  []string
		isCommand bool
	}{
		{"слэш-команда", "/balance", "balance", nil, true},
		{"с аргументами", "/add_money @lucifer 100", "add_money", []string{"@lucifer", "100"}, true},
		{"восклицательный префикс", "!shop", "shop", nil, true},
		{"точка-префикс", ".daily", "daily", nil, true},
		{"регистр приводится", "/BALANCE", "balance", nil, true},
		{"упоминание бота отрезается", "/balance@adskiy_bank_bot", "balance", nil, true},
		{"не команда", "привет", "", nil, false},
		{"пустой текст", "   ", "", nil, false},
		{"голый префикс", "/", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, ok := p.ParseCommand(tt.text)
			require.Equal(t, tt.isCommand, ok)
			require.Equal(t, tt.wantCmd, cmd)
			require.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestDialogStateStoredPerUser(t *testing.T) {
	b := &Bot{states: make(map[int64]dialogState)}

	b.setState(1, stateAwaitTransfer)
	b.setState(2, stateAwaitAddPrize)

	b.statesMu.Lock()
	defer b.statesMu.Unlock()
	require.Equal(t, stateAwaitTransfer, b.states[1])
	require.Equal(t, stateAwaitAddPrize, b.states[2])
	require.Equal(t, stateNone, b.states[3])
}
