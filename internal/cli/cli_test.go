package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDefaultsToHelp(t *testing.T) {
	parsed, err := Parse(nil)
	require.NoError(t, err)
	require.True(t, parsed.ShowHelp)
	require.Equal(t, CommandHelp, parsed.Command)
	require.Equal(t, RestoreAsk, parsed.Restore)
}

func TestParseCommandWithSettings(t *testing.T) {
	parsed, err := Parse([]string{"--settings", "/tmp/gavpi-settings.xml", "--yes", "doctor"})
	require.NoError(t, err)
	require.Equal(t, CommandDoctor, parsed.Command)
	require.Equal(t, "/tmp/gavpi-settings.xml", parsed.SettingsPath)
	require.Equal(t, RestoreYes, parsed.Restore)
	require.False(t, parsed.ShowHelp)
}

func TestParseSetKeepsDashValues(t *testing.T) {
	parsed, err := Parse([]string{"set", "pushtotalk_key", "-"})
	require.NoError(t, err)
	require.Equal(t, CommandSet, parsed.Command)
	require.Equal(t, []string{"pushtotalk_key", "-"}, parsed.Args)
}

func TestParseArgMatrix(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantErr  string
		wantCmd  Command
		wantHelp bool
		wantArgs []string
	}{
		{name: "help short flag", args: []string{"-h"}, wantCmd: CommandHelp, wantHelp: true},
		{name: "help long flag", args: []string{"--help"}, wantCmd: CommandHelp, wantHelp: true},
		{name: "version flag", args: []string{"--version"}, wantCmd: CommandVersion},
		{name: "missing settings path", args: []string{"--settings"}, wantErr: "requires a path"},
		{name: "unknown flag", args: []string{"--bogus"}, wantErr: "unknown flag"},
		{name: "unknown command", args: []string{"bogus"}, wantErr: "unknown command"},
		{name: "extra args after show", args: []string{"show", "extra"}, wantErr: "takes 0 argument(s), got 1"},
		{name: "set missing value", args: []string{"set", "voice_info"}, wantErr: "takes 2 argument(s), got 1"},
		{name: "yes and no", args: []string{"--yes", "--no", "show"}, wantErr: "mutually exclusive"},
		{name: "get field", args: []string{"get", "voice_info"}, wantCmd: CommandGet, wantArgs: []string{"voice_info"}},
		{name: "watch", args: []string{"--desktop", "watch"}, wantCmd: CommandWatch, wantArgs: []string{}},
		{name: "explicit help", args: []string{"help"}, wantCmd: CommandHelp, wantHelp: true, wantArgs: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := Parse(tc.args)
			if tc.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.wantCmd, parsed.Command)
			require.Equal(t, tc.wantHelp, parsed.ShowHelp)
			if tc.wantArgs != nil {
				require.ElementsMatch(t, tc.wantArgs, parsed.Args)
			}
		})
	}
}

func TestHelpTextIncludesCoreCommands(t *testing.T) {
	text := HelpText("gavpi")
	require.Contains(t, text, "show")
	require.Contains(t, text, "set FIELD VALUE")
	require.Contains(t, text, "doctor")
	require.Contains(t, text, "recognizer_info")
	require.Contains(t, text, "--settings PATH")
}
