package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandShow     Command = "show"
	CommandGet      Command = "get"
	CommandSet      Command = "set"
	CommandUnset    Command = "unset"
	CommandSave     Command = "save"
	CommandReset    Command = "reset"
	CommandValidate Command = "validate"
	CommandPath     Command = "path"
	CommandVoices   Command = "voices"
	CommandDoctor   Command = "doctor"
	CommandWatch    Command = "watch"
	CommandVersion  Command = "version"
	CommandHelp     Command = "help"
)

// commandArity is the number of positional arguments each command takes.
var commandArity = map[Command]int{
	CommandShow:     0,
	CommandGet:      1,
	CommandSet:      2,
	CommandUnset:    1,
	CommandSave:     0,
	CommandReset:    0,
	CommandValidate: 0,
	CommandPath:     0,
	CommandVoices:   0,
	CommandDoctor:   0,
	CommandWatch:    0,
	CommandVersion:  0,
	CommandHelp:     0,
}

// Restore selects how a failed settings load is answered.
type Restore string

const (
	RestoreAsk Restore = "ask"
	RestoreYes Restore = "yes"
	RestoreNo  Restore = "no"
)

type Parsed struct {
	Command      Command
	Args         []string
	SettingsPath string
	Restore      Restore
	Desktop      bool
	Debug        bool
	ShowHelp     bool
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true, Restore: RestoreAsk}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--settings":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--settings requires a path")
			}
			parsed.SettingsPath = args[i]
		case "--yes", "-y":
			if parsed.Restore == RestoreNo {
				return Parsed{}, errors.New("--yes and --no are mutually exclusive")
			}
			parsed.Restore = RestoreYes
		case "--no":
			if parsed.Restore == RestoreYes {
				return Parsed{}, errors.New("--yes and --no are mutually exclusive")
			}
			parsed.Restore = RestoreNo
		case "--desktop":
			parsed.Desktop = true
		case "--debug":
			parsed.Debug = true
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			arity, ok := commandArity[cmd]
			if !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			rest := args[i+1:]
			if len(rest) != arity {
				return Parsed{}, fmt.Errorf("command %q takes %d argument(s), got %d", arg, arity, len(rest))
			}

			parsed.Command = cmd
			parsed.Args = append([]string(nil), rest...)
			parsed.ShowHelp = cmd == CommandHelp
			return parsed, nil
		}
	}

	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [flags] <command> [args]

Commands:
  show               Print every setting
  get FIELD          Print one setting
  set FIELD VALUE    Change one setting and save
  unset FIELD        Clear one setting and save
  save               Write current settings (defaults plus file values)
  reset              Write host defaults, discarding file values
  validate           Check that settings can be saved
  path               Print the settings file path
  voices             List installed synthesis voices
  doctor             Run settings and environment checks
  watch              Reload and print settings whenever the file changes
  version            Print version information
  help               Show this help

Fields:
  default_profile_name  default_profile_filepath  voice_info
  pushtotalk_mode (Off|Press|Hold|Toggle)  pushtotalk_key  recognizer_info

Flags:
  --settings PATH   Settings file (default: $XDG_CONFIG_HOME/gavpi/gavpi-settings.xml)
  -y, --yes         Write current values when the settings file fails to load
  --no              Never write after a failed load
  --desktop         Show messages as desktop notifications
  --debug           Log at debug level
  -h, --help        Show help
  --version         Show version
`, binaryName)
}
