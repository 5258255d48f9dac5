package main

import (
	"github.com/jessevdk/go-flags"
	"time"
)

const (
	defaultStatePath     = "current_state.json"
	defaultSerialPort    = "/dev/ttyUSB0"
	defaultBaudRate      = 1200
	defaultOpenAIBaseURL = "http://localhost:11434/v1"
	defaultOpenAIModel   = "gemma3:4b"
)

type serialConfig struct {
	Port     string `long:"port" description:"Serial device of the answer box"`
	BaudRate int    `long:"baud" description:"Baud rate of the serial link"`
}

type raspberryConfig struct {
	ButtonAPin string `long:"button-a" description:"GPIO pin of button A" default:"GPIO17"`
	ButtonBPin string `long:"button-b" description:"GPIO pin of button B" default:"GPIO27"`
	ButtonCPin string `long:"button-c" description:"GPIO pin of button C" default:"GPIO22"`
	MotorPin   string `long:"motor" description:"GPIO pin of the shake motor" default:"GPIO5"`
	SpeakPin   string `long:"speak" description:"GPIO pin of the speaking indicator" default:"GPIO6"`
	LightPin   string `long:"light" description:"GPIO pin of the light" default:"GPIO13"`
}

type stateConfig struct {
	Backend string `long:"backend" description:"Storage of the shared round record" choice:"file" choice:"bolt"`
	Path    string `long:"path" description:"Location of the shared round record"`
}

type openAIConfig struct {
	BaseURL string `long:"baseurl" description:"Base URL of an OpenAI compatible API"`
	APIKey  string `long:"apikey" description:"API key" env:"TRIVIAD_OPENAI_APIKEY"`
	Model   string `long:"model" description:"Model used for all generated text"`
}

type speakerConfig struct {
	Command   string        `long:"command" description:"Text to speech command, the text is passed as last argument" default:"espeak"`
	WordDelay time.Duration `long:"word-delay" description:"Time per word when speech is silent" default:"300ms"`
}

type apiConfig struct {
	Listen string `long:"listen" description:"Address of the simulation API, empty to disable" default:"localhost:9000"`
}

type profilingConfig struct {
	Listen string `long:"listen" description:"Address of the profiling server, empty to disable"`
}

type watchCommand struct {
	Interval time.Duration `long:"interval" description:"Poll interval of the display" default:"500ms"`
	NoClear  bool          `long:"no-clear" description:"Do not clear the screen between redraws"`
}

type config struct {
	ShowVersion   bool            `short:"V" long:"version" description:"Display version information and exit"`
	Debug         bool            `long:"debug" description:"Start in debug mode"`
	Machine       string          `long:"machine" description:"Answer box to use" choice:"serial" choice:"raspberry"`
	Generator     string          `long:"generator" description:"Source of topics, questions and feedback" choice:"openai" choice:"offline"`
	Speaker       string          `long:"speaker" description:"How text is voiced" choice:"command" choice:"silent"`
	History       int             `long:"history" description:"Number of asked questions to avoid repeating, 0 for all"`
	AnswerTimeout time.Duration   `long:"answer-timeout" description:"Repeat the prompt after this long without input, 0 waits forever"`
	Serial        serialConfig    `group:"Serial" namespace:"serial"`
	Raspberry     raspberryConfig `group:"Raspberry" namespace:"raspberry"`
	State         stateConfig     `group:"State" namespace:"state"`
	OpenAI        openAIConfig    `group:"OpenAI" namespace:"openai"`
	SpeakerOpts   speakerConfig   `group:"Speaker" namespace:"speaker"`
	Api           apiConfig       `group:"API" namespace:"api"`
	Profiling     profilingConfig `group:"Profiling" namespace:"profiling"`
	Watch         watchCommand    `command:"watch" description:"Show the current round in the terminal"`
}

// loadConfig parses the command line on top of the defaults. The returned
// command is the name of the active subcommand, if any.
func loadConfig() (*config, string, error) {
	cfg := config{
		Machine:   "serial",
		Generator: "openai",
		Speaker:   "command",
		History:   50,
		Serial: serialConfig{
			Port:     defaultSerialPort,
			BaudRate: defaultBaudRate,
		},
		State: stateConfig{
			Backend: "file",
			Path:    defaultStatePath,
		},
		OpenAI: openAIConfig{
			BaseURL: defaultOpenAIBaseURL,
			APIKey:  "ollama",
			Model:   defaultOpenAIModel,
		},
	}

	parser := flags.NewParser(&cfg, flags.Default)
	parser.SubcommandsOptional = true

	if _, err := parser.Parse(); err != nil {
		return nil, "", err
	}

	command := ""
	if parser.Active != nil {
		command = parser.Active.Name
	}

	return &cfg, command, nil
}
