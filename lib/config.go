package lib

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/alecthomas/units"
)

/* This file implements logic for 'user controlled' global configurations of each module of the node */

const (
	// FILE NAMES in the 'data directory'
	ConfigFilePath  = "config.json"  // the file path for the node configuration
	GenesisFilePath = "genesis.json" // the file path for the genesis accounts
	DevKeyFilePath  = "dev_key.json" // the file path for the development key funded by the default genesis
)

// Config is the structure of the user configuration options for a polls node
type Config struct {
	MainConfig    // main options spanning over all modules
	RPCConfig     // rpc API options
	StoreConfig   // persistence options
	BlockConfig   // height production options
	PollsConfig   // polls module options
	MetricsConfig // telemetry options
}

// DefaultConfig() returns a Config with developer set options
func DefaultConfig() Config {
	return Config{
		MainConfig:    DefaultMainConfig(),
		RPCConfig:     DefaultRPCConfig(),
		StoreConfig:   DefaultStoreConfig(),
		BlockConfig:   DefaultBlockConfig(),
		PollsConfig:   DefaultPollsConfig(),
		MetricsConfig: DefaultMetricsConfig(),
	}
}

// MAIN CONFIG BELOW

type MainConfig struct {
	LogLevel string `json:"logLevel"` // any level includes the levels above it: debug < info < warning < error
}

// DefaultMainConfig() sets log level to 'info'
func DefaultMainConfig() MainConfig { return MainConfig{LogLevel: "info"} }

// GetLogLevel() parses the log string in the config file into a LogLevel Enum
func (m *MainConfig) GetLogLevel() int32 { return ParseLogLevel(m.LogLevel) }

// RPC CONFIG BELOW

type RPCConfig struct {
	RPCPort         string `json:"rpcPort"`         // the port where the rpc server is hosted
	RPCUrl          string `json:"rpcURL"`          // the url where the rpc server is hosted
	TimeoutS        int    `json:"timeoutS"`        // the rpc request timeout in seconds
	MaxRequestBytes int64  `json:"maxRequestBytes"` // the largest request body the rpc accepts
}

// DefaultRPCConfig() serves the rpc on localhost:50002
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		RPCPort:         "50002",
		RPCUrl:          "http://localhost",
		TimeoutS:        3,
		MaxRequestBytes: int64(units.MB),
	}
}

// STORE CONFIG BELOW

// StoreConfig is user configurations for the key value database
type StoreConfig struct {
	DataDirPath string `json:"dataDirPath"` // path of the designated folder where the application stores its data
	DBName      string `json:"dbName"`      // name of the database
	InMemory    bool   `json:"inMemory"`    // non-disk database, only for testing
}

// DefaultDataDirPath() is $USERHOME/.fundpolls
func DefaultDataDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(home, ".fundpolls")
}

// DefaultStoreConfig() returns the developer recommended store configuration
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		DataDirPath: DefaultDataDirPath(),
		DBName:      "fundpolls",
		InMemory:    false,
	}
}

// BLOCK CONFIG BELOW

// BlockConfig controls how quickly the node advances its height; poll periods are measured in heights
type BlockConfig struct {
	BlockTimeMS int `json:"blockTimeMS"`
}

// DefaultBlockConfig() produces a height every 6 seconds
func DefaultBlockConfig() BlockConfig { return BlockConfig{BlockTimeMS: 6000} }

// POLLS CONFIG BELOW

// PollsConfig holds the constants of the polls module
type PollsConfig struct {
	ModuleTag        string   `json:"moduleTag"`        // unique tag used to derive the pot address and scheduler task keys
	MaxBeneficiaries int      `json:"maxBeneficiaries"` // upper bound of the beneficiary list of a poll
	AdminAddress     HexBytes `json:"adminAddress"`     // the root authority allowed to enact a poll end manually
}

// DefaultPollsConfig() returns the default module constants
func DefaultPollsConfig() PollsConfig {
	return PollsConfig{
		ModuleTag:        "fpolls",
		MaxBeneficiaries: 16,
	}
}

// METRICS CONFIG BELOW

// MetricsConfig represents the configuration for the metrics server
type MetricsConfig struct {
	Enabled           bool   `json:"enabled"`           // if the metrics are enabled
	PrometheusAddress string `json:"prometheusAddress"` // the address of the server
}

// DefaultMetricsConfig() serves the metrics on localhost:9090
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:           true,
		PrometheusAddress: "0.0.0.0:9090",
	}
}

// WriteToFile() saves the Config object to a JSON file
func (c Config) WriteToFile(filepath string) error {
	jsonBytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, jsonBytes, os.ModePerm)
}

// NewConfigFromFile() populates a Config object from a JSON file, defaults fill in any blanks
func NewConfigFromFile(filepath string) (Config, error) {
	fileBytes, err := os.ReadFile(filepath)
	if err != nil {
		return Config{}, err
	}
	c := DefaultConfig()
	if err = json.Unmarshal(fileBytes, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
