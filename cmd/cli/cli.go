package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/canopy-network/fundpolls/cmd/rpc"
	"github.com/canopy-network/fundpolls/controller"
	"github.com/canopy-network/fundpolls/fsm"
	"github.com/canopy-network/fundpolls/lib"
	"github.com/canopy-network/fundpolls/lib/crypto"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rootCmd = &cobra.Command{
	Use:   "fundpolls",
	Short: "the funding polls node software",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(rpc.SoftwareVersion)
	},
}

var (
	client, config, l = &rpc.Client{}, lib.Config{}, lib.LoggerI(nil)
	DataDir, devKey   = "", (*DevKey)(nil)
)

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.PersistentFlags().StringVar(&DataDir, "data-dir", lib.DefaultDataDirPath(), "custom data directory location")
	// the data directory is only known once the flags are parsed
	cobra.OnInitialize(func() {
		config, devKey = InitializeDataDirectory(DataDir, lib.NewDefaultLogger())
		l = lib.NewLogger(lib.LoggerConfig{Level: config.GetLogLevel()}, config.DataDirPath)
		client = rpc.NewClient(config.RPCUrl, config.RPCPort)
	})
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "start the polls node",
	Run: func(cmd *cobra.Command, args []string) {
		Start()
	},
}

// Start() is the entrypoint of the application
func Start() {
	// open the store and load the state machine
	metrics := lib.NewMetricsServer(config.MetricsConfig, l.Named("metrics"))
	node, err := controller.New(config, metrics, l)
	if err != nil {
		l.Fatal(err.Error())
	}
	l.Infof("Using development key: Address: %s | PublicKey: %s", devKey.Address, devKey.PublicKey)
	// cancel both services on a kill signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGABRT)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(service(ctx, node.Start))
	g.Go(service(ctx, rpc.NewServer(node, config, l).Start))
	g.Go(service(ctx, metrics.Start))
	e := g.Wait()
	// gracefully stop the node
	node.Stop()
	if e != nil {
		l.Fatal(e.Error())
	}
	l.Info("Exit command received")
	os.Exit(0)
}

// service() adapts a blocking start function to the errgroup
func service(ctx context.Context, start func(context.Context) lib.ErrorI) func() error {
	return func() error {
		if err := start(ctx); err != nil {
			return err
		}
		return nil
	}
}

// InitializeDataDirectory() populates the data directory with configuration and data files if missing
func InitializeDataDirectory(dataDirPath string, log lib.LoggerI) (c lib.Config, key *DevKey) {
	// make the data dir if missing
	if err := os.MkdirAll(dataDirPath, os.ModePerm); err != nil {
		log.Fatal(err.Error())
	}
	// make the config.json file if missing
	configFilePath := filepath.Join(dataDirPath, lib.ConfigFilePath)
	if _, err := os.Stat(configFilePath); errors.Is(err, os.ErrNotExist) {
		log.Infof("Creating %s file", lib.ConfigFilePath)
		if err = lib.DefaultConfig().WriteToFile(configFilePath); err != nil {
			log.Fatal(err.Error())
		}
	}
	// make the development key file if missing
	if _, err := os.Stat(filepath.Join(dataDirPath, lib.DevKeyFilePath)); errors.Is(err, os.ErrNotExist) {
		log.Infof("Creating %s file", lib.DevKeyFilePath)
		k, e := NewDevKey()
		if e != nil {
			log.Fatal(e.Error())
		}
		if e = lib.SaveJSONToFile(k, dataDirPath, lib.DevKeyFilePath); e != nil {
			log.Fatal(e.Error())
		}
	}
	key = new(DevKey)
	if err := lib.NewJSONFromFile(key, dataDirPath, lib.DevKeyFilePath); err != nil {
		log.Fatal(err.Error())
	}
	c, err := lib.NewConfigFromFile(configFilePath)
	if err != nil {
		log.Fatal(err.Error())
	}
	c.DataDirPath = dataDirPath
	// make the genesis file if missing; it funds the development key and makes it the admin
	if _, err = os.Stat(filepath.Join(dataDirPath, lib.GenesisFilePath)); errors.Is(err, os.ErrNotExist) {
		log.Infof("Creating %s file", lib.GenesisFilePath)
		if e := fsm.WriteGenesisFile(fsm.DefaultGenesis(key.Address), dataDirPath); e != nil {
			log.Fatal(e.Error())
		}
	}
	return
}

// DevKey is an unencrypted ed25519 key pair used to sign messages during development
type DevKey struct {
	Address    crypto.Address `json:"address"`
	PublicKey  lib.HexBytes   `json:"publicKey"`
	PrivateKey lib.HexBytes   `json:"privateKey"`
}

// NewDevKey() generates a new development key pair
func NewDevKey() (*DevKey, error) {
	pk, err := crypto.NewEd25519PrivateKey()
	if err != nil {
		return nil, err
	}
	return &DevKey{
		Address:    crypto.NewAddress(pk.PublicKey().Address().Bytes()),
		PublicKey:  pk.PublicKey().Bytes(),
		PrivateKey: pk.Bytes(),
	}, nil
}

func writeToConsole(a any, err lib.ErrorI) {
	if err != nil {
		l.Fatal(err.Error())
	}
	switch x := a.(type) {
	case int, uint32, uint64:
		p := message.NewPrinter(language.English)
		if _, e := p.Printf("%d\n", x); e != nil {
			l.Fatal(e.Error())
		}
	case *uint64:
		writeToConsole(*x, nil)
	case *string:
		fmt.Println(*x)
	case string:
		fmt.Println(x)
	default:
		s, e := lib.MarshalJSONIndentString(a)
		if e != nil {
			l.Fatal(e.Error())
		}
		fmt.Println(s)
	}
}
