package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ukumbi/arenapay"
	"github.com/ukumbi/arenapay/config"
	"github.com/ukumbi/arenapay/database"
	"github.com/ukumbi/arenapay/internal/notification"
)

// ArenapayCLI is the root of the command-line application.
type ArenapayCLI struct {
	cmd *cobra.Command
}

// appInstance holds the service and its configuration for subcommands.
type appInstance struct {
	arenapay *arenapay.Arenapay
	cnf      *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads configuration and wires the service before any subcommand
// executes.
func preRun(app *appInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("arenapay.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		service, err := setupService(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.arenapay = service
		app.cnf = cnf

		return nil
	}
}

func setupService(cfg *config.Configuration) (*arenapay.Arenapay, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	service, err := arenapay.NewArenapay(db)
	if err != nil {
		return nil, fmt.Errorf("error creating arenapay service: %v", err)
	}
	return service, nil
}

func NewCLI() *ArenapayCLI {
	var configFile string
	app := &appInstance{}

	var rootCmd = &cobra.Command{
		Use:   "arenapay",
		Short: "tournament payments for the campus efootball community",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./arenapay.json", "Configuration file for arenapay")
	rootCmd.PersistentPreRunE = preRun(app)

	rootCmd.AddCommand(serverCommands(app))
	rootCmd.AddCommand(workerCommands(app))
	rootCmd.AddCommand(migrateCommands(app))

	return &ArenapayCLI{cmd: rootCmd}
}

func (w ArenapayCLI) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
