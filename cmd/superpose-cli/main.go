// Superpose CLI — инструмент командной строки для маршрутизации
// запросов и просмотра групп, путей и observations через HTTP API.
//
// Использование:
//
//	superpose [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	route   Отправка запроса через группу
//	group   Просмотр routing groups
//	path    Просмотр observations путей
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Superpose/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "superpose",
		Short:         "Superpose CLI — adaptive request routing tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewRouteCmd(clientFn, outputFn),
		cli.NewGroupCmd(clientFn, outputFn),
		cli.NewPathCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
