package main

import (
	"fmt"
	"os"
	"strings"

	"modboard/service"
)

// CliVersion is the version reported by the version command.
const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args to a command and exits with its status.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
		exit(0)
	case "version":
		fmt.Printf("modboard version %s\n", CliVersion)
		exit(0)
	case "serve", "db", "token":
		cfg, err := service.LoadConfig(".env")
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			exit(1)
			return
		}
		exit(run(cmd, cfg, os.Args[2:]))
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func run(cmd string, cfg service.Config, args []string) int {
	switch cmd {
	case "serve":
		return service.RunAppServer(cfg, args)
	case "db":
		return service.HandleCommand(cfg, args)
	default:
		return service.RunTokenCommand(cfg, args)
	}
}

func printHelp() {
	helpText := `Usage: modboard <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve [--addr <addr>] [--db <dir>] [--in-memory] [--seed]
                                 Run the moderation API.
  db <command>                   Database maintenance: clean, init, backup, restore <file>.
  token --clerk-id <id> [--role <role>] [--ttl <duration>]
                                 Mint a development bearer token.

Configuration is read from the environment and an optional .env file:
  MODBOARD_ADDR, MODBOARD_DB_PATH, MODBOARD_BACKUP_DIR, MODBOARD_JWT_SECRET
`
	fmt.Println(helpText)
}
