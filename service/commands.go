package service

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/crypto/sha3"
)

var osExit = os.Exit

// digestSuffix names the SHA3-256 sidecar written next to every backup.
const digestSuffix = ".sha3"

// HandleCommand handles db subcommands and returns an exit code.
func HandleCommand(cfg Config, args []string) int {
	if len(args) < 1 {
		printDBHelp()
		osExit(1)
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "clean":
		clean(cfg.DBPath)
		return 0
	case "init":
		initDb(cfg.DBPath)
		return 0
	case "backup":
		if _, err := backup(cfg.DBPath, cfg.BackupDir); err != nil {
			fmt.Printf("Error: %v\n", err)
			osExit(1)
			return 1
		}
		return 0
	case "restore":
		if len(args) < 2 {
			fmt.Println("Error: backup file path required for restore")
			osExit(1)
			return 1
		}
		return restore(cfg.DBPath, args[1])
	case "help":
		printDBHelp()
		return 0
	default:
		fmt.Printf("Unknown db command: %s\n\n", cmd)
		printDBHelp()
		osExit(1)
		return 1
	}
}

// printDBHelp prints help for db subcommands.
func printDBHelp() {
	helpText := `Usage: modboard db <command>

Commands:
  clean                           Delete the database (asks for confirmation)
  init                            Initialize a new empty database
  backup                          Write a backup and its SHA3-256 digest to the backup directory
  restore <file>                  Restore the database from a backup, verifying its digest
  help                            Display this help message
`
	fmt.Println(helpText)
}

func confirm(prompt string) bool {
	fmt.Print(prompt + " [y/N] ")
	response, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	response = strings.TrimSpace(response)
	return response == "y" || response == "Y"
}

// clean removes the database.
func clean(dbPath string) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("Database is already clean (does not exist)")
		return
	}

	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Println("Operation cancelled")
		return
	}

	if err := os.RemoveAll(dbPath); err != nil {
		fmt.Printf("Failed to clean database: %v\n", err)
		return
	}
	fmt.Println("Database cleaned successfully")
}

// initDb initializes a new empty database.
func initDb(dbPath string) {
	if _, err := os.Stat(dbPath); err == nil {
		fmt.Println("Database already exists. Use 'clean' first if you want to reinitialize.")
		return
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return
	}

	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLogger(nil))
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		return
	}
	defer db.Close()

	fmt.Println("Database initialized successfully")
}

// backup streams a full backup into backupDir and writes the hex SHA3-256
// digest of the backup to a sidecar file. It returns the backup path.
func backup(dbPath, backupDir string) (string, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return "", errors.New("no database exists to backup")
	}

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLogger(nil))
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	hash := sha3.New256()
	if _, err := db.Backup(io.MultiWriter(f, hash), 0); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	digest := hex.EncodeToString(hash.Sum(nil))
	if err := os.WriteFile(backupFile+digestSuffix, []byte(digest+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to write backup digest: %w", err)
	}

	fmt.Printf("Database backed up successfully to %s (sha3-256 %s)\n", backupFile, digest)
	return backupFile, nil
}

// verifyBackup checks data against the sidecar digest of backupFile. A
// missing sidecar is reported but not fatal.
func verifyBackup(backupFile string, data []byte) error {
	want, err := os.ReadFile(backupFile + digestSuffix)
	if os.IsNotExist(err) {
		fmt.Printf("Warning: no digest found for %s, skipping verification\n", backupFile)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read backup digest: %w", err)
	}
	sum := sha3.Sum256(data)
	if hex.EncodeToString(sum[:]) != strings.TrimSpace(string(want)) {
		return errors.New("backup digest mismatch")
	}
	return nil
}

// restore restores the database from a backup.
func restore(dbPath, backupFile string) int {
	data, err := os.ReadFile(backupFile)
	if os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to read backup file: %v\n", err)
		return 1
	}
	if len(data) == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}
	if err := verifyBackup(backupFile, data); err != nil {
		fmt.Printf("Refusing to restore: %v\n", err)
		return 1
	}

	if _, err := os.Stat(dbPath); err == nil {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(dbPath); err != nil {
			fmt.Printf("Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return 1
	}

	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLogger(nil))
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return db.Load(bytes.NewReader(data), 4)
	}()
	if err != nil {
		fmt.Printf("Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Println("Database restored successfully")
	return 0
}
