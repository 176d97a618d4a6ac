package service

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"modboard/app/models"
	"modboard/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(f func()) string {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Run the function
	f()

	// Restore stdout and close pipe
	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func mockStdin(input string, f func()) {
	oldStdin := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r

	// Write input in a goroutine to avoid blocking
	go func() {
		w.Write([]byte(input))
		w.Close()
	}()

	// Run the function
	f()

	// Restore stdin
	os.Stdin = oldStdin
}

func testConfig(t *testing.T) Config {
	tmpDir := t.TempDir()
	return Config{
		Addr:      ":0",
		DBPath:    filepath.Join(tmpDir, "test.db"),
		BackupDir: filepath.Join(tmpDir, "backups"),
		JWTSecret: "test-secret",
	}
}

// seedPostAt writes a single post into a badger database at path.
func seedPostAt(t *testing.T, path, title string) {
	store, err := repositories.NewBadgerStore(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Update(func(tx repositories.Tx) error {
		return tx.Posts().Create(&models.Post{
			Title:    title,
			Content:  "body",
			AuthorID: 1,
			Date:     time.Now().UTC(),
			Status:   models.PostPending,
		})
	}))
}

func TestHandleCommand(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name           string
		args           []string
		expectedOutput string
		expectedExit   int
	}{
		{
			name:           "no arguments",
			args:           []string{},
			expectedOutput: "Usage: modboard db <command>\n\nCommands:",
			expectedExit:   1,
		},
		{
			name:           "help command",
			args:           []string{"help"},
			expectedOutput: "Usage: modboard db <command>\n\nCommands:",
			expectedExit:   0,
		},
		{
			name:           "unknown command",
			args:           []string{"unknown"},
			expectedOutput: "Unknown db command: unknown",
			expectedExit:   1,
		},
		{
			name:           "restore without file",
			args:           []string{"restore"},
			expectedOutput: "Error: backup file path required for restore",
			expectedExit:   1,
		},
		{
			name:           "backup without database",
			args:           []string{"backup"},
			expectedOutput: "Error: no database exists to backup",
			expectedExit:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var exitCode int
			oldOsExit := osExit
			defer func() { osExit = oldOsExit }()
			osExit = func(code int) {
				exitCode = code
				panic("exit")
			}

			output := captureOutput(func() {
				defer func() {
					if r := recover(); r != nil {
						if r != "exit" {
							panic(r)
						}
					}
				}()
				HandleCommand(cfg, tt.args)
			})

			assert.Contains(t, output, tt.expectedOutput)
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

func TestInitDb(t *testing.T) {
	cfg := testConfig(t)

	t.Run("initialize new database", func(t *testing.T) {
		output := captureOutput(func() {
			initDb(cfg.DBPath)
		})

		assert.Contains(t, output, "Database initialized successfully")
		assert.DirExists(t, cfg.DBPath)
	})

	t.Run("initialize existing database", func(t *testing.T) {
		output := captureOutput(func() {
			initDb(cfg.DBPath)
		})

		assert.Contains(t, output, "Database already exists")
	})
}

func TestClean(t *testing.T) {
	cfg := testConfig(t)

	t.Run("clean non-existent database", func(t *testing.T) {
		output := captureOutput(func() {
			clean(cfg.DBPath)
		})

		assert.Contains(t, output, "Database is already clean")
	})

	t.Run("clean existing database - cancelled", func(t *testing.T) {
		captureOutput(func() { initDb(cfg.DBPath) })
		require.DirExists(t, cfg.DBPath)

		var output string
		mockStdin("n\n", func() {
			output = captureOutput(func() {
				clean(cfg.DBPath)
			})
		})

		assert.Contains(t, output, "Operation cancelled")
		assert.DirExists(t, cfg.DBPath)
	})

	t.Run("clean existing database - confirmed", func(t *testing.T) {
		require.DirExists(t, cfg.DBPath)

		var output string
		mockStdin("y\n", func() {
			output = captureOutput(func() {
				clean(cfg.DBPath)
			})
		})

		assert.Contains(t, output, "Database cleaned successfully")
		assert.NoDirExists(t, cfg.DBPath)
	})
}

func TestBackup(t *testing.T) {
	cfg := testConfig(t)

	t.Run("backup non-existent database", func(t *testing.T) {
		_, err := backup(cfg.DBPath, cfg.BackupDir)
		assert.EqualError(t, err, "no database exists to backup")
	})

	t.Run("backup existing database", func(t *testing.T) {
		seedPostAt(t, cfg.DBPath, "backed up")

		var file string
		var err error
		output := captureOutput(func() {
			file, err = backup(cfg.DBPath, cfg.BackupDir)
		})

		require.NoError(t, err)
		assert.Contains(t, output, "Database backed up successfully")
		assert.FileExists(t, file)
		assert.FileExists(t, file+digestSuffix)
		assert.Equal(t, cfg.BackupDir, filepath.Dir(file))
	})
}

func TestRestore(t *testing.T) {
	cfg := testConfig(t)
	seedPostAt(t, cfg.DBPath, "survives restore")

	var backupFile string
	captureOutput(func() {
		var err error
		backupFile, err = backup(cfg.DBPath, cfg.BackupDir)
		require.NoError(t, err)
	})

	t.Run("restore non-existent backup", func(t *testing.T) {
		var code int
		output := captureOutput(func() {
			code = restore(cfg.DBPath, filepath.Join(t.TempDir(), "nonexistent.db"))
		})

		assert.Contains(t, output, "Backup file does not exist")
		assert.Equal(t, 1, code)
	})

	t.Run("restore to clean state", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "restored.db")
		var code int
		output := captureOutput(func() {
			code = restore(target, backupFile)
		})

		require.Equal(t, 0, code, output)
		assert.Contains(t, output, "Database restored successfully")

		store, err := repositories.NewBadgerStore(target)
		require.NoError(t, err)
		defer store.Close()
		require.NoError(t, store.View(func(tx repositories.Tx) error {
			post, err := tx.Posts().GetByID(1)
			require.NoError(t, err)
			assert.Equal(t, "survives restore", post.Title)
			return nil
		}))
	})

	t.Run("restore with existing database - cancelled", func(t *testing.T) {
		var code int
		var output string
		mockStdin("n\n", func() {
			output = captureOutput(func() {
				code = restore(cfg.DBPath, backupFile)
			})
		})

		assert.Contains(t, output, "Operation cancelled")
		assert.Equal(t, 1, code)
		assert.DirExists(t, cfg.DBPath)
	})

	t.Run("restore with existing database - confirmed", func(t *testing.T) {
		var code int
		var output string
		mockStdin("y\n", func() {
			output = captureOutput(func() {
				code = restore(cfg.DBPath, backupFile)
			})
		})

		assert.Contains(t, output, "Database restored successfully")
		assert.Equal(t, 0, code)
	})

	t.Run("tampered backup is refused", func(t *testing.T) {
		data, err := os.ReadFile(backupFile)
		require.NoError(t, err)
		tampered := filepath.Join(t.TempDir(), "tampered.db")
		require.NoError(t, os.WriteFile(tampered, append(data, 0x00), 0644))
		digest, err := os.ReadFile(backupFile + digestSuffix)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(tampered+digestSuffix, digest, 0644))

		target := filepath.Join(t.TempDir(), "never.db")
		var code int
		output := captureOutput(func() {
			code = restore(target, tampered)
		})

		assert.Contains(t, output, "Refusing to restore: backup digest mismatch")
		assert.Equal(t, 1, code)
		assert.NoDirExists(t, target)
	})

	t.Run("empty backup is refused", func(t *testing.T) {
		empty := filepath.Join(t.TempDir(), "empty.db")
		require.NoError(t, os.WriteFile(empty, nil, 0644))

		var code int
		output := captureOutput(func() {
			code = restore(filepath.Join(t.TempDir(), "x.db"), empty)
		})

		assert.Contains(t, output, "Backup file is empty")
		assert.Equal(t, 1, code)
	})
}

func TestVerifyBackup(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain.db")

	output := captureOutput(func() {
		assert.NoError(t, verifyBackup(file, []byte("data")))
	})
	assert.Contains(t, output, "no digest found")
}
