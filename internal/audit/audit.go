// Package audit persists run summaries in a SQLite database so results can
// be inspected after the console output is gone: one row per run, one per
// file result, one per recorded message.
package audit

import (
	"errors"
	"fmt"
	golog "log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/backmassage/muxsweep/internal/result"
)

// Message kinds.
const (
	KindInfo             = "info"
	KindWarning          = "warning"
	KindError            = "error"
	KindException        = "exception"
	KindToleranceFailure = "tolerance_failure"
)

// Run is one persisted run.
type Run struct {
	gorm.Model
	RunID          string `gorm:"uniqueIndex"`
	Status         bool
	Started        time.Time
	Finished       time.Time
	ElapsedSeconds float64
	TotalSaved     int64
	Files          []File    `gorm:"foreignKey:RunRefID"`
	Messages       []Message `gorm:"foreignKey:RunRefID"`
}

// File is one persisted file result.
type File struct {
	gorm.Model
	RunRefID     uint   `gorm:"index"`
	Path         string `gorm:"index"`
	Status       bool
	InputSize    int64
	OutputSize   int64
	BytesSaved   int64
	PercentSaved float64
	Started      time.Time
	Finished     time.Time
	Messages     []Message `gorm:"foreignKey:FileRefID"`
}

// Message is one recorded message. FileRefID is nil for run-scoped messages.
type Message struct {
	gorm.Model
	RunRefID  uint  `gorm:"index"`
	FileRefID *uint `gorm:"index"`
	Kind      string
	Text      string
}

// Store wraps the audit database.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}
	gormLogger := logger.New(
		golog.New(os.Stderr, "\r\n", golog.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open audit database %s: %w", path, err)
	}

	// single connection so writes never contend
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("audit database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Run{}, &File{}, &Message{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate audit database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveRun stores s in one transaction. Saving the same run ID twice
// replaces nothing and returns an error.
func (s *Store) SaveRun(sum result.Summary) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		run := Run{
			RunID:          sum.ID,
			Status:         sum.Status,
			Started:        sum.Started,
			Finished:       sum.Finished,
			ElapsedSeconds: sum.ElapsedSeconds,
			TotalSaved:     sum.TotalSaved,
		}
		if err := tx.Create(&run).Error; err != nil {
			return fmt.Errorf("save run %s: %w", sum.ID, err)
		}

		msgs := runMessages(run.ID, nil, map[string][]string{
			KindInfo:      sum.Infos,
			KindWarning:   sum.Warnings,
			KindError:     sum.Errors,
			KindException: sum.Exceptions,
		})

		for _, fs := range sum.Files {
			f := File{
				RunRefID:     run.ID,
				Path:         fs.Path,
				Status:       fs.Status,
				BytesSaved:   fs.BytesSaved,
				PercentSaved: fs.PercentSaved,
				Started:      fs.Started,
				Finished:     fs.Finished,
			}
			if fs.Stats != nil {
				f.InputSize = fs.Stats.InputSize
				f.OutputSize = fs.Stats.OutputSize
			}
			if err := tx.Create(&f).Error; err != nil {
				return fmt.Errorf("save file %s: %w", fs.Path, err)
			}
			fileID := f.ID
			msgs = append(msgs, runMessages(run.ID, &fileID, map[string][]string{
				KindInfo:             fs.Infos,
				KindWarning:          fs.Warnings,
				KindError:            fs.Errors,
				KindException:        fs.Exceptions,
				KindToleranceFailure: fs.ToleranceFailures,
			})...)
		}

		if len(msgs) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(msgs, 200).Error; err != nil {
			return fmt.Errorf("save messages: %w", err)
		}
		return nil
	})
}

// messageKinds fixes the insertion order of message kinds.
var messageKinds = []string{KindInfo, KindWarning, KindError, KindException, KindToleranceFailure}

func runMessages(runID uint, fileID *uint, byKind map[string][]string) []Message {
	var out []Message
	for _, kind := range messageKinds {
		for _, text := range byKind[kind] {
			out = append(out, Message{RunRefID: runID, FileRefID: fileID, Kind: kind, Text: text})
		}
	}
	return out
}

// ErrNotFound is returned when no matching run exists.
var ErrNotFound = errors.New("run not found")

// RunByID loads a run with its files and all messages.
func (s *Store) RunByID(runID string) (*Run, error) {
	return s.loadRun(s.db.Where("run_id = ?", runID))
}

// LatestRun loads the most recently stored run.
func (s *Store) LatestRun() (*Run, error) {
	return s.loadRun(s.db.Order("id DESC"))
}

func (s *Store) loadRun(q *gorm.DB) (*Run, error) {
	var run Run
	err := q.
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Files.Messages", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Messages", "file_ref_id IS NULL").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// FileHistory returns every stored result for path, oldest first.
func (s *Store) FileHistory(path string) ([]File, error) {
	var files []File
	err := s.db.Where("path = ?", path).Order("id").Find(&files).Error
	return files, err
}
