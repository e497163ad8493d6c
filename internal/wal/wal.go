// Package wal is the durable outbox for domain events. Services append events
// after a state change commits; the relay drains them to the broker.
package wal

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/broker"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WALEntry is one pending event, stored as a JSON line.
type WALEntry struct {
	EventID   string       `json:"event_id"`
	Event     broker.Event `json:"event"`
	WrittenAt time.Time    `json:"written_at"`
}

// WAL is an append-only JSON-lines file guarded by a mutex.
type WAL struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

// NewWAL opens (or creates) the outbox file at filePath.
func NewWAL(filePath string) (*WAL, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &WAL{
		filePath: filePath,
		file:     file,
	}, nil
}

// Emit assigns id and timestamp when missing and appends the event.
func (w *WAL) Emit(_ context.Context, evt broker.Event) error {
	if evt.ID == "" {
		evt.ID = uuid.New().String()
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	return w.Write(WALEntry{EventID: evt.ID, Event: evt, WrittenAt: time.Now().UTC()})
}

// Write appends an entry and fsyncs it.
func (w *WAL) Write(entry WALEntry) error {
	start := time.Now()
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("WAL: Failed to marshal entry",
			zap.String("event_id", entry.EventID),
			zap.Error(err),
		)
		return err
	}

	if _, err := w.file.Write(append(data, '\n')); err != nil {
		logger.Log.Error("WAL: Failed to write to file",
			zap.String("event_id", entry.EventID),
			zap.Error(err),
		)
		return err
	}

	if err := w.file.Sync(); err != nil {
		logger.Log.Error("WAL: Failed to sync to disk",
			zap.String("event_id", entry.EventID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Debug("WAL: Event appended",
		zap.String("event_id", entry.EventID),
		zap.String("type", string(entry.Event.Type)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// ReadAll returns every pending entry in write order.
func (w *WAL) ReadAll() ([]WALEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.readAllUnsafe()
}

// Cleanup drops the entries whose ids were published and rewrites the file.
func (w *WAL) Cleanup(publishedIDs []string) error {
	if len(publishedIDs) == 0 {
		return nil
	}

	start := time.Now()
	w.mu.Lock()
	defer w.mu.Unlock()

	all, err := w.readAllUnsafe()
	if err != nil {
		logger.Log.Error("WAL: Failed to read entries for cleanup", zap.Error(err))
		return err
	}

	done := make(map[string]struct{}, len(publishedIDs))
	for _, id := range publishedIDs {
		done[id] = struct{}{}
	}

	remaining := make([]WALEntry, 0, len(all))
	for _, entry := range all {
		if _, ok := done[entry.EventID]; !ok {
			remaining = append(remaining, entry)
		}
	}

	if err := w.file.Close(); err != nil {
		logger.Log.Error("WAL: Failed to close file for cleanup", zap.Error(err))
		return err
	}

	tmp := w.filePath + ".tmp"
	if err := writeEntries(tmp, remaining); err != nil {
		logger.Log.Error("WAL: Failed to write compacted file",
			zap.String("temp_file", tmp),
			zap.Error(err),
		)
		return w.reopen(err)
	}

	if err := os.Rename(tmp, w.filePath); err != nil {
		logger.Log.Error("WAL: Failed to replace file",
			zap.String("temp_file", tmp),
			zap.Error(err),
		)
		return w.reopen(err)
	}

	if err := w.reopen(nil); err != nil {
		return err
	}

	logger.Log.Debug("WAL: Cleanup completed",
		zap.Int("before_count", len(all)),
		zap.Int("remaining_count", len(remaining)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// reopen restores the append handle; cause is returned when non-nil.
func (w *WAL) reopen(cause error) error {
	f, err := os.OpenFile(w.filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		logger.Log.Error("WAL: Failed to reopen file",
			zap.String("file_path", w.filePath),
			zap.Error(err),
		)
		return err
	}
	w.file = f
	return cause
}

func writeEntries(path string, entries []WALEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		if _, err := bw.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

// readAllUnsafe reads all entries; caller holds w.mu
func (w *WAL) readAllUnsafe() ([]WALEntry, error) {
	file, err := os.Open(w.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []WALEntry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	entries := []WALEntry{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		var entry WALEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

// Close closes the WAL file
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
