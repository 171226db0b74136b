package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStorage(t *testing.T) {
	// Create temporary directory for test
	tempDir, err := os.MkdirTemp("", "stats-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	// Create new storage
	storage, err := NewStorage(tempDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	// Test incrementing stats
	t.Run("IncrementStats", func(t *testing.T) {
		storage.IncrementStats(1, 2, 3, 4)
		stats := storage.GetCurrentStats()

		if stats.SemanticRuns != 1 {
			t.Errorf("Expected 1 semantic run, got %d", stats.SemanticRuns)
		}
		if stats.HeuristicRuns != 2 {
			t.Errorf("Expected 2 heuristic runs, got %d", stats.HeuristicRuns)
		}
		if stats.FailedRuns != 3 {
			t.Errorf("Expected 3 failed runs, got %d", stats.FailedRuns)
		}
		if stats.EncoderFallbacks != 4 {
			t.Errorf("Expected 4 encoder fallbacks, got %d", stats.EncoderFallbacks)
		}
	})

	// Test persistence
	t.Run("Persistence", func(t *testing.T) {
		// Force a save
		storage.requestWrite()
		time.Sleep(100 * time.Millisecond) // Give time for the write to complete

		// Create new storage instance pointing to same directory
		storage2, err := NewStorage(tempDir)
		if err != nil {
			t.Fatalf("Failed to create second storage: %v", err)
		}

		stats := storage2.GetCurrentStats()
		if stats.SemanticRuns != 1 {
			t.Errorf("Expected 1 semantic run after reload, got %d", stats.SemanticRuns)
		}
	})

	// Test cleanup
	t.Run("Cleanup", func(t *testing.T) {
		// Add some old stats
		oldMonth := time.Now().AddDate(0, -2, 0).Format("2006-01")
		storage.stats[oldMonth] = &MonthlyStats{
			SemanticRuns: 100,
			LastUpdated:  time.Now().AddDate(0, -2, 0),
		}

		// Run cleanup
		storage.Cleanup()

		// Verify old stats are gone
		if _, exists := storage.stats[oldMonth]; exists {
			t.Error("Old stats should have been cleaned up")
		}
	})

	// Test file size
	t.Run("FileSize", func(t *testing.T) {
		// Force a save
		storage.requestWrite()
		time.Sleep(100 * time.Millisecond) // Give time for the write to complete

		// Check file size
		info, err := os.Stat(filepath.Join(tempDir, "stats.json"))
		if err != nil {
			t.Fatalf("Failed to stat file: %v", err)
		}

		// File should be relatively small (< 1KB for this test data)
		if info.Size() > 1024 {
			t.Errorf("File size too large: %d bytes", info.Size())
		}
	})

	// Test concurrent access
	t.Run("ConcurrentAccess", func(t *testing.T) {
		done := make(chan bool)
		for i := 0; i < 10; i++ {
			go func() {
				for j := 0; j < 100; j++ {
					storage.IncrementStats(1, 1, 0, 0)
					storage.GetCurrentStats()
				}
				done <- true
			}()
		}

		// Wait for all goroutines to complete
		for i := 0; i < 10; i++ {
			<-done
		}

		// Verify final counts
		stats := storage.GetCurrentStats()
		expectedCount := 1000 // 10 goroutines * 100 iterations
		if stats.SemanticRuns != expectedCount+1 {
			t.Errorf("Expected %d semantic runs, got %d", expectedCount+1, stats.SemanticRuns)
		}
		if stats.HeuristicRuns != expectedCount+2 {
			t.Errorf("Expected %d heuristic runs, got %d", expectedCount+2, stats.HeuristicRuns)
		}
	})
}
