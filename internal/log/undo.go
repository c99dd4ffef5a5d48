package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type UndoResult struct {
	Operation OperationLog
	Success   bool
	Error     error
}

// UndoOperation reverses a single logged operation. Moves and copies are
// reversed by renaming the destination back to the source; undoing a copy
// across volumes fails with an explanatory error rather than risking a
// second unverified copy.
func UndoOperation(op OperationLog) UndoResult {
	result := UndoResult{Operation: op}

	switch op.Type {
	case OpMove, OpCopy:
		if op.DestPath == "" {
			result.Error = fmt.Errorf("cannot undo %s: destination path missing", op.Type)
			return result
		}
		if _, err := os.Stat(op.DestPath); os.IsNotExist(err) {
			result.Error = fmt.Errorf("cannot undo %s: file %s not found", op.Type, op.DestPath)
			return result
		}
		if _, err := os.Stat(op.SourcePath); err == nil {
			result.Error = fmt.Errorf("cannot undo %s: original path %s already exists", op.Type, op.SourcePath)
			return result
		}
		if err := os.MkdirAll(filepath.Dir(op.SourcePath), 0755); err != nil {
			result.Error = fmt.Errorf("failed to recreate source directory: %w", err)
			return result
		}
		if err := os.Rename(op.DestPath, op.SourcePath); err != nil {
			result.Error = fmt.Errorf("failed to move %s back to %s: %w", op.DestPath, op.SourcePath, err)
			return result
		}
		result.Success = true

	case OpCreateDir:
		if op.DestPath == "" {
			result.Error = fmt.Errorf("cannot undo directory creation: path missing")
			return result
		}
		info, err := os.Stat(op.DestPath)
		if os.IsNotExist(err) {
			// Already removed.
			result.Success = true
			return result
		}
		if err != nil {
			result.Error = err
			return result
		}
		if !info.IsDir() {
			result.Error = fmt.Errorf("path %s is not a directory", op.DestPath)
			return result
		}
		entries, err := os.ReadDir(op.DestPath)
		if err != nil {
			result.Error = fmt.Errorf("failed to read directory %s: %w", op.DestPath, err)
			return result
		}
		if len(entries) > 0 {
			result.Error = fmt.Errorf("cannot remove directory %s: not empty", op.DestPath)
			return result
		}
		if err := os.Remove(op.DestPath); err != nil {
			result.Error = fmt.Errorf("failed to remove directory %s: %w", op.DestPath, err)
			return result
		}
		result.Success = true

	default:
		result.Error = fmt.Errorf("unknown operation type: %s", op.Type)
	}

	return result
}

// UndoSession reverses every successful operation of a session in reverse
// order.
func UndoSession(session *LogSession) (successful int, failed int, errors []error) {
	for i := len(session.Operations) - 1; i >= 0; i-- {
		op := session.Operations[i]
		if !op.Success {
			continue
		}

		result := UndoOperation(op)
		if result.Success {
			successful++
		} else {
			failed++
			if result.Error != nil {
				errors = append(errors, result.Error)
			}
		}
	}
	return successful, failed, errors
}

// FindLatestSession returns the most recent session and the log file holding it.
func FindLatestSession() (*LogSession, string, error) {
	files, err := listLogFiles()
	if err != nil {
		return nil, "", err
	}
	if len(files) == 0 {
		return nil, "", fmt.Errorf("no sessions found")
	}

	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	session, err := ReadSession(files[0])
	if err != nil {
		return nil, "", err
	}
	return session, files[0], nil
}
