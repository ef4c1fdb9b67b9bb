package stores

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/validation"
)

// boardDocument is the on-disk JSON shape of a board file.
type boardDocument struct {
	Tasks       []task.Task     `json:"tasks"`
	Statuses    []string        `json:"statuses"`
	Validations validation.Sets `json:"validations"`
}

func readBoardDocument(path string) (boardDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return boardDocument{}, fmt.Errorf("read board file: %w", err)
	}
	var doc boardDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return boardDocument{}, fmt.Errorf("parse board file: %w", err)
	}
	return doc, nil
}

// writeBoardDocument writes atomically via a temp file in the same directory.
func writeBoardDocument(path string, doc boardDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal board file: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create board directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp board file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write board file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close board file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace board file: %w", err)
	}
	return nil
}
