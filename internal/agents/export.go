package agents

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/pressdesk/internal/errors"
)

// WriteExport saves a report's download file into dir and returns its path.
func WriteExport(dir string, report Report, now time.Time) (string, error) {
	name, content, ok := report.Export(now)
	if !ok {
		return "", errors.New(errors.ErrCodeInputInvalid,
			fmt.Sprintf("%s results cannot be saved to a file", report.Kind().Title()))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeDirectoryFailed, fmt.Sprintf("failed to create %s", dir), err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to write %s", path), err)
	}
	return path, nil
}
