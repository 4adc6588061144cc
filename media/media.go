package media

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SaveUpload stores an uploaded image under root/subdir with a timestamped
// filename and returns the public path the entity should reference.
func SaveUpload(c *gin.Context, file *multipart.FileHeader, root, subdir string) (string, error) {
	dir := filepath.Join(root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	name := strings.ReplaceAll(filepath.Base(file.Filename), " ", "_")
	name = fmt.Sprintf("%d_%s", time.Now().UnixNano(), name)

	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return fmt.Sprintf("/media/%s/%s", subdir, name), nil
}
