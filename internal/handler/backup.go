package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/varnamer/api/internal/backup"
	"gorm.io/gorm"
)

type BackupHandler struct {
	db  *gorm.DB
	dir string
	now func() time.Time
}

// NewBackupHandler writes snapshots into dir; an empty dir only reports them
func NewBackupHandler(db *gorm.DB, dir string) *BackupHandler {
	return &BackupHandler{db: db, dir: dir, now: time.Now}
}

// Run handles GET /api/cron/backup
func (h *BackupHandler) Run(c *gin.Context) {
	log.Println("Starting database backup...")

	snapshot, err := backup.Collect(c.Request.Context(), h.db, h.now())
	if err != nil {
		backupFailed(c, err)
		return
	}

	var size int
	response := gin.H{}
	if h.dir != "" {
		path, written, err := snapshot.WriteFile(h.dir)
		if err != nil {
			backupFailed(c, err)
			return
		}
		size = written
		response["file"] = path
	} else {
		encoded, err := snapshot.Encode()
		if err != nil {
			backupFailed(c, err)
			return
		}
		size = len(encoded)
	}

	log.Printf("Backup completed: %d mappings, %s MB",
		snapshot.Metadata.Counts.VariableMappings, backup.SizeInMB(size))

	response["success"] = true
	response["timestamp"] = snapshot.Metadata.Timestamp.Format(time.RFC3339)
	response["counts"] = snapshot.Metadata.Counts
	response["sizeInMB"] = backup.SizeInMB(size)
	response["message"] = "Backup completed successfully"
	c.JSON(http.StatusOK, response)
}

func backupFailed(c *gin.Context, err error) {
	log.Printf("Backup failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Backup failed",
		"message": err.Error(),
	})
}
