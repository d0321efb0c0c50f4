package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/browser"
)

// EvidenceCapture saves page screenshots at lifecycle milestones so a
// reviewer can see what the form looked like before and after submit.
type EvidenceCapture struct {
	outputDir string
}

func NewEvidenceCapture(outputDir string) *EvidenceCapture {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create screenshot directory: %v", err)
	}
	return &EvidenceCapture{outputDir: outputDir}
}

// Capture writes a full-page screenshot named after the session and stage.
// Failures are logged; evidence is never worth failing a session over.
func (e *EvidenceCapture) Capture(page browser.Engine, sessionID, stage string) (string, error) {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s_%s.png", sessionID, stage, timestamp)
	path := filepath.Join(e.outputDir, filename)

	if err := page.CaptureScreenshot(path); err != nil {
		log.Printf("⚠️ Failed to capture %s screenshot: %v", stage, err)
		return "", err
	}

	log.Printf("📸 Screenshot saved: %s", path)
	return path, nil
}
