package httpapi

import (
	"go.uber.org/zap"

	"github.com/spigell/lead-scorer/internal/session"
)

// Deps holds what the handlers need.
type Deps struct {
	Sessions *session.Coordinator
	Logger   *zap.Logger

	// MaxUploadBytes caps lead uploads. Zero means defaultMaxUpload.
	MaxUploadBytes int64
}
