package bookmaker

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/config"
	"github.com/yourusername/pitchside/internal/models"
)

// New creates the bookmaker client named in the configuration. Unknown
// names surface models.ErrUnknownBookmaker.
func New(cfg *config.BookmakerConfig, log *logrus.Logger) (Client, error) {
	switch strings.ToLower(cfg.Name) {
	case pinnacleName:
		return NewPinnacleClient(cfg, log), nil
	default:
		return nil, fmt.Errorf("bookmaker %q: %w", cfg.Name, models.ErrUnknownBookmaker)
	}
}
