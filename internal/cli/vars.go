package cli

import (
	"log"

	"github.com/valter-silva-au/agent-metrics/internal/core"
	"github.com/valter-silva-au/agent-metrics/internal/observability"
	"github.com/valter-silva-au/agent-metrics/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath  string
	Config    *models.MetricsConfig
	ConfigMgr core.ConfigurationManager
	Analyzer  core.MetricsAnalyzer
	Logger    *log.Logger

	AlertEngine observability.AlertEngine
	Notifier    observability.Notifier
)

func requireAnalyzer() error {
	if Analyzer == nil {
		return errNotInitialized("metrics analyzer")
	}
	return nil
}
