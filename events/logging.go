package events

import "go.uber.org/zap"

// NewLogger builds the zap logger backing verbose/debug output
// routing, mirroring the teacher's verbose-bool toggle
// (AuthenticatedClient.verbose in rsds143/astra-mgmt-go) generalized
// into a real leveled logger.
func NewLogger(verbose bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
