package export

import (
	"errors"
	"strings"
)

// ErrIncompleteOptions is returned when any export field is blank
var ErrIncompleteOptions = errors.New("please fill all fields")

// Options is everything one export run needs
type Options struct {
	ServerURL     string
	APIToken      string
	ProjectKey    string
	ProjectRoot   string
	NewOutputRoot string
	ReportPath    string
}

// Validate requires every field to be non-blank
func (o Options) Validate() error {
	for _, v := range []string{o.ServerURL, o.APIToken, o.ProjectKey, o.ProjectRoot, o.NewOutputRoot, o.ReportPath} {
		if strings.TrimSpace(v) == "" {
			return ErrIncompleteOptions
		}
	}
	return nil
}
