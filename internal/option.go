package internal

import (
	"io"
	"os"

	"github.com/starford/filenav/internal/ui"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	stdout io.Writer
	stderr io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOutput redirects the CLI commands' output. Defaults to os.Stdout and
// os.Stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *application) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

func newApplication(opts []Option) (*application, error) {
	app := &application{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, errConfigRequired
	}
	return app, nil
}

func printerFor(w io.Writer) *ui.Printer {
	if f, ok := w.(*os.File); ok {
		return ui.NewPrinter(f)
	}
	return ui.NewPlainPrinter(w)
}
