package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// New builds a logger at level writing to w.
func New(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l, nil
}

// NewFile is like New but appends to the file at path. The returned closer
// releases the file.
func NewFile(level, path string) (*logrus.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, errors.Wrap(err, "log dir")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open log file")
	}
	l, err := New(level, f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return l, f, nil
}

// Discard returns a logger that drops everything. Used when no logger is wired.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
