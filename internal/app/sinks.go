package app

import (
	"errors"
	"io"
	"os"

	"github.com/agbru/ulam/internal/cli"
	"github.com/agbru/ulam/internal/config"
	apperrors "github.com/agbru/ulam/internal/errors"
	"github.com/agbru/ulam/internal/export"
)

// fileSink closes the file under a sink once the sink is flushed.
type fileSink struct {
	export.Sink
	file *os.File
}

func (s *fileSink) Name() string { return export.NameOf(s.Sink) }

func (s *fileSink) Close() error {
	return errors.Join(s.Sink.Close(), s.file.Close())
}

// openSinks builds the destination of a run: the formatted stream on out or
// on -output, fanned out to SQLite when -db is set.
func openSinks(cfg config.AppConfig, out io.Writer) (export.Sink, error) {
	var file *os.File
	if cfg.OutputFile != "" {
		f, err := cli.OpenOutput(cfg.OutputFile)
		if err != nil {
			return nil, apperrors.NewOutputError("file", err)
		}
		file = f
		out = f
	}

	primary, err := export.NewSink(cfg.Format, out)
	if err != nil {
		if file != nil {
			file.Close()
		}
		return nil, apperrors.NewConfigError("%v", err)
	}
	if file != nil {
		primary = &fileSink{Sink: primary, file: file}
	}

	if cfg.DBPath == "" {
		return primary, nil
	}
	db, err := export.OpenSQLiteSink(cfg.DBPath)
	if err != nil {
		primary.Close()
		return nil, apperrors.NewOutputError("sqlite", err)
	}
	return export.NewMultiSink(primary, db), nil
}
