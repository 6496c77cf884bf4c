package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	simpletemplate "github.com/simpletemplate/simpletemplate-go"
	"github.com/simpletemplate/simpletemplate-go/datafile"
	"github.com/simpletemplate/simpletemplate-go/lexer"
	"github.com/simpletemplate/simpletemplate-go/value"
)

const stdinName = "-"

type runner struct {
	cfg    *Config
	env    *simpletemplate.Environment
	logger logrus.FieldLogger
	stdin  io.Reader
	stdout io.Writer

	// stdin can only be consumed once; watch mode re-renders reuse it.
	stdinTemplate *string
	stdinData     *value.Value
}

func newRunner(cfg *Config, logger logrus.FieldLogger, stdin io.Reader, stdout io.Writer) (*runner, error) {
	if cfg.Template == "" {
		return nil, errors.New("no template given: use --template or pass the file as an argument")
	}
	stdinUsers := 0
	if cfg.Template == stdinName {
		stdinUsers++
	}
	for _, path := range cfg.Data.Value() {
		if path == stdinName {
			stdinUsers++
		}
	}
	if stdinUsers > 1 {
		return nil, errors.New("stdin can only be used for one of the template and data files")
	}

	opts := []simpletemplate.Option{simpletemplate.WithLogger(logger)}
	if cfg.Delims != "" {
		syntax, err := lexer.ParseDelimiters(cfg.Delims)
		if err != nil {
			return nil, errors.Wrap(err, "invalid --delims")
		}
		opts = append(opts, simpletemplate.WithSyntax(syntax))
	}
	if cfg.Strict {
		opts = append(opts,
			simpletemplate.WithParseMode(simpletemplate.ParseStrict),
			simpletemplate.WithUndefinedBehavior(simpletemplate.UndefinedStrict))
	}
	if cfg.Template != stdinName {
		opts = append(opts, simpletemplate.WithLoader(simpletemplate.PathLoader(filepath.Dir(cfg.Template))))
	}

	return &runner{
		cfg:    cfg,
		env:    simpletemplate.NewEnvironment(opts...),
		logger: logger,
		stdin:  stdin,
		stdout: stdout,
	}, nil
}

func (r *runner) loadTemplate() (*simpletemplate.Template, error) {
	if r.cfg.Template != stdinName {
		// Changed files have to be read again.
		r.env.ClearTemplates()
		return r.env.GetTemplate(filepath.ToSlash(filepath.Base(r.cfg.Template)))
	}

	if r.stdinTemplate == nil {
		src, err := io.ReadAll(r.stdin)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read template from stdin")
		}
		s := strings.TrimPrefix(string(src), "\ufeff")
		r.stdinTemplate = &s
	}
	return r.env.TemplateFromNamedString("<stdin>", *r.stdinTemplate)
}

func (r *runner) loadData() (value.Value, error) {
	var sources []value.Value
	for _, path := range r.cfg.Data.Value() {
		if path == stdinName {
			v, err := r.readStdinData()
			if err != nil {
				return value.Undefined(), err
			}
			sources = append(sources, v)
			continue
		}

		v, err := datafile.Load(path)
		if err != nil {
			return value.Undefined(), err
		}
		if v.Kind() != value.KindMap {
			r.logger.Warnf("Data file %s holds %s, not an object; ignoring it", path, v.Kind())
			continue
		}
		r.logger.WithField("keys", len(v.Keys())).Debugf("Loaded data file %s", path)
		sources = append(sources, v)
	}

	overrides, err := datafile.Overrides(r.cfg.Set.Value())
	if err != nil {
		return value.Undefined(), err
	}
	sources = append(sources, overrides)
	return value.MergeMaps(sources...), nil
}

func (r *runner) readStdinData() (value.Value, error) {
	if r.stdinData != nil {
		return *r.stdinData, nil
	}
	format, err := datafile.ParseFormat(r.cfg.Format)
	if err != nil {
		return value.Undefined(), err
	}
	v, err := datafile.Read(r.stdin, format)
	if err != nil {
		return value.Undefined(), errors.Wrap(err, "failed to decode data from stdin")
	}
	r.stdinData = &v
	return v, nil
}

// render performs one full pass: load the template and data, then print
// the requested output.
func (r *runner) render() error {
	tmpl, err := r.loadTemplate()
	if err != nil {
		return err
	}
	for _, w := range tmpl.Warnings() {
		r.logger.Warnf("Kept malformed block as text: %v", w)
	}

	switch {
	case r.cfg.ListVars:
		for _, name := range tmpl.UndeclaredVariables() {
			fmt.Fprintln(r.stdout, name)
		}
		return nil
	case r.cfg.AST:
		_, err := io.WriteString(r.stdout, tmpl.Dump())
		return err
	}

	data, err := r.loadData()
	if err != nil {
		return err
	}
	out, err := tmpl.RenderValue(data)
	if err != nil {
		return err
	}
	return r.write(out)
}

func (r *runner) write(out string) error {
	if r.cfg.Output == "" || r.cfg.Output == stdinName {
		_, err := io.WriteString(r.stdout, out)
		return err
	}
	if err := atomic.WriteFile(r.cfg.Output, strings.NewReader(out)); err != nil {
		return errors.Wrapf(err, "failed to write %s", r.cfg.Output)
	}
	r.logger.Infof("Rendered %s to %s", r.cfg.Template, r.cfg.Output)
	return nil
}
