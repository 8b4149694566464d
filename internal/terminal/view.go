// Package terminal renders a calculator in a terminal, redrawing the two
// readouts in place after every line of input.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uilive"
	"go.uber.org/zap"

	"basic-calculator/internal/engine"
)

// readoutWidth is the column count the readouts are right-aligned to.
const readoutWidth = 32

// View is a line-oriented calculator front end.
type View struct {
	engine *engine.Engine
	live   *uilive.Writer
	logger *zap.Logger

	notice string
}

// New returns a view that draws e onto out.
func New(out io.Writer, e *engine.Engine, logger *zap.Logger) *View {
	if logger == nil {
		logger = zap.NewNop()
	}

	live := uilive.New()
	live.Out = out

	return &View{engine: e, live: live, logger: logger}
}

// Run reads key tokens from in until EOF, "q" or ctx is done. Each token is
// either a button label ("AC", "7", "÷") or a compact run of keys ("12+3=").
func (v *View) Run(ctx context.Context, in io.Reader) error {
	if err := v.Render(); err != nil {
		return err
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		quit := v.handleLine(sc.Text())
		if err := v.Render(); err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
	return sc.Err()
}

// handleLine applies every token on the line and reports whether the user
// asked to quit.
func (v *View) handleLine(line string) bool {
	v.notice = ""

	for _, tok := range strings.Fields(line) {
		switch strings.ToLower(tok) {
		case "q", "quit", "exit":
			return true
		}

		keys, err := parseToken(tok)
		if err != nil {
			v.notice = err.Error()
			v.logger.Debug("rejected input", zap.String("token", tok), zap.Error(err))
			continue
		}

		for _, k := range keys {
			v.engine.Press(k)
		}
		v.logger.Debug("keys applied",
			zap.String("token", tok),
			zap.String("display", v.engine.Display()),
			zap.String("mode", string(v.engine.Mode())),
		)
	}
	return false
}

func parseToken(tok string) ([]engine.Key, error) {
	if k, err := engine.ParseKey(tok); err == nil {
		return []engine.Key{k}, nil
	}

	keys, err := engine.ParseKeys(tok)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownKey) {
			return nil, fmt.Errorf("unknown key in %q", tok)
		}
		return nil, err
	}
	return keys, nil
}

// Render redraws the expression and display lines, and the last notice if any.
func (v *View) Render() error {
	fmt.Fprintf(v.live, "%*s\n", readoutWidth, v.engine.Expression())
	fmt.Fprintf(v.live, "%*s\n", readoutWidth, v.engine.Display())
	if v.notice != "" {
		fmt.Fprintf(v.live, "%s\n", v.notice)
	}
	return v.live.Flush()
}
