package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/keymode/internal/app"
	"github.com/dshills/keymode/internal/input"
	"github.com/dshills/keymode/internal/input/macro"
)

type options struct {
	keys        string
	configPath  string
	logLevel    string
	trace       string
	output      string
	diff        bool
	interactive bool
	watch       bool
	macros      string
	play        string
	record      bool
}

func newRootCmd(stdin io.Reader) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "keymode [file]",
		Short: "Run modal editing keys against a text",
		Long: `keymode replays a string of Vim-style keys against a file, or stdin when
no file is given, and prints the edited text.

Keys use Vim notation: "dw", "ihello<Esc>", "yyjp", "<C-r>".

With --interactive the text is opened in the terminal and keys are read
from the keyboard until Ctrl-C.`,
		Example: `  keymode --keys 'dwA!<Esc>' notes.txt
  printf 'one\ntwo\n' | keymode --keys 'yyp' --diff
  keymode --interactive --config keymode.toml main.go
  keymode -i --record --macros macros.toml notes.txt
  keymode --macros macros.toml --play q notes.txt`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, stdin, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.keys, "keys", "k", "", "keys to replay, in Vim notation")
	f.StringVarP(&opts.configPath, "config", "c", "", "TOML or YAML config file")
	f.StringVar(&opts.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
	f.StringVar(&opts.trace, "trace", app.ExporterNone, "export dispatch spans (none, stdout)")
	f.StringVarP(&opts.output, "output", "o", "", "write the edited text to this file instead of stdout")
	f.BoolVar(&opts.diff, "diff", false, "print a line diff of the edit instead of the text")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "edit in the terminal")
	f.BoolVar(&opts.watch, "watch", false, "reload the config file when it changes")
	f.StringVar(&opts.macros, "macros", "", "TOML file of recorded macros")
	f.StringVar(&opts.play, "play", "", "play this macro register after --keys")
	f.BoolVar(&opts.record, "record", false, "record the interactive session into register q of --macros")

	return cmd
}

func run(cmd *cobra.Command, args []string, stdin io.Reader, opts options) error {
	if !opts.interactive && opts.keys == "" && opts.play == "" {
		return errors.New("--keys or --play is required unless --interactive is set")
	}
	if (opts.record || opts.play != "") && opts.macros == "" {
		return errors.New("--record and --play need --macros")
	}
	if opts.record && !opts.interactive {
		return errors.New("--record needs --interactive")
	}
	playReg, err := playRegister(opts.play)
	if err != nil {
		return err
	}

	rec := macro.NewRecorder()
	if opts.macros != "" {
		if err := rec.Load(opts.macros); err != nil {
			return err
		}
	}

	before, eol, err := readText(args, stdin, opts.interactive)
	if err != nil {
		return err
	}

	tracing, err := app.NewTracing(opts.trace, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer tracing.Shutdown(context.Background())

	application, err := app.New(app.Options{
		ConfigPath:     opts.configPath,
		Watch:          opts.watch,
		LogOutput:      cmd.ErrOrStderr(),
		LogLevel:       opts.logLevel,
		TracerProvider: tracing.TracerProvider(),
	})
	if err != nil {
		return err
	}
	defer application.Close()

	s, err := application.NewSession(before)
	if err != nil {
		return err
	}
	if application.Logger().Level() == app.LogLevelDebug {
		s.Input().Hooks().RegisterNamed(input.LoggingHook{Logger: s.Logger().WithComponent("keys")}, "log")
	}

	ctx := cmd.Context()
	switch {
	case opts.record:
		err = record(ctx, cmd.ErrOrStderr(), s, rec, opts.macros)
	case opts.interactive:
		err = runInteractive(ctx, s)
	default:
		err = replay(ctx, s, opts.keys)
		if err == nil && playReg != 0 {
			err = play(ctx, s, rec, playReg)
		}
	}
	if err != nil {
		return err
	}

	after := s.Text()
	switch {
	case opts.output != "":
		return os.WriteFile(opts.output, []byte(after+eol), 0o644)
	case opts.diff:
		return writeDiff(cmd.OutOrStdout(), before, after)
	default:
		_, err := io.WriteString(cmd.OutOrStdout(), after+eol)
		return err
	}
}

// readText reads the file named in args, or stdin. The final line ending is
// split off so the buffer does not gain an empty last line.
func readText(args []string, stdin io.Reader, interactive bool) (text, eol string, err error) {
	var data []byte
	switch {
	case len(args) == 1:
		data, err = os.ReadFile(args[0])
		if errors.Is(err, os.ErrNotExist) && interactive {
			err = nil
		}
	case interactive:
		// The terminal owns stdin.
	default:
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return "", "", fmt.Errorf("reading input: %w", err)
	}

	text = string(data)
	for _, le := range []string{"\r\n", "\n"} {
		if t, ok := strings.CutSuffix(text, le); ok {
			return t, le, nil
		}
	}
	return text, "", nil
}

// replay feeds keys to the session. Failed actions are logged by the
// session and do not stop the replay.
func replay(ctx context.Context, s *app.Session, keys string) error {
	outcomes, err := s.HandleKeys(ctx, keys)
	if err != nil {
		return err
	}
	for _, out := range outcomes {
		switch {
		case out.Err != nil:
			s.Logger().Warn("typing: %v", out.Err)
		case out.Result.IsError():
			s.Logger().Warn("%s: %v", out.Action, out.Result.Error)
		}
	}
	return ctx.Err()
}

func playRegister(name string) (rune, error) {
	if name == "" {
		return 0, nil
	}
	r := []rune(name)
	if len(r) != 1 || !macro.IsValidRegister(r[0]) {
		return 0, fmt.Errorf("--play: %w: %q", macro.ErrInvalidRegister, name)
	}
	return r[0], nil
}

// play runs a recorded macro once. Failed actions are logged as in replay.
func play(ctx context.Context, s *app.Session, rec *macro.Recorder, reg rune) error {
	outcomes, err := rec.Play(ctx, s.Input(), reg, 1)
	if err != nil {
		return err
	}
	for _, out := range outcomes {
		if out.Result.IsError() {
			s.Logger().Warn("macro %c: %s: %v", reg, out.Action, out.Result.Error)
		}
	}
	return nil
}

// record runs an interactive session while recording every key into
// register q, then saves the macros file.
func record(ctx context.Context, w io.Writer, s *app.Session, rec *macro.Recorder, path string) error {
	s.Input().Hooks().RegisterNamed(macro.RecordHook{Recorder: rec}, "record")
	if err := rec.StartRecording('q'); err != nil {
		return err
	}
	err := runInteractive(ctx, s)
	rec.StopRecording()
	if err != nil {
		return err
	}
	if err := rec.Save(path); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "recorded q: %s\n", rec.Notation('q'))
	return err
}
