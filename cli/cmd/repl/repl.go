package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/fz/cli/cmd"
	"github.com/ardnew/fz/lambda"
	"github.com/ardnew/fz/log"
	"github.com/ardnew/fz/syntax"
)

// Repl evaluates lambdas interactively against a list of bound arguments.
type Repl struct {
	Args    []string `arg:""                                help:"Initial positional arguments, each decoded as YAML." optional:""`
	History string   `default:"${cache}/history.utf8" help:"History file, empty to keep history in memory."   type:"path"`
}

// Run starts the interactive session.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return ErrNoTerminal
	}

	args, err := cmd.DecodeArgs(ctx, r.Args)
	if err != nil {
		return err
	}

	history := NewHistory(r.History)
	if err := history.Load(); err != nil {
		log.WarnContext(ctx, "could not load history",
			slog.String("path", r.History),
			slog.String("error", err.Error()),
		)
	}

	logger := log.Default()
	logger.TraceContext(ctx, "repl start",
		slog.Int("args", len(args)),
		slog.Int("history", history.Len()),
	)

	_, err = tea.NewProgram(
		newModel(ctx, args, history, logger),
		tea.WithContext(ctx),
	).Run()

	return err
}

const (
	evalPrompt = "λ "
	ctrlPrompt = ": "
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help          Print this cruft
  args [ARG...] Show or replace the bound arguments (each decoded as YAML)
  edit          Edit the bound arguments in $EDITOR
  names [PATH]  List prelude names, or the members of PATH
  clear         Clear screen
  quit          Exit REPL

Usage:
  Type a lambda such as "_1 + _2" to evaluate it with the bound arguments
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down for history, Shift+Up/Shift+Down to stay in the current mode
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// argsEditedMsg is sent when the argument editor produced a new list.
type argsEditedMsg struct{ args []any }

// editDeclinedMsg is sent when the user declined to fix a decode error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	args         []any
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches
	parent       string // member-access chain before the current word
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
	mode         inputMode
	saved        [2]string // input of the inactive mode
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	args []any,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		args:       args,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		suggIdx:    -1,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case argsEditedMsg:
		m.args = msg.args

		return m, tea.Println(resultStyle.Render(m.describeArgs()))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit discarded"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var tc tea.Cmd

	m.input, tc = m.input.Update(msg)

	return m, tc
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hint())
	b.WriteString("\n")

	return b.String()
}

// hint returns the line shown beneath the input.
func (m model) hint() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeCtrl {
			return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") +
				" (press Esc to return)")
		}

		return hintStyle.Render(m.describeArgs() + ", press Esc for commands")
	}

	if m.mode == modeEval && (!m.tabActive || len(m.matches) == 0) {
		if call := detectFunctionCall(input, m.input.Position()); call.inCall {
			if params, ok := getSignature(call.name); ok {
				return renderSignatureHint(call.name, params, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width, m.parent)
}

func (m model) describeArgs() string {
	if len(m.args) == 0 {
		return "no arguments bound"
	}

	parts := make([]string, len(m.args))
	for i, a := range m.args {
		parts[i] = fmt.Sprintf("_%d=%s", i+1, cmd.Render(a))
	}

	return strings.Join(parts, " ")
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.refreshMatches(true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches(false)

			return m, nil
		}

		return m.switchToMode(1 - m.mode), nil
	}

	// A space ends tab-cycling and keeps the current candidate.
	typing := msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace
	if !typing || msg.String() == " " {
		m.tabActive = false
	}

	var tc tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, tc = m.input.Update(msg)
	m.refreshMatches(typing)

	return m, tc
}

// cycle selects the next (dir > 0) or previous candidate, replacing the
// current word with it. A sole candidate is accepted immediately.
func (m model) cycle(dir int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = n - 1
		}
	}

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m
}

func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes the candidates for the word at the cursor. With
// autoConfirm, a word that already equals its sole candidate is accepted.
func (m *model) refreshMatches(autoConfirm bool) {
	m.matches, _, m.wordStart, m.wordEnd = m.computeMatches()
	m.parent = parentPath(m.input.Value(), m.wordStart)

	if !m.tabActive {
		m.suggIdx = -1
	}

	if autoConfirm && len(m.matches) == 1 &&
		m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.saved = [2]string{}
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not write history",
			slog.String("error", err.Error()),
		)
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	result, err := m.evaluate(input)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(result)))
}

// evaluate compiles input and evaluates it with the bound arguments.
func (m model) evaluate(input string) (string, error) {
	ctx := m.ctxFunc()

	expr, err := syntax.Compile(ctx, input, syntax.WithLogger(m.logger))
	if err != nil {
		return "", err
	}

	result, err := lambda.NewEvaluator(lambda.WithLogger(m.logger)).
		Eval(ctx, expr, m.args...)
	if err != nil {
		return "", err
	}

	m.logger.TraceContext(ctx, "repl eval",
		slog.String("lambda", expr.String()),
		slog.String("type", fmt.Sprintf("%T", result)),
	)

	return cmd.Render(result), nil
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	fields := strings.Fields(input)
	name, rest := fields[0], strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", name),
		slog.String("args", rest),
	)

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "a", "args":
		if rest != "" {
			if err := m.setArgs(rest); err != nil {
				return m, tea.Sequence(echo,
					tea.Println(errorStyle.Render("error: "+err.Error())))
			}
		}

		return m, tea.Sequence(echo, tea.Println(resultStyle.Render(m.describeArgs())))

	case "n", "names":
		return m, tea.Sequence(echo, tea.Println(listNames(rest)))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + name + " (try 'help')"),
		)
	}
}

// setArgs replaces the bound arguments with the fields of line, each
// decoded as YAML.
func (m *model) setArgs(line string) error {
	args, err := cmd.DecodeArgs(m.ctxFunc(), splitArgs(line))
	if err != nil {
		return err
	}

	m.args = args

	return nil
}

// splitArgs splits line at whitespace outside of quotes and YAML flow
// brackets, so "[a, b]" and "'x y'" each stay one field. Unbalanced input
// is left for the YAML decoder to reject.
func splitArgs(line string) []string {
	var (
		fields []string
		field  strings.Builder
		quote  rune
		depth  int
		escape bool
	)

	flush := func() {
		if field.Len() > 0 {
			fields = append(fields, field.String())
			field.Reset()
		}
	}

	for _, r := range line {
		switch {
		case escape:
			escape = false
		case quote != 0:
			switch r {
			case '\\':
				escape = quote == '"'
			case quote:
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '[' || r == '{':
			depth++
		case r == ']' || r == '}':
			depth = max(depth-1, 0)
		case unicode.IsSpace(r) && depth == 0:
			flush()

			continue
		}

		field.WriteRune(r)
	}

	flush()

	return fields
}

func listNames(path string) string {
	names := syntax.Lookup(path)
	if len(names) == 0 {
		return errorStyle.Render("no members: " + path)
	}

	var b strings.Builder

	for _, name := range names {
		full := name
		if path != "" {
			full = path + "." + name
		}

		if params, ok := getSignature(full); ok {
			fmt.Fprintf(&b, "  %s %s\n", name,
				hintStyle.Render("("+strings.Join(params, ", ")+")"))
		} else {
			fmt.Fprintf(&b, "  %s\n", name)
		}
	}

	return b.String()
}

func (m model) edit() tea.Cmd {
	c := &editArgsCommand{
		args:    m.args,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(c, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case !c.edited:
			return editDeclinedMsg{}
		}

		return argsEditedMsg{args: c.newArgs}
	})
}

// historyStep moves through history by dir entries, switching to the mode
// of the entry reached. With sameMode, entries of the other mode are
// skipped. Stepping past the newest entry clears the input.
func (m model) historyStep(dir int, sameMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		m.historyIdx = i
		m = m.switchToMode(entry.Mode)
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		m.refreshMatches(false)

		return m
	}

	if dir > 0 {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches(false)
	}

	return m
}

// switchToMode switches to mode, saving the input of the mode left behind
// and restoring the input of the mode entered.
func (m model) switchToMode(mode inputMode) model {
	if mode == m.mode {
		return m
	}

	m.saved[m.mode] = m.input.Value()
	m.mode = mode

	if mode == modeCtrl {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	} else {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	}

	m.input.SetValue(m.saved[mode])
	m.input.SetCursor(len(m.saved[mode]))
	m.refreshMatches(false)

	return m
}
